package storage

import (
	"context"

	"github.com/Varun5711/campusapi/internal/models"
)

// Lookups by id or key return (nil, nil) when nothing matches. Updates and
// deletes of a missing row return ErrNotFound.

type UserRepository interface {
	CreateUser(ctx context.Context, email, name, passwordHash string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetCredential(ctx context.Context, userID int64) (*models.Credential, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id int64, email, name string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	DeleteUser(ctx context.Context, id int64) error
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type PurchaseRepository interface {
	// CreatePurchase locks the product, checks stock, records the purchase at the
	// current price and decrements stock in one transaction.
	CreatePurchase(ctx context.Context, userID, productID int64, quantity int, status string) (*models.Purchase, error)
	GetPurchase(ctx context.Context, id int64) (*models.Purchase, error)
	ListPurchases(ctx context.Context) ([]*models.Purchase, error)
	ListPurchasesByUser(ctx context.Context, userID int64) ([]*models.Purchase, error)
	UpdatePurchaseStatus(ctx context.Context, id int64, status string) (*models.Purchase, error)
}

type StudentRepository interface {
	CreateStudent(ctx context.Context, s *models.Student) (*models.Student, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error)
	ListStudents(ctx context.Context) ([]*models.Student, error)
	UpdateStudent(ctx context.Context, s *models.Student) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

type CourseClassRepository interface {
	CreateCourseClass(ctx context.Context, c *models.CourseClass) (*models.CourseClass, error)
	GetCourseClass(ctx context.Context, id int64) (*models.CourseClass, error)
	ListCourseClasses(ctx context.Context) ([]*models.CourseClass, error)
	UpdateCourseClass(ctx context.Context, c *models.CourseClass) (*models.CourseClass, error)
	DeleteCourseClass(ctx context.Context, id int64) error
}

type EnrollmentRepository interface {
	CreateEnrollment(ctx context.Context, e *models.Enrollment) (*models.Enrollment, error)
	GetEnrollment(ctx context.Context, id int64) (*models.Enrollment, error)
	ListEnrollments(ctx context.Context) ([]*models.Enrollment, error)
	ListEnrollmentsByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error)
	ListEnrollmentsByCourseClass(ctx context.Context, courseClassID int64) ([]*models.Enrollment, error)
	UpdateEnrollment(ctx context.Context, e *models.Enrollment) (*models.Enrollment, error)
	DeleteEnrollment(ctx context.Context, id int64) error
}

// Repositories bundles one implementation of every repository.
type Repositories struct {
	Users         UserRepository
	Products      ProductRepository
	Purchases     PurchaseRepository
	Students      StudentRepository
	CourseClasses CourseClassRepository
	Enrollments   EnrollmentRepository
}
