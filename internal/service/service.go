// Package service holds the business rules behind every HTTP endpoint.
// Errors of type *Error carry a client-safe message; everything else is internal.
package service

import (
	"github.com/Varun5711/campusapi/internal/auth"
	"github.com/Varun5711/campusapi/internal/cache"
	"github.com/Varun5711/campusapi/internal/idgen"
	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/qrcode"
	"github.com/Varun5711/campusapi/internal/storage"
	"github.com/Varun5711/campusapi/internal/tokens"
)

type Dependencies struct {
	Repos    storage.Repositories
	JWT      *auth.JWTManager
	Registry tokens.Registry
	Cache    *cache.Cache
	QR       *qrcode.Generator
	IDs      *idgen.Generator
	Log      *logger.Logger
}

type Services struct {
	Auth          *AuthService
	Users         *UserService
	Products      *ProductService
	Purchases     *PurchaseService
	Students      *StudentService
	CourseClasses *CourseClassService
	Enrollments   *EnrollmentService
}

func New(d Dependencies) *Services {
	products := NewProductService(d.Repos.Products, d.Cache, d.QR, d.Log.With("service", "products"))

	return &Services{
		Auth:          NewAuthService(d.Repos.Users, d.JWT, d.Registry, d.Log.With("service", "auth")),
		Users:         NewUserService(d.Repos.Users, d.Log.With("service", "users")),
		Products:      products,
		Purchases:     NewPurchaseService(d.Repos.Purchases, d.Repos.Users, products, d.Log.With("service", "purchases")),
		Students:      NewStudentService(d.Repos.Students, d.Repos.Users, d.IDs, d.Log.With("service", "students")),
		CourseClasses: NewCourseClassService(d.Repos.CourseClasses, d.Log.With("service", "course-classes")),
		Enrollments:   NewEnrollmentService(d.Repos.Enrollments, d.Repos.Students, d.Repos.CourseClasses, d.Log.With("service", "enrollments")),
	}
}
