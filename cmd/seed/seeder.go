package main

import (
	"context"
	"fmt"

	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/Varun5711/campusapi/internal/service"
)

var demoUsers = []models.CreateUserRequest{
	{Email: "test@example.com", Password: "password123", Name: "Test User"},
	{Email: "ada@example.com", Password: "password123", Name: "Ada Lovelace"},
	{Email: "alan@example.com", Password: "password123", Name: "Alan Turing"},
	{Email: "grace@example.com", Password: "password123", Name: "Grace Hopper"},
}

var demoProducts = []models.CreateProductRequest{
	{Name: "Campus Hoodie", Description: "Heavyweight cotton, embroidered crest", Price: 39.90, Stock: 40},
	{Name: "Lab Notebook", Description: "A4, 120 numbered pages", Price: 6.50, Stock: 200},
	{Name: "Graphing Calculator", Description: "Approved for exams", Price: 89.00, Stock: 12},
	{Name: "Library Tote", Price: 12.00, Stock: 0},
}

var demoClasses = []models.CreateCourseClassRequest{
	{Name: "Introduction to Algorithms", Credits: 6, Instructor: "Dr. Cormen"},
	{Name: "Databases", Credits: 5, Instructor: "Dr. Codd"},
	{Name: "Computer Networks", Credits: 4, Instructor: "Dr. Cerf"},
}

type seeder struct {
	svc *service.Services
	log *logger.Logger
}

// run is safe to repeat: existing users, students and enrollments are reused,
// and the catalog is only created on an empty database.
func (s *seeder) run(ctx context.Context) error {
	users := make([]*models.User, 0, len(demoUsers))
	for _, req := range demoUsers {
		u, err := s.ensureUser(ctx, req)
		if err != nil {
			return err
		}
		users = append(users, u)
	}

	products, err := s.svc.Products.List(ctx)
	if err != nil {
		return err
	}
	if len(products) > 0 {
		s.log.Info("Catalog already present, skipping products and course classes")
		return nil
	}

	for _, req := range demoProducts {
		if _, err := s.svc.Products.Create(ctx, req); err != nil {
			return fmt.Errorf("product %q: %w", req.Name, err)
		}
	}

	classes := make([]*models.CourseClass, 0, len(demoClasses))
	for _, req := range demoClasses {
		c, err := s.svc.CourseClasses.Create(ctx, req)
		if err != nil {
			return fmt.Errorf("course class %q: %w", req.Name, err)
		}
		classes = append(classes, c)
	}

	// Everyone except the test account becomes a student in the first two classes.
	for _, u := range users[1:] {
		st, err := s.ensureStudent(ctx, u.ID)
		if err != nil {
			return err
		}
		for _, c := range classes[:2] {
			_, err := s.svc.Enrollments.Create(ctx, models.CreateEnrollmentRequest{StudentID: st.ID, CourseClassID: c.ID})
			if err != nil && service.KindOf(err) != service.KindConflict {
				return fmt.Errorf("enrollment of student %d: %w", st.ID, err)
			}
		}
	}

	s.log.Info("Seeded %d users, %d products and %d course classes", len(users), len(demoProducts), len(classes))
	return nil
}

func (s *seeder) ensureUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	u, err := s.svc.Users.Create(ctx, req)
	if service.KindOf(err) == service.KindConflict {
		return s.svc.Users.GetByEmail(ctx, req.Email)
	}
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", req.Email, err)
	}
	return u, nil
}

func (s *seeder) ensureStudent(ctx context.Context, userID int64) (*models.Student, error) {
	st, err := s.svc.Students.Create(ctx, models.CreateStudentRequest{UserID: userID, Major: "Computer Science"})
	if service.KindOf(err) == service.KindConflict {
		return s.svc.Students.GetByUserID(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("student for user %d: %w", userID, err)
	}
	return st, nil
}
