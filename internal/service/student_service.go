package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Varun5711/campusapi/internal/idgen"
	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/Varun5711/campusapi/internal/storage"
	"github.com/Varun5711/campusapi/internal/validation"
)

var (
	errStudentNotFound = notFound("Student")
	errAlreadyStudent  = conflict("This user is already registered as a student")
)

type StudentService struct {
	students storage.StudentRepository
	users    storage.UserRepository
	ids      *idgen.Generator
	log      *logger.Logger
}

func NewStudentService(students storage.StudentRepository, users storage.UserRepository, ids *idgen.Generator, log *logger.Logger) *StudentService {
	return &StudentService{
		students: students,
		users:    users,
		ids:      ids,
		log:      log,
	}
}

func (s *StudentService) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	if req.UserID == 0 {
		return nil, invalid("User ID is required")
	}
	if err := validation.ValidateGraduationYear(req.GraduationYear); err != nil {
		return nil, invalidErr(err)
	}

	number := strings.TrimSpace(req.StudentNumber)
	if number == "" {
		generated, err := s.ids.StudentNumber()
		if err != nil {
			return nil, fmt.Errorf("failed to generate student number: %w", err)
		}
		number = generated
	} else if err := validation.ValidateStudentNumber(number); err != nil {
		return nil, invalidErr(err)
	}

	user, err := s.users.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.students.GetStudentByUserID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing student: %w", err)
	}
	if existing != nil {
		return nil, errAlreadyStudent
	}

	student, err := s.students.CreateStudent(ctx, &models.Student{
		UserID:         req.UserID,
		Major:          strings.TrimSpace(req.Major),
		StudentNumber:  number,
		EnrollmentDate: req.EnrollmentDate,
		GraduationYear: req.GraduationYear,
	})
	switch {
	case errors.Is(err, storage.ErrConflict):
		return nil, errAlreadyStudent
	case errors.Is(err, storage.ErrReferenceMissing):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.log.Info("Registered user %d as student %s", req.UserID, number)
	return student, nil
}

func (s *StudentService) List(ctx context.Context) ([]*models.Student, error) {
	return s.students.ListStudents(ctx)
}

func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.students.GetStudent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, errStudentNotFound
	}
	return student, nil
}

func (s *StudentService) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	student, err := s.students.GetStudentByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, &Error{Kind: KindNotFound, Message: "Student not found for this user"}
	}
	return student, nil
}

func (s *StudentService) Update(ctx context.Context, id int64, req models.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Major != nil {
		student.Major = strings.TrimSpace(*req.Major)
	}
	if req.StudentNumber != nil {
		number := strings.TrimSpace(*req.StudentNumber)
		if err := validation.ValidateStudentNumber(number); err != nil {
			return nil, invalidErr(err)
		}
		student.StudentNumber = number
	}
	if req.EnrollmentDate != nil {
		student.EnrollmentDate = req.EnrollmentDate
	}
	if req.GraduationYear != nil {
		if err := validation.ValidateGraduationYear(req.GraduationYear); err != nil {
			return nil, invalidErr(err)
		}
		student.GraduationYear = req.GraduationYear
	}

	updated, err := s.students.UpdateStudent(ctx, student)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}
	return updated, nil
}

func (s *StudentService) Delete(ctx context.Context, id int64) error {
	err := s.students.DeleteStudent(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return errStudentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return nil
}
