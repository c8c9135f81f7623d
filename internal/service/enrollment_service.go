package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/Varun5711/campusapi/internal/storage"
	"github.com/Varun5711/campusapi/internal/validation"
)

var (
	errEnrollmentNotFound = notFound("Enrollment")
	errAlreadyEnrolled    = conflict("Student is already enrolled in this course class")
)

type EnrollmentService struct {
	enrollments storage.EnrollmentRepository
	students    storage.StudentRepository
	classes     storage.CourseClassRepository
	log         *logger.Logger
	now         func() time.Time
}

func NewEnrollmentService(enrollments storage.EnrollmentRepository, students storage.StudentRepository, classes storage.CourseClassRepository, log *logger.Logger) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		students:    students,
		classes:     classes,
		log:         log,
		now:         time.Now,
	}
}

func (s *EnrollmentService) Create(ctx context.Context, req models.CreateEnrollmentRequest) (*models.Enrollment, error) {
	if req.StudentID == 0 || req.CourseClassID == 0 {
		return nil, invalid("Student ID and Course Class ID are required")
	}

	status := req.Status
	if status == "" {
		status = models.EnrollmentStatusEnrolled
	} else if err := validation.ValidateStatus(status, models.EnrollmentStatuses); err != nil {
		return nil, invalidErr(err)
	}

	if err := s.requireStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}
	if err := s.requireCourseClass(ctx, req.CourseClassID); err != nil {
		return nil, err
	}

	date := models.NewDate(s.now())
	if req.EnrollmentDate != nil {
		date = *req.EnrollmentDate
	}

	enrollment, err := s.enrollments.CreateEnrollment(ctx, &models.Enrollment{
		StudentID:      req.StudentID,
		CourseClassID:  req.CourseClassID,
		EnrollmentDate: date,
		Status:         status,
	})
	switch {
	case errors.Is(err, storage.ErrConflict):
		return nil, errAlreadyEnrolled
	case errors.Is(err, storage.ErrReferenceMissing):
		return nil, notFound("Student or course class")
	case err != nil:
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.log.Info("Enrolled student %d in course class %d", req.StudentID, req.CourseClassID)
	return enrollment, nil
}

func (s *EnrollmentService) List(ctx context.Context) ([]*models.Enrollment, error) {
	return s.enrollments.ListEnrollments(ctx)
}

func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.GetEnrollment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, errEnrollmentNotFound
	}
	return enrollment, nil
}

func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	return s.enrollments.ListEnrollmentsByStudent(ctx, studentID)
}

func (s *EnrollmentService) ListByCourseClass(ctx context.Context, courseClassID int64) ([]*models.Enrollment, error) {
	if err := s.requireCourseClass(ctx, courseClassID); err != nil {
		return nil, err
	}
	return s.enrollments.ListEnrollmentsByCourseClass(ctx, courseClassID)
}

// Update sets the status and evaluation note. Student and course class are fixed.
func (s *EnrollmentService) Update(ctx context.Context, id int64, req models.UpdateEnrollmentRequest) (*models.Enrollment, error) {
	enrollment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if err := validation.ValidateStatus(*req.Status, models.EnrollmentStatuses); err != nil {
			return nil, invalidErr(err)
		}
		enrollment.Status = *req.Status
	}
	if req.EvaluationNote != nil {
		if err := validation.ValidateEvaluationNote(req.EvaluationNote); err != nil {
			return nil, invalidErr(err)
		}
		enrollment.EvaluationNote = req.EvaluationNote
	}

	updated, err := s.enrollments.UpdateEnrollment(ctx, enrollment)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errEnrollmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}
	return updated, nil
}

func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	err := s.enrollments.DeleteEnrollment(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return errEnrollmentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	return nil
}

func (s *EnrollmentService) requireStudent(ctx context.Context, id int64) error {
	student, err := s.students.GetStudent(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return errStudentNotFound
	}
	return nil
}

func (s *EnrollmentService) requireCourseClass(ctx context.Context, id int64) error {
	class, err := s.classes.GetCourseClass(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get course class: %w", err)
	}
	if class == nil {
		return errCourseClassNotFound
	}
	return nil
}
