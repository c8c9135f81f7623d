package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/Varun5711/campusapi/internal/storage"
	"github.com/Varun5711/campusapi/internal/validation"
)

var errCourseClassNotFound = notFound("Course class")

type CourseClassService struct {
	classes storage.CourseClassRepository
	log     *logger.Logger
}

func NewCourseClassService(classes storage.CourseClassRepository, log *logger.Logger) *CourseClassService {
	return &CourseClassService{
		classes: classes,
		log:     log,
	}
}

func (s *CourseClassService) Create(ctx context.Context, req models.CreateCourseClassRequest) (*models.CourseClass, error) {
	name := strings.TrimSpace(req.Name)
	if err := validation.ValidateCourseClass(name, req.Credits, req.StartDate, req.EndDate); err != nil {
		return nil, invalidErr(err)
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = models.CourseStatusActive
	}

	class, err := s.classes.CreateCourseClass(ctx, &models.CourseClass{
		Name:        name,
		Description: req.Description,
		Credits:     req.Credits,
		Instructor:  strings.TrimSpace(req.Instructor),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create course class: %w", err)
	}
	return class, nil
}

func (s *CourseClassService) List(ctx context.Context) ([]*models.CourseClass, error) {
	return s.classes.ListCourseClasses(ctx)
}

func (s *CourseClassService) Get(ctx context.Context, id int64) (*models.CourseClass, error) {
	class, err := s.classes.GetCourseClass(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course class: %w", err)
	}
	if class == nil {
		return nil, errCourseClassNotFound
	}
	return class, nil
}

func (s *CourseClassService) Update(ctx context.Context, id int64, req models.UpdateCourseClassRequest) (*models.CourseClass, error) {
	class, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		class.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		class.Description = *req.Description
	}
	if req.Credits != nil {
		class.Credits = *req.Credits
	}
	if req.Instructor != nil {
		class.Instructor = strings.TrimSpace(*req.Instructor)
	}
	if req.StartDate != nil {
		class.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		class.EndDate = req.EndDate
	}
	if req.Status != nil {
		if err := validation.ValidateStatus(*req.Status, nil); err != nil {
			return nil, invalidErr(err)
		}
		class.Status = strings.TrimSpace(*req.Status)
	}
	if err := validation.ValidateCourseClass(class.Name, class.Credits, class.StartDate, class.EndDate); err != nil {
		return nil, invalidErr(err)
	}

	updated, err := s.classes.UpdateCourseClass(ctx, class)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errCourseClassNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update course class: %w", err)
	}
	return updated, nil
}

func (s *CourseClassService) Delete(ctx context.Context, id int64) error {
	err := s.classes.DeleteCourseClass(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return errCourseClassNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete course class: %w", err)
	}
	return nil
}
