package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Varun5711/campusapi/internal/database"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/jackc/pgx/v5"
)

type CourseClassStorage struct {
	db *database.DBManager
}

func NewCourseClassStorage(db *database.DBManager) *CourseClassStorage {
	return &CourseClassStorage{db: db}
}

const courseClassColumns = `id, name, description, credits, instructor, start_date, end_date, status, created_at, updated_at`

func scanCourseClass(row pgx.Row) (*models.CourseClass, error) {
	var c models.CourseClass
	var start, end *time.Time
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Credits,
		&c.Instructor,
		&start,
		&end,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.StartDate = models.DatePtr(start)
	c.EndDate = models.DatePtr(end)
	return &c, nil
}

func (s *CourseClassStorage) CreateCourseClass(ctx context.Context, c *models.CourseClass) (*models.CourseClass, error) {
	query := `
		INSERT INTO course_classes (name, description, credits, instructor, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + courseClassColumns

	created, err := scanCourseClass(s.db.Write().QueryRow(ctx, query,
		c.Name, c.Description, c.Credits, c.Instructor, c.StartDate.TimePtr(), c.EndDate.TimePtr(), c.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create course class: %w", translate(err))
	}
	return created, nil
}

func (s *CourseClassStorage) GetCourseClass(ctx context.Context, id int64) (*models.CourseClass, error) {
	c, err := scanCourseClass(s.db.Read().QueryRow(ctx, `SELECT `+courseClassColumns+` FROM course_classes WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course class: %w", err)
	}
	return c, nil
}

func (s *CourseClassStorage) ListCourseClasses(ctx context.Context) ([]*models.CourseClass, error) {
	rows, err := s.db.Read().Query(ctx, `SELECT `+courseClassColumns+` FROM course_classes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list course classes: %w", err)
	}
	defer rows.Close()

	classes := make([]*models.CourseClass, 0)
	for rows.Next() {
		c, err := scanCourseClass(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course class: %w", err)
		}
		classes = append(classes, c)
	}

	return classes, rows.Err()
}

func (s *CourseClassStorage) UpdateCourseClass(ctx context.Context, c *models.CourseClass) (*models.CourseClass, error) {
	query := `
		UPDATE course_classes
		SET name = $1, description = $2, credits = $3, instructor = $4,
		    start_date = $5, end_date = $6, status = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING ` + courseClassColumns

	updated, err := scanCourseClass(s.db.Write().QueryRow(ctx, query,
		c.Name, c.Description, c.Credits, c.Instructor, c.StartDate.TimePtr(), c.EndDate.TimePtr(), c.Status, c.ID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update course class: %w", translate(err))
	}
	return updated, nil
}

func (s *CourseClassStorage) DeleteCourseClass(ctx context.Context, id int64) error {
	tag, err := s.db.Write().Exec(ctx, `DELETE FROM course_classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
