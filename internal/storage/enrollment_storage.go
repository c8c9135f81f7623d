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

type EnrollmentStorage struct {
	db *database.DBManager
}

func NewEnrollmentStorage(db *database.DBManager) *EnrollmentStorage {
	return &EnrollmentStorage{db: db}
}

const enrollmentSelect = `
	SELECT e.id, e.student_id, e.course_class_id, e.enrollment_date, e.evaluation_note, e.status, e.created_at, e.updated_at,
	       c.id, c.name, c.description, c.credits, c.instructor, c.start_date, c.end_date, c.status, c.created_at, c.updated_at
	FROM enrollments e
	JOIN course_classes c ON c.id = e.course_class_id
`

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	var c models.CourseClass
	var enrolledOn time.Time
	var note *int32
	var start, end *time.Time

	err := row.Scan(
		&e.ID,
		&e.StudentID,
		&e.CourseClassID,
		&enrolledOn,
		&note,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
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

	e.EnrollmentDate = models.NewDate(enrolledOn)
	if note != nil {
		n := int(*note)
		e.EvaluationNote = &n
	}
	c.StartDate = models.DatePtr(start)
	c.EndDate = models.DatePtr(end)
	e.CourseClass = &c
	return &e, nil
}

func (s *EnrollmentStorage) CreateEnrollment(ctx context.Context, e *models.Enrollment) (*models.Enrollment, error) {
	var id int64
	err := s.db.Write().QueryRow(ctx, `
		INSERT INTO enrollments (student_id, course_class_id, enrollment_date, evaluation_note, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, e.StudentID, e.CourseClassID, e.EnrollmentDate.Time, e.EvaluationNote, e.Status).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create enrollment: %w", translate(err))
	}

	return s.reload(ctx, id)
}

func (s *EnrollmentStorage) reload(ctx context.Context, id int64) (*models.Enrollment, error) {
	e, err := scanEnrollment(s.db.Write().QueryRow(ctx, enrollmentSelect+` WHERE e.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to reload enrollment: %w", err)
	}
	return e, nil
}

func (s *EnrollmentStorage) GetEnrollment(ctx context.Context, id int64) (*models.Enrollment, error) {
	e, err := scanEnrollment(s.db.Read().QueryRow(ctx, enrollmentSelect+` WHERE e.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return e, nil
}

func (s *EnrollmentStorage) list(ctx context.Context, query string, args ...interface{}) ([]*models.Enrollment, error) {
	rows, err := s.db.Read().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]*models.Enrollment, 0)
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	return enrollments, rows.Err()
}

func (s *EnrollmentStorage) ListEnrollments(ctx context.Context) ([]*models.Enrollment, error) {
	return s.list(ctx, enrollmentSelect+` ORDER BY e.id`)
}

func (s *EnrollmentStorage) ListEnrollmentsByStudent(ctx context.Context, studentID int64) ([]*models.Enrollment, error) {
	return s.list(ctx, enrollmentSelect+` WHERE e.student_id = $1 ORDER BY e.id`, studentID)
}

func (s *EnrollmentStorage) ListEnrollmentsByCourseClass(ctx context.Context, courseClassID int64) ([]*models.Enrollment, error) {
	return s.list(ctx, enrollmentSelect+` WHERE e.course_class_id = $1 ORDER BY e.id`, courseClassID)
}

func (s *EnrollmentStorage) UpdateEnrollment(ctx context.Context, e *models.Enrollment) (*models.Enrollment, error) {
	tag, err := s.db.Write().Exec(ctx, `
		UPDATE enrollments
		SET status = $1, evaluation_note = $2, updated_at = NOW()
		WHERE id = $3
	`, e.Status, e.EvaluationNote, e.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return s.reload(ctx, e.ID)
}

func (s *EnrollmentStorage) DeleteEnrollment(ctx context.Context, id int64) error {
	tag, err := s.db.Write().Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
