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

type StudentStorage struct {
	db *database.DBManager
}

func NewStudentStorage(db *database.DBManager) *StudentStorage {
	return &StudentStorage{db: db}
}

const studentSelect = `
	SELECT s.id, s.user_id, s.major, s.student_number, s.enrollment_date, s.graduation_year, s.created_at, s.updated_at,
	       u.id, u.email, u.name, u.created_at, u.updated_at
	FROM students s
	JOIN users u ON u.id = s.user_id
`

func scanStudent(row pgx.Row) (*models.Student, error) {
	var st models.Student
	var u models.User
	var enrollmentDate *time.Time
	var graduationYear *int32

	err := row.Scan(
		&st.ID,
		&st.UserID,
		&st.Major,
		&st.StudentNumber,
		&enrollmentDate,
		&graduationYear,
		&st.CreatedAt,
		&st.UpdatedAt,
		&u.ID,
		&u.Email,
		&u.Name,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	st.EnrollmentDate = models.DatePtr(enrollmentDate)
	if graduationYear != nil {
		year := int(*graduationYear)
		st.GraduationYear = &year
	}
	st.User = &u
	return &st, nil
}

func (s *StudentStorage) CreateStudent(ctx context.Context, st *models.Student) (*models.Student, error) {
	var id int64
	err := s.db.Write().QueryRow(ctx, `
		INSERT INTO students (user_id, major, student_number, enrollment_date, graduation_year)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, st.UserID, st.Major, st.StudentNumber, st.EnrollmentDate.TimePtr(), st.GraduationYear).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", translate(err))
	}

	return s.reload(ctx, id)
}

func (s *StudentStorage) reload(ctx context.Context, id int64) (*models.Student, error) {
	st, err := scanStudent(s.db.Write().QueryRow(ctx, studentSelect+` WHERE s.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to reload student: %w", err)
	}
	return st, nil
}

func (s *StudentStorage) get(ctx context.Context, where string, arg interface{}) (*models.Student, error) {
	st, err := scanStudent(s.db.Read().QueryRow(ctx, studentSelect+where, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return st, nil
}

func (s *StudentStorage) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return s.get(ctx, ` WHERE s.id = $1`, id)
}

func (s *StudentStorage) GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	return s.get(ctx, ` WHERE s.user_id = $1`, userID)
}

func (s *StudentStorage) ListStudents(ctx context.Context) ([]*models.Student, error) {
	rows, err := s.db.Read().Query(ctx, studentSelect+` ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, st)
	}

	return students, rows.Err()
}

func (s *StudentStorage) UpdateStudent(ctx context.Context, st *models.Student) (*models.Student, error) {
	tag, err := s.db.Write().Exec(ctx, `
		UPDATE students
		SET major = $1, student_number = $2, enrollment_date = $3, graduation_year = $4, updated_at = NOW()
		WHERE id = $5
	`, st.Major, st.StudentNumber, st.EnrollmentDate.TimePtr(), st.GraduationYear, st.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update student: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return s.reload(ctx, st.ID)
}

func (s *StudentStorage) DeleteStudent(ctx context.Context, id int64) error {
	tag, err := s.db.Write().Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
