package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Varun5711/campusapi/internal/database"
	"github.com/Varun5711/campusapi/internal/models"
	"github.com/jackc/pgx/v5"
)

type UserStorage struct {
	db *database.DBManager
}

func NewUserStorage(db *database.DBManager) *UserStorage {
	return &UserStorage{db: db}
}

const userColumns = `id, email, name, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts the user and its credential together.
func (s *UserStorage) CreateUser(ctx context.Context, email, name, passwordHash string) (*models.User, error) {
	var user *models.User

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		user, err = scanUser(tx.QueryRow(ctx, `
			INSERT INTO users (email, name)
			VALUES ($1, $2)
			RETURNING `+userColumns,
			email, name,
		))
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO credentials (user_id, password_hash)
			VALUES ($1, $2)
		`, user.ID, passwordHash)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", translate(err))
	}

	return user, nil
}

// GetUserByEmail reads from the primary so a login right after signup finds the account.
func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(s.db.Write().QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (s *UserStorage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(s.db.Read().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetCredential reads from the primary so a password change is visible immediately.
func (s *UserStorage) GetCredential(ctx context.Context, userID int64) (*models.Credential, error) {
	query := `
		SELECT id, user_id, password_hash
		FROM credentials
		WHERE user_id = $1
	`

	var cred models.Credential
	err := s.db.Write().QueryRow(ctx, query, userID).Scan(&cred.ID, &cred.UserID, &cred.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	return &cred, nil
}

func (s *UserStorage) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.Read().Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (s *UserStorage) UpdateUser(ctx context.Context, id int64, email, name string) (*models.User, error) {
	query := `
		UPDATE users
		SET email = $1, name = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + userColumns

	user, err := scanUser(s.db.Write().QueryRow(ctx, query, email, name, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", translate(err))
	}

	return user, nil
}

// UpdatePassword replaces the hash and bumps the user's updated_at atomically.
func (s *UserStorage) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE credentials SET password_hash = $1 WHERE user_id = $2`, passwordHash, userID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		_, err = tx.Exec(ctx, `UPDATE users SET updated_at = NOW() WHERE id = $1`, userID)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *UserStorage) DeleteUser(ctx context.Context, id int64) error {
	tag, err := s.db.Write().Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
