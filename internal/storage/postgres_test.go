package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Varun5711/campusapi/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.DBManager {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, database.Migrate(ctx, dsn))

	db, err := database.NewDBManager(ctx, database.Config{PrimaryDSN: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestPostgresRepositories_Contract(t *testing.T) {
	db := newTestDB(t)
	runRepositoryContract(t, NewPostgresRepositories(db))
}

// withSearchPath makes unqualified table names in dsn resolve to schema.
func withSearchPath(t *testing.T, dsn, schema string) string {
	t.Helper()

	if !strings.Contains(dsn, "://") {
		return dsn + " search_path=" + schema
	}
	u, err := url.Parse(dsn)
	require.NoError(t, err)
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String()
}

func TestUserStorage_LookupAfterCreateIgnoresLaggingReplica(t *testing.T) {
	primary := newTestDB(t)
	ctx := context.Background()

	// The replica connection resolves users to an empty copy, like a standby that has not caught up.
	_, err := primary.Write().Exec(ctx, `
		CREATE SCHEMA IF NOT EXISTS lagging_replica;
		CREATE TABLE IF NOT EXISTS lagging_replica.users (LIKE public.users INCLUDING ALL);
		TRUNCATE lagging_replica.users`)
	require.NoError(t, err)

	dsn := os.Getenv("DATABASE_URL")
	db, err := database.NewDBManager(ctx, database.Config{
		PrimaryDSN:  dsn,
		ReplicaDSNs: []string{withSearchPath(t, dsn, "lagging_replica")},
		MaxConns:    2,
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	users := NewUserStorage(db)
	email := fmt.Sprintf("signup-%d@example.com", time.Now().UnixNano())

	created, err := users.CreateUser(ctx, email, "Fresh", "hash")
	require.NoError(t, err)

	replicaCopy, err := scanUser(db.Read().QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.Nil(t, replicaCopy)

	found, err := users.GetUserByEmail(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	cred, err := users.GetCredential(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "hash", cred.PasswordHash)
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23505"}), ErrConflict)
	assert.ErrorIs(t, translate(&pgconn.PgError{Code: "23503"}), ErrReferenceMissing)

	other := &pgconn.PgError{Code: "42P01"}
	assert.Equal(t, error(other), translate(other))

	plain := errors.New("boom")
	assert.Equal(t, plain, translate(plain))
}
