package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrzegKrol/10x-cards/internal/models"
)

func TestUserRepo_Create_LowercasesEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepo(mock)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (id, email, password_hash)")).
		WithArgs(pgxmock.AnyArg(), "ada@example.com", "hash").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	u := &models.User{Email: "Ada@Example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, now, u.CreatedAt)
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepo(mock)

	mock.ExpectQuery("INSERT INTO users").WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	err := repo.Create(context.Background(), &models.User{Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrUniqueViolation)
}

func TestUserRepo_GetByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepo(mock)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ada@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow(id, "ada@example.com", "hash", now))

	u, err := repo.GetByEmail(context.Background(), "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepo(mock)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}))

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}
