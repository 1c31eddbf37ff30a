package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/models"
	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/storage"
)

// SaveUser создает нового пользователя в БД.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	const op = "storage.postgres.SaveUser"

	query := `
        INSERT INTO users(id, username, password_hash, roles, last_login_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := s.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Roles,
		user.LastLoginAt,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UserByUsername находит пользователя по имени.
func (s *Storage) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.postgres.UserByUsername"

	query := `
        SELECT id, username, password_hash, roles, last_login_at, created_at, updated_at
        FROM users
        WHERE username = $1
    `

	return s.scanUser(ctx, op, query, username)
}

// UserByID находит пользователя по ID.
func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `
        SELECT id, username, password_hash, roles, last_login_at, created_at, updated_at
        FROM users
        WHERE id = $1
    `

	return s.scanUser(ctx, op, query, id)
}

// TouchLastLogin отмечает момент успешного входа.
func (s *Storage) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	const op = "storage.postgres.TouchLastLogin"

	query := `
        UPDATE users
        SET last_login_at = $2, updated_at = $2
        WHERE id = $1
    `

	cmdTag, err := s.db.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func (s *Storage) scanUser(ctx context.Context, op, query string, arg any) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Roles,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}
