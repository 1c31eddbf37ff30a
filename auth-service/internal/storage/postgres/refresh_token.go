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

// SaveRefreshToken сохраняет новый refresh-токен в БД.
func (s *Storage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	const op = "storage.postgres.SaveRefreshToken"

	query := `
        INSERT INTO refresh_tokens(token_hash, user_id, created_at, expires_at, revoked)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := s.db.Exec(ctx, query,
		token.RefreshTokenHash,
		token.UserID,
		token.CreatedAt,
		token.ExpiresAt,
		token.Revoked,
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

// RefreshTokenByHash находит refresh-токен по его хэшу.
func (s *Storage) RefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	const op = "storage.postgres.RefreshTokenByHash"

	query := `
        SELECT token_hash, user_id, created_at, expires_at, revoked
        FROM refresh_tokens
        WHERE token_hash = $1
    `

	var token models.RefreshToken
	err := s.db.QueryRow(ctx, query, hash).Scan(
		&token.RefreshTokenHash,
		&token.UserID,
		&token.CreatedAt,
		&token.ExpiresAt,
		&token.Revoked,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &token, nil
}

// RevokeRefreshTokenIfActive пытается отозвать refresh-токен, если он ещё не был отозван.
// Возвращает:
//
//	(true, nil)  — токен был активен и успешно отозван сейчас;
//	(false, nil) — токен существует, но уже был отозван;
//	(false, ErrNotFound) — токен не найден.
//
// Условный UPDATE гарантирует ровно одну успешную ротацию при конкурентных
// Refresh с одним и тем же токеном.
func (s *Storage) RevokeRefreshTokenIfActive(ctx context.Context, hash string) (bool, error) {
	const op = "storage.postgres.RevokeRefreshTokenIfActive"

	const upd = `
		UPDATE refresh_tokens
		SET revoked = TRUE
		WHERE token_hash = $1 AND revoked = FALSE
		RETURNING user_id
	`

	var userID string
	err := s.db.QueryRow(ctx, upd, hash).Scan(&userID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	const sel = `
		SELECT revoked
		FROM refresh_tokens
		WHERE token_hash = $1
	`

	var revoked bool
	err = s.db.QueryRow(ctx, sel, hash).Scan(&revoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return false, fmt.Errorf("%s: %w", op, err)
	}

	return false, nil
}

// RevokeAllForUser отзывает все активные refresh-токены пользователя.
// Ноль отозванных строк — штатный результат, не ошибка.
func (s *Storage) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const op = "storage.postgres.RevokeAllForUser"

	query := `
        UPDATE refresh_tokens
        SET revoked = TRUE
        WHERE user_id = $1 AND revoked = FALSE
    `

	cmdTag, err := s.db.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return cmdTag.RowsAffected(), nil
}

// DeleteExhaustedForUser удаляет отозванные или просроченные токены пользователя.
func (s *Storage) DeleteExhaustedForUser(ctx context.Context, userID uuid.UUID, now time.Time) error {
	const op = "storage.postgres.DeleteExhaustedForUser"

	query := `
        DELETE FROM refresh_tokens
        WHERE user_id = $1 AND (revoked = TRUE OR expires_at <= $2)
    `

	_, err := s.db.Exec(ctx, query, userID, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteExpiredTokens удаляет все просроченные токены независимо от revoked.
// Сериализационный сбой отражается как ErrConcurrencyConflict: джанитор его
// логирует и завершает цикл без ретрая.
func (s *Storage) DeleteExpiredTokens(ctx context.Context, now time.Time) error {
	const op = "storage.postgres.DeleteExpiredTokens"

	query := `
        DELETE FROM refresh_tokens
        WHERE expires_at <= $1
    `

	_, err := s.db.Exec(ctx, query, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) &&
			(pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected) {
			return fmt.Errorf("%s: %w", op, storage.ErrConcurrencyConflict)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
