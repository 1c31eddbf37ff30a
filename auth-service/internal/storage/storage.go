package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/токен).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (username/refresh-token).
	ErrAlreadyExists = errors.New("already exists")
	// ErrConcurrencyConflict — обновление проиграло гонку с другим писателем.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создает нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByUsername находит пользователя по имени.
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// TouchLastLogin отмечает момент успешного входа.
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// RefreshTokenStorage выполняет операции над refresh-токенами.
type RefreshTokenStorage interface {
	// SaveRefreshToken сохраняет новый refresh-token в БД.
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error
	// RefreshTokenByHash находит refresh-токен по его хэшу.
	RefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	// RevokeRefreshTokenIfActive пытается отозвать токен, если он ещё активен.
	// Возвращает true, если отзыв произошёл именно сейчас (условный UPDATE —
	// ровно один из конкурентных вызовов с одним токеном получает true).
	RevokeRefreshTokenIfActive(ctx context.Context, hash string) (bool, error)
	// RevokeAllForUser отзывает все активные токены пользователя,
	// возвращает число отозванных (0 — нечего отзывать, не ошибка).
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// DeleteExhaustedForUser удаляет отозванные или просроченные токены
	// пользователя (уборка после ротации, на корректность не влияет).
	DeleteExhaustedForUser(ctx context.Context, userID uuid.UUID, now time.Time) error
	// DeleteExpiredTokens удаляет все просроченные токены независимо от revoked.
	DeleteExpiredTokens(ctx context.Context, now time.Time) error
}

// Storage задает контракт работы с БД.
type Storage interface {
	UserStorage
	RefreshTokenStorage
	Close()
}
