package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken — серверное состояние refresh-токена.
// Сам секрет клиентский; в БД хранится только его sha256-хэш.
// Жизненный цикл: Active -> Rotated/Revoked (revoked=true) либо Active -> Expired.
type RefreshToken struct {
	// RefreshTokenHash — sha256(plain) в base64url, уникален.
	RefreshTokenHash string
	UserID           uuid.UUID
	CreatedAt        time.Time
	ExpiresAt        time.Time
	Revoked          bool
}
