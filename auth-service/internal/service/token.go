package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/cache"
	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/models"
	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/storage"
	"github.com/vetrovaas/go-clinical-platform/pkg/log"
)

type accessClaims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// generateAccessToken генерирует access-токен (HS256).
// Claims: sub=userID, username, roles, iss, aud, iat, exp.
func (s *Service) generateAccessToken(ctx context.Context, user *models.User, now time.Time) (string, error) {
	const op = "service.token.generateAccessToken"

	if s.cfg.JWTSecret == "" {
		return "", fmt.Errorf("%s: %w", op, ErrMissingSecret)
	}

	lg := log.From(ctx)

	claims := accessClaims{
		Username: user.Username,
		Roles:    user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings(s.cfg.Audience),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		lg.Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// validateAccessToken валидирует access-токен: подпись, issuer, audience
// (достаточно совпадения с любым из ожидаемых), срок действия без допуска
// на рассинхронизацию часов.
func (s *Service) validateAccessToken(tokenStr string) (uuid.UUID, string, []string, error) {
	const op = "service.token.validateAccessToken"

	token, err := jwt.ParseWithClaims(tokenStr, &accessClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience...),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, "", nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return uuid.Nil, "", nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return uuid.Nil, "", nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return uid, claims.Username, claims.Roles, nil
}

// generateRefreshToken создает новый refresh-токен и сохраняет его хэш.
func (s *Service) generateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	const (
		op          = "service.token.generateRefreshToken"
		maxAttempts = 5
	)

	lg := log.From(ctx)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			lg.Error("refresh_rand_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return "", fmt.Errorf("%s: %w", op, err)
		}
		plain := base64.RawURLEncoding.EncodeToString(b)
		hash := hashRefreshToken(plain)

		now := time.Now().UTC()
		token := &models.RefreshToken{
			RefreshTokenHash: hash,
			UserID:           userID,
			CreatedAt:        now,
			ExpiresAt:        now.Add(s.cfg.RefreshTokenTTL),
			Revoked:          false,
		}

		if err := s.storage.SaveRefreshToken(ctx, token); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				// Редкая коллизия — пробуем сгенерировать заново.
				continue
			}

			lg.Error("save_refresh_token_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return "", fmt.Errorf("%s: %w", op, err)
		}

		s.cacheRefreshState(ctx, hash, token)

		return plain, nil
	}

	lg.Error("refresh_collision_exceeded",
		slog.String("op", op),
	)

	return "", fmt.Errorf("%s: %w", op, ErrRefreshTokenCollision)
}

// validateRefreshToken валидирует refresh-токен по состоянию в хранилище.
// Кэш используется только для быстрого отказа (revoked/expired): положительный
// ответ кэша не отменяет условный UPDATE при ротации, поэтому устаревшая
// запись «active» в кэше не ломает exactly-once.
func (s *Service) validateRefreshToken(ctx context.Context, plain string) (*models.RefreshToken, error) {
	const op = "service.token.validateRefreshToken"

	lg := log.From(ctx)
	hash := hashRefreshToken(plain)

	if s.rcache != nil {
		if entry, ok, err := s.rcache.Get(ctx, hash); err != nil {
			lg.Warn("refresh_cache_get_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		} else if ok {
			if entry.Revoked {
				lg.Warn("refresh_revoked_cached", slog.String("op", op))
				return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
			}
			if time.Now().UTC().After(entry.ExpiresAt) {
				lg.Warn("refresh_expired_cached", slog.String("op", op))
				return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
			}
		}
	}

	token, err := s.storage.RefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("refresh_lookup_not_found",
				slog.String("op", op),
			)
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		lg.Error("refresh_lookup_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if token.Revoked {
		lg.Warn("refresh_revoked",
			slog.String("op", op),
			slog.String("user_id", token.UserID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	if time.Now().UTC().After(token.ExpiresAt) {
		lg.Warn("refresh_expired",
			slog.String("op", op),
			slog.String("user_id", token.UserID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	return token, nil
}

// cacheRefreshState — best-effort запись состояния токена в кэш.
func (s *Service) cacheRefreshState(ctx context.Context, hash string, token *models.RefreshToken) {
	if s.rcache == nil {
		return
	}

	ttl := time.Until(token.ExpiresAt)
	entry := &cache.RefreshEntry{
		UserID:    token.UserID,
		Revoked:   token.Revoked,
		ExpiresAt: token.ExpiresAt,
	}

	if err := s.rcache.Set(ctx, hash, entry, ttl); err != nil {
		log.From(ctx).Warn("refresh_cache_set_failed",
			slog.String("op", "service.token.cacheRefreshState"),
			slog.String("err", err.Error()),
		)
	}
}

// markRevokedInCache — best-effort пометка revoked в кэше.
func (s *Service) markRevokedInCache(ctx context.Context, hash string) {
	if s.rcache == nil {
		return
	}

	if err := s.rcache.MarkRevoked(ctx, hash); err != nil {
		log.From(ctx).Warn("refresh_cache_revoke_failed",
			slog.String("op", "service.token.markRevokedInCache"),
			slog.String("err", err.Error()),
		)
	}
}

// hashRefreshToken — sha256(plain) в base64url; в таком виде токен хранится в БД.
func hashRefreshToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
