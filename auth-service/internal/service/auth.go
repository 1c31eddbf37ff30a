package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/models"
	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/storage"
	"github.com/vetrovaas/go-clinical-platform/pkg/log"
)

// LoginUser выполняет вход по username+пароль.
// Неизвестное имя и неверный пароль неразличимы для вызывающего.
// Побочный эффект успешного входа — отметка last_login_at (сбой отметки
// логируется, но вход не ломает).
func (s *Service) LoginUser(ctx context.Context, username, password string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.LoginUser"

	if username == "" || password == "" {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := s.storage.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		log.From(ctx).Warn("touch_last_login_failed",
			slog.String("op", op),
			slog.String("user_id", user.ID.String()),
			slog.String("err", err.Error()),
		)
	}

	return s.issueTokenPair(ctx, user, "")
}

// RefreshToken обновляет пару токенов по refresh-токену (ротация).
// Старый токен отзывается условным UPDATE в той же логической операции,
// поэтому повторное предъявление уже ротированного токена всегда получает 401.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.RefreshToken"

	token, err := s.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByID(ctx, token.UserID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, uid, err := s.issueTokenPair(ctx, user, hashRefreshToken(refreshToken))
	if err != nil {
		return nil, uuid.Nil, err
	}

	// Уборка хвостов: отозванные/просроченные токены пользователя больше
	// никому не нужны. Сбой не влияет на результат ротации.
	if err := s.storage.DeleteExhaustedForUser(ctx, uid, time.Now().UTC()); err != nil {
		log.From(ctx).Warn("refresh_cleanup_failed",
			slog.String("op", op),
			slog.String("user_id", uid.String()),
			slog.String("err", err.Error()),
		)
	}

	return pair, uid, nil
}

// Logout отзывает все активные refresh-токены владельца access-токена.
// Отсутствие активных токенов — не ошибка: возвращается ErrNoActiveTokens,
// транспорт трактует его как успех с нулевым счётчиком.
func (s *Service) Logout(ctx context.Context, accessToken string) (int64, error) {
	const op = "service.auth.Logout"

	uid, _, _, err := s.validateAccessToken(accessToken)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return s.revokeAllForUser(ctx, op, uid)
}

// AdminRevoke отзывает все активные refresh-токены произвольного пользователя.
// Авторизация вызывающего (роль admin) — забота транспорта/политики.
func (s *Service) AdminRevoke(ctx context.Context, targetUserID uuid.UUID) (int64, error) {
	const op = "service.auth.AdminRevoke"

	if _, err := s.storage.UserByID(ctx, targetUserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return s.revokeAllForUser(ctx, op, targetUserID)
}

// ValidateToken проверяет access-токен и возвращает данные пользователя.
func (s *Service) ValidateToken(ctx context.Context, accessToken string) (uuid.UUID, string, []string, error) {
	const op = "service.auth.ValidateToken"

	uid, username, roles, err := s.validateAccessToken(accessToken)
	if err != nil {
		return uuid.Nil, "", nil, fmt.Errorf("%s: %w", op, err)
	}

	return uid, username, roles, nil
}

// HasRole проверяет наличие роли в списке ролей валидированного токена.
func HasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}

	return false
}

func (s *Service) revokeAllForUser(ctx context.Context, op string, userID uuid.UUID) (int64, error) {
	count, err := s.storage.RevokeAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if count == 0 {
		log.From(ctx).Warn("no_active_tokens",
			slog.String("op", op),
			slog.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("%s: %w", op, ErrNoActiveTokens)
	}

	return count, nil
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// issueTokenPair выпускает новую пару access+refresh токенов.
// Если oldRefreshHash != "", сначала атомарно отзывает старый refresh-токен;
// проигравший гонку конкурентный вызов получает ErrTokenRevoked.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User, oldRefreshHash string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service.auth.issueTokenPair"

	now := time.Now().UTC()

	accessToken, err := s.generateAccessToken(ctx, user, now)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if oldRefreshHash != "" {
		revoked, err := s.storage.RevokeRefreshTokenIfActive(ctx, oldRefreshHash)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}

		if !revoked {
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
		}

		s.markRevokedInCache(ctx, oldRefreshHash)
	}

	plain, err := s.generateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    plain,
		AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
	}, user.ID, nil
}
