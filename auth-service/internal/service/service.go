// service содержит бизнес-логику auth-сервиса: аутентификацию пользователей,
// выпуск/проверку/ротацию токенов и работу с хранилищем через интерфейсы
// из пакета storage.
//
// Основные аспекты:
//   - Экземпляр Service не хранит состояние запроса и безопасен для
//     конкурентного использования из разных горутин при условии, что
//     переданное хранилище (storage.Storage) потокобезопасно.
//   - Ошибки возвращаются наружу и далее маппятся транспортом на
//     HTTP-статусы (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/cache"
	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/config"
	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Намеренно не различаем эти случаи, чтобы не допускать перебор имён.
	// Транспорт: 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен (access/refresh) некорректен по формату/подписи
	// или отсутствует в хранилище. Транспорт: 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. Транспорт: 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked — токен отозван (logout/ротация/компрометация) и
	// недействителен независимо от срока. Транспорт: 401.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrNoActiveTokens — у пользователя не нашлось активных refresh-токенов.
	// Не фатально: logout/отзыв считаются успешными, транспорт: 200 с count=0.
	ErrNoActiveTokens = errors.New("no active tokens")

	// ErrUserNotFound — целевой пользователь не существует (admin-отзыв).
	// Транспорт: 404.
	ErrUserNotFound = errors.New("user not found")

	// ErrRefreshTokenCollision — исчерпаны попытки сгенерировать уникальный
	// refresh-токен (редкие коллизии хэша при сохранении). Транспорт: 500.
	ErrRefreshTokenCollision = errors.New("refresh token collision")

	// ErrMissingSecret — не задан секрет подписи; ошибка конфигурации,
	// фатальна на старте и не ретраится.
	ErrMissingSecret = errors.New("jwt secret is empty")
)

// Service описывает бизнес-логику auth-сервиса.
type Service struct {
	storage storage.Storage
	cfg     config.AuthConfig
	rcache  cache.RefreshCache // может быть nil, если кэш не сконфигурирован
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}

// SetRefreshCache устанавливает кэш refresh-токенов (опционально).
func (s *Service) SetRefreshCache(c cache.RefreshCache) {
	s.rcache = c
}
