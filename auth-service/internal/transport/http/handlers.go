// transport/http содержит HTTP-эндпоинты auth-сервиса.
// Здесь выполняется только маппинг данных и ошибок доменного слоя (service)
// в HTTP. Вся бизнес-логика находится в пакете service.
//
// Принципы:
//   - Контекст запроса прокидывается в сервис без потерь;
//   - Ошибки сервиса явно транслируются в статусы (см. errors.go);
//   - ErrNoActiveTokens — не ошибка для клиента: logout/revoke отвечают 200
//     с revoked_count=0;
//   - Для 500 наружу не утекают детали внутренних ошибок; подробности
//     попадают в логи через мидлвары.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/service"
	"github.com/vetrovaas/go-clinical-platform/pkg/httperr"
	"github.com/vetrovaas/go-clinical-platform/pkg/middleware"
)

// Handlers агрегирует зависимости эндпоинтов.
type Handlers struct {
	service   *service.Service
	adminRole string
}

// NewHandlers создаёт HTTP-обработчики поверх сервисного слоя.
func NewHandlers(svc *service.Service, adminRole string) *Handlers {
	return &Handlers{service: svc, adminRole: adminRole}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type validateRequest struct {
	AccessToken string `json:"access_token"`
}

type revokeRequest struct {
	UserID string `json:"user_id"`
}

type tokenPairResponse struct {
	UserID          string `json:"user_id"`
	AccessToken     string `json:"access_token"`
	RefreshToken    string `json:"refresh_token"`
	AccessExpiresAt int64  `json:"access_expires_at"`
}

type revokeResponse struct {
	RevokedCount int64 `json:"revoked_count"`
}

type validateResponse struct {
	Valid    bool     `json:"valid"`
	UserID   string   `json:"user_id,omitempty"`
	Username string   `json:"username,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// Login аутентифицирует пользователя и возвращает пару токенов.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		writeInvalidArgument(w, r)
		return
	}

	pair, uid, err := h.service.LoginUser(r.Context(), in.Username, in.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		UserID:          uid.String(),
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		AccessExpiresAt: pair.AccessExpiresAt.Unix(),
	})
}

// Refresh выпускает новую пару токенов по валидному refresh-токену.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeStrict(r, &in); err != nil || in.RefreshToken == "" {
		writeInvalidArgument(w, r)
		return
	}

	pair, uid, err := h.service.RefreshToken(r.Context(), in.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		UserID:          uid.String(),
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		AccessExpiresAt: pair.AccessExpiresAt.Unix(),
	})
}

// Logout отзывает все активные refresh-токены владельца Bearer-токена.
// Отсутствие активных токенов — успех с нулевым счётчиком.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	access := middleware.BearerFromContext(r.Context())
	if access == "" {
		httperr.Write(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
		return
	}

	count, err := h.service.Logout(r.Context(), access)
	if err != nil && !errors.Is(err, service.ErrNoActiveTokens) {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, revokeResponse{RevokedCount: count})
}

// AdminRevoke отзывает все активные refresh-токены произвольного пользователя.
// Требует Bearer-токен с административной ролью.
func (h *Handlers) AdminRevoke(w http.ResponseWriter, r *http.Request) {
	access := middleware.BearerFromContext(r.Context())
	if access == "" {
		httperr.Write(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
		return
	}

	_, _, roles, err := h.service.ValidateToken(r.Context(), access)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if !service.HasRole(roles, h.adminRole) {
		httperr.Write(w, r, http.StatusForbidden, "permission_denied", "permission denied")
		return
	}

	var in revokeRequest
	if err := decodeStrict(r, &in); err != nil {
		writeInvalidArgument(w, r)
		return
	}

	target, err := uuid.Parse(in.UserID)
	if err != nil {
		writeInvalidArgument(w, r)
		return
	}

	count, err := h.service.AdminRevoke(r.Context(), target)
	if err != nil && !errors.Is(err, service.ErrNoActiveTokens) {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, revokeResponse{RevokedCount: count})
}

// Validate проверяет access-токен. Невалидный/просроченный токен — это НЕ
// ошибка эндпоинта: в ответ уходит {valid:false} (контракт для коллег-сервисов).
func (h *Handlers) Validate(w http.ResponseWriter, r *http.Request) {
	var in validateRequest
	if err := decodeStrict(r, &in); err != nil || in.AccessToken == "" {
		writeInvalidArgument(w, r)
		return
	}

	uid, username, roles, err := h.service.ValidateToken(r.Context(), in.AccessToken)
	if err != nil {
		writeJSON(w, http.StatusOK, validateResponse{Valid: false})
		return
	}

	writeJSON(w, http.StatusOK, validateResponse{
		Valid:    true,
		UserID:   uid.String(),
		Username: username,
		Roles:    roles,
	})
}

// writeJSON — единый ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

func writeInvalidArgument(w http.ResponseWriter, r *http.Request) {
	httperr.Write(w, r, http.StatusBadRequest, "invalid_argument", "invalid argument")
}
