package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/service"
	"github.com/vetrovaas/go-clinical-platform/pkg/httperr"
)

// Нестандартный код, часто используемый для "клиент закрыл соединение".
const statusClientClosedRequest = 499

// writeServiceError — единый маппинг доменных ошибок auth-сервиса в HTTP.
//
// Таблица:
//   - ErrInvalidCredentials/ErrInvalidToken/ErrTokenExpired/ErrTokenRevoked -> 401;
//   - ErrUserNotFound -> 404;
//   - отмена/дедлайн контекста -> 499/504;
//   - прочее -> 500 с единым безопасным сообщением (детали остаются в логах).
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenRevoked):
		httperr.Write(w, r, http.StatusUnauthorized, "unauthenticated", "unauthenticated")
	case errors.Is(err, service.ErrUserNotFound):
		httperr.Write(w, r, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, context.Canceled):
		httperr.Write(w, r, statusClientClosedRequest, "canceled", "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		httperr.Write(w, r, http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded")
	default:
		httperr.Internal(w, r)
	}
}
