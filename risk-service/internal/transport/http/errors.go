package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/vetrovaas/go-clinical-platform/pkg/httperr"
	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/catalog"
	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/search"
	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/service"
)

// Нестандартный код, часто используемый для "клиент закрыл соединение".
const statusClientClosedRequest = 499

// writeServiceError — единый маппинг доменных ошибок risk-сервиса в HTTP.
//
// Таблица:
//   - ErrInvalidInput/ErrInvalidWordSet -> 400;
//   - search.ErrUnavailable -> 503 (скоринг без индекса невозможен);
//   - отмена/дедлайн контекста -> 499/504;
//   - прочее -> 500 с единым безопасным сообщением (детали остаются в логах).
//
// storage.ErrNotFound до транспорта не доходит: каталог подменяет его
// встроенным списком (catalog.Get).
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, catalog.ErrInvalidWordSet):
		httperr.Write(w, r, http.StatusBadRequest, "invalid_argument", "invalid argument")
	case errors.Is(err, search.ErrUnavailable):
		httperr.Write(w, r, http.StatusServiceUnavailable, "unavailable", "search index unavailable")
	case errors.Is(err, context.Canceled):
		httperr.Write(w, r, statusClientClosedRequest, "canceled", "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		httperr.Write(w, r, http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded")
	default:
		httperr.Internal(w, r)
	}
}
