package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vetrovaas/go-clinical-platform/pkg/middleware"
	"github.com/vetrovaas/go-clinical-platform/risk-service/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := NewHandlers(svc)

	root.Post("/risk/assess", h.Assess)
	root.Get("/trigger-words", h.TriggerWords)
	root.Put("/trigger-words", h.SaveTriggerWords)
	root.Post("/trigger-words/reset", h.ResetTriggerWords)

	return root
}
