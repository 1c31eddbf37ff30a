package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/service"
	"github.com/vetrovaas/go-clinical-platform/pkg/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger    *slog.Logger
	Timeout   time.Duration
	AdminRole string
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.AuthBearer(),         // вынимаем Bearer токен в контекст
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := NewHandlers(svc, opts.AdminRole)

	root.Post("/auth/login", h.Login)
	root.Post("/auth/refresh", h.Refresh)
	root.Post("/auth/logout", h.Logout)
	root.Post("/auth/revoke", h.AdminRevoke)
	root.Post("/auth/validate", h.Validate)

	return root
}
