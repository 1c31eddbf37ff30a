package middleware

import (
	"log/slog"
	"net/http"

	"github.com/vetrovaas/go-clinical-platform/pkg/httperr"
	logctx "github.com/vetrovaas/go-clinical-platform/pkg/log"
)

// Recover перехватывает panic, конвертирует в 500/internal и пишет
// унифицированный ответ. Детали паники не утекают на клиент.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logctx.From(r.Context()).
						LogAttrs(r.Context(), slog.LevelError, "panic",
							slog.String("path", r.URL.Path),
							slog.Any("reason", rec),
						)
					httperr.Internal(w, r)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
