package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKeyAuthToken struct{}

// CtxAuthToken — ключ контекста с «сырым» Bearer-токеном запроса.
var CtxAuthToken = ctxKeyAuthToken{}

// AuthBearer извлекает Bearer-токен из Authorization и кладёт его в контекст
// по ключу CtxAuthToken. Валидация токена — задача сервисного слоя.
func AuthBearer() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			if auth != "" {
				const prefix = "Bearer "
				if strings.HasPrefix(auth, prefix) && len(auth) > len(prefix) {
					token := strings.TrimSpace(auth[len(prefix):])

					if token != "" {
						ctx := context.WithValue(r.Context(), CtxAuthToken, token)
						r = r.WithContext(ctx)
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerFromContext возвращает токен, положенный AuthBearer (или "").
func BearerFromContext(ctx context.Context) string {
	if v := ctx.Value(CtxAuthToken); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}

	return ""
}
