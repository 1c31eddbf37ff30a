package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Тесты общих мидлваров: request-id, bearer, timeout, recover, chain.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	t.Parallel()

	var gotCtx string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v, ok := r.Context().Value(CtxRequestID).(string); ok {
			gotCtx = v
		}
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, gotCtx, 32)
	require.Equal(t, gotCtx, rec.Header().Get("X-Request-Id"))
}

func TestRequestID_PropagatesExisting(t *testing.T) {
	t.Parallel()

	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
}

func TestAuthBearer_ExtractsToken(t *testing.T) {
	t.Parallel()

	var got string
	h := AuthBearer()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = BearerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, "tok-1", got)
}

func TestAuthBearer_IgnoresMalformed(t *testing.T) {
	t.Parallel()

	for _, header := range []string{"", "Basic xyz", "Bearer", "Bearer "} {
		var got string
		h := AuthBearer()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = BearerFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		h.ServeHTTP(httptest.NewRecorder(), req)

		require.Empty(t, got, "header=%q", header)
	}
}

func TestTimeout_SetsDeadline(t *testing.T) {
	t.Parallel()

	var hasDeadline bool
	h := Timeout(50*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, hasDeadline)
}

func TestTimeout_RespectsExistingDeadline(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	var dl time.Time
	h := Timeout(time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dl, _ = r.Context().Deadline()
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(parent)
	h.ServeHTTP(httptest.NewRecorder(), req)

	want, _ := parent.Deadline()
	require.WithinDuration(t, want, dl, time.Millisecond)
}

func TestRecover_ConvertsPanicTo500(t *testing.T) {
	t.Parallel()

	h := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") }),
		Recover(),
		Logging(discardLogger()),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), `"internal"`)
}
