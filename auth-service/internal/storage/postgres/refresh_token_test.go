package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/models"
	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/storage"
)

// Интеграционные тесты репозитория refresh-токенов: сохранение/поиск по хэшу,
// условный отзыв (ровно один победитель при гонке), массовый отзыв
// и фоновая очистка. Окружение поднимает startPostgres из user_test.go.

func seedToken(t *testing.T, st *Storage, userID uuid.UUID, hash string, expiresAt time.Time) *models.RefreshToken {
	t.Helper()
	tok := &models.RefreshToken{
		RefreshTokenHash: hash,
		UserID:           userID,
		CreatedAt:        time.Now().UTC(),
		ExpiresAt:        expiresAt,
	}
	require.NoError(t, st.SaveRefreshToken(context.Background(), tok))
	return tok
}

func TestIntegration_SaveRefreshToken_And_ByHash_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := newTestUser("dr.house")
	require.NoError(t, st.SaveUser(context.Background(), u))

	exp := time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond)
	seedToken(t, st, u.ID, "hash-1", exp)

	got, err := st.RefreshTokenByHash(context.Background(), "hash-1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)
	require.False(t, got.Revoked)
	require.WithinDuration(t, exp, got.ExpiresAt, time.Second)

	_, err = st.RefreshTokenByHash(context.Background(), "absent")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_SaveRefreshToken_DuplicateHash(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := newTestUser("dr.house")
	require.NoError(t, st.SaveUser(context.Background(), u))

	exp := time.Now().UTC().Add(time.Hour)
	seedToken(t, st, u.ID, "hash-1", exp)

	err := st.SaveRefreshToken(context.Background(), &models.RefreshToken{
		RefreshTokenHash: "hash-1",
		UserID:           u.ID,
		CreatedAt:        time.Now().UTC(),
		ExpiresAt:        exp,
	})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

// TestIntegration_RevokeIfActive_ExactlyOnce — первый условный отзыв побеждает,
// повторный возвращает revoked=false (токен уже отозван).
func TestIntegration_RevokeIfActive_ExactlyOnce(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := newTestUser("dr.house")
	require.NoError(t, st.SaveUser(context.Background(), u))
	seedToken(t, st, u.ID, "hash-1", time.Now().UTC().Add(time.Hour))

	ok, err := st.RevokeRefreshTokenIfActive(context.Background(), "hash-1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = st.RevokeRefreshTokenIfActive(context.Background(), "hash-1")
	require.NoError(t, err)
	require.False(t, ok)

	got, err := st.RefreshTokenByHash(context.Background(), "hash-1")
	require.NoError(t, err)
	require.True(t, got.Revoked)
}

func TestIntegration_RevokeIfActive_Absent(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.RevokeRefreshTokenIfActive(context.Background(), "absent")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_RevokeAllForUser — отзываются только активные токены
// конкретного пользователя; чужие не затрагиваются.
func TestIntegration_RevokeAllForUser(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	a := newTestUser("dr.house")
	b := newTestUser("dr.wilson")
	require.NoError(t, st.SaveUser(context.Background(), a))
	require.NoError(t, st.SaveUser(context.Background(), b))

	exp := time.Now().UTC().Add(time.Hour)
	seedToken(t, st, a.ID, "a-1", exp)
	seedToken(t, st, a.ID, "a-2", exp)
	seedToken(t, st, b.ID, "b-1", exp)

	// один токен уже отозван — в счётчик не попадает.
	_, err := st.RevokeRefreshTokenIfActive(context.Background(), "a-1")
	require.NoError(t, err)

	count, err := st.RevokeAllForUser(context.Background(), a.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	other, err := st.RefreshTokenByHash(context.Background(), "b-1")
	require.NoError(t, err)
	require.False(t, other.Revoked)
}

// TestIntegration_DeleteExhaustedForUser — удаляются отозванные и истёкшие
// токены пользователя, активные остаются.
func TestIntegration_DeleteExhaustedForUser(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := newTestUser("dr.house")
	require.NoError(t, st.SaveUser(context.Background(), u))

	now := time.Now().UTC()
	seedToken(t, st, u.ID, "revoked", now.Add(time.Hour))
	seedToken(t, st, u.ID, "expired", now.Add(-time.Hour))
	seedToken(t, st, u.ID, "active", now.Add(time.Hour))

	_, err := st.RevokeRefreshTokenIfActive(context.Background(), "revoked")
	require.NoError(t, err)

	require.NoError(t, st.DeleteExhaustedForUser(context.Background(), u.ID, now))

	_, err = st.RefreshTokenByHash(context.Background(), "revoked")
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = st.RefreshTokenByHash(context.Background(), "expired")
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = st.RefreshTokenByHash(context.Background(), "active")
	require.NoError(t, err)
}

// TestIntegration_DeleteExpiredTokens — глобальная фоновая очистка:
// истёкшие токены всех пользователей удаляются, живые остаются.
func TestIntegration_DeleteExpiredTokens(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		u := newTestUser(fmt.Sprintf("user-%d", i))
		require.NoError(t, st.SaveUser(context.Background(), u))
		seedToken(t, st, u.ID, fmt.Sprintf("old-%d", i), now.Add(-time.Minute))
		seedToken(t, st, u.ID, fmt.Sprintf("live-%d", i), now.Add(time.Hour))
	}

	require.NoError(t, st.DeleteExpiredTokens(context.Background(), now))

	for i := 0; i < 3; i++ {
		_, err := st.RefreshTokenByHash(context.Background(), fmt.Sprintf("old-%d", i))
		require.ErrorIs(t, err, storage.ErrNotFound)
		_, err = st.RefreshTokenByHash(context.Background(), fmt.Sprintf("live-%d", i))
		require.NoError(t, err)
	}
}
