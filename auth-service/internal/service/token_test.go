package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/vetrovaas/go-clinical-platform/auth-service/internal/storage"
)

// Тесты кодека access-токенов и генератора refresh-токенов:
//   - round-trip Issue -> Validate;
//   - отказ по чужому секрету, сроку, issuer, audience;
//   - пустой секрет — ошибка конфигурации;
//   - ретраи при коллизии хэша refresh-токена.

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	user := testUser(t, "dr.house", "Abcdef1!", "practitioner", "admin")

	signed, err := svc.generateAccessToken(ctx, user, time.Now().UTC())
	require.NoError(t, err)

	uid, username, roles, err := svc.validateAccessToken(signed)
	require.NoError(t, err)
	require.Equal(t, user.ID, uid)
	require.Equal(t, user.Username, username)
	require.Equal(t, user.Roles, roles)
}

func TestAccessToken_WrongSecret_Rejected(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser(t, "dr.house", "Abcdef1!")
	signed, err := svc.generateAccessToken(context.Background(), user, time.Now().UTC())
	require.NoError(t, err)

	otherCfg := testCfg()
	otherCfg.JWTSecret = "another-secret"
	other := New(nil, otherCfg)

	_, _, _, err = other.validateAccessToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessToken_Expired_Rejected(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser(t, "dr.house", "Abcdef1!")

	// Выпускаем токен «в прошлом», чтобы exp уже истёк; допуск на часы нулевой.
	past := time.Now().UTC().Add(-2 * svc.cfg.AccessTokenTTL)
	signed, err := svc.generateAccessToken(context.Background(), user, past)
	require.NoError(t, err)

	_, _, _, err = svc.validateAccessToken(signed)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestAccessToken_IssuerMismatch_Rejected(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser(t, "dr.house", "Abcdef1!")
	signed, err := svc.generateAccessToken(context.Background(), user, time.Now().UTC())
	require.NoError(t, err)

	otherCfg := testCfg()
	otherCfg.Issuer = "another-issuer"
	other := New(nil, otherCfg)

	_, _, _, err = other.validateAccessToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessToken_AudienceMismatch_Rejected(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser(t, "dr.house", "Abcdef1!")
	signed, err := svc.generateAccessToken(context.Background(), user, time.Now().UTC())
	require.NoError(t, err)

	otherCfg := testCfg()
	otherCfg.Audience = []string{"another-audience"}
	other := New(nil, otherCfg)

	_, _, _, err = other.validateAccessToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

// Токен валиден, если его audience совпадает хотя бы с одной из ожидаемых.
func TestAccessToken_AnyAudienceMatches(t *testing.T) {
	t.Parallel()

	issuerCfg := testCfg()
	issuerCfg.Audience = []string{"clinical-gateway"}
	issuer := New(nil, issuerCfg)

	user := testUser(t, "dr.house", "Abcdef1!")
	signed, err := issuer.generateAccessToken(context.Background(), user, time.Now().UTC())
	require.NoError(t, err)

	checkerCfg := testCfg()
	checkerCfg.Audience = []string{"clinical-gateway", "web"}
	checker := New(nil, checkerCfg)

	_, _, _, err = checker.validateAccessToken(signed)
	require.NoError(t, err)
}

func TestAccessToken_EmptySecret_ConfigurationError(t *testing.T) {
	t.Parallel()

	cfg := testCfg()
	cfg.JWTSecret = ""
	svc := New(nil, cfg)

	user := testUser(t, "dr.house", "Abcdef1!")
	_, err := svc.generateAccessToken(context.Background(), user, time.Now().UTC())
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestGenerateRefreshToken_RetriesOnCollision(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser(t, "dr.house", "Abcdef1!")

	gomock.InOrder(
		st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists),
		st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).Return(nil),
	)

	plain, err := svc.generateRefreshToken(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, plain)
}

func TestGenerateRefreshToken_CollisionExhausted(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser(t, "dr.house", "Abcdef1!")

	st.EXPECT().SaveRefreshToken(gomock.Any(), gomock.Any()).
		Return(storage.ErrAlreadyExists).Times(5)

	_, err := svc.generateRefreshToken(context.Background(), user.ID)
	require.ErrorIs(t, err, ErrRefreshTokenCollision)
}

func TestHashRefreshToken_Deterministic(t *testing.T) {
	t.Parallel()

	require.Equal(t, hashRefreshToken("abc"), hashRefreshToken("abc"))
	require.NotEqual(t, hashRefreshToken("abc"), hashRefreshToken("abd"))
	require.Len(t, hashRefreshToken("abc"), 43) // base64url без паддинга от 32 байт.
}
