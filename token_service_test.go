package adminauth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminauth "github.com/dkportfolio/go-admin-auth"
)

var testSigningKey = []byte("test-signing-key")

func testAdmin() *adminauth.Admin {
	return &adminauth.Admin{
		ID:       uuid.New(),
		Username: "dkeller",
		Email:    "dkeller@example.com",
		Role:     adminauth.RoleSuperAdmin,
		IsActive: true,
	}
}

func TestTokenServiceIssueAndVerify(t *testing.T) {
	svc := adminauth.NewTokenService(testSigningKey, 168, "portfolio-api", nil, nil)
	admin := testAdmin()

	token, err := svc.Issue(admin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, admin.ID.String(), claims.AdminID())
	assert.Equal(t, admin.Username, claims.Username)
	assert.Equal(t, admin.Email, claims.Email)
	assert.Equal(t, adminauth.RoleSuperAdmin, claims.Role())
	assert.True(t, claims.IsAdminToken())
	assert.True(t, claims.IsSuperAdmin())
	assert.Equal(t, "portfolio-api", claims.Issuer)
}

func TestTokenServiceExpirationWindow(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := adminauth.NewTokenService(testSigningKey, 168, "", nil, nil).
		WithClock(func() time.Time { return issuedAt })

	token, err := svc.Issue(testAdmin())
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	// seven day window
	assert.Equal(t, issuedAt.Add(168*time.Hour), claims.Expires())
	assert.Equal(t, issuedAt, claims.IssuedAt())
}

func TestTokenServiceVerifyExpired(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := adminauth.NewTokenService(testSigningKey, 168, "", nil, nil).
		WithClock(func() time.Time { return issuedAt })

	token, err := svc.Issue(testAdmin())
	require.NoError(t, err)

	// still valid one hour before the window closes
	svc.WithClock(func() time.Time { return issuedAt.Add(167 * time.Hour) })
	_, err = svc.Verify(token)
	assert.NoError(t, err)

	svc.WithClock(func() time.Time { return issuedAt.Add(169 * time.Hour) })
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, adminauth.ErrTokenExpired)
}

func TestTokenServiceVerifyWrongKey(t *testing.T) {
	issuer := adminauth.NewTokenService([]byte("one-secret"), 1, "", nil, nil)
	verifier := adminauth.NewTokenService([]byte("other-secret"), 1, "", nil, nil)

	token, err := issuer.Issue(testAdmin())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	assert.Equal(t, adminauth.TextCodeInvalidToken, richErr.TextCode)
}

func TestTokenServiceVerifyGarbage(t *testing.T) {
	svc := adminauth.NewTokenService(testSigningKey, 1, "", nil, nil)

	for _, tokenString := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		_, err := svc.Verify(tokenString)
		require.Error(t, err)

		var richErr *goerrors.Error
		require.True(t, goerrors.As(err, &richErr))
		assert.Equal(t, adminauth.TextCodeInvalidToken, richErr.TextCode)
	}
}

func TestTokenServiceVerifyRejectsForeignTokenType(t *testing.T) {
	svc := adminauth.NewTokenService(testSigningKey, 1, "", nil, nil)

	// structurally valid token signed with our key but minted for another
	// subsystem
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  uuid.New().String(),
		"type": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := foreign.SignedString(testSigningKey)
	require.NoError(t, err)

	_, err = svc.Verify(tokenString)
	require.Error(t, err)

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	assert.Equal(t, adminauth.TextCodeInvalidToken, richErr.TextCode)
}

func TestTokenServiceVerifyIssuerMismatch(t *testing.T) {
	issuer := adminauth.NewTokenService(testSigningKey, 1, "service-a", nil, nil)
	verifier := adminauth.NewTokenService(testSigningKey, 1, "service-b", nil, nil)

	token, err := issuer.Issue(testAdmin())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}
