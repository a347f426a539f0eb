package auth

import (
	"testing"
	"time"

	"github.com/carlothq/carlot-backend/pkg/config"
	"github.com/carlothq/carlot-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "carlot-test",
		ExpirationMinutes: 15,
	}
}

func TestIssueAndParse(t *testing.T) {
	issuer, err := NewTokenIssuer(testJWTConfig())
	require.NoError(t, err)

	userID := uuid.New()
	token, tokenID, err := issuer.Issue(userID, enums.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, tokenID)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, enums.RoleAdmin, claims.Role)
	assert.Equal(t, tokenID, claims.ID)
	assert.Equal(t, "carlot-test", claims.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer, err := NewTokenIssuer(testJWTConfig())
	require.NoError(t, err)

	token, _, err := issuer.Issue(uuid.New(), enums.RoleBuyer)
	require.NoError(t, err)

	other, err := NewTokenIssuer(config.JWTConfig{
		Secret:            "different-secret",
		Issuer:            "carlot-test",
		ExpirationMinutes: 15,
	})
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	issuer, err := NewTokenIssuer(testJWTConfig())
	require.NoError(t, err)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := issuer.Issue(uuid.New(), enums.RoleBuyer)
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	foreign, err := NewTokenIssuer(config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "someone-else",
		ExpirationMinutes: 15,
	})
	require.NoError(t, err)

	token, _, err := foreign.Issue(uuid.New(), enums.RoleBuyer)
	require.NoError(t, err)

	issuer, err := NewTokenIssuer(testJWTConfig())
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.Error(t, err)
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer(config.JWTConfig{Issuer: "carlot-test"})
	require.Error(t, err)
}
