package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"numera/internal/core/apperror"
	"numera/internal/domain/auth"
)

func newTestService(t *testing.T) *auth.Service {
	t.Helper()

	hash, err := auth.HashKey("terminal-key-42")
	require.NoError(t, err)

	cfg := auth.DefaultJWTConfig("test-secret")
	cfg.TokenTTL = time.Minute

	return auth.NewService(auth.NewJWTService(cfg), []auth.Operator{
		{Name: "pos-terminal", KeyHash: hash, Roles: []string{"generator"}},
	})
}

func TestIssueTokenValidKey(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.IssueToken(context.Background(), "pos-terminal", "terminal-key-42")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)
	assert.True(t, token.ExpiresAt.After(time.Now()))
}

func TestIssueTokenWrongKey(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.IssueToken(context.Background(), "pos-terminal", "wrong")
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestIssueTokenUnknownOperator(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.IssueToken(context.Background(), "ghost", "terminal-key-42")
	require.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := auth.DefaultJWTConfig("test-secret")
	jwtSvc := auth.NewJWTService(cfg)

	tokenString, _, err := jwtSvc.GenerateToken("pos-terminal", []string{"generator", "admin"})
	require.NoError(t, err)

	caller, err := jwtSvc.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "pos-terminal", caller.Subject)
	assert.Equal(t, []string{"generator", "admin"}, caller.Roles)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	tokenString, _, err := auth.NewJWTService(auth.DefaultJWTConfig("secret-a")).
		GenerateToken("pos-terminal", nil)
	require.NoError(t, err)

	_, err = auth.NewJWTService(auth.DefaultJWTConfig("secret-b")).ValidateToken(tokenString)
	assert.Error(t, err)
}
