package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	subject := "admin"

	tokenStr, expiresAt, err := GenerateToken(subject, secret, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenStr)
	assert.True(t, expiresAt.After(time.Now()))

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", token)

	got, err := SubjectFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, subject, got)
}

func TestGenerateTokenRejectsBadInput(t *testing.T) {
	_, _, err := GenerateToken("", "secret", time.Hour)
	assert.Error(t, err)
	_, _, err = GenerateToken("admin", "", time.Hour)
	assert.Error(t, err)
	_, _, err = GenerateToken("admin", "secret", 0)
	assert.Error(t, err)
}

func TestSubjectFromContextWithoutToken(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := SubjectFromContext(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
