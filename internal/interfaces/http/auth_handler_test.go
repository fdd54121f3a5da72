package http_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_OK(t *testing.T) {
	s := newTestServer(t)
	status, body := s.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "admin", "password": "password",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["access_token"])
	assert.Equal(t, "bearer", body["token_type"])
	assert.EqualValues(t, 1800, body["expires_in"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "admin", user["username"])
	assert.NotContains(t, user, "password_hash")
}

func TestLogin_Formulario(t *testing.T) {
	s := newTestServer(t)
	form := url.Values{"username": {"admin"}, "password": {"password"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	s := newTestServer(t)
	status, body := s.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "admin", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])
}

func TestMe_SinToken(t *testing.T) {
	s := newTestServer(t)
	status, body := s.doJSON(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", body["code"])
}

func TestMe_TokenInvalido(t *testing.T) {
	s := newTestServer(t)
	status, body := s.doJSON(t, http.MethodGet, "/api/v1/auth/me", "token.invalido.aqui", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_SESSION", body["code"])
}

func TestMe_DevuelveIdentidad(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "tanaka", "tanaka-pass")

	status, body := s.doJSON(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "u-tanaka", body["id"])
	assert.Equal(t, "user", body["role"])
	assert.Equal(t, deptConsul, body["department"])
}

func TestLogout_InvalidaYEsIdempotente(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "admin", "password")

	status, _ := s.doJSON(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body := s.doJSON(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_SESSION", body["code"])

	status, _ = s.doJSON(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, status, "el segundo logout no debe fallar")
}

func TestHealthYRaiz(t *testing.T) {
	s := newTestServer(t)
	status, body := s.doJSON(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])

	status, body = s.doJSON(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Festal API", body["message"])
}
