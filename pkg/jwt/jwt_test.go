package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/festal/festal-backend/pkg/jwt"
)

const (
	testSecret    = "test-secret-key-for-unit-tests"
	testIssuer    = "festal-test"
	testSessionID = "00000000-0000-0000-0000-00000000000a"
	testUserID    = "00000000-0000-0000-0000-000000000001"
)

var now = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIssuer, testSessionID, testUserID, "admin", now, now.Add(30*time.Minute))
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testSecret, tok, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, testSessionID, claims.ID)
	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIssuer, testSessionID, testUserID, "admin", now, now.Add(30*time.Minute))
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok, now.Add(31*time.Minute))
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIssuer, testSessionID, testUserID, "admin", now, now.Add(time.Hour))
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok, now)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

func TestJWT_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testIssuer, testSessionID, testUserID, "admin", now, now.Add(time.Hour))
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}

func TestJWT_Malformado(t *testing.T) {
	_, err := pkgjwt.Parse(testSecret, "token.invalido.aqui", now)
	assert.Error(t, err)
}
