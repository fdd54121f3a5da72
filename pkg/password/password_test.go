package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/festal/festal-backend/pkg/password"
)

func TestHasher_HashYCompare(t *testing.T) {
	h := password.NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("password")
	require.NoError(t, err)
	assert.NotEqual(t, "password", hash)

	assert.NoError(t, h.Compare(hash, "password"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), password.ErrMismatch)
}

func TestHasher_HashInvalido(t *testing.T) {
	h := password.NewHasher(bcrypt.MinCost)
	err := h.Compare("no-es-un-hash", "password")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, password.ErrMismatch)
	h.CompareDummy("password")
}
