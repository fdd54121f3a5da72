// Package password encapsula el hash de contraseñas con bcrypt.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch la contraseña no coincide con el hash.
var ErrMismatch = errors.New("password: no coincide")

// Hasher genera y verifica hashes bcrypt.
type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher construye un hasher con el costo indicado (0 = bcrypt.DefaultCost).
func NewHasher(cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	// Hash de referencia para igualar el tiempo de respuesta cuando el usuario no existe.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("festal-dummy-password"), cost)
	return &Hasher{cost: cost, dummy: dummy}
}

// Hash devuelve el hash bcrypt de plain.
func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare compara en tiempo constante. Devuelve ErrMismatch si no coincide.
func (h *Hasher) Compare(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}

// CompareDummy consume el mismo tiempo que Compare sin un hash real.
func (h *Hasher) CompareDummy(plain string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
}
