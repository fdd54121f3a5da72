package auth

import (
	"context"
	"errors"

	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
	"github.com/festal/festal-backend/pkg/password"
)

var _ CredentialVerifier = (*PasswordVerifier)(nil)

// PasswordVerifier verifica credenciales contra el hash bcrypt almacenado.
type PasswordVerifier struct {
	tx     repository.TxRunner
	hasher *password.Hasher
}

// NewPasswordVerifier construye el verificador de producción.
func NewPasswordVerifier(tx repository.TxRunner, hasher *password.Hasher) *PasswordVerifier {
	return &PasswordVerifier{tx: tx, hasher: hasher}
}

// Verify busca el usuario por username y compara la contraseña en tiempo constante.
// Usuario inexistente y contraseña incorrecta producen el mismo error y un costo similar.
func (v *PasswordVerifier) Verify(ctx context.Context, username, plain string) (*entity.User, error) {
	var user *entity.User
	err := v.tx.ReadOnly(ctx, func(r repository.Repos) error {
		var err error
		user, err = r.Users.GetByUsername(ctx, username)
		return err
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		v.hasher.CompareDummy(plain)
		return nil, domain.ErrInvalidCredentials
	}
	if err := v.hasher.Compare(user.PasswordHash, plain); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}
