package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/festal/festal-backend/internal/domain"
	"github.com/festal/festal-backend/internal/domain/entity"
	"github.com/festal/festal-backend/internal/domain/repository"
	"github.com/festal/festal-backend/pkg/jwt"
)

// DefaultSessionTTL vida de sesión cuando la configuración no indica otra.
const DefaultSessionTTL = 30 * time.Minute

// TokenConfig configuración para firmar los tokens de sesión.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// CredentialVerifier verifica usuario/contraseña. En producción lo implementa
// PasswordVerifier (hash bcrypt); en tests se sustituye por un proveedor falso.
// Devuelve domain.ErrInvalidCredentials si no coinciden.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*entity.User, error)
}

// IssuedSession sesión emitida con su token firmado.
type IssuedSession struct {
	Token   string
	Session entity.Session
	User    entity.User
}

// AuthUseCase almacén de identidad y sesiones: login, resolución de token y logout.
// Es el único componente que escribe en el conjunto de sesiones.
type AuthUseCase struct {
	tx       repository.TxRunner
	verifier CredentialVerifier
	cfg      TokenConfig
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(tx repository.TxRunner, verifier CredentialVerifier, cfg TokenConfig) *AuthUseCase {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	return &AuthUseCase{tx: tx, verifier: verifier, cfg: cfg, now: time.Now}
}

// WithClock sustituye el reloj (tests).
func (uc *AuthUseCase) WithClock(now func() time.Time) *AuthUseCase {
	uc.now = now
	return uc
}

// Authenticate verifica credenciales y emite una sesión con expiración now + TTL.
func (uc *AuthUseCase) Authenticate(ctx context.Context, username, password string) (*IssuedSession, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := uc.verifier.Verify(ctx, username, password)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	session := entity.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(uc.cfg.TTL),
	}
	token, err := jwt.Generate(uc.cfg.Secret, uc.cfg.Issuer, session.ID, user.ID, user.Role, session.IssuedAt, session.ExpiresAt)
	if err != nil {
		return nil, err
	}
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		return r.Sessions.Create(ctx, &session)
	})
	if err != nil {
		return nil, err
	}
	return &IssuedSession{Token: token, Session: session, User: *user}, nil
}

// Resolve valida el token y devuelve la identidad del llamador.
// Falla con domain.ErrInvalidSession si el token es desconocido, está expirado
// o el usuario ya no existe.
func (uc *AuthUseCase) Resolve(ctx context.Context, token string) (*entity.Identity, error) {
	now := uc.now().UTC()
	claims, err := jwt.Parse(uc.cfg.Secret, token, now)
	if err != nil {
		return nil, domain.ErrInvalidSession
	}
	var identity *entity.Identity
	err = uc.tx.ReadOnly(ctx, func(r repository.Repos) error {
		session, err := r.Sessions.GetByID(ctx, claims.ID)
		if err != nil {
			return err
		}
		if session == nil || session.Expired(now) || session.UserID != claims.UserID {
			return domain.ErrInvalidSession
		}
		user, err := r.Users.GetByID(ctx, session.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrInvalidSession
		}
		identity = &entity.Identity{
			UserID:     user.ID,
			Username:   user.Username,
			Role:       user.Role,
			Department: user.Department,
			SessionID:  session.ID,
			ExpiresAt:  session.ExpiresAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return identity, nil
}

// Invalidate elimina la sesión del token. Es idempotente: un token ya invalidado,
// expirado o desconocido no produce error.
func (uc *AuthUseCase) Invalidate(ctx context.Context, token string) error {
	// Se acepta un token expirado: el logout tardío debe seguir borrando la fila.
	claims, err := jwt.Parse(uc.cfg.Secret, token, time.Time{})
	if err != nil {
		return nil
	}
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		if err := r.Sessions.Delete(ctx, claims.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return nil
	})
}

// PurgeExpired elimina sesiones expiradas y devuelve cuántas borró.
func (uc *AuthUseCase) PurgeExpired(ctx context.Context) (int, error) {
	var n int
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		n, err = r.Sessions.DeleteExpired(ctx, uc.now().UTC())
		return err
	})
	return n, err
}
