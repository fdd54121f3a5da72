package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/festal/festal-backend/internal/application/dto"
	"github.com/festal/festal-backend/internal/domain/entity"
)

// LocalIdentity clave en c.Locals de la identidad resuelta.
const LocalIdentity = "identity"

// SessionResolver resuelve un token a la identidad del llamador.
// Lo implementa *auth.AuthUseCase.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*entity.Identity, error)
}

// AuthMiddleware exige Bearer Token, resuelve la sesión y guarda la identidad en c.Locals.
func AuthMiddleware(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, errResp := bearerToken(c)
		if errResp != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(errResp)
		}
		identity, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(LocalIdentity, *identity)
		return c.Next()
	}
}

// bearerToken extrae el token del header Authorization.
func bearerToken(c *fiber.Ctx) (string, *dto.ErrorResponse) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization ヘッダーが必要です"}
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", &dto.ErrorResponse{Code: "INVALID_SESSION", Message: "Bearer <token> 形式で指定してください"}
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "トークンが空です"}
	}
	return token, nil
}

// GetIdentity devuelve la identidad del contexto (después de AuthMiddleware).
func GetIdentity(c *fiber.Ctx) entity.Identity {
	id, _ := c.Locals(LocalIdentity).(entity.Identity)
	return id
}
