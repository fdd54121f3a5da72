package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/festal/festal-backend/internal/application/auth"
	"github.com/festal/festal-backend/internal/application/dto"
	"github.com/festal/festal-backend/internal/application/usecase"
)

// AuthHandler maneja login, logout y la identidad actual.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	issued, err := h.uc.Authenticate(c.UserContext(), in.Username, in.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LoginResponse{
		AccessToken: issued.Token,
		TokenType:   "bearer",
		ExpiresIn:   int(issued.Session.ExpiresAt.Sub(issued.Session.IssuedAt).Seconds()),
		ExpiresAt:   issued.Session.ExpiresAt,
		User:        *usecase.ToUserResponse(&issued.User),
	})
}

// Logout godoc
// @Summary      Cerrar sesión (idempotente)
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, errResp := bearerToken(c)
	if errResp != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(errResp)
	}
	if err := h.uc.Invalidate(c.UserContext(), token); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "ログアウトしました"})
}

// Me godoc
// @Summary      Identidad del token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.MeResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id := GetIdentity(c)
	return c.JSON(dto.MeResponse{
		ID:         id.UserID,
		Username:   id.Username,
		Role:       id.Role,
		Department: id.Department,
		ExpiresAt:  id.ExpiresAt,
	})
}
