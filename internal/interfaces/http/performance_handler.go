package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/festal/festal-backend/internal/application/analytics"
	"github.com/festal/festal-backend/internal/application/dto"
	"github.com/festal/festal-backend/internal/application/usecase"
)

// PerformanceHandler CRUD de rendimiento mensual y resumen por departamento.
type PerformanceHandler struct {
	uc      *usecase.PerformanceUseCase
	summary *analytics.SummaryUseCase
}

// NewPerformanceHandler construye el handler.
func NewPerformanceHandler(uc *usecase.PerformanceUseCase, summary *analytics.SummaryUseCase) *PerformanceHandler {
	return &PerformanceHandler{uc: uc, summary: summary}
}

// List godoc
// @Summary      Listar rendimiento
// @Tags         performance
// @Produce      json
// @Security     BearerAuth
// @Param        department  query  string  false  "departamento"
// @Param        user_id     query  string  false  "usuario"
// @Param        month       query  string  false  "YYYY-MM"
// @Param        limit       query  int     false  "máx 100"
// @Param        offset      query  int     false  "オフセット"
// @Success      200  {object}  dto.PerformanceListResponse
// @Router       /api/v1/performance [get]
func (h *PerformanceHandler) List(c *fiber.Ctx) error {
	var in dto.PerformanceListRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	out, err := h.uc.List(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListByUser godoc
// @Summary      Rendimiento de un usuario
// @Tags         performance
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path   string  true   "usuario"
// @Param        limit    query  int     false  "máx 100"
// @Param        offset   query  int     false  "オフセット"
// @Success      200  {object}  dto.PerformanceListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/v1/performance/user/{user_id} [get]
func (h *PerformanceHandler) ListByUser(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidQuery(c)
	}
	out, err := h.uc.ListByUser(c.UserContext(), GetIdentity(c), c.Params("user_id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener registro de rendimiento
// @Tags         performance
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.PerformanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/performance/{id} [get]
func (h *PerformanceHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar rendimiento mensual (admin)
// @Tags         performance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreatePerformanceRequest  true  "user_id, month, sales_amount"
// @Success      201   {object}  dto.PerformanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/performance [post]
func (h *PerformanceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePerformanceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar rendimiento (admin)
// @Tags         performance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                        true  "ID"
// @Param        body  body  dto.UpdatePerformanceRequest  true  "campos a modificar"
// @Success      200   {object}  dto.PerformanceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/performance/{id} [put]
func (h *PerformanceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePerformanceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar rendimiento (admin)
// @Tags         performance
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/v1/performance/{id} [delete]
func (h *PerformanceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetIdentity(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "実績を削除しました"})
}

// DepartmentSummary godoc
// @Summary      Rendimiento agregado por departamento
// @Tags         performance
// @Produce      json
// @Security     BearerAuth
// @Param        month  query  string  false  "YYYY-MM (vacío = todos)"
// @Success      200  {object}  dto.DepartmentPerformanceResponse
// @Router       /api/v1/performance/summary/department [get]
func (h *PerformanceHandler) DepartmentSummary(c *fiber.Ctx) error {
	out, err := h.summary.DepartmentPerformance(c.UserContext(), GetIdentity(c), c.Query("month"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
