package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/festal/festal-backend/internal/application/analytics"
	"github.com/festal/festal-backend/internal/application/dto"
	"github.com/festal/festal-backend/internal/application/usecase"
)

// SalesHandler CRUD de registros de venta y resumen mensual.
type SalesHandler struct {
	uc      *usecase.SalesUseCase
	summary *analytics.SummaryUseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc *usecase.SalesUseCase, summary *analytics.SummaryUseCase) *SalesHandler {
	return &SalesHandler{uc: uc, summary: summary}
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        department  query  string  false  "departamento"
// @Param        status      query  string  false  "planned | in_progress | completed | cancelled"
// @Param        owner_id    query  string  false  "responsable"
// @Param        month       query  string  false  "YYYY-MM sobre delivery_date"
// @Param        limit       query  int     false  "máx 100"
// @Param        offset      query  int     false  "オフセット"
// @Success      200  {object}  dto.SalesListResponse
// @Router       /api/v1/sales [get]
func (h *SalesHandler) List(c *fiber.Ctx) error {
	var in dto.SalesListRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	out, err := h.uc.List(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener venta
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SalesResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/sales/{id} [get]
func (h *SalesHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear venta (admin)
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateSalesRequest  true  "venta"
// @Success      201   {object}  dto.SalesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/sales [post]
func (h *SalesHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSalesRequest
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
// @Summary      Actualizar venta (admin)
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "ID"
// @Param        body  body  dto.UpdateSalesRequest  true  "campos a modificar"
// @Success      200   {object}  dto.SalesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/sales/{id} [put]
func (h *SalesHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSalesRequest
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
// @Summary      Eliminar venta (admin)
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/sales/{id} [delete]
func (h *SalesHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetIdentity(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "売上を削除しました"})
}

// MonthlySummary godoc
// @Summary      Resumen mensual de ventas
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        month  query  string  true  "YYYY-MM"
// @Success      200  {object}  dto.MonthlySalesSummary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/sales/summary/monthly [get]
func (h *SalesHandler) MonthlySummary(c *fiber.Ctx) error {
	out, err := h.summary.MonthlySales(c.UserContext(), GetIdentity(c), c.Query("month"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
