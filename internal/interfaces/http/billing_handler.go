package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/festal/festal-backend/internal/application/analytics"
	"github.com/festal/festal-backend/internal/application/billing"
	"github.com/festal/festal-backend/internal/application/dto"
)

// BillingHandler facturación (solo admin).
type BillingHandler struct {
	uc      *billing.BillingUseCase
	pdf     *billing.PDFUseCase
	summary *analytics.SummaryUseCase
}

// NewBillingHandler construye el handler.
func NewBillingHandler(uc *billing.BillingUseCase, pdf *billing.PDFUseCase, summary *analytics.SummaryUseCase) *BillingHandler {
	return &BillingHandler{uc: uc, pdf: pdf, summary: summary}
}

// List godoc
// @Summary      Listar facturas
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        status          query  string  false  "draft | issued | sent | cancelled"
// @Param        payment_status  query  string  false  "unpaid | partial | paid"
// @Param        approval_status query  string  false  "pending | approved | rejected"
// @Param        customer_name   query  string  false  "contiene"
// @Param        month           query  string  false  "YYYY-MM sobre issue_date"
// @Param        limit           query  int     false  "máx 100"
// @Param        offset          query  int     false  "オフセット"
// @Success      200  {object}  dto.BillingListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/v1/billing [get]
func (h *BillingHandler) List(c *fiber.Ctx) error {
	var in dto.BillingListRequest
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
// @Summary      Obtener factura
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.BillingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/billing/{id} [get]
func (h *BillingHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear factura
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateBillingRequest  true  "factura"
// @Success      201   {object}  dto.BillingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/billing [post]
func (h *BillingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBillingRequest
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
// @Summary      Actualizar factura
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "ID"
// @Param        body  body  dto.UpdateBillingRequest  true  "campos a modificar"
// @Success      200   {object}  dto.BillingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/billing/{id} [put]
func (h *BillingHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBillingRequest
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
// @Summary      Eliminar factura (borrador o anulada)
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/billing/{id} [delete]
func (h *BillingHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetIdentity(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "請求を削除しました"})
}

// Send godoc
// @Summary      Enviar factura emitida
// @Description  issued → sent. Si la notificación falla la factura queda enviada y notified=false.
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SendBillingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/billing/{id}/send [post]
func (h *BillingHandler) Send(c *fiber.Ctx) error {
	res, err := h.uc.Send(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if res.NotifyErr != nil {
		requestLogger(c).Warn().Err(res.NotifyErr).Str("billing_id", res.Billing.ID).Msg("notificación de factura fallida")
	}
	return c.JSON(dto.SendBillingResponse{Billing: res.Billing, Notified: res.Notified})
}

// Approve godoc
// @Summary      Aprobar factura
// @Description  Borrador pendiente → approved. Solo admin.
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.BillingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/billing/{id}/approve [post]
func (h *BillingHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Devolver factura (差戻し)
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "ID"
// @Param        body  body  dto.RejectBillingRequest  true  "motivo"
// @Success      200  {object}  dto.BillingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/billing/{id}/reject [post]
func (h *BillingHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectBillingRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Reject(c.UserContext(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Resubmit godoc
// @Summary      Volver a solicitar aprobación
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.BillingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/billing/{id}/resubmit [post]
func (h *BillingHandler) Resubmit(c *fiber.Ctx) error {
	out, err := h.uc.Resubmit(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// BulkApprove godoc
// @Summary      Aprobación en bloque (一括承認)
// @Description  Todas o ninguna: si una factura no está pendiente no se aprueba ninguna.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.BulkApproveRequest  true  "IDs"
// @Success      200  {object}  dto.BulkApproveResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/billing/approve [post]
func (h *BillingHandler) BulkApprove(c *fiber.Ctx) error {
	var in dto.BulkApproveRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.BulkApprove(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Descargar factura en PDF
// @Tags         billing
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/billing/{id}/pdf [get]
func (h *BillingHandler) PDF(c *fiber.Ctx) error {
	data, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// MonthlySummary godoc
// @Summary      Resumen mensual de facturación
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        month  query  string  true  "YYYY-MM"
// @Success      200  {object}  dto.MonthlyBillingSummary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/billing/summary/monthly [get]
func (h *BillingHandler) MonthlySummary(c *fiber.Ctx) error {
	out, err := h.summary.MonthlyBilling(c.UserContext(), GetIdentity(c), c.Query("month"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
