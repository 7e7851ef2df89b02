package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/seller-finance-api/internal/application/cashflow"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
)

// CashFlowHandler movimientos de caja.
type CashFlowHandler struct {
	uc      *cashflow.UseCase
	periods periodResolver
}

func NewCashFlowHandler(uc *cashflow.UseCase, periods periodResolver) *CashFlowHandler {
	return &CashFlowHandler{uc: uc, periods: periods}
}

// List godoc
// @Summary      Movimientos de caja del período
// @Tags         cash-flow
// @Security     Bearer
// @Produce      json
// @Param        preset  query  string  false  "período predefinido"
// @Param        from    query  string  false  "YYYY-MM-DD"
// @Param        to      query  string  false  "YYYY-MM-DD"
// @Success      200  {array}  dto.CashFlowResponse
// @Router       /api/cash-flow [get]
func (h *CashFlowHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	p, err := h.periods.fromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), userID, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar movimiento de caja
// @Tags         cash-flow
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CashFlowRequest  true  "fecha, tipo (in|out), valor"
// @Success      201  {object}  dto.CashFlowResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/cash-flow [post]
func (h *CashFlowHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CashFlowRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete elimina un movimiento.
// DELETE /api/cash-flow/:id
func (h *CashFlowHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.UserContext(), userID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Summary godoc
// @Summary      Resumen del período: saldo inicial, entradas, salidas y saldo diario
// @Tags         cash-flow
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  finance.CashFlowSummary
// @Router       /api/cash-flow/summary [get]
func (h *CashFlowHandler) Summary(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	p, err := h.periods.fromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Summary(c.UserContext(), userID, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
