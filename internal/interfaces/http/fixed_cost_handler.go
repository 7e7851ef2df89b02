package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/application/fixedcosts"
)

// FixedCostHandler costos fijos y estimaciones mensuales.
type FixedCostHandler struct {
	uc *fixedcosts.UseCase
}

func NewFixedCostHandler(uc *fixedcosts.UseCase) *FixedCostHandler {
	return &FixedCostHandler{uc: uc}
}

// List godoc
// @Summary      Costos fijos con total mensual y costo por pedido/producto
// @Tags         fixed-costs
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.FixedCostListResponse
// @Router       /api/fixed-costs [get]
func (h *FixedCostHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.List(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar costo fijo
// @Tags         fixed-costs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FixedCostRequest  true  "categoría, nombre, valor"
// @Success      201  {object}  dto.FixedCostResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/fixed-costs [post]
func (h *FixedCostHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.FixedCostRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar costo fijo
// @Tags         fixed-costs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID"
// @Param        body  body  dto.FixedCostRequest  true  "categoría, nombre, valor"
// @Success      200  {object}  dto.FixedCostResponse
// @Router       /api/fixed-costs/{id} [put]
func (h *FixedCostHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.FixedCostRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), userID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina un costo fijo.
// DELETE /api/fixed-costs/:id
func (h *FixedCostHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.UserContext(), userID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSettings estimaciones mensuales (se crean con valores iniciales si no existen).
// GET /api/fixed-costs/settings
func (h *FixedCostHandler) GetSettings(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	fs, err := h.uc.Settings(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fixedcosts.ToSettingsResponse(fs))
}

// UpdateSettings godoc
// @Summary      Actualizar estimaciones mensuales
// @Tags         fixed-costs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FixedCostSettingsRequest  true  "pedidos, productos, faturamento"
// @Success      200  {object}  dto.FixedCostSettingsResponse
// @Router       /api/fixed-costs/settings [put]
func (h *FixedCostHandler) UpdateSettings(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.FixedCostSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateSettings(c.UserContext(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
