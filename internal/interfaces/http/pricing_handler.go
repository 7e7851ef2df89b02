package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/seller-finance-api/internal/application/analytics"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
)

// PricingHandler calculadora de precio de venta.
type PricingHandler struct {
	uc *analytics.UseCase
}

func NewPricingHandler(uc *analytics.UseCase) *PricingHandler {
	return &PricingHandler{uc: uc}
}

// Suggest godoc
// @Summary      Precio sugerido para un margen objetivo, o margen de un precio dado
// @Tags         pricing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PricingRequest  true  "costo, margen objetivo y tarifas (opcionales)"
// @Success      200  {object}  finance.PricingResult
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/pricing/suggest [post]
func (h *PricingHandler) Suggest(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.PricingRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Price(c.UserContext(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}
