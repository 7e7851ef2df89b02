package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/application/orders"
)

// OrderHandler listado y borrado de pedidos importados.
type OrderHandler struct {
	uc      *orders.UseCase
	periods periodResolver
}

func NewOrderHandler(uc *orders.UseCase, periods periodResolver) *OrderHandler {
	return &OrderHandler{uc: uc, periods: periods}
}

// List godoc
// @Summary      Listar pedidos del período
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        preset       query  string  false  "current_month, last_month, last_3_months, last_30_days, current_quarter, current_year"
// @Param        from         query  string  false  "YYYY-MM-DD"
// @Param        to           query  string  false  "YYYY-MM-DD"
// @Param        marketplace  query  string  false  "shopee | tiktok"
// @Param        limit        query  int     false  "máx. 1000"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var q dto.OrderListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	p, err := h.periods.resolve(q.PeriodQuery)
	if err != nil {
		return writeError(c, err)
	}
	q.PageRequest.DefaultPage()
	out, err := h.uc.List(c.UserContext(), userID, p, strings.TrimSpace(q.Marketplace), q.PageRequest)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar pedidos del período
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        from         query  string  false  "YYYY-MM-DD"
// @Param        to           query  string  false  "YYYY-MM-DD"
// @Param        marketplace  query  string  false  "shopee | tiktok"
// @Success      200  {object}  dto.DeleteOrdersResponse
// @Router       /api/orders [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	p, err := h.periods.fromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	n, err := h.uc.DeleteByPeriod(c.UserContext(), userID, p, strings.TrimSpace(c.Query("marketplace")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeleteOrdersResponse{Deleted: n})
}
