package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/seller-finance-api/internal/application/costs"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/jhoicas/seller-finance-api/pkg/numeric"
)

// CostHandler edición de costos unitarios.
type CostHandler struct {
	uc *costs.UseCase
}

func NewCostHandler(uc *costs.UseCase) *CostHandler {
	return &CostHandler{uc: uc}
}

// Update godoc
// @Summary      Editar el costo unitario de un producto
// @Description  Con debounce=true la escritura se agenda y responde 202; solo el último valor de la ventana se persiste.
// @Tags         costs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        debounce  query  bool                   false  "agrupar escrituras"
// @Param        body      body   dto.CostUpdateRequest  true   "sku o product_name, unit_cost"
// @Success      200  {object}  dto.CostUpdateResponse
// @Success      202  {object}  dto.CostUpdateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/costs [put]
func (h *CostHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CostUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cost, err := numeric.Parse(in.UnitCost.String(), numeric.Currency().WithField("unit_cost"))
	if err != nil {
		return writeError(c, err)
	}
	key := finance.KeyOf(in.SKU, in.ProductName)

	if c.QueryBool("debounce") {
		if err := h.uc.ScheduleCommit(userID, key, cost); err != nil {
			return writeError(c, err)
		}
		v, err := h.uc.SyncVersion(c.UserContext(), userID)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(dto.CostUpdateResponse{SyncVersion: v, Scheduled: true})
	}
	n, v, err := h.uc.Commit(c.UserContext(), userID, key, cost)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CostUpdateResponse{Affected: n, SyncVersion: v})
}

// Batch godoc
// @Summary      Mismo costo para varios productos
// @Description  Los sub-lotes por SKU y por nombre son independientes; si uno falla responde 207.
// @Tags         costs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CostBatchRequest  true  "claves y costo (> 0)"
// @Success      200  {object}  costs.BatchResult
// @Success      207  {object}  costs.BatchResult
// @Router       /api/costs/batch [post]
func (h *CostHandler) Batch(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CostBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cost, err := numeric.Parse(in.UnitCost.String(), numeric.BatchCost().WithField("unit_cost"))
	if err != nil {
		return writeError(c, err)
	}
	keys := make([]finance.CostKey, 0, len(in.Keys))
	for _, k := range in.Keys {
		keys = append(keys, finance.KeyOf(k.SKU, k.ProductName))
	}
	res, err := h.uc.BatchCommit(c.UserContext(), userID, keys, cost)
	if err != nil {
		return writeError(c, err)
	}
	if res.Partial {
		return c.Status(fiber.StatusMultiStatus).JSON(res)
	}
	return c.JSON(res)
}

// SyncVersion godoc
// @Summary      Versión de sincronización de costos
// @Tags         costs
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncVersionResponse
// @Router       /api/costs/sync-version [get]
func (h *CostHandler) SyncVersion(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	v, err := h.uc.SyncVersion(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SyncVersionResponse{SyncVersion: v})
}
