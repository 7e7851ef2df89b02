// Package fixedcosts administra los costos fijos mensuales y las estimaciones de volumen.
package fixedcosts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
	"github.com/jhoicas/seller-finance-api/pkg/numeric"
)

// UseCase costos fijos del usuario.
type UseCase struct {
	costs    repository.FixedCostRepository
	settings repository.FixedCostSettingsRepository
	now      func() time.Time
}

// New construye el caso de uso.
func New(costs repository.FixedCostRepository, settings repository.FixedCostSettingsRepository) *UseCase {
	return &UseCase{costs: costs, settings: settings, now: time.Now}
}

// List devuelve los costos con el total mensual y el reparto por pedido y por producto.
func (uc *UseCase) List(ctx context.Context, userID string) (*dto.FixedCostListResponse, error) {
	list, err := uc.costs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fixedcosts: listar: %w", err)
	}
	fs, err := uc.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.FixedCostListResponse{
		Items:        make([]dto.FixedCostResponse, 0, len(list)),
		MonthlyTotal: finance.MonthlyFixedCosts(list),
		PerOrder:     finance.FixedCostPerUnit(list, fs.MonthlyOrders),
		PerProduct:   finance.FixedCostPerUnit(list, fs.MonthlyProducts),
	}
	for i := range list {
		out.Items = append(out.Items, toResponse(&list[i]))
	}
	return out, nil
}

// All devuelve las entidades sin transformar (DRE y calculadora de precio).
func (uc *UseCase) All(ctx context.Context, userID string) ([]entity.FixedCost, error) {
	list, err := uc.costs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fixedcosts: listar: %w", err)
	}
	return list, nil
}

// Create registra un costo fijo.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.FixedCostRequest) (*dto.FixedCostResponse, error) {
	c, err := parseRequest(in)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	c.ID = uuid.New().String()
	c.UserID = userID
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := uc.costs.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("fixedcosts: crear: %w", err)
	}
	resp := toResponse(c)
	return &resp, nil
}

// Update reemplaza un costo fijo existente.
func (uc *UseCase) Update(ctx context.Context, userID, id string, in dto.FixedCostRequest) (*dto.FixedCostResponse, error) {
	existing, err := uc.costs.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("fixedcosts: obtener: %w", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	c, err := parseRequest(in)
	if err != nil {
		return nil, err
	}
	c.ID = existing.ID
	c.UserID = userID
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = uc.now()
	if in.Recurring == nil {
		c.Recurring = existing.Recurring
	}
	if err := uc.costs.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("fixedcosts: actualizar: %w", err)
	}
	resp := toResponse(c)
	return &resp, nil
}

// Delete elimina un costo fijo.
func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	if err := uc.costs.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("fixedcosts: eliminar: %w", err)
	}
	return nil
}

// Settings devuelve las estimaciones mensuales; si el usuario no tiene fila se crea con los
// valores iniciales (100 pedidos, 100 productos, 0 de faturamento).
func (uc *UseCase) Settings(ctx context.Context, userID string) (*entity.FixedCostSettings, error) {
	fs, err := uc.settings.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fixedcosts: estimaciones: %w", err)
	}
	if fs != nil {
		return fs, nil
	}
	fs = entity.NewDefaultFixedCostSettings(userID, uc.now())
	if err := uc.settings.Upsert(ctx, fs); err != nil {
		return nil, fmt.Errorf("fixedcosts: crear estimaciones: %w", err)
	}
	return fs, nil
}

// UpdateSettings actualiza las estimaciones; campos vacíos conservan el valor actual.
func (uc *UseCase) UpdateSettings(ctx context.Context, userID string, in dto.FixedCostSettingsRequest) (*dto.FixedCostSettingsResponse, error) {
	fs, err := uc.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.MonthlyOrders.String()) != "" {
		n, err := wholeQuantity("monthly_orders", in.MonthlyOrders)
		if err != nil {
			return nil, err
		}
		fs.MonthlyOrders = n
	}
	if strings.TrimSpace(in.MonthlyProducts.String()) != "" {
		n, err := wholeQuantity("monthly_products", in.MonthlyProducts)
		if err != nil {
			return nil, err
		}
		fs.MonthlyProducts = n
	}
	if strings.TrimSpace(in.MonthlyRevenue.String()) != "" {
		v, err := numeric.Parse(in.MonthlyRevenue.String(), numeric.Currency().WithField("monthly_revenue"))
		if err != nil {
			return nil, err
		}
		fs.MonthlyRevenue = v
	}
	fs.UpdatedAt = uc.now()
	if err := uc.settings.Upsert(ctx, fs); err != nil {
		return nil, fmt.Errorf("fixedcosts: guardar estimaciones: %w", err)
	}
	return ToSettingsResponse(fs), nil
}

// ToSettingsResponse mapea las estimaciones a DTO.
func ToSettingsResponse(fs *entity.FixedCostSettings) *dto.FixedCostSettingsResponse {
	return &dto.FixedCostSettingsResponse{
		MonthlyOrders:   fs.MonthlyOrders,
		MonthlyProducts: fs.MonthlyProducts,
		MonthlyRevenue:  fs.MonthlyRevenue,
		UpdatedAt:       fs.UpdatedAt,
	}
}

func wholeQuantity(field string, in dto.NumericInput) (int, error) {
	v, err := numeric.Parse(in.String(), numeric.Quantity().WithField(field))
	if err != nil {
		return 0, err
	}
	if !v.Equal(v.Truncate(0)) {
		return 0, &numeric.ValidationError{Field: field, Message: "debe ser un número entero"}
	}
	return int(v.IntPart()), nil
}

func parseRequest(in dto.FixedCostRequest) (*entity.FixedCost, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &numeric.ValidationError{Field: "name", Message: "el nombre es requerido"}
	}
	amount, err := numeric.Parse(in.Amount.String(), numeric.Currency().WithField("amount"))
	if err != nil {
		return nil, err
	}
	recurring := true
	if in.Recurring != nil {
		recurring = *in.Recurring
	}
	return &entity.FixedCost{
		Category:  strings.TrimSpace(in.Category),
		Name:      name,
		Amount:    amount,
		Recurring: recurring,
	}, nil
}

func toResponse(c *entity.FixedCost) dto.FixedCostResponse {
	return dto.FixedCostResponse{
		ID:        c.ID,
		Category:  c.Category,
		Name:      c.Name,
		Amount:    c.Amount,
		Recurring: c.Recurring,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
