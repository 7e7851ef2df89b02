// Package settings administra las configuraciones de tarifas e impuestos por marketplace.
package settings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/application/ports"
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
	"github.com/jhoicas/seller-finance-api/pkg/numeric"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// UseCase CRUD de configuraciones con una única configuración por defecto por marketplace.
type UseCase struct {
	repo  repository.SettingsRepository
	tx    ports.TxRunner
	cache ports.SettingsCache
	now   func() time.Time
}

// New construye el caso de uso. cache puede ser nil.
func New(repo repository.SettingsRepository, tx ports.TxRunner, cache ports.SettingsCache) *UseCase {
	return &UseCase{repo: repo, tx: tx, cache: cache, now: time.Now}
}

// List devuelve las configuraciones del usuario.
func (uc *UseCase) List(ctx context.Context, userID string) ([]dto.SettingsResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("settings: listar: %w", err)
	}
	out := make([]dto.SettingsResponse, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	return out, nil
}

// Create crea una configuración. La primera de un marketplace queda como default aunque no se pida.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.SettingsRequest) (*dto.SettingsResponse, error) {
	s, err := parseRequest(in)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	s.ID = uuid.New().String()
	s.UserID = userID
	s.CreatedAt = now
	s.UpdatedAt = now

	current, err := uc.repo.GetDefault(ctx, userID, s.Marketplace)
	if err != nil {
		return nil, fmt.Errorf("settings: default actual: %w", err)
	}
	if current == nil {
		s.IsDefault = true
	}

	err = uc.tx.Run(ctx, func(r ports.TxRepos) error {
		if s.IsDefault {
			if err := r.Settings.ClearDefault(ctx, userID, s.Marketplace); err != nil {
				return err
			}
		}
		return r.Settings.Create(ctx, s)
	})
	if err != nil {
		return nil, fmt.Errorf("settings: crear: %w", err)
	}
	uc.invalidate(ctx, userID)
	resp := toResponse(s)
	return &resp, nil
}

// Update reemplaza los valores de una configuración existente.
func (uc *UseCase) Update(ctx context.Context, userID, id string, in dto.SettingsRequest) (*dto.SettingsResponse, error) {
	existing, err := uc.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	s, err := parseRequest(in)
	if err != nil {
		return nil, err
	}
	s.ID = existing.ID
	s.UserID = userID
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = uc.now()
	// una configuración por defecto no deja de serlo por edición; se cambia con SetDefault
	s.IsDefault = existing.IsDefault || in.IsDefault
	if existing.IsDefault && s.Marketplace != existing.Marketplace {
		return nil, fmt.Errorf("%w: no se puede cambiar el marketplace de la configuración por defecto", domain.ErrConflict)
	}

	err = uc.tx.Run(ctx, func(r ports.TxRepos) error {
		if s.IsDefault && !existing.IsDefault {
			if err := r.Settings.ClearDefault(ctx, userID, s.Marketplace); err != nil {
				return err
			}
		}
		return r.Settings.Update(ctx, s)
	})
	if err != nil {
		return nil, fmt.Errorf("settings: actualizar: %w", err)
	}
	uc.invalidate(ctx, userID)
	resp := toResponse(s)
	return &resp, nil
}

// SetDefault marca id como configuración por defecto de su marketplace, desmarcando la anterior
// en la misma transacción.
func (uc *UseCase) SetDefault(ctx context.Context, userID, id string) (*dto.SettingsResponse, error) {
	s, err := uc.get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !s.IsDefault {
		s.IsDefault = true
		s.UpdatedAt = uc.now()
		err = uc.tx.Run(ctx, func(r ports.TxRepos) error {
			if err := r.Settings.ClearDefault(ctx, userID, s.Marketplace); err != nil {
				return err
			}
			return r.Settings.Update(ctx, s)
		})
		if err != nil {
			return nil, fmt.Errorf("settings: marcar default: %w", err)
		}
		uc.invalidate(ctx, userID)
	}
	resp := toResponse(s)
	return &resp, nil
}

// Delete elimina una configuración que no sea la de por defecto.
func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	s, err := uc.get(ctx, userID, id)
	if err != nil {
		return err
	}
	if s.IsDefault {
		return fmt.Errorf("%w: no se puede eliminar la configuración por defecto", domain.ErrConflict)
	}
	if err := uc.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("settings: eliminar: %w", err)
	}
	uc.invalidate(ctx, userID)
	return nil
}

// Default devuelve la configuración por defecto del marketplace, o (nil, nil) si no existe.
func (uc *UseCase) Default(ctx context.Context, userID, marketplace string) (*entity.Settings, error) {
	if uc.cache != nil {
		if s, ok := uc.cache.GetDefault(ctx, userID, marketplace); ok {
			return s, nil
		}
	}
	s, err := uc.repo.GetDefault(ctx, userID, marketplace)
	if err != nil {
		return nil, fmt.Errorf("settings: default %s: %w", marketplace, err)
	}
	if s != nil && uc.cache != nil {
		uc.cache.SetDefault(ctx, userID, marketplace, s)
	}
	return s, nil
}

// Get devuelve una configuración del usuario o ErrNotFound.
func (uc *UseCase) Get(ctx context.Context, userID, id string) (*entity.Settings, error) {
	return uc.get(ctx, userID, id)
}

func (uc *UseCase) get(ctx context.Context, userID, id string) (*entity.Settings, error) {
	s, err := uc.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("settings: obtener: %w", err)
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (uc *UseCase) invalidate(ctx context.Context, userID string) {
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, userID)
	}
}

func parseRequest(in dto.SettingsRequest) (*entity.Settings, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &numeric.ValidationError{Field: "name", Message: "el nombre es requerido"}
	}
	marketplace := strings.ToLower(strings.TrimSpace(in.Marketplace))
	if marketplace == "" {
		marketplace = entity.MarketplaceShopee
	}
	if !entity.ValidMarketplace(marketplace) {
		return nil, &numeric.ValidationError{Field: "marketplace", Message: "marketplace desconocido"}
	}
	s := &entity.Settings{Name: name, Marketplace: marketplace, IsDefault: in.IsDefault}
	var err error
	if s.CommissionRate, err = percentage("commission_pct", in.CommissionPct); err != nil {
		return nil, err
	}
	if s.PerItemFee, err = numeric.Parse(in.PerItemFee.String(), numeric.Currency().WithField("per_item_fee")); err != nil {
		return nil, err
	}
	if s.InboundInvoicePct, err = percentage("inbound_invoice_pct", in.InboundInvoicePct); err != nil {
		return nil, err
	}
	if s.AdSpend, err = numeric.Parse(in.AdSpend.String(), numeric.Currency().WithField("ad_spend")); err != nil {
		return nil, err
	}
	if s.OutboundTaxRate, err = percentage("outbound_tax_pct", in.OutboundTaxPct); err != nil {
		return nil, err
	}
	return s, nil
}

func percentage(field string, in dto.NumericInput) (decimal.Decimal, error) {
	v, err := numeric.Parse(in.String(), numeric.Percentage().WithField(field))
	if err != nil {
		return decimal.Zero, err
	}
	return v.Div(hundred), nil
}

func toResponse(s *entity.Settings) dto.SettingsResponse {
	return dto.SettingsResponse{
		ID:                s.ID,
		Name:              s.Name,
		Marketplace:       s.Marketplace,
		CommissionPct:     s.CommissionRate.Mul(hundred),
		PerItemFee:        s.PerItemFee,
		InboundInvoicePct: s.InboundInvoicePct.Mul(hundred),
		AdSpend:           s.AdSpend,
		OutboundTaxPct:    s.OutboundTaxRate.Mul(hundred),
		IsDefault:         s.IsDefault,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}
