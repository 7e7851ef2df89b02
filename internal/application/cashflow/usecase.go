// Package cashflow registra movimientos de caja y arma el resumen del período.
package cashflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
	"github.com/jhoicas/seller-finance-api/pkg/numeric"
	"github.com/jhoicas/seller-finance-api/pkg/pagination"
)

const dateLayout = "2006-01-02"

// UseCase movimientos de caja.
type UseCase struct {
	repo     repository.CashFlowRepository
	pageSize int
	loc      *time.Location
	now      func() time.Time
}

// New construye el caso de uso. loc es la zona horaria de negocio para interpretar fechas.
func New(repo repository.CashFlowRepository, pageSize int, loc *time.Location) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{repo: repo, pageSize: pageSize, loc: loc, now: time.Now}
}

// Create registra un movimiento.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CashFlowRequest) (*dto.CashFlowResponse, error) {
	kind := strings.ToLower(strings.TrimSpace(in.Kind))
	if kind != entity.CashFlowIn && kind != entity.CashFlowOut {
		return nil, &numeric.ValidationError{Field: "kind", Message: "debe ser 'in' u 'out'"}
	}
	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(in.Date), uc.loc)
	if err != nil {
		return nil, &numeric.ValidationError{Field: "date", Message: "fecha inválida, formato YYYY-MM-DD"}
	}
	opts := numeric.Currency().WithField("amount")
	opts.Positive = true
	amount, err := numeric.Parse(in.Amount.String(), opts)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, &numeric.ValidationError{Field: "amount", Message: "el valor debe ser mayor que cero"}
	}
	e := &entity.CashFlowEntry{
		ID:          uuid.New().String(),
		UserID:      userID,
		Date:        date,
		Kind:        kind,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Amount:      amount,
		CreatedAt:   uc.now(),
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("cashflow: crear: %w", err)
	}
	resp := toResponse(e)
	return &resp, nil
}

// Delete elimina un movimiento.
func (uc *UseCase) Delete(ctx context.Context, userID, id string) error {
	if err := uc.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("cashflow: eliminar: %w", err)
	}
	return nil
}

// List movimientos del período, del más reciente al más antiguo.
func (uc *UseCase) List(ctx context.Context, userID string, p finance.Period) ([]dto.CashFlowResponse, error) {
	entries, err := uc.fetch(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CashFlowResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toResponse(&entries[i]))
	}
	return out, nil
}

// Summary resumen del período con saldo inicial = movimientos anteriores al inicio.
func (uc *UseCase) Summary(ctx context.Context, userID string, p finance.Period) (*finance.CashFlowSummary, error) {
	entries, err := uc.fetch(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	opening, err := uc.repo.BalanceBefore(ctx, userID, p.Start)
	if err != nil {
		return nil, fmt.Errorf("cashflow: saldo inicial: %w", err)
	}
	sum := finance.SummarizeCashFlow(entries, p, opening)
	return &sum, nil
}

// Location zona horaria de negocio.
func (uc *UseCase) Location() *time.Location { return uc.loc }

func (uc *UseCase) fetch(ctx context.Context, userID string, p finance.Period) ([]entity.CashFlowEntry, error) {
	from, until := p.Range()
	dr := repository.DateRange{From: &from, Until: &until}
	entries, err := pagination.FetchAll(ctx, uc.pageSize, func(ctx context.Context, limit, offset int) ([]entity.CashFlowEntry, error) {
		return uc.repo.ListPage(ctx, userID, dr, limit, offset)
	})
	if err != nil {
		return nil, fmt.Errorf("cashflow: listar: %w", err)
	}
	return entries, nil
}

func toResponse(e *entity.CashFlowEntry) dto.CashFlowResponse {
	return dto.CashFlowResponse{
		ID:          e.ID,
		Date:        e.Date,
		Kind:        e.Kind,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount,
		CreatedAt:   e.CreatedAt,
	}
}
