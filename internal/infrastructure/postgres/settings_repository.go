package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

const settingsColumns = `id, user_id, name, marketplace, commission_rate, per_item_fee, inbound_invoice_pct,
	ad_spend, outbound_tax_rate, is_default, created_at, updated_at`

// SettingsRepo implementación del puerto SettingsRepository sobre PostgreSQL.
// El índice único parcial uq_settings_default garantiza un solo default por marketplace.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Create persiste una configuración. Un segundo default devuelve domain.ErrDuplicate.
func (r *SettingsRepo) Create(ctx context.Context, s *entity.Settings) error {
	query := `
		INSERT INTO settings (` + settingsColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.UserID, s.Name, s.Marketplace, s.CommissionRate, s.PerItemFee, s.InboundInvoicePct,
		s.AdSpend, s.OutboundTaxRate, s.IsDefault, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert settings: %w", err)
	}
	return nil
}

// Update actualiza todos los campos editables.
func (r *SettingsRepo) Update(ctx context.Context, s *entity.Settings) error {
	query := `
		UPDATE settings SET name = $3, marketplace = $4, commission_rate = $5, per_item_fee = $6,
			inbound_invoice_pct = $7, ad_spend = $8, outbound_tax_rate = $9, is_default = $10, updated_at = $11
		WHERE id = $1 AND user_id = $2`
	tag, err := r.q.Exec(ctx, query,
		s.ID, s.UserID, s.Name, s.Marketplace, s.CommissionRate, s.PerItemFee,
		s.InboundInvoicePct, s.AdSpend, s.OutboundTaxRate, s.IsDefault, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SettingsRepo) GetByID(ctx context.Context, userID, id string) (*entity.Settings, error) {
	query := `SELECT ` + settingsColumns + ` FROM settings WHERE user_id = $1 AND id = $2`
	return r.scanOne(ctx, "get settings", query, userID, id)
}

func (r *SettingsRepo) GetDefault(ctx context.Context, userID, marketplace string) (*entity.Settings, error) {
	query := `SELECT ` + settingsColumns + ` FROM settings WHERE user_id = $1 AND marketplace = $2 AND is_default`
	return r.scanOne(ctx, "get default settings", query, userID, marketplace)
}

func (r *SettingsRepo) ListByUser(ctx context.Context, userID string) ([]entity.Settings, error) {
	query := `SELECT ` + settingsColumns + ` FROM settings WHERE user_id = $1 ORDER BY marketplace, name`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()
	list := make([]entity.Settings, 0)
	for rows.Next() {
		s, err := scanSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settings: %w", err)
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// ClearDefault quita la marca de default del marketplace (paso previo a marcar otra, en la misma tx).
func (r *SettingsRepo) ClearDefault(ctx context.Context, userID, marketplace string) error {
	query := `UPDATE settings SET is_default = FALSE WHERE user_id = $1 AND marketplace = $2 AND is_default`
	if _, err := r.q.Exec(ctx, query, userID, marketplace); err != nil {
		return fmt.Errorf("clear default settings: %w", err)
	}
	return nil
}

func (r *SettingsRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM settings WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SettingsRepo) scanOne(ctx context.Context, op, query string, args ...any) (*entity.Settings, error) {
	s, err := scanSettings(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func scanSettings(row pgx.Row) (*entity.Settings, error) {
	var s entity.Settings
	err := row.Scan(
		&s.ID, &s.UserID, &s.Name, &s.Marketplace, &s.CommissionRate, &s.PerItemFee, &s.InboundInvoicePct,
		&s.AdSpend, &s.OutboundTaxRate, &s.IsDefault, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
