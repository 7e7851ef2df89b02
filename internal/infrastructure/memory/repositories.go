package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// UserRepository usuarios en memoria.
type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// OrderRepository pedidos en memoria.
type OrderRepository struct{ s *Store }

func matchOrder(o entity.Order, userID string, f repository.OrderFilter) bool {
	if o.UserID != userID {
		return false
	}
	if f.Marketplace != "" && o.Marketplace != f.Marketplace {
		return false
	}
	return inRange(o.OrderedAt, repository.DateRange{From: f.From, Until: f.Until})
}

func (r *OrderRepository) ListPage(_ context.Context, userID string, f repository.OrderFilter, limit, offset int) ([]entity.Order, error) {
	r.s.mu.RLock()
	matched := make([]entity.Order, 0)
	for _, o := range r.s.orders {
		if matchOrder(o, userID, f) {
			matched = append(matched, o)
		}
	}
	r.s.mu.RUnlock()
	sortDesc(matched, func(o entity.Order) time.Time { return o.OrderedAt }, func(o entity.Order) string { return o.ID })
	return window(matched, limit, offset), nil
}

func (r *OrderRepository) InsertBatch(_ context.Context, orders []entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders = append(r.s.orders, orders...)
	return nil
}

func (r *OrderRepository) DeleteByFilter(_ context.Context, userID string, f repository.OrderFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.orders[:0:0]
	var n int64
	for _, o := range r.s.orders {
		if matchOrder(o, userID, f) {
			n++
			continue
		}
		kept = append(kept, o)
	}
	r.s.orders = kept
	return n, nil
}

func (r *OrderRepository) UpdateCostBySKU(_ context.Context, userID string, skus []string, cost decimal.Decimal) (int64, error) {
	set := toSet(skus)
	return r.updateCost(userID, cost, func(o entity.Order) bool {
		_, ok := set[finance.NormalizeSKU(o.SKU)]
		return ok && finance.NormalizeSKU(o.SKU) != ""
	}), nil
}

func (r *OrderRepository) UpdateCostByName(_ context.Context, userID string, names []string, cost decimal.Decimal) (int64, error) {
	set := toSet(names)
	return r.updateCost(userID, cost, func(o entity.Order) bool {
		if finance.NormalizeSKU(o.SKU) != "" {
			return false
		}
		_, ok := set[strings.TrimSpace(o.ProductName)]
		return ok
	}), nil
}

func (r *OrderRepository) updateCost(userID string, cost decimal.Decimal, match func(entity.Order) bool) int64 {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	var n int64
	for i := range r.s.orders {
		o := &r.s.orders[i]
		if o.UserID == userID && match(*o) {
			o.UnitCost = cost
			o.UpdatedAt = now
			n++
		}
	}
	return n
}

func (r *OrderRepository) KnownCosts(_ context.Context, userID string) ([]entity.ProductCost, error) {
	r.s.mu.RLock()
	rows := make([]entity.Order, 0)
	for _, o := range r.s.orders {
		if o.UserID == userID && o.UnitCost.IsPositive() {
			rows = append(rows, o)
		}
	}
	r.s.mu.RUnlock()
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].UpdatedAt.Before(rows[j].UpdatedAt) })

	latest := make(map[finance.CostKey]decimal.Decimal)
	order := make([]finance.CostKey, 0)
	for _, o := range rows {
		k := finance.KeyOf(o.SKU, o.ProductName)
		if _, ok := latest[k]; !ok {
			order = append(order, k)
		}
		latest[k] = o.UnitCost
	}
	out := make([]entity.ProductCost, 0, len(order))
	for _, k := range order {
		out = append(out, entity.ProductCost{SKU: k.SKU, ProductName: k.ProductName, UnitCost: latest[k]})
	}
	return out, nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.TrimSpace(v)] = struct{}{}
	}
	return set
}

// SettingsRepository configuraciones en memoria. Create/Update rechazan un segundo default por
// marketplace igual que el índice único parcial de PostgreSQL.
type SettingsRepository struct{ s *Store }

func (r *SettingsRepository) checkDefault(s *entity.Settings) error {
	if !s.IsDefault {
		return nil
	}
	for _, other := range r.s.settings {
		if other.ID != s.ID && other.UserID == s.UserID && other.Marketplace == s.Marketplace && other.IsDefault {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func (r *SettingsRepository) Create(_ context.Context, s *entity.Settings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkDefault(s); err != nil {
		return err
	}
	r.s.settings[s.ID] = *s
	return nil
}

func (r *SettingsRepository) Update(_ context.Context, s *entity.Settings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.settings[s.ID]
	if !ok || existing.UserID != s.UserID {
		return domain.ErrNotFound
	}
	if err := r.checkDefault(s); err != nil {
		return err
	}
	r.s.settings[s.ID] = *s
	return nil
}

func (r *SettingsRepository) GetByID(_ context.Context, userID, id string) (*entity.Settings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.settings[id]
	if !ok || s.UserID != userID {
		return nil, nil
	}
	return &s, nil
}

func (r *SettingsRepository) GetDefault(_ context.Context, userID, marketplace string) (*entity.Settings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, s := range r.s.settings {
		if s.UserID == userID && s.Marketplace == marketplace && s.IsDefault {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (r *SettingsRepository) ListByUser(_ context.Context, userID string) ([]entity.Settings, error) {
	r.s.mu.RLock()
	out := make([]entity.Settings, 0)
	for _, s := range r.s.settings {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Marketplace != out[j].Marketplace {
			return out[i].Marketplace < out[j].Marketplace
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *SettingsRepository) ClearDefault(_ context.Context, userID, marketplace string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, s := range r.s.settings {
		if s.UserID == userID && s.Marketplace == marketplace && s.IsDefault {
			s.IsDefault = false
			r.s.settings[id] = s
		}
	}
	return nil
}

func (r *SettingsRepository) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.settings[id]
	if !ok || s.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.s.settings, id)
	return nil
}

// FixedCostRepository costos fijos en memoria.
type FixedCostRepository struct{ s *Store }

func (r *FixedCostRepository) Create(_ context.Context, c *entity.FixedCost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.fixedCosts[c.ID] = *c
	return nil
}

func (r *FixedCostRepository) Update(_ context.Context, c *entity.FixedCost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.fixedCosts[c.ID]
	if !ok || existing.UserID != c.UserID {
		return domain.ErrNotFound
	}
	r.s.fixedCosts[c.ID] = *c
	return nil
}

func (r *FixedCostRepository) GetByID(_ context.Context, userID, id string) (*entity.FixedCost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.fixedCosts[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	return &c, nil
}

func (r *FixedCostRepository) ListByUser(_ context.Context, userID string) ([]entity.FixedCost, error) {
	r.s.mu.RLock()
	out := make([]entity.FixedCost, 0)
	for _, c := range r.s.fixedCosts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *FixedCostRepository) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.fixedCosts[id]
	if !ok || c.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.s.fixedCosts, id)
	return nil
}

// FixedCostSettingsRepository estimaciones mensuales en memoria.
type FixedCostSettingsRepository struct{ s *Store }

func (r *FixedCostSettingsRepository) Get(_ context.Context, userID string) (*entity.FixedCostSettings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	fs, ok := r.s.fixedSettings[userID]
	if !ok {
		return nil, nil
	}
	return &fs, nil
}

func (r *FixedCostSettingsRepository) Upsert(_ context.Context, fs *entity.FixedCostSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.fixedSettings[fs.UserID] = *fs
	return nil
}

// SettlementRepository liquidaciones de TikTok en memoria.
type SettlementRepository struct{ s *Store }

func (r *SettlementRepository) ListPage(_ context.Context, userID string, dr repository.DateRange, limit, offset int) ([]entity.TikTokSettlement, error) {
	r.s.mu.RLock()
	matched := make([]entity.TikTokSettlement, 0)
	for _, st := range r.s.settlements {
		if st.UserID == userID && inRange(st.SettledAt, dr) {
			matched = append(matched, st)
		}
	}
	r.s.mu.RUnlock()
	sortDesc(matched, func(s entity.TikTokSettlement) time.Time { return s.SettledAt }, func(s entity.TikTokSettlement) string { return s.ID })
	return window(matched, limit, offset), nil
}

func (r *SettlementRepository) InsertBatch(_ context.Context, items []entity.TikTokSettlement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.settlements = append(r.s.settlements, items...)
	return nil
}

// StatementRepository lotes de pago de TikTok en memoria.
type StatementRepository struct{ s *Store }

func (r *StatementRepository) ListPage(_ context.Context, userID string, dr repository.DateRange, limit, offset int) ([]entity.TikTokStatement, error) {
	r.s.mu.RLock()
	matched := make([]entity.TikTokStatement, 0)
	for _, st := range r.s.statements {
		if st.UserID == userID && inRange(st.PaidAt, dr) {
			matched = append(matched, st)
		}
	}
	r.s.mu.RUnlock()
	sortDesc(matched, func(s entity.TikTokStatement) time.Time { return s.PaidAt }, func(s entity.TikTokStatement) string { return s.ID })
	return window(matched, limit, offset), nil
}

func (r *StatementRepository) InsertBatch(_ context.Context, items []entity.TikTokStatement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.statements = append(r.s.statements, items...)
	return nil
}

// CashFlowRepository movimientos de caja en memoria.
type CashFlowRepository struct{ s *Store }

func (r *CashFlowRepository) Create(_ context.Context, e *entity.CashFlowEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.cashFlow[e.ID] = *e
	return nil
}

func (r *CashFlowRepository) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.cashFlow[id]
	if !ok || e.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.s.cashFlow, id)
	return nil
}

func (r *CashFlowRepository) ListPage(_ context.Context, userID string, dr repository.DateRange, limit, offset int) ([]entity.CashFlowEntry, error) {
	r.s.mu.RLock()
	matched := make([]entity.CashFlowEntry, 0)
	for _, e := range r.s.cashFlow {
		if e.UserID == userID && inRange(e.Date, dr) {
			matched = append(matched, e)
		}
	}
	r.s.mu.RUnlock()
	sortDesc(matched, func(e entity.CashFlowEntry) time.Time { return e.Date }, func(e entity.CashFlowEntry) string { return e.ID })
	return window(matched, limit, offset), nil
}

func (r *CashFlowRepository) BalanceBefore(_ context.Context, userID string, day time.Time) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, e := range r.s.cashFlow {
		if e.UserID == userID && e.Date.Before(day) {
			total = total.Add(e.Signed())
		}
	}
	return total, nil
}
