// Package memory implementa los puertos de repositorio en memoria del proceso.
// Se usa con STORAGE_DRIVER=memory y como doble de prueba en los tests de casos de uso.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/seller-finance-api/internal/application/ports"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
)

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu            sync.RWMutex
	txMu          sync.Mutex
	users         map[string]entity.User
	orders        []entity.Order
	settings      map[string]entity.Settings
	fixedCosts    map[string]entity.FixedCost
	fixedSettings map[string]entity.FixedCostSettings
	settlements   []entity.TikTokSettlement
	statements    []entity.TikTokStatement
	cashFlow      map[string]entity.CashFlowEntry
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:         make(map[string]entity.User),
		settings:      make(map[string]entity.Settings),
		fixedCosts:    make(map[string]entity.FixedCost),
		fixedSettings: make(map[string]entity.FixedCostSettings),
		cashFlow:      make(map[string]entity.CashFlowEntry),
	}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s} }
func (s *Store) Orders() *OrderRepository { return &OrderRepository{s} }
func (s *Store) Settings() *SettingsRepository { return &SettingsRepository{s} }
func (s *Store) FixedCosts() *FixedCostRepository { return &FixedCostRepository{s} }
func (s *Store) FixedCostSettings() *FixedCostSettingsRepository { return &FixedCostSettingsRepository{s} }
func (s *Store) Settlements() *SettlementRepository { return &SettlementRepository{s} }
func (s *Store) Statements() *StatementRepository { return &StatementRepository{s} }
func (s *Store) CashFlow() *CashFlowRepository { return &CashFlowRepository{s} }
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s} }

type snapshot struct {
	users         map[string]entity.User
	orders        []entity.Order
	settings      map[string]entity.Settings
	fixedCosts    map[string]entity.FixedCost
	fixedSettings map[string]entity.FixedCostSettings
	settlements   []entity.TikTokSettlement
	statements    []entity.TikTokStatement
	cashFlow      map[string]entity.CashFlowEntry
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		users:         cloneMap(s.users),
		orders:        append([]entity.Order(nil), s.orders...),
		settings:      cloneMap(s.settings),
		fixedCosts:    cloneMap(s.fixedCosts),
		fixedSettings: cloneMap(s.fixedSettings),
		settlements:   append([]entity.TikTokSettlement(nil), s.settlements...),
		statements:    append([]entity.TikTokStatement(nil), s.statements...),
		cashFlow:      cloneMap(s.cashFlow),
	}
}

func (s *Store) restore(sn snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = sn.users
	s.orders = sn.orders
	s.settings = sn.settings
	s.fixedCosts = sn.fixedCosts
	s.fixedSettings = sn.fixedSettings
	s.settlements = sn.settlements
	s.statements = sn.statements
	s.cashFlow = sn.cashFlow
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// TxRunner transacción en memoria: serializa las transacciones y restaura el estado si fn falla.
type TxRunner struct{ s *Store }

// Run implementa ports.TxRunner.
func (t *TxRunner) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()
	sn := t.s.snapshot()
	err := fn(ports.TxRepos{
		Orders:      t.s.Orders(),
		Settings:    t.s.Settings(),
		Settlements: t.s.Settlements(),
		Statements:  t.s.Statements(),
	})
	if err != nil {
		t.s.restore(sn)
	}
	return err
}

// window aplica limit/offset sobre una lista ya ordenada.
func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]T, end-offset)
	copy(out, items[offset:end])
	return out
}

func inRange(t time.Time, r repository.DateRange) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.Until != nil && !t.Before(*r.Until) {
		return false
	}
	return true
}

func sortDesc[T any](items []T, at func(T) time.Time, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ai, aj := at(items[i]), at(items[j])
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		return id(items[i]) < id(items[j])
	})
}

var (
	_ ports.TxRunner                         = (*TxRunner)(nil)
	_ repository.UserRepository              = (*UserRepository)(nil)
	_ repository.OrderRepository             = (*OrderRepository)(nil)
	_ repository.SettingsRepository          = (*SettingsRepository)(nil)
	_ repository.FixedCostRepository         = (*FixedCostRepository)(nil)
	_ repository.FixedCostSettingsRepository = (*FixedCostSettingsRepository)(nil)
	_ repository.TikTokSettlementRepository  = (*SettlementRepository)(nil)
	_ repository.TikTokStatementRepository   = (*StatementRepository)(nil)
	_ repository.CashFlowRepository          = (*CashFlowRepository)(nil)
)
