// Package cache guarda la versión de sincronización de costos y la configuración por defecto
// de cada usuario. Usa Redis cuando está habilitado y memoria del proceso en otro caso.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
)

type settingsEntry struct {
	value     entity.Settings
	expiresAt time.Time
}

// MemoryStore implementación en memoria (instancia única o Redis caído).
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	versions map[string]int64
	settings map[string]settingsEntry
	now      func() time.Time
}

// NewMemoryStore crea el almacén; ttl <= 0 desactiva la caché de configuraciones.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		versions: make(map[string]int64),
		settings: make(map[string]settingsEntry),
		now:      time.Now,
	}
}

// Current versión actual (0 si nunca hubo escrituras).
func (m *MemoryStore) Current(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versions[userID], nil
}

// Bump incrementa y devuelve la versión.
func (m *MemoryStore) Bump(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions[userID]++
	return m.versions[userID], nil
}

// observe sube la versión local al menos hasta v (para no retroceder al caer a memoria).
func (m *MemoryStore) observe(userID string, v int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v > m.versions[userID] {
		m.versions[userID] = v
	}
}

func settingsKey(userID, marketplace string) string { return userID + "|" + marketplace }

// GetDefault devuelve la configuración en caché si no expiró.
func (m *MemoryStore) GetDefault(_ context.Context, userID, marketplace string) (*entity.Settings, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.settings[settingsKey(userID, marketplace)]
	if !ok || m.now().After(e.expiresAt) {
		return nil, false
	}
	s := e.value
	return &s, true
}

// SetDefault guarda una copia de s.
func (m *MemoryStore) SetDefault(_ context.Context, userID, marketplace string, s *entity.Settings) {
	if s == nil || m.ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[settingsKey(userID, marketplace)] = settingsEntry{value: *s, expiresAt: m.now().Add(m.ttl)}
}

// Invalidate descarta las configuraciones en caché del usuario.
func (m *MemoryStore) Invalidate(_ context.Context, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mk := range []string{entity.MarketplaceShopee, entity.MarketplaceTikTok} {
		delete(m.settings, settingsKey(userID, mk))
	}
}
