// Package costsync sincroniza el costo editable de la tabla con el valor confirmado en el servidor.
package costsync

import (
	"sync"

	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// Field estado de un campo de costo editable. Contrato (valor, versión):
// mientras el usuario escribe, el valor tecleado se conserva; cuando el servidor publica una
// versión nueva o el campo pasa a representar otra clave, el valor del servidor gana siempre.
type Field struct {
	mu       sync.Mutex
	key      finance.CostKey
	value    decimal.Decimal
	dirty    bool
	version  int64
	observed bool
}

// NewField crea un campo ligado a key con el valor inicial del servidor.
func NewField(key finance.CostKey, serverValue decimal.Decimal, syncVersion int64) *Field {
	return &Field{key: key, value: serverValue, version: syncVersion, observed: true}
}

// Type registra un valor tecleado y marca el campo como sucio.
func (f *Field) Type(v decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
	f.dirty = true
}

// Observe recibe el estado del servidor y devuelve el valor a mostrar.
func (f *Field) Observe(serverValue decimal.Decimal, syncVersion int64, boundKey finance.CostKey) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.observed || syncVersion != f.version || boundKey != f.key || !f.dirty {
		f.key = boundKey
		f.version = syncVersion
		f.value = serverValue
		f.dirty = false
		f.observed = true
	}
	return f.value
}

// Value valor actual (tecleado o del servidor).
func (f *Field) Value() decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Dirty indica si hay un valor tecleado sin resincronizar.
func (f *Field) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

// Key clave a la que está ligado el campo.
func (f *Field) Key() finance.CostKey {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key
}
