// Package costs propaga las ediciones de costo unitario a los pedidos almacenados.
package costs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/seller-finance-api/internal/application/ports"
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/costsync"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
	"github.com/jhoicas/seller-finance-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// deferredWriteTimeout tope de una escritura diferida (ya no hay request que la acote).
const deferredWriteTimeout = 30 * time.Second

// BatchResult resultado de una edición en lote. Los sub-lotes por SKU y por nombre se ejecutan
// por separado; si uno falla el otro no se revierte y Partial queda en true.
type BatchResult struct {
	Affected    int64    `json:"affected"`
	Failed      []string `json:"failed,omitempty"`
	SKUGroup    int      `json:"sku_group"`
	NameGroup   int      `json:"name_group"`
	SyncVersion int64    `json:"sync_version"`
	Partial     bool     `json:"partial"`
}

type pendingKey struct {
	userID string
	key    finance.CostKey
}

// UseCase escrituras de costo.
type UseCase struct {
	orders    repository.OrderRepository
	versions  ports.SyncVersionStore
	debouncer *costsync.Debouncer[pendingKey]
	log       *logger.Logger

	mu     sync.Mutex
	fields map[pendingKey]*costsync.Field // valores aceptados con escritura diferida en curso
}

// New construye el caso de uso. debounce es la ventana de silencio de ScheduleCommit.
func New(orders repository.OrderRepository, versions ports.SyncVersionStore, debounce time.Duration, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		orders:    orders,
		versions:  versions,
		debouncer: costsync.NewDebouncer[pendingKey](debounce),
		log:       log.Named("costs"),
		fields:    make(map[pendingKey]*costsync.Field),
	}
}

// Commit escribe cost en todas las líneas de key y sube la versión de sincronización.
func (uc *UseCase) Commit(ctx context.Context, userID string, key finance.CostKey, cost decimal.Decimal) (int64, int64, error) {
	if key.IsZero() {
		return 0, 0, fmt.Errorf("%w: se requiere sku o nombre de producto", domain.ErrInvalidInput)
	}
	if cost.IsNegative() {
		return 0, 0, fmt.Errorf("%w: el costo no puede ser negativo", domain.ErrInvalidInput)
	}
	// una clave pendiente queda obsoleta frente a una escritura inmediata
	pk := pendingKey{userID: userID, key: key}
	uc.debouncer.Cancel(pk)
	uc.mu.Lock()
	delete(uc.fields, pk)
	uc.mu.Unlock()
	return uc.commit(ctx, userID, key, cost)
}

func (uc *UseCase) commit(ctx context.Context, userID string, key finance.CostKey, cost decimal.Decimal) (int64, int64, error) {
	var (
		n   int64
		err error
	)
	if key.IsSKU() {
		n, err = uc.orders.UpdateCostBySKU(ctx, userID, []string{key.SKU}, cost)
	} else {
		n, err = uc.orders.UpdateCostByName(ctx, userID, []string{key.ProductName}, cost)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("costs: actualizar %s: %w", key, err)
	}
	v, err := uc.versions.Bump(ctx, userID)
	if err != nil {
		return n, 0, fmt.Errorf("costs: versión de sincronización: %w", err)
	}
	return n, v, nil
}

// ScheduleCommit agenda la escritura; solo el último valor dentro de la ventana llega al almacén.
// Los errores de la escritura diferida se registran en el log.
func (uc *UseCase) ScheduleCommit(userID string, key finance.CostKey, cost decimal.Decimal) error {
	if key.IsZero() {
		return fmt.Errorf("%w: se requiere sku o nombre de producto", domain.ErrInvalidInput)
	}
	if cost.IsNegative() {
		return fmt.Errorf("%w: el costo no puede ser negativo", domain.ErrInvalidInput)
	}
	pk := pendingKey{userID: userID, key: key}
	uc.mu.Lock()
	f, ok := uc.fields[pk]
	if !ok {
		f = costsync.NewField(key, decimal.Zero, 0)
		uc.fields[pk] = f
	}
	f.Type(cost)
	uc.mu.Unlock()

	uc.debouncer.Schedule(pk, func() {
		ctx, cancel := context.WithTimeout(context.Background(), deferredWriteTimeout)
		defer cancel()
		n, v, err := uc.commit(ctx, userID, key, cost)
		uc.settle(pk, cost, v, err == nil)
		if err != nil {
			uc.log.Error().Err(err).Str("user_id", userID).Str("key", key.String()).Msg("escritura diferida de costo falló")
			return
		}
		uc.log.Debug().Str("user_id", userID).Str("key", key.String()).Int64("affected", n).Int64("sync_version", v).Msg("costo confirmado")
	})
	return nil
}

// BatchCommit aplica el mismo costo a varias claves: un sub-lote por SKU y otro por nombre.
// cost debe ser estrictamente positivo.
func (uc *UseCase) BatchCommit(ctx context.Context, userID string, keys []finance.CostKey, cost decimal.Decimal) (*BatchResult, error) {
	if !cost.IsPositive() {
		return nil, fmt.Errorf("%w: el costo del lote debe ser mayor que cero", domain.ErrInvalidInput)
	}
	var skus, names []string
	seen := make(map[finance.CostKey]struct{}, len(keys))
	for _, k := range keys {
		if k.IsZero() {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if k.IsSKU() {
			skus = append(skus, k.SKU)
		} else {
			names = append(names, k.ProductName)
		}
	}
	if len(skus) == 0 && len(names) == 0 {
		return nil, fmt.Errorf("%w: no se seleccionó ningún producto", domain.ErrInvalidInput)
	}

	res := &BatchResult{SKUGroup: len(skus), NameGroup: len(names)}
	var firstErr error
	if len(skus) > 0 {
		n, err := uc.orders.UpdateCostBySKU(ctx, userID, skus, cost)
		if err != nil {
			firstErr = err
			res.Failed = append(res.Failed, skus...)
			uc.log.Warn().Err(err).Str("user_id", userID).Int("keys", len(skus)).Msg("lote de costos por SKU falló")
		} else {
			res.Affected += n
		}
	}
	if len(names) > 0 {
		n, err := uc.orders.UpdateCostByName(ctx, userID, names, cost)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			res.Failed = append(res.Failed, names...)
			uc.log.Warn().Err(err).Str("user_id", userID).Int("keys", len(names)).Msg("lote de costos por nombre falló")
		} else {
			res.Affected += n
		}
	}

	if len(res.Failed) == len(skus)+len(names) {
		return nil, fmt.Errorf("costs: lote: %w", firstErr)
	}
	res.Partial = len(res.Failed) > 0

	v, err := uc.versions.Bump(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("costs: versión de sincronización: %w", err)
	}
	res.SyncVersion = v
	return res, nil
}

// settle cierra el campo de una escritura diferida ya ejecutada. Si mientras tanto llegó otro
// valor el campo sigue pendiente con ese valor.
func (uc *UseCase) settle(pk pendingKey, cost decimal.Decimal, version int64, ok bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	f, found := uc.fields[pk]
	if !found || !f.Value().Equal(cost) {
		return
	}
	if ok {
		f.Observe(cost, version, pk.key)
	}
	delete(uc.fields, pk)
}

// PendingCosts costos aceptados del usuario cuya escritura diferida aún no llegó al almacén.
func (uc *UseCase) PendingCosts(userID string) map[finance.CostKey]decimal.Decimal {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	out := make(map[finance.CostKey]decimal.Decimal)
	for pk, f := range uc.fields {
		if pk.userID == userID && f.Dirty() {
			out[pk.key] = f.Value()
		}
	}
	return out
}

// SyncVersion versión vigente del usuario.
func (uc *UseCase) SyncVersion(ctx context.Context, userID string) (int64, error) {
	return uc.versions.Current(ctx, userID)
}

// Pending cantidad de escrituras diferidas sin ejecutar.
func (uc *UseCase) Pending() int { return uc.debouncer.Pending() }

// Flush ejecuta las escrituras diferidas pendientes; se llama al apagar el servidor.
func (uc *UseCase) Flush() { uc.debouncer.Flush() }
