package importer

import (
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/entity"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// State etapa del flujo de importación.
type State string

const (
	StateUpload  State = "upload"
	StateMapping State = "mapping"
	StatePreview State = "preview"
	StateSuccess State = "success"
)

// Modos de confirmación.
const (
	ModeAppend  = "append"
	ModeReplace = "replace"
)

// transitions destinos permitidos desde cada estado. Repetir mapping o preview está permitido
// para corregir el mapeo o completar costos.
var transitions = map[State][]State{
	StateUpload:  {StateMapping},
	StateMapping: {StateMapping, StatePreview},
	StatePreview: {StateMapping, StatePreview, StateSuccess},
	StateSuccess: {},
}

// CanTransition indica si from -> to es válido.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Session estado de una importación en curso. mu serializa las operaciones sobre la sesión.
type Session struct {
	mu sync.Mutex

	ID          string
	UserID      string
	FileName    string
	Marketplace string
	State       State
	Headers     []string
	Rows        []map[string]string
	Suggested   map[Field]string
	Mapping     map[Field]string
	Costs       map[finance.CostKey]decimal.Decimal // costos informados durante la importación
	Orders      []entity.Order
	Missing     []finance.CostKey
	Skipped     int
	Result      *dto.ImportCommitResponse
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

func (s *Session) advance(to State) error {
	if !CanTransition(s.State, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, s.State, to)
	}
	s.State = to
	return nil
}

// MissingCostsError la vista previa encontró productos sin costo conocido.
// Unwrap devuelve domain.ErrMissingCosts.
type MissingCostsError struct {
	Keys []finance.CostKey
}

func (e *MissingCostsError) Error() string {
	return fmt.Sprintf("%s (%d)", domain.ErrMissingCosts.Error(), len(e.Keys))
}

func (e *MissingCostsError) Unwrap() error { return domain.ErrMissingCosts }
