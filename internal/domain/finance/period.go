package finance

import (
	"fmt"
	"time"

	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Period rango [Start, End] inclusivo con resolución de día, en la zona horaria de Start.
type Period struct {
	Start time.Time `json:"inicio"`
	End   time.Time `json:"fim"`
}

// NewPeriod trunca ambos extremos a la fecha y valida el orden.
func NewPeriod(start, end time.Time) (Period, error) {
	loc := start.Location()
	s := dateOf(start, loc)
	e := dateOf(end.In(loc), loc)
	if e.Before(s) {
		return Period{}, fmt.Errorf("%w: el fin del período es anterior al inicio", domain.ErrInvalidInput)
	}
	return Period{Start: s, End: e}, nil
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Contains indica si el día de t (en la zona del período) cae dentro del rango.
func (p Period) Contains(t time.Time) bool {
	d := dateOf(t.In(p.Start.Location()), p.Start.Location())
	return !d.Before(p.Start) && !d.After(p.End)
}

// Range devuelve el intervalo semiabierto [from, until) usado por los repositorios.
func (p Period) Range() (from, until time.Time) {
	return p.Start, p.End.AddDate(0, 0, 1)
}

// Days cantidad de días del período, extremos incluidos.
func (p Period) Days() int {
	return civilDays(p.End) - civilDays(p.Start) + 1
}

// civilDays días desde epoch de la fecha civil; ignora cambios de horario.
func civilDays(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func daysInMonth(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FullMonths devuelve la cantidad de meses calendario completos cuando el período empieza el día 1
// y termina el último día de un mes; 0 en otro caso.
func (p Period) FullMonths() int {
	if p.Start.Day() != 1 || p.End.Day() != daysInMonth(p.End.Year(), p.End.Month()) {
		return 0
	}
	return (p.End.Year()*12 + int(p.End.Month())) - (p.Start.Year()*12 + int(p.Start.Month())) + 1
}

// FixedCostFactor multiplicador de los costos fijos mensuales: meses completos, o
// días del período / días del mes de inicio.
func (p Period) FixedCostFactor() decimal.Decimal {
	if n := p.FullMonths(); n > 0 {
		return decimal.NewFromInt(int64(n))
	}
	dim := daysInMonth(p.Start.Year(), p.Start.Month())
	return decimal.NewFromInt(int64(p.Days())).Div(decimal.NewFromInt(int64(dim)))
}

// Preset nombre de período predefinido.
type Preset string

const (
	PresetCurrentMonth   Preset = "current_month"
	PresetLastMonth      Preset = "last_month"
	PresetLast3Months    Preset = "last_3_months"
	PresetLast30Days     Preset = "last_30_days"
	PresetCurrentQuarter Preset = "current_quarter"
	PresetCurrentYear    Preset = "current_year"
	PresetCustom         Preset = "custom"
)

// ResolvePeriod calcula el período de un preset relativo a now (en la zona de now).
// Para PresetCustom usa start y end; los demás presets los ignoran.
func ResolvePeriod(preset Preset, now time.Time, start, end *time.Time) (Period, error) {
	loc := now.Location()
	today := dateOf(now, loc)
	y, m, _ := today.Date()
	firstOfMonth := time.Date(y, m, 1, 0, 0, 0, 0, loc)

	switch preset {
	case "", PresetCurrentMonth:
		return Period{Start: firstOfMonth, End: firstOfMonth.AddDate(0, 1, -1)}, nil
	case PresetLastMonth:
		s := firstOfMonth.AddDate(0, -1, 0)
		return Period{Start: s, End: firstOfMonth.AddDate(0, 0, -1)}, nil
	case PresetLast3Months:
		return Period{Start: firstOfMonth.AddDate(0, -2, 0), End: firstOfMonth.AddDate(0, 1, -1)}, nil
	case PresetLast30Days:
		return Period{Start: today.AddDate(0, 0, -29), End: today}, nil
	case PresetCurrentQuarter:
		qm := time.Month((int(m)-1)/3*3 + 1)
		s := time.Date(y, qm, 1, 0, 0, 0, 0, loc)
		return Period{Start: s, End: s.AddDate(0, 3, -1)}, nil
	case PresetCurrentYear:
		return Period{Start: time.Date(y, 1, 1, 0, 0, 0, 0, loc), End: time.Date(y, 12, 31, 0, 0, 0, 0, loc)}, nil
	case PresetCustom:
		if start == nil || end == nil {
			return Period{}, fmt.Errorf("%w: período personalizado requiere inicio y fin", domain.ErrInvalidInput)
		}
		return NewPeriod(start.In(loc), end.In(loc))
	}
	return Period{}, fmt.Errorf("%w: preset de período desconocido %q", domain.ErrInvalidInput, preset)
}
