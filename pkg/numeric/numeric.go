// Package numeric interpreta montos escritos a mano (formato brasileño "1.234,56" o simple
// "35,50"/"35.50") y los valida contra límites y precisión antes de llegar al motor de cálculo.
package numeric

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var plainNumber = regexp.MustCompile(`^-?\d+\.?\d*$`)

var hundred = decimal.NewFromInt(100)

// ValidationError error de entrada recuperable; Message es apto para mostrar junto al campo.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// IsValidationError indica si err (o algo que envuelve) es un *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Options reglas de validación. MaxDecimals = 0 significa sin límite de decimales.
type Options struct {
	Field       string
	Bounded     bool
	Min         decimal.Decimal
	Max         decimal.Decimal
	MaxDecimals int
	Positive    bool // exige valor estrictamente mayor que cero
}

// WithField devuelve una copia de las opciones con el nombre de campo indicado.
func (o Options) WithField(field string) Options {
	o.Field = field
	return o
}

// Currency montos en reales: 0..9.999.999,99 con hasta 4 decimales.
func Currency() Options {
	return Options{
		Bounded:     true,
		Min:         decimal.Zero,
		Max:         decimal.RequireFromString("9999999.99"),
		MaxDecimals: 4,
	}
}

// Percentage porcentajes 0..100 (ParsePercentage los devuelve como fracción 0..1).
func Percentage() Options {
	return Options{
		Bounded:     true,
		Min:         decimal.Zero,
		Max:         hundred,
		MaxDecimals: 4,
	}
}

// Quantity cantidades 0..999.999 con hasta 4 decimales.
func Quantity() Options {
	return Options{
		Bounded:     true,
		Min:         decimal.Zero,
		Max:         decimal.NewFromInt(999999),
		MaxDecimals: 4,
	}
}

// BatchCost costo aplicado en lote: reglas de Currency y además > 0.
func BatchCost() Options {
	o := Currency()
	o.Positive = true
	return o
}

// Normalize convierte el texto a la forma "-1234.56" decidiendo el separador decimal por la
// última aparición de ',' frente a '.'. No valida el resultado.
func Normalize(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}
	return s
}

// Parse interpreta input según opts. Texto vacío o solo espacios es válido y vale 0.
func Parse(input string, opts Options) (decimal.Decimal, error) {
	if strings.TrimSpace(input) == "" {
		return decimal.Zero, nil
	}
	normalized := Normalize(input)
	if !plainNumber.MatchString(normalized) {
		return decimal.Zero, &ValidationError{Field: opts.Field, Message: "formato numérico inválido"}
	}
	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: opts.Field, Message: "formato numérico inválido"}
	}
	if opts.MaxDecimals > 0 && decimalPlaces(normalized) > opts.MaxDecimals {
		return decimal.Zero, &ValidationError{
			Field:   opts.Field,
			Message: fmt.Sprintf("máximo de %d casas decimales", opts.MaxDecimals),
		}
	}
	if opts.Bounded {
		if value.LessThan(opts.Min) {
			return decimal.Zero, &ValidationError{
				Field:   opts.Field,
				Message: "el valor debe ser como mínimo " + FormatBR(opts.Min, 2),
			}
		}
		if value.GreaterThan(opts.Max) {
			return decimal.Zero, &ValidationError{
				Field:   opts.Field,
				Message: "el valor debe ser como máximo " + FormatBR(opts.Max, 2),
			}
		}
	}
	if opts.Positive && !value.IsPositive() {
		return decimal.Zero, &ValidationError{Field: opts.Field, Message: "el valor debe ser mayor que cero"}
	}
	return value, nil
}

// ParseCurrency atajo para Parse con Currency().
func ParseCurrency(input string) (decimal.Decimal, error) { return Parse(input, Currency()) }

// ParseQuantity atajo para Parse con Quantity().
func ParseQuantity(input string) (decimal.Decimal, error) { return Parse(input, Quantity()) }

// ParseBatchCost atajo para Parse con BatchCost().
func ParseBatchCost(input string) (decimal.Decimal, error) { return Parse(input, BatchCost()) }

// ParsePercentage valida 0..100 y devuelve la fracción (35 -> 0.35).
func ParsePercentage(input string) (decimal.Decimal, error) {
	v, err := Parse(input, Percentage())
	if err != nil {
		return decimal.Zero, err
	}
	return v.Div(hundred), nil
}

// Safe nunca falla: cualquier entrada inválida vale 0. Pensado para cálculos en vivo y celdas importadas.
func Safe(input string, opts Options) decimal.Decimal {
	v, err := Parse(input, opts)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// SafeLoose como Safe pero sin límites ni precisión (montos de planillas de marketplace, que pueden ser negativos).
func SafeLoose(input string) decimal.Decimal {
	return Safe(input, Options{})
}

// FormatBR formatea en estilo brasileño con separador de miles: 1234.5 -> "1.234,50".
func FormatBR(d decimal.Decimal, places int32) string {
	fixed := d.Abs().StringFixed(places)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.Round(places).IsNegative() {
		b.WriteByte('-')
	}
	n := len(intPart)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(intPart[i])
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

func decimalPlaces(normalized string) int {
	_, frac, found := strings.Cut(normalized, ".")
	if !found {
		return 0
	}
	return len(frac)
}
