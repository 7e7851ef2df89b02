package numeric_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-finance-api/pkg/numeric"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNormalize_DetectaSeparadorDecimal(t *testing.T) {
	cases := map[string]string{
		"1.234,56":     "1234.56",
		"35,50":        "35.50",
		"35.50":        "35.50",
		"1,234.56":     "1234.56",
		"R$ 1.234,56":  "1234.56",
		"12.345.678,9": "12345678.9",
		"-7,5":         "-7.5",
	}
	for in, want := range cases {
		assert.Equal(t, want, numeric.Normalize(in), "entrada %q", in)
	}
}

func TestParse_VacioValeCero(t *testing.T) {
	for _, in := range []string{"", "   ", "\t"} {
		v, err := numeric.Parse(in, numeric.Currency())
		require.NoError(t, err)
		assert.True(t, v.IsZero())
	}
}

func TestParse_FormatoInvalido(t *testing.T) {
	for _, in := range []string{"abc", "1.2.3", "12a", "--5", "1,2,3,4.5.6"} {
		_, err := numeric.Parse(in, numeric.Options{Field: "custo"})
		require.Error(t, err, "entrada %q", in)
		assert.True(t, numeric.IsValidationError(err))
	}
}

func TestParse_LimitesYPrecision(t *testing.T) {
	_, err := numeric.ParseCurrency("10000000")
	assert.Error(t, err, "por encima del máximo de moneda")

	_, err = numeric.ParseCurrency("-1")
	assert.Error(t, err, "moneda no admite negativos")

	_, err = numeric.ParseCurrency("1,12345")
	assert.Error(t, err, "más de 4 decimales")

	v, err := numeric.ParseCurrency("9.999.999,99")
	require.NoError(t, err)
	assert.True(t, v.Equal(dec("9999999.99")))

	v, err = numeric.ParseQuantity("999999")
	require.NoError(t, err)
	assert.True(t, v.Equal(dec("999999")))

	_, err = numeric.ParseQuantity("1000000")
	assert.Error(t, err)
}

func TestParsePercentage_DevuelveFraccion(t *testing.T) {
	v, err := numeric.ParsePercentage("35,5")
	require.NoError(t, err)
	assert.True(t, v.Equal(dec("0.355")))

	_, err = numeric.ParsePercentage("100,01")
	assert.Error(t, err)
}

func TestParseBatchCost_ExigePositivo(t *testing.T) {
	_, err := numeric.ParseBatchCost("0")
	require.Error(t, err)
	var ve *numeric.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "mayor que cero")

	v, err := numeric.ParseBatchCost("12,30")
	require.NoError(t, err)
	assert.True(t, v.Equal(dec("12.3")))
}

func TestSafe_NuncaFalla(t *testing.T) {
	assert.True(t, numeric.Safe("xyz", numeric.Currency()).IsZero())
	assert.True(t, numeric.Safe("20000000", numeric.Currency()).IsZero())
	assert.True(t, numeric.Safe("1.234,5", numeric.Currency()).Equal(dec("1234.5")))
	assert.True(t, numeric.SafeLoose("-15,75").Equal(dec("-15.75")))
}

func TestFormatBR(t *testing.T) {
	assert.Equal(t, "1.234,56", numeric.FormatBR(dec("1234.56"), 2))
	assert.Equal(t, "0,50", numeric.FormatBR(dec("0.5"), 2))
	assert.Equal(t, "-1.000.000,00", numeric.FormatBR(dec("-1000000"), 2))
	assert.Equal(t, "999,00", numeric.FormatBR(dec("999"), 2))
}

func TestFormatBR_IdaYVuelta(t *testing.T) {
	values := []string{"0", "0.01", "1", "12.34", "999.99", "1000", "1234.56", "9999999.99", "43210.5"}
	for _, s := range values {
		x := dec(s)
		got, err := numeric.ParseCurrency(numeric.FormatBR(x, 2))
		require.NoError(t, err, "valor %s", s)
		assert.True(t, got.Equal(x.Round(2)), "valor %s -> %s", s, got)
	}
}
