package finance_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestNewPeriod_TruncaYValida(t *testing.T) {
	p, err := finance.NewPeriod(time.Date(2024, 3, 5, 15, 30, 0, 0, time.UTC), time.Date(2024, 3, 7, 1, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, date(2024, 3, 5), p.Start)
	assert.Equal(t, date(2024, 3, 7), p.End)
	assert.Equal(t, 3, p.Days())
	assert.True(t, p.Contains(time.Date(2024, 3, 7, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(date(2024, 3, 8)))

	from, until := p.Range()
	assert.Equal(t, date(2024, 3, 5), from)
	assert.Equal(t, date(2024, 3, 8), until)

	_, err = finance.NewPeriod(date(2024, 3, 7), date(2024, 3, 5))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestFixedCostFactor(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
		want       string
	}{
		{"mes completo", date(2024, 2, 1), date(2024, 2, 29), "1"},
		{"trimestre", date(2024, 1, 1), date(2024, 3, 31), "3"},
		{"medio mes", date(2024, 4, 1), date(2024, 4, 15), "0.5"},
		{"cruza meses", date(2024, 4, 16), date(2024, 5, 15), "1"},
		{"un dia", date(2024, 1, 10), date(2024, 1, 10), "0.03225806451612903"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := finance.NewPeriod(tc.start, tc.end)
			require.NoError(t, err)
			got := p.FixedCostFactor()
			assert.Truef(t, dec(tc.want).Sub(got).Abs().LessThan(dec("0.0000001")), "esperado %s, obtenido %s", tc.want, got)
		})
	}
}

func TestResolvePeriod_Presets(t *testing.T) {
	now := time.Date(2024, 5, 20, 14, 0, 0, 0, time.UTC)
	cases := []struct {
		preset     finance.Preset
		start, end time.Time
	}{
		{finance.PresetCurrentMonth, date(2024, 5, 1), date(2024, 5, 31)},
		{"", date(2024, 5, 1), date(2024, 5, 31)},
		{finance.PresetLastMonth, date(2024, 4, 1), date(2024, 4, 30)},
		{finance.PresetLast3Months, date(2024, 3, 1), date(2024, 5, 31)},
		{finance.PresetLast30Days, date(2024, 4, 21), date(2024, 5, 20)},
		{finance.PresetCurrentQuarter, date(2024, 4, 1), date(2024, 6, 30)},
		{finance.PresetCurrentYear, date(2024, 1, 1), date(2024, 12, 31)},
	}
	for _, tc := range cases {
		p, err := finance.ResolvePeriod(tc.preset, now, nil, nil)
		require.NoError(t, err, tc.preset)
		assert.Equal(t, tc.start, p.Start, tc.preset)
		assert.Equal(t, tc.end, p.End, tc.preset)
	}
}

func TestResolvePeriod_LastMonthEnEnero(t *testing.T) {
	p, err := finance.ResolvePeriod(finance.PresetLastMonth, date(2024, 1, 31), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, date(2023, 12, 1), p.Start)
	assert.Equal(t, date(2023, 12, 31), p.End)
}

func TestResolvePeriod_Custom(t *testing.T) {
	s, e := date(2024, 2, 10), date(2024, 2, 20)
	p, err := finance.ResolvePeriod(finance.PresetCustom, date(2024, 5, 1), &s, &e)
	require.NoError(t, err)
	assert.Equal(t, 11, p.Days())

	_, err = finance.ResolvePeriod(finance.PresetCustom, date(2024, 5, 1), &s, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = finance.ResolvePeriod("semana", date(2024, 5, 1), nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
