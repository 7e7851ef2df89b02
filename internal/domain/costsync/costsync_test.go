package costsync_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-finance-api/internal/domain/costsync"
	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestField_ConservaValorTecleadoConMismaVersion(t *testing.T) {
	key := finance.KeyOf("A", "")
	f := costsync.NewField(key, dec("10"), 1)

	f.Type(dec("12.5"))
	got := f.Observe(dec("10"), 1, key)

	assert.True(t, dec("12.5").Equal(got))
	assert.True(t, f.Dirty())
}

func TestField_VersionNuevaResincroniza(t *testing.T) {
	key := finance.KeyOf("A", "")
	f := costsync.NewField(key, dec("10"), 1)

	f.Type(dec("99"))
	got := f.Observe(dec("15"), 2, key)

	assert.True(t, dec("15").Equal(got))
	assert.False(t, f.Dirty())
}

func TestField_OtraClaveResincroniza(t *testing.T) {
	f := costsync.NewField(finance.KeyOf("A", ""), dec("10"), 3)

	f.Type(dec("99"))
	other := finance.KeyOf("", "Produto B")
	got := f.Observe(dec("7"), 3, other)

	assert.True(t, dec("7").Equal(got))
	assert.Equal(t, other, f.Key())
	assert.False(t, f.Dirty())
}

func TestField_SinEdicionSigueAlServidor(t *testing.T) {
	key := finance.KeyOf("A", "")
	f := costsync.NewField(key, dec("10"), 1)
	got := f.Observe(dec("11"), 1, key)
	assert.True(t, dec("11").Equal(got))
}

func TestDebouncer_SoloUltimaLlamadaPorClave(t *testing.T) {
	d := costsync.NewDebouncer[string](20 * time.Millisecond)

	var mu sync.Mutex
	var written []string
	for _, v := range []string{"1", "12", "12.5"} {
		v := v
		d.Schedule("A", func() {
			mu.Lock()
			written = append(written, v)
			mu.Unlock()
		})
	}

	require.Eventually(t, func() bool { return d.Pending() == 0 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"12.5"}, written)
}

func TestDebouncer_ClavesIndependientes(t *testing.T) {
	d := costsync.NewDebouncer[string](10 * time.Millisecond)
	var calls atomic.Int32
	d.Schedule("A", func() { calls.Add(1) })
	d.Schedule("B", func() { calls.Add(1) })

	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestDebouncer_FlushYCancel(t *testing.T) {
	d := costsync.NewDebouncer[string](time.Hour)
	var calls atomic.Int32
	d.Schedule("A", func() { calls.Add(1) })
	d.Schedule("B", func() { calls.Add(10) })

	assert.True(t, d.Cancel("B"))
	assert.False(t, d.Cancel("B"))
	assert.Equal(t, 1, d.Pending())

	d.Flush()
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 0, d.Pending())
}
