package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
)

func TestWhereBuilder(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	until := from.AddDate(0, 1, 0)

	w := newWhere("u-1")
	w.timeRange("ordered_at", repository.DateRange{From: &from, Until: &until})
	w.add("marketplace = %s", "shopee")

	assert.Equal(t, "WHERE user_id = $1 AND ordered_at >= $2 AND ordered_at < $3 AND marketplace = $4", w.sql())
	assert.Equal(t, []any{"u-1", from, until, "shopee"}, w.args)
}

func TestWhereBuilder_SinRango(t *testing.T) {
	w := newWhere("u-1")
	w.timeRange("paid_at", repository.DateRange{})
	assert.Equal(t, "WHERE user_id = $1", w.sql())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
}
