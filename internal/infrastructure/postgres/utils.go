package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/seller-finance-api/internal/domain/repository"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// whereBuilder acumula condiciones con placeholders numerados; $1 siempre es user_id.
type whereBuilder struct {
	conds []string
	args  []any
}

func newWhere(userID string) *whereBuilder {
	return &whereBuilder{conds: []string{"user_id = $1"}, args: []any{userID}}
}

// add agrega una condición; %s se reemplaza por el siguiente placeholder.
func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, fmt.Sprintf("$%d", len(w.args))))
}

// timeRange aplica [From, Until) sobre la columna.
func (w *whereBuilder) timeRange(column string, r repository.DateRange) {
	if r.From != nil {
		w.add(column+" >= %s", *r.From)
	}
	if r.Until != nil {
		w.add(column+" < %s", *r.Until)
	}
}

func (w *whereBuilder) sql() string {
	return "WHERE " + strings.Join(w.conds, " AND ")
}
