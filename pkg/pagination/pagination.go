// Package pagination recorre almacenes que limitan el tamaño de página.
package pagination

import (
	"context"
	"fmt"
)

// DefaultPageSize tope de filas por página observado en el almacén.
const DefaultPageSize = 1000

// maxPages corta bucles de un almacén que nunca devuelve una página corta.
const maxPages = 100_000

// PageFunc devuelve una ventana de resultados ordenada por una clave estable.
type PageFunc[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// FetchAll pide ventanas sucesivas (offset, limit) y acumula hasta recibir una página
// más corta que pageSize, que marca el agotamiento.
func FetchAll[T any](ctx context.Context, pageSize int, fetch PageFunc[T]) ([]T, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	var all []T
	for page := 0; page < maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, err := fetch(ctx, pageSize, page*pageSize)
		if err != nil {
			return nil, fmt.Errorf("pagination: página %d: %w", page, err)
		}
		all = append(all, items...)
		if len(items) < pageSize {
			return all, nil
		}
	}
	return nil, fmt.Errorf("pagination: se superó el máximo de %d páginas", maxPages)
}
