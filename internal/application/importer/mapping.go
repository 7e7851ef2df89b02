package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/pkg/textfold"
)

// Field campo de destino de una columna de la planilla de pedidos.
type Field string

const (
	FieldOrderID     Field = "order_id"
	FieldSKU         Field = "sku"
	FieldProductName Field = "product_name"
	FieldVariation   Field = "variation_name"
	FieldQuantity    Field = "quantity"
	FieldRevenue     Field = "revenue"
	FieldRebate      Field = "rebate"
	FieldUnitCost    Field = "unit_cost"
	FieldOrderedAt   Field = "ordered_at"
)

// RequiredFields campos sin los cuales el mapeo se rechaza.
var RequiredFields = []Field{FieldOrderID, FieldProductName, FieldQuantity, FieldRevenue}

type fieldAliases struct {
	field   Field
	aliases []string // ya normalizados con textfold.Fold
}

// orderAliases en orden de resolución: los campos con alias más específicos van primero para que
// "data do pedido" no termine como número de pedido.
var orderAliases = []fieldAliases{
	{FieldOrderedAt, []string{"data de criacao do pedido", "data do pedido", "hora do pagamento", "order date", "created time", "data"}},
	{FieldVariation, []string{"nome da variacao", "variacao", "variation name", "variation"}},
	{FieldUnitCost, []string{"custo unitario", "custo do produto", "unit cost", "custo"}},
	{FieldRebate, []string{"rebate", "cupom shopee", "desconto shopee", "platform discount"}},
	{FieldSKU, []string{"sku da variacao", "referencia sku", "sku principal", "seller sku", "sku"}},
	{FieldOrderID, []string{"id do pedido", "numero do pedido", "n do pedido", "order id", "pedido"}},
	{FieldProductName, []string{"nome do produto", "product name", "produto", "product"}},
	{FieldQuantity, []string{"quantidade", "quantity", "qtd", "qty"}},
	{FieldRevenue, []string{"subtotal do produto", "preco acordado", "valor total", "faturamento", "receita", "subtotal", "revenue"}},
}

// SuggestMapping propone campo -> encabezado. Primero busca coincidencias exactas y luego por
// subcadena; cada encabezado se usa como mucho una vez.
func SuggestMapping(headers []string) map[Field]string {
	return suggest(headers, orderAliases)
}

func suggest(headers []string, table []fieldAliases) map[Field]string {
	folded := make([]string, len(headers))
	for i, h := range headers {
		folded[i] = textfold.Fold(h)
	}
	used := make(map[int]bool)
	out := make(map[Field]string)

	pick := func(match func(header, alias string) bool) {
		for _, fa := range table {
			if _, done := out[fa.field]; done {
				continue
			}
		aliases:
			for _, alias := range fa.aliases {
				for i, h := range folded {
					if used[i] || h == "" || !match(h, alias) {
						continue
					}
					out[fa.field] = headers[i]
					used[i] = true
					break aliases
				}
			}
		}
	}
	pick(func(h, a string) bool { return h == a })
	pick(func(h, a string) bool { return strings.Contains(h, a) })
	return out
}

// RequiredFieldsError mapeo incompleto; Unwrap devuelve domain.ErrRequiredFieldsMissing.
type RequiredFieldsError struct {
	Missing []Field
}

func (e *RequiredFieldsError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("%s: %s", domain.ErrRequiredFieldsMissing.Error(), strings.Join(names, ", "))
}

func (e *RequiredFieldsError) Unwrap() error { return domain.ErrRequiredFieldsMissing }

// ValidateMapping revisa que los campos existan, que cada encabezado esté en la planilla y que
// los obligatorios estén presentes. Encabezados vacíos se ignoran.
func ValidateMapping(raw map[string]string, headers []string, required []Field, known []Field) (map[Field]string, error) {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	isKnown := make(map[Field]bool, len(known))
	for _, f := range known {
		isKnown[f] = true
	}

	m := make(map[Field]string, len(raw))
	for k, h := range raw {
		f := Field(strings.TrimSpace(k))
		if !isKnown[f] {
			return nil, fmt.Errorf("%w: campo desconocido %q", domain.ErrInvalidInput, k)
		}
		if strings.TrimSpace(h) == "" {
			continue
		}
		if !present[h] {
			return nil, fmt.Errorf("%w: la columna %q no existe en la planilla", domain.ErrInvalidInput, h)
		}
		m[f] = h
	}

	var missing []Field
	for _, f := range required {
		if _, ok := m[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, &RequiredFieldsError{Missing: missing}
	}
	return m, nil
}

func fieldsOf(table []fieldAliases) []Field {
	out := make([]Field, len(table))
	for i, fa := range table {
		out[i] = fa.field
	}
	return out
}
