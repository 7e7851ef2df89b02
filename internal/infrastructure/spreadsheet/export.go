package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType tipos MIME de las descargas.
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const csvDelimiter = ';'

var calculationHeaders = []string{
	"SKU", "Produto", "Variação", "Itens vendidos", "Total faturado", "Rebates", "Comissão",
	"Taxa por item", "Total a receber", "Custo produtos", "Custo unitário médio", "NF entrada",
	"Imposto", "Lucro", "Lucro %",
}

var dreHeaders = []string{"Descrição", "Valor", "% Receita"}

func calculationRecords(res *finance.CalculationResult) [][]any {
	rows := make([][]any, 0, len(res.Groups)+1)
	for _, g := range res.Groups {
		rows = append(rows, []any{
			g.SKU, g.ProductName, g.Variation, g.ItemsSold, g.Revenue, g.Rebates, g.Commission,
			g.PerItemFees, g.Receivable, g.ProductCost, g.AvgUnitCost, g.InboundInvoice, g.Tax,
			g.Profit, g.ProfitPct,
		})
	}
	t := res.Totals
	rows = append(rows, []any{
		"", "TOTAL", "", t.ItemsSold, t.Revenue, t.Rebates, t.Commission, t.PerItemFees,
		t.Receivable, t.ProductCost, t.AvgUnitCost, t.InboundInvoice, t.Tax, t.GrossProfit,
		t.AvgProfitPct,
	})
	// anúncios se descuentan una vez sobre el total, fuera de los grupos
	netPct := decimal.Zero
	if !t.Revenue.IsZero() {
		netPct = t.NetProfit.Div(t.Revenue).Mul(decimal.NewFromInt(100))
	}
	rows = append(rows,
		summaryRow("Gasto ads", t.AdSpend.Neg(), ""),
		summaryRow("Lucro líquido", t.NetProfit, netPct),
	)
	return rows
}

// summaryRow fila con valor solo en las columnas de lucro.
func summaryRow(label string, profit decimal.Decimal, pct any) []any {
	row := make([]any, len(calculationHeaders))
	for i := range row {
		row[i] = ""
	}
	row[1] = label
	row[len(row)-2] = profit
	row[len(row)-1] = pct
	return row
}

type dreRow struct {
	depth int
	line  finance.DRELine
}

func dreRecords(d *finance.DREData) []dreRow {
	var out []dreRow
	var walk func(l finance.DRELine, depth int)
	walk = func(l finance.DRELine, depth int) {
		out = append(out, dreRow{depth: depth, line: l})
		for _, child := range l.Lines {
			walk(child, depth+1)
		}
	}
	for _, s := range d.Sections() {
		walk(s, 0)
	}
	return out
}

// WriteCalculationCSV escribe el cálculo agrupado con ';' y montos con dos decimales.
func WriteCalculationCSV(w io.Writer, res *finance.CalculationResult) error {
	cw := csv.NewWriter(w)
	cw.Comma = csvDelimiter
	if err := cw.Write(calculationHeaders); err != nil {
		return err
	}
	for _, rec := range calculationRecords(res) {
		if err := cw.Write(csvStrings(rec)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDRECSV escribe el DRE aplanado; la jerarquía se indica con sangría en la descripción.
func WriteDRECSV(w io.Writer, d *finance.DREData) error {
	cw := csv.NewWriter(w)
	cw.Comma = csvDelimiter
	if err := cw.Write(dreHeaders); err != nil {
		return err
	}
	for _, r := range dreRecords(d) {
		label := strings.Repeat("  ", r.depth) + r.line.Label
		if err := cw.Write([]string{label, money(r.line.Value), money(r.line.Percentage)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCalculationXLSX escribe el cálculo agrupado en una hoja "Cálculo".
func WriteCalculationXLSX(w io.Writer, res *finance.CalculationResult) error {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Cálculo"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := writeRow(f, sheet, 1, toAny(calculationHeaders)); err != nil {
		return err
	}
	for i, rec := range calculationRecords(res) {
		if err := writeRow(f, sheet, i+2, xlsxValues(rec)); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// WriteDREXLSX escribe el DRE en una hoja "DRE" con la jerarquía como nivel de esquema.
func WriteDREXLSX(w io.Writer, d *finance.DREData) error {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "DRE"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := writeRow(f, sheet, 1, toAny(dreHeaders)); err != nil {
		return err
	}
	for i, r := range dreRecords(d) {
		row := i + 2
		label := strings.Repeat("  ", r.depth) + r.line.Label
		if err := writeRow(f, sheet, row, []any{label, r.line.Value.Round(2).InexactFloat64(), r.line.Percentage.Round(2).InexactFloat64()}); err != nil {
			return err
		}
		if r.depth > 0 {
			if err := f.SetRowOutlineLevel(sheet, row, uint8(r.depth)); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx fila %d: %w", row, err)
	}
	return nil
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func csvStrings(rec []any) []string {
	out := make([]string, len(rec))
	for i, v := range rec {
		switch x := v.(type) {
		case decimal.Decimal:
			out[i] = money(x)
		case string:
			out[i] = x
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}

// xlsxValues convierte decimales a float64 redondeados al centavo para que la planilla los
// trate como números.
func xlsxValues(rec []any) []any {
	out := make([]any, len(rec))
	for i, v := range rec {
		if d, ok := v.(decimal.Decimal); ok {
			out[i] = d.Round(2).InexactFloat64()
			continue
		}
		out[i] = v
	}
	return out
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
