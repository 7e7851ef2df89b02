// Package pdf genera la versión imprimible del DRE (Demonstrativo do Resultado do Exercício).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + período               │  fecha de emisión │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descrição | Valor | % Receita                       │
//	│    secciones en negrita, partidas con sangría               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  REPASSES: liquidaciones / extractos / diferencia           │
//	│  ALERTAS                                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/seller-finance-api/internal/domain/finance"
	"github.com/jhoicas/seller-finance-api/pkg/numeric"
	"github.com/shopspring/decimal"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite    = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorNegative = &props.Color{Red: 170, Green: 30, Blue: 30}
	colorSubtotal = &props.Color{Red: 230, Green: 238, Blue: 246}
)

// subtotals líneas resaltadas como resultado parcial.
var subtotals = map[string]bool{
	finance.KeyNetRevenue:         true,
	finance.KeyContributionMargin: true,
	finance.KeyOperatingResult:    true,
}

// ── Generator ─────────────────────────────────────────────────────────────────

// DREGenerator genera el PDF del DRE usando Maroto v2.
type DREGenerator struct {
	now func() time.Time
}

// NewDREGenerator construye el generador.
func NewDREGenerator() *DREGenerator { return &DREGenerator{now: time.Now} }

// GenerateDRE genera el PDF y devuelve sus bytes.
func (g *DREGenerator) GenerateDRE(_ context.Context, d *finance.DREData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("DRE "+periodLabel(d.Period), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(d.Period, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(row.New(2))

	m.AddRows(tableHeaderRow())
	for _, s := range d.Sections() {
		m.AddRows(sectionRows(s, 0)...)
	}

	m.AddRows(row.New(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(payoutRows(d.Payouts)...)

	if len(d.Alerts) > 0 {
		m.AddRows(row.New(3))
		m.AddRows(alertRows(d.Alerts)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y período (izq), fecha de emisión (der).
func headerRow(p finance.Period, now time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("Demonstrativo do Resultado (DRE)", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Período: "+periodLabel(p), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Emitido em "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Descrição", 7, align.Left),
		h("Valor", 3, align.Right),
		h("% Receita", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// sectionRows: la línea y, recursivamente, sus partidas con sangría creciente.
func sectionRows(l finance.DRELine, depth int) []core.Row {
	style := fontstyle.Normal
	size := 8.0
	if depth == 0 {
		style = fontstyle.Bold
		size = 9
	}
	valueColor := &props.Color{}
	if l.Value.IsNegative() {
		valueColor = colorNegative
	}

	r := row.New(6).Add(
		col.New(7).Add(text.New(l.Label, props.Text{
			Style: style, Size: size, Top: 1, Left: 1 + float64(depth)*4,
		})),
		col.New(3).Add(text.New(money(l.Value), props.Text{
			Style: style, Size: size, Align: align.Right, Top: 1, Right: 1, Color: valueColor,
		})),
		col.New(2).Add(text.New(percent(l.Percentage), props.Text{
			Size: size, Align: align.Right, Top: 1, Right: 1, Color: colorGray,
		})),
	)
	if subtotals[l.Key] {
		r = r.WithStyle(&props.Cell{BackgroundColor: colorSubtotal})
	}

	rows := []core.Row{r}
	for _, child := range l.Lines {
		rows = append(rows, sectionRows(child, depth+1)...)
	}
	return rows
}

// payoutRows: conciliación entre liquidaciones y extractos de TikTok Shop.
func payoutRows(p finance.Payouts) []core.Row {
	item := func(label string, v decimal.Decimal, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return row.New(5).Add(
			col.New(7).Add(text.New(label, props.Text{Style: style, Size: 8, Left: 1})),
			col.New(3).Add(text.New(money(v), props.Text{Style: style, Size: 8, Align: align.Right, Right: 1})),
			col.New(2),
		)
	}
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("REPASSES TIKTOK SHOP", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		item("Liquidações", p.SettlementNet, false),
		item("Extratos", p.StatementNet, false),
		item("Diferença", p.Difference, true),
	}
}

func alertRows(alerts []finance.Alert) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("ALERTAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	for _, a := range alerts {
		c := colorGray
		if a.Severity == finance.SeverityError {
			c = colorNegative
		}
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("[%s] %s", strings.ToUpper(string(a.Severity)), a.Message), props.Text{
				Size: 7.5, Color: c, Left: 2,
			}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func periodLabel(p finance.Period) string {
	return p.Start.Format("02/01/2006") + " a " + p.End.Format("02/01/2006")
}

// money formatea en reales: "R$ 1.234,56" / "-R$ 10,00".
func money(d decimal.Decimal) string {
	s := numeric.FormatBR(d, 2)
	if strings.HasPrefix(s, "-") {
		return "-R$ " + s[1:]
	}
	return "R$ " + s
}

func percent(d decimal.Decimal) string {
	return numeric.FormatBR(d, 1) + "%"
}
