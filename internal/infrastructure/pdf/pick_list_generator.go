// Package pdf genera la hoja de requisición de bodega de una orden de producción.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Local + fecha programada  │  QR con el ID de orden  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  A PRODUCIR: SKU | Producto | Cantidad                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  INSUMOS: SKU | Insumo | Requerido | Disponible | Estado     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: Entrega bodega / Recibe producción                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/panaderia-stock/internal/application/ports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 122, Green: 72, Blue: 24}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 190, Green: 30, Blue: 30}
)

var _ ports.PickListRenderer = (*PickListGenerator)(nil)

// PickListGenerator implementa ports.PickListRenderer usando Maroto v2.
type PickListGenerator struct {
	company string
}

// NewPickListGenerator construye el generador; company va en el encabezado.
func NewPickListGenerator(company string) *PickListGenerator {
	return &PickListGenerator{company: company}
}

// RenderPickList genera el PDF y devuelve sus bytes.
func (g *PickListGenerator) RenderPickList(_ context.Context, list *ports.PickList) ([]byte, error) {
	if list == nil {
		return nil, fmt.Errorf("pdf: hoja de requisición vacía")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Requisición de producción", true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(list))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionTitle("A PRODUCIR"))
	m.AddRows(outputHeaderRow())
	for _, o := range list.Outputs {
		m.AddRows(outputRow(o))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitle("INSUMOS A RETIRAR DE BODEGA"))
	m.AddRows(ingredientHeaderRow())
	for _, ing := range list.Ingredients {
		m.AddRows(ingredientRow(ing))
	}

	if list.Notes != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Notas: "+list.Notes, props.Text{Size: 8, Color: colorGray, Top: 2}),
		)))
	}

	m.AddRows(row.New(20))
	m.AddRows(signatureRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *PickListGenerator) headerRow(list *ports.PickList) core.Row {
	return row.New(30).Add(
		col.New(9).Add(
			text.New(nonEmpty(g.company, "Panadería"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("REQUISICIÓN DE PRODUCCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 9,
			}),
			text.New("Local: "+nonEmpty(list.LocationName, "-"), props.Text{
				Size: 9, Top: 16, Color: colorGray,
			}),
			text.New("Programada: "+list.ScheduledAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Top: 21, Color: colorGray,
			}),
		),
		col.New(3).Add(code.NewQr(list.OrderID, props.Rect{
			Percent: 90,
			Center:  true,
		})),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func header(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type, color *props.Color) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color,
	}))
}

func outputHeaderRow() core.Row {
	return row.New(6).Add(
		header("SKU", 3, align.Left),
		header("Producto", 6, align.Left),
		header("Cantidad", 3, align.Right),
	)
}

func outputRow(o ports.PickListOutput) core.Row {
	return row.New(6).Add(
		cell(o.SKU, 3, align.Left, nil),
		cell(o.Name, 6, align.Left, nil),
		cell(formatQuantity(o.Quantity)+" "+o.Unit, 3, align.Right, nil),
	)
}

func ingredientHeaderRow() core.Row {
	return row.New(6).Add(
		header("SKU", 2, align.Left),
		header("Insumo", 4, align.Left),
		header("Requerido", 2, align.Right),
		header("Disponible", 2, align.Right),
		header("Estado", 2, align.Center),
	)
}

// ingredientRow marca en rojo los insumos con existencia menor a la requerida.
func ingredientRow(l ports.PickListLine) core.Row {
	status, color := "OK", (*props.Color)(nil)
	if l.Available.LessThan(l.Required) {
		status, color = "FALTA "+formatQuantity(l.Required.Sub(l.Available)), colorAlert
	}
	return row.New(6).Add(
		cell(l.SKU, 2, align.Left, nil),
		cell(l.Name, 4, align.Left, nil),
		cell(formatQuantity(l.Required)+" "+l.Unit, 2, align.Right, nil),
		cell(formatQuantity(l.Available)+" "+l.Unit, 2, align.Right, color),
		cell(status, 2, align.Center, color),
	)
}

func signatureRow() core.Row {
	sign := func(label string) core.Col {
		return col.New(5).Add(
			line.New(props.Line{Color: colorGray, Thickness: 0.3}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)
	}
	return row.New(10).Add(sign("Entrega bodega"), col.New(2), sign("Recibe producción"))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQuantity muestra hasta 3 decimales con coma decimal, sin ceros sobrantes.
// Ej: 12.500 → "12,5", 3 → "3"
func formatQuantity(d decimal.Decimal) string {
	s := d.Round(3).String()
	return strings.Replace(s, ".", ",", 1)
}
