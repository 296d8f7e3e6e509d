// Package pdf implementa la representación gráfica de los comprobantes de
// pago: documento formal A4 y variante de ticket para impresora térmica de
// 80mm. Ambas salidas se generan con Maroto v2 a partir del mismo RenderInput.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + RUC  │  Tipo + Serie-Número + Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Tel / Email                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Subtotal              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / IGV / TOTAL                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: hash de verificación + QR + leyenda                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/mesafacil/pos-api/internal/application/fiscal"
	"github.com/mesafacil/pos-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 60, Blue: 90}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ fiscal.Renderer = (*MarotoRenderer)(nil)

// MarotoRenderer implementa fiscal.Renderer usando Maroto v2.
// Es determinístico respecto al input: re-renderizar el mismo comprobante
// produce un documento equivalente, lo que permite regenerar archivos perdidos.
type MarotoRenderer struct{}

// NewMarotoRenderer construye el renderer.
func NewMarotoRenderer() *MarotoRenderer { return &MarotoRenderer{} }

// RenderDocument genera el PDF A4 del comprobante y devuelve sus bytes.
func (g *MarotoRenderer) RenderDocument(_ context.Context, in fiscal.RenderInput) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(typeTitle(in.Comprobante.Type)+" "+in.Comprobante.FullNumber(), true).
		WithAuthor(in.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(in.Comprobante, in.Company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(in.Company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(in.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(in.Comprobante))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range verificationFooterRows(in.Comprobante) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// RenderTicket genera la variante térmica de 80mm de ancho.
// Misma información esencial, tipografía compacta y sin tabla formal.
func (g *MarotoRenderer) RenderTicket(_ context.Context, in fiscal.RenderInput) ([]byte, error) {
	// 80mm de ancho; el alto es generoso porque la impresora corta el papel.
	cfg := config.NewBuilder().
		WithDimensions(80, 250).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "courier", Size: 7}).
		Build()

	m := maroto.New(cfg)

	c := in.Comprobante
	center := func(s string, size float64, style fontstyle.Type) core.Row {
		return row.New(4).Add(col.New(12).Add(
			text.New(s, props.Text{Size: size, Align: align.Center, Style: style}),
		))
	}

	m.AddRows(center(in.Company.Name, 9, fontstyle.Bold))
	if in.Company.RUC != "" {
		m.AddRows(center("RUC: "+in.Company.RUC, 7, fontstyle.Normal))
	}
	if in.Company.Address != "" {
		m.AddRows(center(in.Company.Address, 6.5, fontstyle.Normal))
	}
	m.AddRows(center(typeTitle(c.Type), 8, fontstyle.Bold))
	m.AddRows(center(c.FullNumber(), 8, fontstyle.Bold))
	m.AddRows(center(c.IssuedAt.Format("02/01/2006 15:04"), 6.5, fontstyle.Normal))
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))

	for _, it := range in.Items {
		m.AddRows(row.New(4).Add(
			col.New(8).Add(text.New(
				it.Quantity.StringFixed(0)+" x "+it.Description,
				props.Text{Size: 7, Align: align.Left},
			)),
			col.New(4).Add(text.New(
				it.Subtotal.StringFixed(2),
				props.Text{Size: 7, Align: align.Right},
			)),
		))
	}

	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))
	ticketTotal := func(label, value string, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return row.New(4).Add(
			col.New(7).Add(text.New(label, props.Text{Size: 7, Align: align.Right, Style: style})),
			col.New(5).Add(text.New(value, props.Text{Size: 7, Align: align.Right, Style: style})),
		)
	}
	m.AddRows(ticketTotal("Subtotal:", c.Subtotal.StringFixed(2), false))
	if !c.Tax.IsZero() {
		m.AddRows(ticketTotal("IGV:", c.Tax.StringFixed(2), false))
	}
	m.AddRows(ticketTotal("TOTAL "+c.Currency+":", c.Total.StringFixed(2), true))

	m.AddRows(line.NewRow(2))
	m.AddRows(row.New(26).Add(
		col.New(12).Add(code.NewQr(c.VerificationHash, props.Rect{Percent: 70, Center: true})),
	))
	m.AddRows(center("¡Gracias por su visita!", 7, fontstyle.Normal))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ticket: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones A4 ──────────────────────────────────────────────────────────────

// headerRow: razón social + RUC (izq) y tipo + serie-número + fecha (der).
func headerRow(c *entity.Comprobante, company *entity.Company) core.Row {
	fecha := c.IssuedAt.Format("02/01/2006 15:04")

	left := col.New(7).Add(
		text.New(company.Name, props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
		}),
	)
	if company.RUC != "" {
		left.Add(text.New("RUC: "+company.RUC, props.Text{
			Size: 9, Top: 9, Color: colorGray,
		}))
	}

	return row.New(18).Add(
		left,
		col.New(5).Add(
			text.New(typeTitle(c.Type), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(c.FullNumber(), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// emisorRow: datos de contacto del emisor.
func emisorRow(company *entity.Company) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(company.Address, "—"),
				nonEmpty(company.Phone, "—"),
				nonEmpty(company.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de consumo.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 6, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea de consumo congelada en el pago.
func tableDetailRows(items []entity.OrderItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.StringFixed(0),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				it.Subtotal.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(c *entity.Comprobante) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Subtotal:"),
			label("IGV:"),
			grandLabel("TOTAL "+c.Currency+":"),
		),
		col.New(3).Add(
			value(c.Subtotal.StringFixed(2)),
			value(c.Tax.StringFixed(2)),
			grandValue(c.Total.StringFixed(2)),
		),
		col.New(3),
	)
}

// verificationFooterRows: hash de verificación + código QR + leyenda.
func verificationFooterRows(c *entity.Comprobante) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("VERIFICACIÓN DEL COMPROBANTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if c.VerificationHash != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Hash de verificación (SHA-256 del pago):", props.Text{
				Style: fontstyle.Bold, Size: 7, Top: 1,
			}),
		)))
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(c.VerificationHash, props.Text{Size: 6.5, Color: colorGray, Top: 0.5, Left: 2}),
		)))

		rows = append(rows, row.New(3))
		rows = append(rows, row.New(40).Add(
			col.New(4).Add(code.NewQr(c.VerificationHash, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Escanea el código QR para validar\nla integridad de este comprobante.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
			),
		))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Conserve este documento como constancia de su consumo. "+
				"El hash permite verificar que el comprobante corresponde al pago registrado.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// typeTitle devuelve el título impreso del tipo de comprobante.
func typeTitle(t string) string {
	switch t {
	case entity.TypeTicket:
		return "TICKET DE CONSUMO"
	case entity.TypeBoleta:
		return "BOLETA DE VENTA"
	case entity.TypeFactura:
		return "FACTURA ELECTRÓNICA"
	case entity.TypeNotaCredito:
		return "NOTA DE CRÉDITO"
	case entity.TypeNotaDebito:
		return "NOTA DE DÉBITO"
	default:
		return "COMPROBANTE"
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
