// Package pdf genera el comprobante imprimible de ventas y compras.
//
// Layout A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de pedido + N°   │  Fecha de emisión          │
//	│  CONTRAPARTE: Nombre + documento                             │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal                  │
//	│  TOTALES: Subtotal / Descuento / TOTAL                       │
//	│  PIE: QR con el id del pedido + medio de pago                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
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

	"github.com/jhoicas/sistema-comercial/internal/application/commercial"
	"github.com/jhoicas/sistema-comercial/internal/domain/entity"
)

var _ commercial.ReceiptGenerator = (*ReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ReceiptGenerator implementa commercial.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct {
	companyName string
}

// NewReceiptGenerator construye el generador; companyName va en el encabezado.
func NewReceiptGenerator(companyName string) *ReceiptGenerator {
	return &ReceiptGenerator{companyName: companyName}
}

// GenerateOrderReceipt genera el PDF y devuelve sus bytes. counterpart nil: venta de mostrador.
func (g *ReceiptGenerator) GenerateOrderReceipt(order *entity.Order, counterpart *entity.Party) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de "+order.Kind.Label(), true).
		WithAuthor(g.companyName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(counterpartRow(order.Kind, counterpart))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(order.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(order))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *ReceiptGenerator) headerRow(order *entity.Order) core.Row {
	title := "COMPROBANTE DE " + strings.ToUpper(order.Kind.Label())
	number := "N° " + order.ID
	if order.Reference != "" {
		number += "  |  NF " + order.Reference
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.companyName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(title, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(number, props.Text{Style: fontstyle.Bold, Size: 7, Align: align.Right, Top: 2}),
			text.New("Fecha: "+order.EmissionDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func counterpartRow(kind entity.OrderKind, p *entity.Party) core.Row {
	label := "CLIENTE"
	if kind == entity.OrderPurchase {
		label = "PROVEEDOR"
	}
	name, detail := "Venta de mostrador", ""
	if p != nil {
		name = p.DisplayName()
		detail = "Documento: " + nonEmpty(p.TaxID, "-")
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(detail, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Producto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func itemRows(items []entity.OrderItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(it.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.ProductName, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatMoney(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(formatMoney(it.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalsRow(order *entity.Order) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 12}
	grandLabel, grandValue := grand, grand
	grandLabel.Right, grandValue.Right = 2, 1

	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 0),
			label("Descuento:", 6),
			text.New("TOTAL:", grandLabel),
		),
		col.New(3).Add(
			value(formatMoney(order.Subtotal), 0),
			value("-"+formatMoney(order.Discount), 6),
			text.New(formatMoney(order.Total), grandValue),
		),
	)
}

func footerRow(order *entity.Order) core.Row {
	payment := "Medio de pago: " + nonEmpty(order.PaymentMethod, "-")
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(order.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New(payment, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Conserve este comprobante.", props.Text{Size: 7, Top: 12, Left: 3, Color: colorGray}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney: 1234567.5 → "$1.234.567,50".
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac := fixed[:len(fixed)-3], fixed[len(fixed)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, intPart[i])
	}
	return sign + "$" + string(buf) + "," + frac
}
