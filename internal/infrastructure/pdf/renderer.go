// Package pdf genera los documentos impresos de la tienda con Maroto v2:
// el recibo de venta POS y la orden de compra a proveedor.
//
// Layout del recibo (A5):
//
//	┌───────────────────────────────────────────┐
//	│  Tienda / Bodega        │  N° venta + fecha │
//	│  Cliente + medio de pago                   │
//	│  Cant | Producto | P.Unit | Desc | Total   │
//	│  Subtotal / Descuento / IVA / TOTAL        │
//	│  Recibido / Cambio + QR del número         │
//	└───────────────────────────────────────────┘
package pdf

import (
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/naturalmede-api/internal/application/ports"
	"github.com/jhoicas/naturalmede-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 46, Green: 107, Blue: 62}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var paymentLabels = map[string]string{
	entity.POSPaymentCash:     "Efectivo",
	entity.POSPaymentCard:     "Tarjeta",
	entity.POSPaymentTransfer: "Transferencia",
	entity.POSPaymentMixed:    "Mixto",
}

var purchaseStatusLabels = map[string]string{
	entity.PurchaseStatusDraft:     "Borrador",
	entity.PurchaseStatusPending:   "Pendiente",
	entity.PurchaseStatusReceived:  "Recibida",
	entity.PurchaseStatusCancelled: "Cancelada",
}

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ ports.PDFRenderer = (*Renderer)(nil)

// Renderer implementa ports.PDFRenderer usando Maroto v2.
type Renderer struct{}

// NewRenderer construye el generador.
func NewRenderer() *Renderer { return &Renderer{} }

// SaleReceipt genera el recibo de una venta POS.
func (g *Renderer) SaleReceipt(data ports.ReceiptData) ([]byte, error) {
	if data.Sale == nil {
		return nil, fmt.Errorf("pdf: venta vacía")
	}
	s := data.Sale
	m := newDocument(pagesize.A5, "Recibo "+s.SaleNumber, data.StoreName)

	m.AddRows(documentHeader(data.StoreName, data.WarehouseName, "RECIBO DE VENTA", s.SaleNumber, s.CreatedAt.Format("02/01/2006 15:04")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(infoRow(
		"Cliente: "+nonEmpty(data.CustomerName, "Consumidor final"),
		"Pago: "+nonEmpty(paymentLabels[s.PaymentMethod], s.PaymentMethod),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeader([]column{
		{"Cant.", 1, align.Center}, {"Producto", 5, align.Left}, {"P. Unit.", 2, align.Right},
		{"Desc.", 1, align.Center}, {"Total", 3, align.Right},
	}))
	for _, it := range s.Items {
		m.AddRows(tableRow([]cell{
			{fmt.Sprint(it.Quantity), 1, align.Center},
			{nonEmpty(data.ProductNames[it.ProductID], it.ProductID), 5, align.Left},
			{money(it.UnitPrice), 2, align.Right},
			{it.DiscountPercentage.StringFixed(0) + "%", 1, align.Center},
			{money(it.Total), 3, align.Right},
		}))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	totals := []total{
		{"Subtotal:", money(s.Subtotal), false},
		{"Descuento:", money(s.DiscountAmount), false},
	}
	if s.HasIVA() {
		totals = append(totals, total{"IVA:", money(s.IVAAmount), false})
	}
	totals = append(totals,
		total{"TOTAL:", money(s.Total), true},
		total{"Recibido:", money(s.AmountReceived), false},
		total{"Cambio:", money(s.ChangeAmount), false},
	)
	m.AddRows(totalsRow(totals))

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(30).Add(
		col.New(4).Add(code.NewQr(s.SaleNumber, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(
			text.New("¡Gracias por su compra!", props.Text{Style: fontstyle.Bold, Size: 10, Top: 6, Left: 3, Color: colorPrimary}),
			text.New(nonEmpty(s.Notes, ""), props.Text{Size: 7, Top: 14, Left: 3, Color: colorGray}),
		),
	))
	return generate(m)
}

// PurchaseOrder genera la orden de compra para el proveedor.
func (g *Renderer) PurchaseOrder(data ports.PurchaseOrderData) ([]byte, error) {
	if data.Purchase == nil {
		return nil, fmt.Errorf("pdf: compra vacía")
	}
	p := data.Purchase
	m := newDocument(pagesize.A4, "Orden de compra "+p.PurchaseNumber, data.StoreName)

	m.AddRows(documentHeader(data.StoreName, data.WarehouseName, "ORDEN DE COMPRA", p.PurchaseNumber, p.OrderDate.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if sp := data.Supplier; sp != nil {
		m.AddRows(row.New(14).Add(col.New(12).Add(
			text.New("PROVEEDOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(sp.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("NIT: %s   |   Contacto: %s   |   Tel: %s",
				nonEmpty(sp.TaxID, "-"), nonEmpty(sp.ContactPerson, "-"), nonEmpty(sp.Phone, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		)))
	}
	expected := "-"
	if p.ExpectedDelivery != nil {
		expected = p.ExpectedDelivery.Format("02/01/2006")
	}
	m.AddRows(infoRow(
		"Estado: "+nonEmpty(purchaseStatusLabels[p.Status], p.Status),
		"Entrega esperada: "+expected,
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeader([]column{
		{"Cant.", 1, align.Center}, {"Producto", 4, align.Left}, {"Costo Unit.", 2, align.Right},
		{"IVA%", 1, align.Center}, {"Desc.%", 1, align.Center}, {"Total", 3, align.Right},
	}))
	for _, it := range p.Items {
		m.AddRows(tableRow([]cell{
			{fmt.Sprint(it.Quantity), 1, align.Center},
			{nonEmpty(data.ProductNames[it.ProductID], it.ProductID), 4, align.Left},
			{money(it.UnitCost), 2, align.Right},
			{it.TaxPercentage.StringFixed(0) + "%", 1, align.Center},
			{it.DiscountPercentage.StringFixed(0) + "%", 1, align.Center},
			{money(it.Total), 3, align.Right},
		}))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow([]total{
		{"Subtotal:", money(p.Subtotal), false},
		{"Descuento:", money(p.DiscountAmount), false},
		{"Impuestos:", money(p.TaxAmount), false},
		{"Envío:", money(p.ShippingCost), false},
		{"TOTAL:", money(p.Total), true},
	}))
	if p.Notes != "" {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("Observaciones: "+p.Notes, props.Text{Size: 8, Top: 3, Color: colorGray}),
		)))
	}
	return generate(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func newDocument(size pagesize.Type, title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(size).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(nonEmpty(author, "NaturalMede"), true).
		Build()
	return maroto.New(cfg)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// documentHeader: tienda y bodega (izq), tipo de documento, número y fecha (der).
func documentHeader(store, warehouse, kind, number, date string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(store, "NaturalMede"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(warehouse, ""), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(kind, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(number, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func infoRow(left, right string) core.Row {
	return row.New(8).Add(
		col.New(7).Add(text.New(left, props.Text{Size: 8, Top: 2})),
		col.New(5).Add(text.New(right, props.Text{Size: 8, Top: 2, Align: align.Right})),
	)
}

type column struct {
	label string
	size  int
	align align.Type
}

type cell = column

func tableHeader(cols []column) core.Row {
	r := row.New(7)
	for _, c := range cols {
		r.Add(col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Color: colorPrimary, Top: 1.5, Left: 1, Right: 1,
		})))
	}
	return r
}

func tableRow(cells []cell) core.Row {
	r := row.New(6)
	for _, c := range cells {
		r.Add(col.New(c.size).Add(text.New(c.label, props.Text{
			Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
		})))
	}
	return r
}

type total struct {
	label string
	value string
	grand bool
}

// totalsRow: bloque de totales alineado a la derecha, una línea por total.
func totalsRow(totals []total) core.Row {
	labels := col.New(3)
	values := col.New(3)
	for i, t := range totals {
		top := float64(i) * 5
		style, size, color := fontstyle.Normal, 9.0, (*props.Color)(nil)
		if t.grand {
			style, size, color = fontstyle.Bold, 10, colorPrimary
		}
		labels.Add(text.New(t.label, props.Text{Style: fontstyle.Bold, Size: size, Align: align.Right, Right: 2, Top: top, Color: color}))
		values.Add(text.New(t.value, props.Text{Style: style, Size: size, Align: align.Right, Right: 1, Top: top, Color: color}))
	}
	return row.New(float64(len(totals))*5+2).Add(col.New(6), labels, values)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea pesos sin decimales con puntos de miles: 28560 → "$28.560".
func money(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	return sign + "$" + formatThousands(s)
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
