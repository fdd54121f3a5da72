// Package pdf genera la factura imprimible (請求書) con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor 請求書         │  N° Factura + 発行日/支払期限 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  請求先: Nombre + estado                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: 品目 | 金額                                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL + QR de referencia                                    │
//	└─────────────────────────────────────────────────────────────┘
//
// Las fuentes estándar de PDF no tienen glifos japoneses: el generador exige una
// fuente TrueType UTF-8 que se incrusta en cada documento.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"

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
	fontentity "github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	appbilling "github.com/festal/festal-backend/internal/application/billing"
	"github.com/festal/festal-backend/internal/domain/entity"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// fontFamily nombre con el que se registra la fuente incrustada.
const fontFamily = "festal-jp"

// ErrNoFont el generador necesita una fuente con glifos japoneses.
var ErrNoFont = errors.New("pdf: se requiere una fuente TrueType con glifos japoneses")

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var statusLabels = map[string]string{
	entity.BillingStatusDraft:     "下書き",
	entity.BillingStatusIssued:    "発行済",
	entity.BillingStatusSent:      "送付済",
	entity.BillingStatusCancelled: "取消",
}

var paymentLabels = map[string]string{
	entity.PaymentStatusUnpaid:  "未入金",
	entity.PaymentStatusPartial: "一部入金",
	entity.PaymentStatusPaid:    "入金済",
}

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	issuer      string
	fonts       []*fontentity.CustomFont
	compression bool
}

// Option configura el generador.
type Option func(*options)

type options struct {
	fontFile    string
	fontBytes   []byte
	compression bool
}

// WithFontFile toma la fuente de un archivo .ttf.
func WithFontFile(path string) Option {
	return func(o *options) { o.fontFile = path }
}

// WithFontBytes toma la fuente de memoria (por ejemplo, embebida en el binario).
func WithFontBytes(b []byte) Option {
	return func(o *options) { o.fontBytes = b }
}

// WithCompression activa o desactiva la compresión de los streams (activa por defecto).
func WithCompression(on bool) Option {
	return func(o *options) { o.compression = on }
}

// NewMarotoPDFGenerator construye el generador con el nombre del emisor. La fuente
// se lee una sola vez; la misma se registra como normal y negrita.
func NewMarotoPDFGenerator(issuer string, opts ...Option) (*MarotoPDFGenerator, error) {
	o := options{compression: true}
	for _, opt := range opts {
		opt(&o)
	}
	font := o.fontBytes
	if font == nil && o.fontFile != "" {
		b, err := os.ReadFile(o.fontFile)
		if err != nil {
			return nil, fmt.Errorf("pdf: leer fuente %s: %w", o.fontFile, err)
		}
		font = b
	}
	if len(font) == 0 {
		return nil, ErrNoFont
	}
	fonts, err := repository.New().
		AddUTF8FontFromBytes(fontFamily, fontstyle.Normal, font).
		AddUTF8FontFromBytes(fontFamily, fontstyle.Bold, font).
		Load()
	if err != nil {
		return nil, fmt.Errorf("pdf: cargar fuente: %w", err)
	}
	return &MarotoPDFGenerator{issuer: issuer, fonts: fonts, compression: o.compression}, nil
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, rec *entity.BillingRecord) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithCustomFonts(g.fonts).
		WithDefaultFont(&props.Font{Family: fontFamily, Size: 9}).
		WithCompression(g.compression).
		WithTitle("請求書 "+rec.InvoiceNumber, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rec, g.issuer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(rec))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow(), tableLineRow(rec))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(rec))
	m.AddRows(line.NewRow(3))
	m.AddRows(referenceRow(rec))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(rec *entity.BillingRecord, issuer string) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(issuer, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("請求書", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(rec.InvoiceNumber, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1}),
			text.New("発行日: "+rec.IssueDate.Format(entity.DateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("支払期限: "+rec.DueDate.Format(entity.DateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func customerRow(rec *entity.BillingRecord) core.Row {
	statusColor := colorGray
	if rec.Status == entity.BillingStatusCancelled {
		statusColor = colorRed
	}
	return row.New(14).Add(
		col.New(8).Add(
			text.New("請求先", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(rec.CustomerName+" 御中", props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
		col.New(4).Add(
			text.New(statusLabels[rec.Status], props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: statusColor, Top: 1,
			}),
			text.New(paymentLabels[rec.PaymentStatus], props.Text{
				Size: 8, Align: align.Right, Color: colorGray, Top: 7,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	return row.New(8).Add(
		col.New(8).Add(text.New("品目", props.Text{Style: fontstyle.Bold, Size: 8, Top: 2, Left: 1})),
		col.New(4).Add(text.New("金額", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 2, Right: 1})),
	)
}

func tableLineRow(rec *entity.BillingRecord) core.Row {
	return row.New(7).Add(
		col.New(8).Add(text.New("業務委託費（契約に基づく）", props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(4).Add(text.New(FormatYen(rec.Amount.StringFixed(0)), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
	)
}

func totalRow(rec *entity.BillingRecord) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("合計:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(FormatYen(rec.Amount.StringFixed(0)), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// referenceRow QR con número|emisión|importe para conciliación.
func referenceRow(rec *entity.BillingRecord) core.Row {
	payload := fmt.Sprintf("%s|%s|%s", rec.InvoiceNumber, rec.IssueDate.Format(entity.DateLayout), rec.Amount.StringFixed(0))
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(payload, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(text.New("お振込の際は請求書番号をご記入ください。", props.Text{
			Size: 8, Top: 4, Left: 3, Color: colorGray,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// FormatYen inserta separadores de miles en un string numérico sin decimales.
// Ej: "1100000" → "¥1,100,000", "-2500" → "-¥2,500".
func FormatYen(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + "¥" + string(buf)
}
