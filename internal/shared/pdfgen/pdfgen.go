package pdfgen

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/RatishMoondra/pharma-backend/internal/procurement/entity"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/shopspring/decimal"
)

//go:embed templates/purchase_order.html
var poTemplateHTML string

// Generator renders purchase order PDFs through headless Chrome.
type Generator struct {
	tmpl    *template.Template
	timeout time.Duration
}

func New() (*Generator, error) {
	tmpl, err := template.New("purchase_order").Parse(poTemplateHTML)
	if err != nil {
		return nil, fmt.Errorf("parsing PO template: %w", err)
	}
	return &Generator{tmpl: tmpl, timeout: 30 * time.Second}, nil
}

type poTemplateData struct {
	PO          *entity.PurchaseOrder
	Number      string
	Date        string
	Rows        []poRow
	SubTotal    string
	GSTTotal    string
	GrandTotal  string
	AmountWords string
}

// poRow a line item with amounts preformatted for the template
type poRow struct {
	Index    int
	Name     string
	Code     string
	HSNCode  string
	Unit     string
	Quantity string
	Rate     string
	Value    string
	GSTRate  string
	GST      string
	Total    string
}

// PurchaseOrderPDF renders one PO as an A4 PDF.
func (g *Generator) PurchaseOrderPDF(ctx context.Context, po *entity.PurchaseOrder) ([]byte, error) {
	number := po.PONumber
	if number == "" {
		number = "DRAFT"
	}

	var subTotal, gstTotal decimal.Decimal
	rows := make([]poRow, 0, len(po.Items))
	for i, item := range po.Items {
		subTotal = subTotal.Add(item.Value)
		gstTotal = gstTotal.Add(item.GSTAmount)
		rows = append(rows, poRow{
			Index:    i + 1,
			Name:     item.ItemName,
			Code:     item.ItemCode,
			HSNCode:  item.HSNCode,
			Unit:     item.Unit,
			Quantity: strconv.FormatFloat(item.OrderedQuantity, 'f', 2, 64),
			Rate:     item.Rate.StringFixed(2),
			Value:    item.Value.StringFixed(2),
			GSTRate:  strconv.FormatFloat(item.GSTRate, 'f', 1, 64),
			GST:      item.GSTAmount.StringFixed(2),
			Total:    item.TotalAmount.StringFixed(2),
		})
	}
	grand := subTotal.Add(gstTotal)

	data := poTemplateData{
		PO:          po,
		Number:      number,
		Date:        po.CreatedAt.Format("02-Jan-2006"),
		Rows:        rows,
		SubTotal:    subTotal.StringFixed(2),
		GSTTotal:    gstTotal.StringFixed(2),
		GrandTotal:  grand.StringFixed(2),
		AmountWords: AmountInWords(grand),
	}

	var html bytes.Buffer
	if err := g.tmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("rendering PO template: %w", err)
	}

	return g.htmlToPDF(ctx, html.Bytes())
}

// htmlToPDF writes the HTML to a temp file and prints it with headless Chrome.
func (g *Generator) htmlToPDF(ctx context.Context, html []byte) ([]byte, error) {
	tmpHTML := filepath.Join(os.TempDir(), "po_"+time.Now().Format("20060102150405.000")+".html")
	if err := os.WriteFile(tmpHTML, html, 0644); err != nil {
		return nil, err
	}
	defer os.Remove(tmpHTML)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	ctx, cancelChrome := chromedp.NewContext(ctx)
	defer cancelChrome()

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("file://"+tmpHTML),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("printing PDF: %w", err)
	}
	return pdfBuf, nil
}
