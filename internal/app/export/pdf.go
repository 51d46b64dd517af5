// Package export renders the order summary document handed to customers.
package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"orderledger/internal/app/ds"

	"github.com/dustin/go-humanize"
	"github.com/jung-kurt/gofpdf"
)

var ErrNothingToExport = errors.New("no line items to export")

type Options struct {
	Title         string
	CurrencyLabel string
	Footer        string
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Order Summary"
	}
	if o.CurrencyLabel == "" {
		o.CurrencyLabel = "Rs."
	}
	if o.Footer == "" {
		o.Footer = "Thank you for your business!"
	}
	return o
}

// Summary is everything the document shows: the items in ledger order and their total.
type Summary struct {
	Items       []ds.LineItem
	Total       float64
	GeneratedAt time.Time
}

type column struct {
	title string
	width float64
	align string
}

var columns = []column{
	{"Product Code", 40, "L"},
	{"Description", 88, "L"},
	{"Qty", 20, "C"},
	{"Price", 42, "R"},
}

// FormatMoney renders an amount with two decimals and thousands separators.
func FormatMoney(label string, amount float64) string {
	s := humanize.FormatFloat("#,###.##", amount)
	if label == "" {
		return s
	}
	return label + " " + s
}

// Filename is the download name for a summary generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("order-summary-%s.pdf", t.Format("20060102-150405"))
}

// RenderPDF writes the summary as an A4 PDF: header, item table, total row, footer.
func RenderPDF(w io.Writer, s Summary, opts Options) error {
	if len(s.Items) == 0 {
		return ErrNothingToExport
	}
	opts = opts.withDefaults()
	if s.GeneratedAt.IsZero() {
		s.GeneratedAt = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(opts.Title, true)
	pdf.SetCreator("orderledger", true)
	pdf.SetCreationDate(s.GeneratedAt)
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(17, 24, 39)
	pdf.CellFormat(0, 12, tr(opts.Title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(75, 85, 99)
	generated := fmt.Sprintf("Generated on %s at %s",
		s.GeneratedAt.Format("02.01.2006"), s.GeneratedAt.Format("15:04:05"))
	pdf.CellFormat(0, 6, generated, "", 1, "L", false, 0, "")
	pdf.Ln(8)

	// header
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(243, 244, 246)
	pdf.SetDrawColor(229, 231, 235)
	for _, c := range columns {
		pdf.CellFormat(c.width, 9, c.title, "B", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	for _, it := range s.Items {
		cells := []string{
			it.Code,
			it.Description,
			fmt.Sprintf("%d", it.Quantity),
			FormatMoney(opts.CurrencyLabel, it.FinalPrice),
		}
		for i, c := range columns {
			text := fit(pdf, tr(cells[i]), c.width-2)
			pdf.CellFormat(c.width, 8, text, "B", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	// total
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(249, 250, 251)
	labelWidth := 0.0
	for _, c := range columns[:len(columns)-1] {
		labelWidth += c.width
	}
	last := columns[len(columns)-1]
	pdf.CellFormat(labelWidth, 10, "Total:", "T", 0, "R", true, 0, "")
	pdf.CellFormat(last.width, 10, FormatMoney(opts.CurrencyLabel, s.Total), "T", 1, "R", true, 0, "")

	pdf.Ln(14)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(0, 6, tr(opts.Footer), "", 1, "L", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// fit shortens text with an ellipsis until it fits in width.
func fit(pdf *gofpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	r := []rune(text)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
