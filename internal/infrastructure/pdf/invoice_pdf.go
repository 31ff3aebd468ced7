package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/infrastructure/config"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const dateLayout = "02 Jan 2006"

// InvoiceRenderer renders invoices as A4 PDF documents
type InvoiceRenderer struct {
	company config.CompanyConfig
}

// NewInvoiceRenderer creates a new InvoiceRenderer
func NewInvoiceRenderer(company config.CompanyConfig) *InvoiceRenderer {
	return &InvoiceRenderer{company: company}
}

// Render produces the PDF document for an invoice. The invoice's
// Payments slice is expected to be loaded by the caller.
func (r *InvoiceRenderer) Render(invoice *billing.Invoice, customer *billing.Customer) ([]byte, error) {
	if invoice == nil {
		return nil, fmt.Errorf("invoice is required")
	}
	if customer == nil {
		return nil, fmt.Errorf("customer is required")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(invoice.InvoiceNumber, false)
	pdf.AddPage()

	r.renderHeader(pdf)
	r.renderMeta(pdf, invoice, customer)
	r.renderLineTable(pdf, invoice)
	r.renderPayments(pdf, invoice)
	r.renderTotals(pdf, invoice)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice %s: %w", invoice.InvoiceNumber, err)
	}
	return buf.Bytes(), nil
}

func (r *InvoiceRenderer) renderHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(120, 10, r.company.Name)
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(90, 90, 90)
	for _, line := range []string{r.company.Address, r.company.Phone, r.company.Email} {
		if line == "" {
			continue
		}
		pdf.CellFormat(0, 4.5, line, "", 1, "L", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)
}

func (r *InvoiceRenderer) renderMeta(pdf *gofpdf.Fpdf, invoice *billing.Invoice, customer *billing.Customer) {
	left := pdf.GetX()

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(95, 5, "Bill To", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, "", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 5, customer.Name, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(45, 5, "Invoice Number", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, invoice.InvoiceNumber, "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 5, customer.Address, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(45, 5, "Issue Date", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, invoice.IssueDate.Format(dateLayout), "", 1, "R", false, 0, "")

	contact := customer.Phone
	if customer.Email != "" {
		if contact != "" {
			contact += " / "
		}
		contact += customer.Email
	}
	pdf.CellFormat(95, 5, contact, "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(45, 5, "Due Date", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, invoice.DueDate.Format(dateLayout), "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(95, 5, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(45, 5, "Status", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 5, strings.ToUpper(string(invoice.Status)), "", 1, "R", false, 0, "")

	pdf.SetX(left)
	pdf.Ln(8)
}

func (r *InvoiceRenderer) renderLineTable(pdf *gofpdf.Fpdf, invoice *billing.Invoice) {
	pdf.SetFillColor(235, 235, 235)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(140, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Amount", "1", 1, "R", true, 0, "")

	description := invoice.Description
	if description == "" {
		description = "Services rendered"
	}

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(140, 8, description, "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, formatIDR(invoice.Amount), "1", 1, "R", false, 0, "")
	pdf.Ln(4)
}

func (r *InvoiceRenderer) renderPayments(pdf *gofpdf.Fpdf, invoice *billing.Invoice) {
	if len(invoice.Payments) == 0 {
		return
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Payments", "", 1, "L", false, 0, "")

	pdf.SetFillColor(235, 235, 235)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(40, 7, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 7, "Method", "1", 0, "L", true, 0, "")
	pdf.CellFormat(65, 7, "Note", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 7, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, p := range invoice.Payments {
		pdf.CellFormat(40, 7, p.PaymentDate.Format(dateLayout), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, methodLabel(p.Method), "1", 0, "L", false, 0, "")
		pdf.CellFormat(65, 7, p.Note, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, formatIDR(p.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func (r *InvoiceRenderer) renderTotals(pdf *gofpdf.Fpdf, invoice *billing.Invoice) {
	balance := invoice.Amount.Sub(invoice.PaidAmount)
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	rows := []struct {
		label string
		value decimal.Decimal
		bold  bool
	}{
		{"Total", invoice.Amount, false},
		{"Paid", invoice.PaidAmount, false},
		{"Balance Due", balance, true},
	}

	for _, row := range rows {
		style := ""
		if row.bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(140, 7, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, formatIDR(row.value), "", 1, "R", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated on %s", time.Now().Format(dateLayout)), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func methodLabel(method billing.PaymentMethod) string {
	switch method {
	case billing.PaymentMethodCash:
		return "Cash"
	case billing.PaymentMethodTransfer:
		return "Bank Transfer"
	case billing.PaymentMethodQRIS:
		return "QRIS"
	default:
		return string(method)
	}
}

// formatIDR renders an amount as Indonesian Rupiah with dot
// thousand separators, e.g. "Rp 1.500.000"
func formatIDR(amount decimal.Decimal) string {
	whole := amount.Truncate(0)
	digits := whole.Abs().String()

	var b strings.Builder
	for i, ch := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}

	cents := amount.Abs().Sub(whole.Abs())
	if cents.IsZero() {
		return fmt.Sprintf("Rp %s%s", sign, b.String())
	}
	return fmt.Sprintf("Rp %s%s,%s", sign, b.String(), cents.StringFixed(2)[2:])
}
