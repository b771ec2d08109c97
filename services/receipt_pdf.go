package services

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/restaurant-frontdesk/models"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

// RenderReceiptPDF writes an A5 receipt for one payment of order.
// order must have Items (with MenuItem/Variant) and Payments preloaded.
func RenderReceiptPDF(w io.Writer, order *models.Order, payment *models.Payment) error {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetTitle("Receipt "+payment.ReceiptNo, true)
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "RECEIPT", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, payment.ReceiptNo, "", 1, "C", false, 0, "")
	pdf.Ln(3)

	tableLabel := fmt.Sprintf("#%d", order.TableID)
	if order.Table != nil {
		tableLabel = order.Table.Number
	}
	pdf.CellFormat(0, 5, fmt.Sprintf("Order %d  Table %s", order.ID, tr(tableLabel)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Paid at "+payment.PaidAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(70, 6, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(12, 6, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(23, 6, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(23, 6, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for i := range order.Items {
		item := &order.Items[i]
		pdf.CellFormat(70, 6, tr(itemLabel(item)), "", 0, "L", false, 0, "")
		pdf.CellFormat(12, 6, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(23, 6, utils.FormatCurrencyIDR(item.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(23, 6, utils.FormatCurrencyIDR(item.Subtotal()), "", 1, "R", false, 0, "")
	}

	summary := Summarize(order)
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 9)
	summaryRow(pdf, "Total", summary.Total)
	pdf.SetFont("Helvetica", "", 9)
	summaryRow(pdf, "This payment ("+payment.Method+")", payment.Amount)
	summaryRow(pdf, "Paid to date", summary.Paid)
	summaryRow(pdf, "Balance", summary.Balance)

	if pdf.Err() {
		return fmt.Errorf("render receipt %s: %w", payment.ReceiptNo, pdf.Error())
	}
	return pdf.Output(w)
}

func summaryRow(pdf *fpdf.Fpdf, label string, amount float64) {
	pdf.CellFormat(105, 6, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(23, 6, utils.FormatCurrencyIDR(amount), "", 1, "R", false, 0, "")
}

func itemLabel(item *models.OrderItem) string {
	name := fmt.Sprintf("Menu #%d", item.MenuItemID)
	if item.MenuItem != nil {
		name = item.MenuItem.Name
	}
	if item.Variant != nil {
		name += " (" + item.Variant.Name + ")"
	}
	return name
}
