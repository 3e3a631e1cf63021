// Package printer renders the pickup receipt handed to a customer at repair
// intake, adapted from a QR label sheet generator.
package printer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/fonelab/repairshopgo/internal/models"
)

// GenerateRepairReceipt creates an A6 PDF receipt for a repair ticket with
// a QR code of the ticket number for pickup scanning.
// Core PDF fonts carry no CJK glyphs, so the receipt sticks to the ticket
// number, dates and amounts; descriptions stay on the dashboard.
func GenerateRepairReceipt(repair *models.Repair, shopName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A6", "")
	pdf.SetMargins(8, 8, 8)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, shopName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, "Repair Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Ticket: %s", repair.TicketNo), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Model:  %s", repair.PhoneModel), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Date:   %s", repair.CreatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Deposit: %.2f", repair.Deposit), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Price:   %.2f", repair.Price), "", 1, "L", false, 0, "")

	// QR code of the ticket number, centered below the details
	qrPng, err := qrcode.Encode(repair.TicketNo, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}

	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	reader := bytes.NewReader(qrPng)
	pdf.RegisterImageOptionsReader("ticket_qr", imgOptions, reader)

	pageW, _ := pdf.GetPageSize()
	qrSize := 40.0
	pdf.ImageOptions("ticket_qr", (pageW-qrSize)/2, pdf.GetY()+4, qrSize, qrSize, false, imgOptions, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
