package report

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"

	"github.com/fashionfiesta/helpdesk/internal/domain"
	"github.com/fashionfiesta/helpdesk/internal/ticketform"
)

func newReportPDF(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
		pdf.Ln(2)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	return pdf
}

func writeTableRow(pdf *gofpdf.Fpdf, widths []float64, cells []string, header bool) {
	if header {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
	} else {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetFillColor(255, 255, 255)
	}
	for i, cell := range cells {
		pdf.CellFormat(widths[i], 6, truncate(cell, int(widths[i]/1.6)), "1", 0, "L", header, 0, "")
	}
	pdf.Ln(-1)
}

// truncate shortens cell text to max characters, cutting on rune boundaries
// so accented subjects never render as mojibake.
func truncate(s string, max int) string {
	if max < 4 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}

// WriteTicketsPDF renders the ticket report as a paged PDF table.
func WriteTicketsPDF(w io.Writer, tickets []domain.Ticket) error {
	pdf := newReportPDF("Fashion Fiesta - Ticket Report")

	widths := []float64{38, 52, 34, 26, 20, 22, 28, 12, 26, 26}
	headers := []string{
		"ID", "Subject", "Customer", "Category", "Priority",
		"Status", "Assigned To", "Rep", "Created", "Last Activity",
	}
	writeTableRow(pdf, widths, headers, true)

	for i := range tickets {
		t := &tickets[i]
		if pdf.GetY() > 180 {
			pdf.AddPage()
			writeTableRow(pdf, widths, headers, true)
		}
		writeTableRow(pdf, widths, []string{
			t.ID,
			t.Subject,
			customerName(t),
			string(t.Category),
			string(t.Priority),
			string(t.Status),
			assigneeName(t),
			strconv.Itoa(len(t.Replies)),
			formatTime(t.CreatedAt),
			formatTime(t.LastActivity),
		}, false)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total tickets: %d", len(tickets)), "", 1, "L", false, 0, "")

	return pdf.Output(w)
}

// WriteUsersPDF renders the user report as a paged PDF table.
func WriteUsersPDF(w io.Writer, users []domain.User) error {
	pdf := newReportPDF("Fashion Fiesta - User Report")

	widths := []float64{60, 60, 80, 30, 34}
	headers := []string{"ID", "Name", "Email", "Role", "Registered"}
	writeTableRow(pdf, widths, headers, true)

	for i := range users {
		u := &users[i]
		if pdf.GetY() > 180 {
			pdf.AddPage()
			writeTableRow(pdf, widths, headers, true)
		}
		writeTableRow(pdf, widths, []string{
			u.ID, u.Name, u.Email, string(u.Role), formatTime(u.CreatedAt),
		}, false)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total users: %d", len(users)), "", 1, "L", false, 0, "")

	return pdf.Output(w)
}

// WriteTicketPDF renders a single ticket, its parsed form details and its
// reply thread as a printable document.
func WriteTicketPDF(w io.Writer, t *domain.Ticket) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Support Ticket "+t.ID, false)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Support Ticket", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Ticket ID: "+t.ID, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	labelValue := func(label, value string) {
		if value == "" {
			return
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, value, "", "L", false)
	}

	sectionTitle := func(title string) {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(0, 8, title, "", 1, "L", true, 0, "")
		pdf.Ln(1)
	}

	sectionTitle("Ticket Details")
	labelValue("Subject:", t.Subject)
	labelValue("Category:", string(t.Category))
	labelValue("Priority:", string(t.Priority))
	labelValue("Status:", string(t.Status))
	labelValue("Assigned To:", assigneeName(t))
	labelValue("Created:", formatTime(t.CreatedAt))
	labelValue("Last Activity:", formatTime(t.LastActivity))

	details := ticketform.Parse(t.Message)

	sectionTitle("Customer Information")
	name := details.CustomerName
	if name == "" {
		name = customerName(t)
	}
	email := details.CustomerEmail
	if email == "" {
		email = customerEmail(t)
	}
	labelValue("Name:", name)
	labelValue("Email:", email)
	labelValue("Phone:", details.CustomerPhone)
	labelValue("Preferred Contact:", details.PreferredContact)

	if details.OrderNumber != "" || details.IssueDate != "" {
		sectionTitle("Order Information")
		labelValue("Order Number:", details.OrderNumber)
		labelValue("Issue Date:", details.IssueDate)
	}

	sectionTitle("Message")
	body := details.AdditionalDetails
	if body == "" {
		body = t.Message
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, body, "", "L", false)

	if len(t.Replies) > 0 {
		sectionTitle(fmt.Sprintf("Replies (%d)", len(t.Replies)))
		for i := range t.Replies {
			r := &t.Replies[i]
			author := r.UserID
			if r.Author != nil {
				author = r.Author.Name
			}
			role := "Customer"
			if r.IsStaff {
				role = "Support Staff"
			}
			pdf.SetFont("Helvetica", "B", 9)
			pdf.CellFormat(0, 6, fmt.Sprintf("%s (%s) - %s", author, role, formatTime(r.CreatedAt)), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 6, r.Message, "", "L", false)
			pdf.Ln(2)
		}
	}

	if len(t.Attachments) > 0 {
		sectionTitle(fmt.Sprintf("Attachments (%d)", len(t.Attachments)))
		pdf.SetFont("Helvetica", "", 10)
		for i := range t.Attachments {
			a := &t.Attachments[i]
			pdf.CellFormat(0, 6, fmt.Sprintf("- %s (%d bytes)", a.FileName, a.FileSize), "", 1, "L", false, 0, "")
		}
	}

	return pdf.Output(w)
}
