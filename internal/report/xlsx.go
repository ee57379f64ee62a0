package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/fashionfiesta/helpdesk/internal/domain"
)

// WriteTicketsXLSX renders the ticket report as an Excel workbook with a
// detail sheet and a summary sheet of counts by status and priority.
func WriteTicketsXLSX(w io.Writer, tickets []domain.Ticket) error {
	f := excelize.NewFile()
	defer f.Close()

	const detailSheet = "Tickets"
	f.SetSheetName("Sheet1", detailSheet)

	headers := []string{
		"ID", "Subject", "Customer", "Customer Email", "Category",
		"Priority", "Status", "Assigned To", "Replies", "Created", "Last Activity",
	}
	if err := writeHeaderRow(f, detailSheet, headers); err != nil {
		return err
	}

	byStatus := make(map[string]int)
	byPriority := make(map[string]int)
	for i := range tickets {
		t := &tickets[i]
		byStatus[string(t.Status)]++
		byPriority[string(t.Priority)]++

		row := []interface{}{
			t.ID, t.Subject, customerName(t), customerEmail(t),
			string(t.Category), string(t.Priority), string(t.Status),
			assigneeName(t), len(t.Replies), formatTime(t.CreatedAt), formatTime(t.LastActivity),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(detailSheet, cell, &row); err != nil {
			return err
		}
	}

	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	summaryRows := [][]interface{}{
		{"Total Tickets", len(tickets)},
		{},
		{"By Status", ""},
	}
	for _, status := range []domain.TicketStatus{
		domain.TicketStatusOpen, domain.TicketStatusInProgress,
		domain.TicketStatusResolved, domain.TicketStatusClosed,
	} {
		summaryRows = append(summaryRows, []interface{}{string(status), byStatus[string(status)]})
	}
	summaryRows = append(summaryRows, []interface{}{}, []interface{}{"By Priority", ""})
	for _, priority := range []domain.TicketPriority{
		domain.TicketPriorityLow, domain.TicketPriorityMedium,
		domain.TicketPriorityHigh, domain.TicketPriorityUrgent,
	} {
		summaryRows = append(summaryRows, []interface{}{string(priority), byPriority[string(priority)]})
	}
	for i, row := range summaryRows {
		if len(row) == 0 {
			continue
		}
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// WriteUsersXLSX renders the user report as an Excel workbook.
func WriteUsersXLSX(w io.Writer, users []domain.User) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Users"
	f.SetSheetName("Sheet1", sheet)

	if err := writeHeaderRow(f, sheet, []string{"ID", "Name", "Email", "Role", "Registered"}); err != nil {
		return err
	}
	for i := range users {
		u := &users[i]
		row := []interface{}{u.ID, u.Name, u.Email, string(u.Role), formatTime(u.CreatedAt)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	styleID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return err
	}
	lastCell, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", lastCell, styleID)
}
