package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/fashionfiesta/helpdesk/internal/domain"
)

// WriteTicketsCSV streams the ticket report as CSV.
func WriteTicketsCSV(w io.Writer, tickets []domain.Ticket) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"ID", "Subject", "Customer", "Customer Email", "Category",
		"Priority", "Status", "Assigned To", "Replies", "Created", "Last Activity",
	}); err != nil {
		return err
	}
	for i := range tickets {
		t := &tickets[i]
		record := []string{
			t.ID,
			t.Subject,
			customerName(t),
			customerEmail(t),
			string(t.Category),
			string(t.Priority),
			string(t.Status),
			assigneeName(t),
			strconv.Itoa(len(t.Replies)),
			formatTime(t.CreatedAt),
			formatTime(t.LastActivity),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteUsersCSV streams the user report as CSV.
func WriteUsersCSV(w io.Writer, users []domain.User) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ID", "Name", "Email", "Role", "Registered"}); err != nil {
		return err
	}
	for i := range users {
		u := &users[i]
		record := []string{u.ID, u.Name, u.Email, string(u.Role), formatTime(u.CreatedAt)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
