package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fashionfiesta/helpdesk/internal/domain"
)

func sampleTickets() []domain.Ticket {
	assignee := "staff-1"
	return []domain.Ticket{
		{
			ID:         "t-1",
			CustomerID: "c-1",
			Subject:    "Broken zipper",
			Message:    "The jacket arrived with a broken zipper.",
			Category:   domain.CategoryOrderIssue,
			Priority:   domain.TicketPriorityHigh,
			Status:     domain.TicketStatusInProgress,
			AssignedTo: &assignee,
			CreatedAt:  time.Date(2024, 3, 18, 10, 0, 0, 0, time.UTC),
			Customer:   &domain.User{ID: "c-1", Name: "Amira Shoukry", Email: "amira@example.com"},
			Assignee:   &domain.User{ID: "staff-1", Name: "Sara Adel"},
			Replies:    []domain.Reply{{ID: "r-1", UserID: "staff-1", Message: "On it", IsStaff: true}},
		},
		{
			ID:         "t-2",
			CustomerID: "c-2",
			Subject:    "Refund pending",
			Category:   domain.CategoryReturnRefund,
			Priority:   domain.TicketPriorityUrgent,
			Status:     domain.TicketStatusOpen,
		},
	}
}

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{
		"csv":  FormatCSV,
		"XLSX": FormatXLSX,
		"pdf":  FormatPDF,
		"":     FormatPDF,
	} {
		got, ok := ParseFormat(input)
		require.True(t, ok, input)
		assert.Equal(t, want, got)
	}
	_, ok := ParseFormat("docx")
	assert.False(t, ok)
}

func TestWriteTicketsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTicketsCSV(&buf, sampleTickets()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "ID", records[0][0])

	assert.Equal(t, "t-1", records[1][0])
	assert.Equal(t, "Amira Shoukry", records[1][2])
	assert.Equal(t, "Sara Adel", records[1][7])
	assert.Equal(t, "1", records[1][8])

	// unpopulated references degrade gracefully
	assert.Equal(t, "c-2", records[2][2])
	assert.Equal(t, "Unassigned", records[2][7])
	assert.Equal(t, "0", records[2][8])
}

func TestWriteUsersCSV(t *testing.T) {
	var buf bytes.Buffer
	users := []domain.User{{ID: "u-1", Name: "Mona", Email: "mona@example.com", Role: domain.RoleCustomer}}
	require.NoError(t, WriteUsersCSV(&buf, users))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"u-1", "Mona", "mona@example.com", "customer", ""}, records[1])
}

func TestWriteTicketsXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTicketsXLSX(&buf, sampleTickets()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Tickets")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Broken zipper", rows[1][1])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.NotEmpty(t, summary)
	assert.Equal(t, "Total Tickets", summary[0][0])
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	out := truncate(strings.Repeat("é", 30), 10)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, strings.Repeat("é", 7)+"...", out)

	// strings at or under the limit pass through untouched
	assert.Equal(t, "résumé", truncate("résumé", 6))
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "tiny max", truncate("tiny max", 3))
}

func TestWriteTicketsPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTicketsPDF(&buf, sampleTickets()))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}

func TestWriteUsersPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUsersPDF(&buf, []domain.User{{ID: "u-1", Name: "Mona", Role: domain.RoleAdmin}}))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}

func TestWriteTicketPDFWithStructuredMessage(t *testing.T) {
	ticket := sampleTickets()[0]
	ticket.Message = "CUSTOMER INFORMATION:\nName: Amira Shoukry\nEmail: amira@example.com\n\n" +
		"ORDER INFORMATION:\nOrder Number: FF-2024-1042\n\n" +
		"ADDITIONAL DETAILS:\nBroken zipper on arrival."

	var buf bytes.Buffer
	require.NoError(t, WriteTicketPDF(&buf, &ticket))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
	assert.Greater(t, buf.Len(), 1000)
}
