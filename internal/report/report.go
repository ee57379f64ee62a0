// Package report renders ticket and user exports for staff in CSV, XLSX and
// PDF form. Renderers take fully-populated domain slices and write to an
// io.Writer; fetching and authorization stay with the caller.
package report

import (
	"strings"
	"time"

	"github.com/fashionfiesta/helpdesk/internal/domain"
)

// Format names an export format requested by the caller.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat normalizes a user-supplied format string. PDF is the default.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, true
	case FormatXLSX:
		return FormatXLSX, true
	case FormatPDF, "":
		return FormatPDF, true
	}
	return "", false
}

// ContentType returns the MIME type to serve the format under.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/pdf"
	}
}

// Extension returns the file extension, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatXLSX:
		return ".xlsx"
	default:
		return ".pdf"
	}
}

const timeLayout = "2006-01-02 15:04"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func assigneeName(t *domain.Ticket) string {
	if t.Assignee != nil {
		return t.Assignee.Name
	}
	if t.AssignedTo != nil {
		return *t.AssignedTo
	}
	return "Unassigned"
}

func customerName(t *domain.Ticket) string {
	if t.Customer != nil {
		return t.Customer.Name
	}
	return t.CustomerID
}

func customerEmail(t *domain.Ticket) string {
	if t.Customer != nil {
		return t.Customer.Email
	}
	return ""
}
