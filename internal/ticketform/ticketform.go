// Package ticketform recovers the structured fields that the storefront's
// "Additional Details" contact form concatenates into a ticket's free-text
// message. The form writes fixed section headers; readers pattern-match each
// section up to the next known header or the end of the string. The header
// literals and the stop rule are a compatibility contract with previously
// exported documents and must not drift.
package ticketform

import (
	"regexp"
	"strings"
)

// Section header literals written by the contact form.
const (
	HeaderCustomerInfo      = "CUSTOMER INFORMATION:"
	HeaderOrderInfo         = "ORDER INFORMATION:"
	HeaderAdditionalDetails = "ADDITIONAL DETAILS:"
	HeaderCategory          = "CATEGORY:"
	HeaderPriority          = "PRIORITY:"
)

// Details holds whatever structured fields could be recovered. Empty fields
// were absent from the message (or unparseable, which is indistinguishable).
type Details struct {
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	PreferredContact  string
	OrderNumber       string
	IssueDate         string
	AdditionalDetails string
	Category          string
	Priority          string
}

var allHeaders = []string{
	HeaderCustomerInfo,
	HeaderOrderInfo,
	HeaderAdditionalDetails,
	HeaderCategory,
	HeaderPriority,
}

var sectionPatterns = buildSectionPatterns()

func buildSectionPatterns() map[string]*regexp.Regexp {
	quoted := make([]string, len(allHeaders))
	for i, h := range allHeaders {
		quoted[i] = regexp.QuoteMeta(h)
	}
	stop := "(?:" + strings.Join(quoted, "|") + "|$)"

	patterns := make(map[string]*regexp.Regexp, len(allHeaders))
	for _, h := range allHeaders {
		patterns[h] = regexp.MustCompile("(?s)" + regexp.QuoteMeta(h) + `\s*(.*?)` + stop)
	}
	return patterns
}

// Section returns the raw text of the named section, trimmed, or "" if the
// header does not occur in the message.
func Section(message, header string) string {
	pattern, ok := sectionPatterns[header]
	if !ok {
		return ""
	}
	match := pattern.FindStringSubmatch(message)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

var lineFieldPattern = regexp.MustCompile(`(?m)^\s*([A-Za-z ]+?):\s*(.*)\s*$`)

func lineFields(section string) map[string]string {
	fields := make(map[string]string)
	for _, match := range lineFieldPattern.FindAllStringSubmatch(section, -1) {
		fields[strings.ToLower(strings.TrimSpace(match[1]))] = strings.TrimSpace(match[2])
	}
	return fields
}

// Parse extracts all known sections and sub-fields from a ticket message.
// It never fails; content that does not follow the convention simply yields
// empty fields. A message whose free text happens to contain a header
// literal will mis-parse, exactly as the original form reader did.
func Parse(message string) Details {
	details := Details{
		AdditionalDetails: Section(message, HeaderAdditionalDetails),
		Category:          firstLine(Section(message, HeaderCategory)),
		Priority:          firstLine(Section(message, HeaderPriority)),
	}

	customer := lineFields(Section(message, HeaderCustomerInfo))
	details.CustomerName = customer["name"]
	details.CustomerEmail = customer["email"]
	details.CustomerPhone = customer["phone"]
	details.PreferredContact = customer["preferred contact"]

	order := lineFields(Section(message, HeaderOrderInfo))
	details.OrderNumber = order["order number"]
	details.IssueDate = order["issue date"]

	return details
}

// HasStructure reports whether the message carries any known section header.
func HasStructure(message string) bool {
	for _, h := range allHeaders {
		if strings.Contains(message, h) {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
