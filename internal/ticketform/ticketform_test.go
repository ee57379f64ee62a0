package ticketform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const formMessage = `CUSTOMER INFORMATION:
Name: Amira Shoukry
Email: amira@example.com
Phone: +20 100 555 0101
Preferred Contact: email

ORDER INFORMATION:
Order Number: FF-2024-1042
Issue Date: 2024-03-18

ADDITIONAL DETAILS:
The jacket arrived with a broken zipper.
I would like a replacement, not a refund.

CATEGORY:
Order Issue

PRIORITY:
High`

func TestParseFullForm(t *testing.T) {
	details := Parse(formMessage)

	assert.Equal(t, "Amira Shoukry", details.CustomerName)
	assert.Equal(t, "amira@example.com", details.CustomerEmail)
	assert.Equal(t, "+20 100 555 0101", details.CustomerPhone)
	assert.Equal(t, "email", details.PreferredContact)
	assert.Equal(t, "FF-2024-1042", details.OrderNumber)
	assert.Equal(t, "2024-03-18", details.IssueDate)
	assert.Equal(t, "The jacket arrived with a broken zipper.\nI would like a replacement, not a refund.", details.AdditionalDetails)
	assert.Equal(t, "Order Issue", details.Category)
	assert.Equal(t, "High", details.Priority)
}

func TestParsePlainMessage(t *testing.T) {
	details := Parse("just a free-form complaint with no structure")
	assert.Equal(t, Details{}, details)
}

func TestParsePartialForm(t *testing.T) {
	details := Parse("CUSTOMER INFORMATION:\nName: Omar\n\nsome trailing text")
	assert.Equal(t, "Omar", details.CustomerName)
	assert.Empty(t, details.OrderNumber)
	assert.Empty(t, details.Category)
}

func TestSectionStopsAtNextHeader(t *testing.T) {
	msg := "ADDITIONAL DETAILS:\nline one\nCATEGORY:\nPayment"
	assert.Equal(t, "line one", Section(msg, HeaderAdditionalDetails))
	assert.Equal(t, "Payment", Section(msg, HeaderCategory))
}

func TestHasStructure(t *testing.T) {
	assert.True(t, HasStructure(formMessage))
	assert.True(t, HasStructure("prefix text CATEGORY:\nGeneral"))
	assert.False(t, HasStructure("nothing to see here"))
}

func TestHeaderLiteralInsideFreeTextMisparses(t *testing.T) {
	// the format is positional: a header literal occurring in free text is
	// picked up as a real section, matching the historical reader
	msg := "my email signature says CATEGORY:\nRandom"
	assert.Equal(t, "Random", Parse(msg).Category)
}
