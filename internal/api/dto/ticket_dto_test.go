package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fashionfiesta/helpdesk/internal/domain"
	"github.com/fashionfiesta/helpdesk/internal/service"
)

func TestNewTicketResponseEmptyCollections(t *testing.T) {
	resp := NewTicketResponse(&domain.Ticket{ID: "t-1", Message: "plain message"})

	// listings must serialize empty arrays, not null
	require.NotNil(t, resp.Replies)
	require.NotNil(t, resp.Attachments)
	assert.Empty(t, resp.Replies)
	assert.Nil(t, resp.Customer)
	assert.Nil(t, resp.FormDetails)
}

func TestNewTicketResponseParsesFormMessage(t *testing.T) {
	ticket := &domain.Ticket{
		ID: "t-1",
		Message: "CUSTOMER INFORMATION:\nName: Amira\nEmail: amira@example.com\n\n" +
			"ORDER INFORMATION:\nOrder Number: FF-1042\n\n" +
			"ADDITIONAL DETAILS:\nBroken zipper.",
	}
	resp := NewTicketResponse(ticket)

	require.NotNil(t, resp.FormDetails)
	assert.Equal(t, "Amira", resp.FormDetails.CustomerName)
	assert.Equal(t, "FF-1042", resp.FormDetails.OrderNumber)
	assert.Equal(t, "Broken zipper.", resp.FormDetails.AdditionalDetails)
}

func TestNewTicketPageResponse(t *testing.T) {
	page := &service.TicketPage{
		Tickets:    []domain.Ticket{{ID: "t-1"}},
		Pagination: service.Pagination{Page: 1, Limit: 10, Total: 1, TotalPages: 1},
		Degraded:   true,
	}
	resp := NewTicketPageResponse(page)

	assert.True(t, resp.Success)
	assert.True(t, resp.Degraded)
	require.Len(t, resp.Tickets, 1)
	assert.Equal(t, int64(1), resp.Pagination.Total)
}
