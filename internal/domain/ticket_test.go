package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStaff(t *testing.T) {
	assert.False(t, (&User{Role: RoleCustomer}).IsStaff())
	assert.True(t, (&User{Role: RoleSupport}).IsStaff())
	assert.True(t, (&User{Role: RoleAdmin}).IsStaff())

	var nobody *User
	assert.False(t, nobody.IsStaff())
	assert.False(t, nobody.IsAdmin())
}

func TestHasStaffReply(t *testing.T) {
	ticket := &Ticket{}
	assert.False(t, ticket.HasStaffReply())

	ticket.Replies = []Reply{{IsStaff: false}, {IsStaff: false}}
	assert.False(t, ticket.HasStaffReply())

	ticket.Replies = append(ticket.Replies, Reply{IsStaff: true})
	assert.True(t, ticket.HasStaffReply())
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, ValidStatus(TicketStatusInProgress))
	assert.False(t, ValidStatus("Escalated"))

	assert.True(t, ValidPriority(TicketPriorityUrgent))
	assert.False(t, ValidPriority("Critical"))

	assert.True(t, ValidCategory(CategoryReturnRefund))
	assert.False(t, ValidCategory("Complaints"))
}
