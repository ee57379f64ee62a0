package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fashionfiesta/helpdesk/internal/domain"
	"github.com/fashionfiesta/helpdesk/internal/events"
	"github.com/fashionfiesta/helpdesk/internal/mail"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) mail.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return mail.Result{Delivered: true, MessageID: "test"}
}

func (m *recordingMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message{}, m.sent...)
}

func TestStaffReplyTriggersCustomerEmail(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	mailer := &recordingMailer{}
	svc := NewNotificationService(dispatcher, mailer, zap.NewNop(), "https://shop.example.com/")
	svc.RegisterHandlers()

	ticket := &domain.Ticket{
		ID:       "t-1",
		Subject:  "Broken zipper",
		Status:   domain.TicketStatusInProgress,
		Priority: domain.TicketPriorityHigh,
		Customer: &domain.User{Name: "Amira", Email: "amira@example.com"},
	}
	reply := &domain.Reply{Message: "A replacement is on its way.", IsStaff: true}
	staff := &domain.User{ID: "s-1", Name: "Sara Adel", Role: domain.RoleSupport}

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventStaffReplied,
		TicketID: ticket.ID,
		Payload:  events.StaffRepliedPayload{Ticket: ticket, Reply: reply, Staff: staff},
	}))
	dispatcher.(events.Waiter).Wait()

	sent := mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "amira@example.com", sent[0].To)
	assert.Contains(t, sent[0].Subject, "Broken zipper")
	assert.Contains(t, sent[0].Body, "Sara Adel")
	assert.Contains(t, sent[0].Body, "A replacement is on its way.")
	assert.Contains(t, sent[0].Body, "https://shop.example.com/tickets/t-1")
}

func TestNotificationSkipsWithoutCustomerEmail(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	mailer := &recordingMailer{}
	svc := NewNotificationService(dispatcher, mailer, zap.NewNop(), "https://shop.example.com")
	svc.RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventStaffReplied,
		Payload: events.StaffRepliedPayload{Ticket: &domain.Ticket{ID: "t-2"}, Reply: &domain.Reply{}},
	}))
	dispatcher.(events.Waiter).Wait()

	assert.Empty(t, mailer.messages())
}

func TestNotificationIgnoresForeignPayload(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	mailer := &recordingMailer{}
	svc := NewNotificationService(dispatcher, mailer, zap.NewNop(), "")
	svc.RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventStaffReplied,
		Payload: "not the right payload",
	}))
	dispatcher.(events.Waiter).Wait()

	assert.Empty(t, mailer.messages())
}
