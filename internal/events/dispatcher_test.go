package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherFansOutToAllSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls int64
	handler := func(_ context.Context, ev Event) error {
		assert.Equal(t, EventStaffReplied, ev.Type)
		atomic.AddInt64(&calls, 1)
		return nil
	}
	d.Subscribe(EventStaffReplied, handler)
	d.Subscribe(EventStaffReplied, handler)
	d.Subscribe(EventTicketCreated, handler)

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventStaffReplied}))

	waiter, ok := d.(Waiter)
	require.True(t, ok)
	waiter.Wait()
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestDispatcherSwallowsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	d.Subscribe(EventTicketDeleted, func(context.Context, Event) error {
		return errors.New("handler exploded")
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketDeleted})
	require.NoError(t, err)
	d.(Waiter).Wait()
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketStatusChanged}))
	d.(Waiter).Wait()
}
