package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fashionfiesta/helpdesk/internal/domain"
	"github.com/fashionfiesta/helpdesk/internal/report"
	"github.com/fashionfiesta/helpdesk/internal/repository"
)

func TestReportServiceRequiresStaff(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewReportService(store.Tickets(), store.Replies(), store.Users())
	customer := &domain.User{ID: "c-1", Role: domain.RoleCustomer}

	var buf bytes.Buffer
	assertStatus(t, svc.WriteTicketReport(context.Background(), customer, report.FormatCSV, &buf), 403)
	assertStatus(t, svc.WriteUserReport(context.Background(), customer, report.FormatCSV, &buf), 403)
}

func TestTicketReportIncludesThreadCounts(t *testing.T) {
	env := newTicketEnv(t)
	ctx := context.Background()

	ticket := env.openTicket(t, env.customer)
	_, err := env.svc.AddReply(ctx, env.agent, ticket.ID, "on it")
	require.NoError(t, err)
	wait(env.dispatcher)

	svc := NewReportService(env.store.Tickets(), env.store.Replies(), env.store.Users())

	var buf bytes.Buffer
	require.NoError(t, svc.WriteTicketReport(ctx, env.admin, report.FormatCSV, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Order arrived damaged", records[1][1])
	assert.Equal(t, env.customer.Name, records[1][2])
	assert.Equal(t, env.agent.Name, records[1][7])
	assert.Equal(t, "1", records[1][8])
}

func TestUserReportPDF(t *testing.T) {
	env := newTicketEnv(t)
	svc := NewReportService(env.store.Tickets(), env.store.Replies(), env.store.Users())

	var buf bytes.Buffer
	require.NoError(t, svc.WriteUserReport(context.Background(), env.agent, report.FormatPDF, &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}
