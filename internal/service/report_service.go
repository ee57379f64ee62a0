package service

import (
	"context"
	"io"

	"github.com/fashionfiesta/helpdesk/internal/domain"
	"github.com/fashionfiesta/helpdesk/internal/report"
	"github.com/fashionfiesta/helpdesk/internal/repository"
	apperrors "github.com/fashionfiesta/helpdesk/pkg/util/errorutil"
)

// reportBatchSize pages through the store while assembling an export.
const reportBatchSize = 500

// ReportService produces staff exports of tickets and users.
type ReportService struct {
	tickets repository.TicketRepository
	replies repository.ReplyRepository
	users   repository.UserRepository
}

// NewReportService constructs the service.
func NewReportService(tickets repository.TicketRepository, replies repository.ReplyRepository, users repository.UserRepository) *ReportService {
	return &ReportService{tickets: tickets, replies: replies, users: users}
}

// WriteTicketReport renders every ticket to w in the requested format.
func (s *ReportService) WriteTicketReport(ctx context.Context, staff *domain.User, format report.Format, w io.Writer) error {
	if !staff.IsStaff() {
		return apperrors.NewForbidden("staff access required")
	}

	tickets, err := s.collectTickets(ctx)
	if err != nil {
		return apperrors.MapError(err)
	}

	switch format {
	case report.FormatCSV:
		err = report.WriteTicketsCSV(w, tickets)
	case report.FormatXLSX:
		err = report.WriteTicketsXLSX(w, tickets)
	default:
		err = report.WriteTicketsPDF(w, tickets)
	}
	return apperrors.MapError(err)
}

// WriteUserReport renders every account to w in the requested format.
func (s *ReportService) WriteUserReport(ctx context.Context, staff *domain.User, format report.Format, w io.Writer) error {
	if !staff.IsStaff() {
		return apperrors.NewForbidden("staff access required")
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return apperrors.MapError(err)
	}

	switch format {
	case report.FormatCSV:
		err = report.WriteUsersCSV(w, users)
	case report.FormatXLSX:
		err = report.WriteUsersXLSX(w, users)
	default:
		err = report.WriteUsersPDF(w, users)
	}
	return apperrors.MapError(err)
}

// collectTickets pages through the whole ticket table, attaching reply
// threads and user references so the renderers have everything they need.
func (s *ReportService) collectTickets(ctx context.Context) ([]domain.Ticket, error) {
	var all []domain.Ticket
	offset := 0
	for {
		batch, total, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
			Limit:  reportBatchSize,
			Offset: offset,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		offset += len(batch)
		if int64(offset) >= total || len(batch) == 0 {
			break
		}
	}

	userIDs := make([]string, 0, len(all))
	for i := range all {
		t := &all[i]
		userIDs = append(userIDs, t.CustomerID)
		if t.AssignedTo != nil {
			userIDs = append(userIDs, *t.AssignedTo)
		}
		replies, err := s.replies.ListByTicket(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		t.Replies = replies
	}

	users, err := s.users.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	for i := range all {
		all[i].Customer = users[all[i].CustomerID]
		if all[i].AssignedTo != nil {
			all[i].Assignee = users[*all[i].AssignedTo]
		}
	}
	return all, nil
}
