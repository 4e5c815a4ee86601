package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quickstop/cafebot/internal/domain"
	"github.com/quickstop/cafebot/internal/events"
	"github.com/quickstop/cafebot/internal/notify"
	"github.com/quickstop/cafebot/internal/queue"
	"github.com/quickstop/cafebot/internal/session"
	"github.com/quickstop/cafebot/internal/storage"
	apperrors "github.com/quickstop/cafebot/pkg/util"
)

// AdminService backs the secret-protected admin HTTP endpoints.
type AdminService struct {
	repo       storage.Repository
	sender     notify.Sender
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(repo storage.Repository, sender notify.Sender, dispatcher events.Dispatcher, logger *zap.Logger) *AdminService {
	return &AdminService{repo: repo, sender: sender, dispatcher: dispatcher, logger: logger}
}

// ListOpen returns all non-terminal tickets in creation order.
func (s *AdminService) ListOpen(ctx context.Context) ([]*domain.Ticket, error) {
	store, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return queue.New(store).Open(), nil
}

// Take assigns a waiting ticket to the given staff label and tells the
// requester an agent picked it up.
func (s *AdminService) Take(ctx context.Context, ticketID int, staffLabel string) (*domain.Ticket, error) {
	store, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	q := queue.New(store)
	ticket := q.Find(ticketID)
	if ticket == nil {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	q.Assign(ticketID, staffLabel)
	if err := s.repo.Save(ctx, store); err != nil {
		return nil, err
	}

	s.send(ctx, ticket.RequesterID, fmt.Sprintf(
		"🙋 An agent is now handling your request (Ticket %d).", ticket.ID))
	return ticket, nil
}

// Done closes the ticket, notifies the requester and staff, and resets
// the requester's session.
func (s *AdminService) Done(ctx context.Context, ticketID int) (*domain.Ticket, error) {
	store, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	q := queue.New(store)
	ticket := q.Find(ticketID)
	if ticket == nil {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	q.Close(ticketID)
	session.New(store).Reset(ticket.RequesterID)
	if err := s.repo.Save(ctx, store); err != nil {
		return nil, err
	}

	s.send(ctx, ticket.RequesterID, fmt.Sprintf(
		"✅ Your request (Ticket %d) has been completed.", ticket.ID))
	s.publish(ctx, events.Event{
		Type:     events.EventTicketClosed,
		TicketID: ticket.ID,
		Payload: events.TicketClosedPayload{
			RequesterID: ticket.RequesterID,
			ClosedBy:    "admin-api",
		},
	})
	return ticket, nil
}

// VerifyPayment sets the payment attestation flag on a ticket.
func (s *AdminService) VerifyPayment(ctx context.Context, ticketID int) (*domain.Ticket, error) {
	store, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	q := queue.New(store)
	ticket := q.Find(ticketID)
	if ticket == nil {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	q.MarkPaid(ticketID)
	if err := s.repo.Save(ctx, store); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventPaymentVerified,
		TicketID: ticket.ID,
		Payload: events.PaymentVerifiedPayload{
			RequesterID: ticket.RequesterID,
			ServiceName: ticket.ServiceName,
		},
	})
	return ticket, nil
}

// send is best-effort: a failed chat notification never fails the admin
// action that triggered it.
func (s *AdminService) send(ctx context.Context, to, text string) {
	if err := s.sender.Send(ctx, to, text); err != nil {
		s.logger.Warn("admin notification failed", zap.String("to", to), zap.Error(err))
	}
}

func (s *AdminService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
