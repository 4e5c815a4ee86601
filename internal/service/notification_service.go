package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quickstop/cafebot/internal/events"
	"github.com/quickstop/cafebot/internal/notify"
)

// NotificationService turns domain events into staff-facing WhatsApp
// messages, fanned out through the notifier.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   *notify.Notifier
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifier *notify.Notifier, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventAgentRequested, n.handleAgentRequested)
	n.dispatcher.Subscribe(events.EventDetailsCompleted, n.handleDetailsCompleted)
	n.dispatcher.Subscribe(events.EventRequesterRelayed, n.handleRequesterRelayed)
	n.dispatcher.Subscribe(events.EventTicketClosed, n.handleTicketClosed)
	n.dispatcher.Subscribe(events.EventPaymentVerified, n.handlePaymentVerified)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TicketCreated", zap.Int("ticket_id", event.TicketID), zap.String("service", payload.ServiceName))
	n.notifier.NotifyStaff(ctx, fmt.Sprintf(
		"📥 New request\nTicket %d from %s\nService: %s\nQueue position: %d",
		event.TicketID, payload.RequesterID, payload.ServiceName, payload.QueuePosition))
	return nil
}

func (n *NotificationService) handleAgentRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AgentRequestedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("AgentRequested", zap.Int("ticket_id", event.TicketID), zap.String("requester_id", payload.RequesterID))
	n.notifier.NotifyStaff(ctx, fmt.Sprintf(
		"📥 New agent request\nTicket %d from %s", event.TicketID, payload.RequesterID))
	return nil
}

func (n *NotificationService) handleDetailsCompleted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DetailsCompletedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("DetailsCompleted", zap.Int("ticket_id", event.TicketID), zap.Int("lines", len(payload.Transcript)))
	n.notifier.NotifyStaff(ctx, fmt.Sprintf(
		"📝 User details for Ticket %d from %s\nService: %s\nDetails:\n%s\n\nReply with quote:%d:<amount>",
		event.TicketID, payload.RequesterID, payload.ServiceName,
		strings.Join(payload.Transcript, "\n"), event.TicketID))
	return nil
}

func (n *NotificationService) handleRequesterRelayed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequesterRelayedPayload)
	if !ok {
		return nil
	}
	n.notifier.NotifyStaff(ctx, fmt.Sprintf(
		"💬 Ticket %d (%s):\n%s\n\nReply with relay:%d:<message>",
		event.TicketID, payload.RequesterID, payload.Text, event.TicketID))
	return nil
}

func (n *NotificationService) handleTicketClosed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketClosedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TicketClosed", zap.Int("ticket_id", event.TicketID), zap.String("closed_by", payload.ClosedBy))
	n.notifier.NotifyStaff(ctx, fmt.Sprintf("✅ Ticket %d closed.", event.TicketID))
	return nil
}

func (n *NotificationService) handlePaymentVerified(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PaymentVerifiedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("PaymentVerified", zap.Int("ticket_id", event.TicketID))
	n.notifier.NotifyStaff(ctx, fmt.Sprintf(
		"💰 Payment verified for Ticket %d (%s).", event.TicketID, payload.ServiceName))
	return nil
}
