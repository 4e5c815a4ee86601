package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quickstop/cafebot/internal/domain"
	"github.com/quickstop/cafebot/internal/events"
	"github.com/quickstop/cafebot/internal/notify"
	"github.com/quickstop/cafebot/internal/queue"
	"github.com/quickstop/cafebot/internal/session"
)

// Interpreter applies parsed staff commands to the ticket queue and
// sessions.
type Interpreter struct {
	sender     notify.Sender
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewInterpreter constructs the interpreter.
func NewInterpreter(sender notify.Sender, dispatcher events.Dispatcher, logger *zap.Logger) *Interpreter {
	return &Interpreter{sender: sender, dispatcher: dispatcher, logger: logger}
}

// Apply executes one staff command against the in-memory store copy.
func (i *Interpreter) Apply(ctx context.Context, store *domain.Store, staffID string, cmd Command) {
	switch c := cmd.(type) {
	case Quote:
		i.applyQuote(ctx, store, staffID, c)
	case Relay:
		i.applyRelay(ctx, store, staffID, c)
	case Malformed:
		i.reply(ctx, staffID, c.Hint)
	}
}

func (i *Interpreter) applyQuote(ctx context.Context, store *domain.Store, staffID string, cmd Quote) {
	q := queue.New(store)
	ticket := q.Find(cmd.TicketID)
	if ticket == nil {
		i.reply(ctx, staffID, fmt.Sprintf("Ticket %d not found.", cmd.TicketID))
		return
	}

	i.reply(ctx, ticket.RequesterID, fmt.Sprintf(
		"🧾 Your fee for Ticket %d is ₦%s.\nPlease pay and send screenshot.", ticket.ID, cmd.Amount))
	i.reply(ctx, staffID, fmt.Sprintf(
		"✅ Fee sent to %s for Ticket %d", ticket.RequesterID, ticket.ID))
}

func (i *Interpreter) applyRelay(ctx context.Context, store *domain.Store, staffID string, cmd Relay) {
	q := queue.New(store)
	ticket := q.Find(cmd.TicketID)
	if ticket == nil {
		i.reply(ctx, staffID, fmt.Sprintf("Ticket %d not found.", cmd.TicketID))
		return
	}

	switch strings.ToLower(cmd.Message) {
	case "done", "close":
		i.closeTicket(ctx, store, q, staffID, ticket)
	default:
		q.AppendStaffMessage(ticket.ID, staffID, cmd.Message)
		q.Assign(ticket.ID, staffID)
		i.reply(ctx, ticket.RequesterID, "💬 Message from agent:\n"+cmd.Message)
		i.reply(ctx, staffID, fmt.Sprintf(
			"✅ Message sent to %s for Ticket %d.", ticket.RequesterID, ticket.ID))
	}
}

func (i *Interpreter) closeTicket(ctx context.Context, store *domain.Store, q *queue.Queue, staffID string, ticket *domain.Ticket) {
	q.Close(ticket.ID)
	session.New(store).Reset(ticket.RequesterID)

	i.reply(ctx, ticket.RequesterID, fmt.Sprintf(
		"✅ Your request (Ticket %d) has been completed.", ticket.ID))
	i.publish(ctx, events.Event{
		Type:     events.EventTicketClosed,
		TicketID: ticket.ID,
		Payload: events.TicketClosedPayload{
			RequesterID: ticket.RequesterID,
			ClosedBy:    staffID,
		},
	})
}

func (i *Interpreter) reply(ctx context.Context, to, text string) {
	if err := i.sender.Send(ctx, to, text); err != nil {
		i.logger.Warn("admin reply failed", zap.String("to", to), zap.Error(err))
	}
}

func (i *Interpreter) publish(ctx context.Context, event events.Event) {
	if i.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = i.dispatcher.Publish(ctx, event)
}
