package dialogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quickstop/cafebot/internal/config"
	"github.com/quickstop/cafebot/internal/domain"
	"github.com/quickstop/cafebot/internal/events"
	"github.com/quickstop/cafebot/internal/notify"
	"github.com/quickstop/cafebot/internal/queue"
	"github.com/quickstop/cafebot/internal/session"
)

// Engine is the menu/dialogue state machine. Given one inbound message and
// the in-memory store it mutates tickets and sessions, replies to the
// requester, and publishes events for staff-facing notifications.
type Engine struct {
	sender      notify.Sender
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	agentPolicy config.AgentPolicy
}

// Dependencies bundles collaborators for the engine.
type Dependencies struct {
	Sender      notify.Sender
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	AgentPolicy config.AgentPolicy
}

// NewEngine constructs the engine.
func NewEngine(deps Dependencies) *Engine {
	return &Engine{
		sender:      deps.Sender,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		agentPolicy: deps.AgentPolicy,
	}
}

// Handle processes one inbound message from a requester. All mutations
// land on the given store copy; the caller persists it afterwards.
func (e *Engine) Handle(ctx context.Context, store *domain.Store, senderID, text string) {
	q := queue.New(store)
	sessions := session.New(store)
	sess := sessions.GetOrCreate(senderID)
	token := strings.ToLower(strings.TrimSpace(text))

	// Menu keywords jump to the main menu from any state. The active
	// ticket is kept: a requester mid-collection can still finish with
	// "done" after browsing the menu.
	if isMenuKeyword(token) {
		sess.Menu = domain.MenuMain
		sess.Mode = domain.ModeBot
		e.reply(ctx, senderID, welcomeMenu)
		return
	}

	if sess.Mode == domain.ModeHumanRelay {
		e.handleRelay(ctx, q, sessions, sess, text)
		return
	}

	switch sess.Menu {
	case domain.MenuMain:
		e.handleMain(ctx, q, sessions, sess, token)
	case domain.MenuNewStudent:
		e.handleNewStudent(ctx, q, sessions, sess, token)
	default:
		e.handleCollecting(ctx, q, sessions, sess, token, text)
	}
}

func isMenuKeyword(token string) bool {
	switch token {
	case "menu", "main", "hi", "hello", "start", "0":
		return true
	}
	return false
}

func isAgentKeyword(token string) bool {
	switch token {
	case "8", "agent", "human", "help", "talk to an agent":
		return true
	}
	return false
}

func (e *Engine) handleMain(ctx context.Context, q *queue.Queue, sessions *session.Manager, sess *domain.Session, token string) {
	if token == "1" {
		sess.Menu = domain.MenuNewStudent
		e.reply(ctx, sess.RequesterID, newStudentMenu)
		return
	}

	if isAgentKeyword(token) {
		e.openAgentTicket(ctx, q, sessions, sess)
		return
	}

	if svc, ok := mainServices[token]; ok {
		e.openServiceTicket(ctx, q, sessions, sess, svc)
		return
	}

	e.reply(ctx, sess.RequesterID,
		"Invalid main menu option. Press 0 to return to main menu or type *menu*.\n"+testingNotice)
}

func (e *Engine) handleNewStudent(ctx context.Context, q *queue.Queue, sessions *session.Manager, sess *domain.Session, token string) {
	if svc, ok := newStudentServices[token]; ok {
		e.openServiceTicket(ctx, q, sessions, sess, svc)
		return
	}

	e.reply(ctx, sess.RequesterID,
		"Invalid option for New Student menu. Press 0 to return to main menu.\n"+testingNotice)
}

func (e *Engine) handleCollecting(ctx context.Context, q *queue.Queue, sessions *session.Manager, sess *domain.Session, token, text string) {
	if token == "done" {
		e.finishCollection(ctx, q, sessions, sess)
		return
	}

	if sess.ActiveTicketID == 0 {
		e.reply(ctx, sess.RequesterID,
			"Sorry, I didn't understand. Type *menu* for main menu or *8* to speak to an agent.\n"+testingNotice)
		return
	}

	ticket := q.Find(sess.ActiveTicketID)
	if ticket == nil || ticket.Terminal() {
		e.clearDangling(ctx, sessions, sess)
		return
	}

	q.AppendDetail(ticket.ID, text)
	e.reply(ctx, sess.RequesterID,
		fmt.Sprintf("📌 Details received for Ticket %d. Send more or type *done* when finished.", ticket.ID))
}

func (e *Engine) handleRelay(ctx context.Context, q *queue.Queue, sessions *session.Manager, sess *domain.Session, text string) {
	ticket := q.Find(sess.ActiveTicketID)
	if ticket == nil || ticket.Terminal() {
		sess.Mode = domain.ModeBot
		e.clearDangling(ctx, sessions, sess)
		return
	}

	// Keep the forwarded text on the ticket transcript for audit.
	q.AppendDetail(ticket.ID, text)
	e.publish(ctx, events.Event{
		Type:     events.EventRequesterRelayed,
		TicketID: ticket.ID,
		Payload: events.RequesterRelayedPayload{
			RequesterID: sess.RequesterID,
			Text:        text,
		},
	})
	e.reply(ctx, sess.RequesterID,
		fmt.Sprintf("💬 Forwarded to our team (Ticket %d). An agent will reply here.", ticket.ID))
}

// finishCollection ends the detail phase. "done" with no active ticket is
// a harmless fallback, not an error: a duplicate "done" after the first
// already cleared the session must not relay twice.
func (e *Engine) finishCollection(ctx context.Context, q *queue.Queue, sessions *session.Manager, sess *domain.Session) {
	if sess.ActiveTicketID == 0 {
		e.reply(ctx, sess.RequesterID,
			"Nothing in progress. Type *menu* for main menu.\n"+testingNotice)
		return
	}

	ticket := q.Find(sess.ActiveTicketID)
	if ticket == nil || ticket.Terminal() {
		e.clearDangling(ctx, sessions, sess)
		return
	}

	sessions.UnlinkTicket(sess.RequesterID)
	sessions.SetMenu(sess.RequesterID, domain.MenuMain)

	e.reply(ctx, sess.RequesterID,
		fmt.Sprintf("✅ All details saved for Ticket %d. Admin will provide your fee shortly.", ticket.ID))

	transcript := make([]string, 0, len(ticket.DetailMessages))
	for _, msg := range ticket.DetailMessages {
		transcript = append(transcript, msg.Text)
	}
	e.publish(ctx, events.Event{
		Type:     events.EventDetailsCompleted,
		TicketID: ticket.ID,
		Payload: events.DetailsCompletedPayload{
			RequesterID: sess.RequesterID,
			ServiceName: ticket.ServiceName,
			Transcript:  transcript,
		},
	})
}

func (e *Engine) openServiceTicket(ctx context.Context, q *queue.Queue, sessions *session.Manager, sess *domain.Session, svc Service) {
	if existing := q.FindWaiting(sess.RequesterID, svc.Name); existing != nil {
		// Duplicate-submission guard: keep the open ticket, point the
		// session back at it instead of opening a second one.
		sessions.SetMenu(sess.RequesterID, domain.MenuNone)
		sessions.LinkTicket(sess.RequesterID, existing.ID)
		e.reply(ctx, sess.RequesterID, fmt.Sprintf(
			"You already have Ticket %d open for %s (queue position %d). Send more details or type *done* when finished.",
			existing.ID, existing.ServiceName, q.Position(existing.ID)))
		return
	}

	ticket := q.Create(sess.RequesterID, svc.Name)
	sessions.SetMenu(sess.RequesterID, domain.MenuNone)
	sessions.LinkTicket(sess.RequesterID, ticket.ID)

	e.reply(ctx, sess.RequesterID, fmt.Sprintf(
		"%s\nTicket ID: %d\nQueue: %d\nSend details now. Type *done* when finished.",
		svc.Instructions, ticket.ID, q.Position(ticket.ID)))

	e.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			RequesterID:   sess.RequesterID,
			ServiceName:   ticket.ServiceName,
			QueuePosition: q.Position(ticket.ID),
		},
	})
}

func (e *Engine) openAgentTicket(ctx context.Context, q *queue.Queue, sessions *session.Manager, sess *domain.Session) {
	if existing := q.FindWaiting(sess.RequesterID, agentServiceName); existing != nil {
		e.reply(ctx, sess.RequesterID, fmt.Sprintf(
			"You are already in the queue with Ticket %d (position %d). An agent will connect soon.",
			existing.ID, q.Position(existing.ID)))
		return
	}

	ticket := q.Create(sess.RequesterID, agentServiceName)
	sessions.SetMenu(sess.RequesterID, domain.MenuNone)
	sessions.LinkTicket(sess.RequesterID, ticket.ID)
	if e.agentPolicy == config.AgentPolicyRelay {
		sessions.SetMode(sess.RequesterID, domain.ModeHumanRelay)
	} else {
		sessions.SetMode(sess.RequesterID, domain.ModeAwaitingHuman)
	}

	e.reply(ctx, sess.RequesterID, fmt.Sprintf(
		"🙋 You are now in the queue. Ticket ID: *%d*.\nQueue position: *%d*.\nAn agent will connect soon.\n%s",
		ticket.ID, q.Position(ticket.ID), testingNotice))

	e.publish(ctx, events.Event{
		Type:     events.EventAgentRequested,
		TicketID: ticket.ID,
		Payload: events.AgentRequestedPayload{
			RequesterID:   sess.RequesterID,
			QueuePosition: q.Position(ticket.ID),
		},
	})
}

// clearDangling drops a session reference to a missing or closed ticket
// and steers the requester back to the menu.
func (e *Engine) clearDangling(ctx context.Context, sessions *session.Manager, sess *domain.Session) {
	e.logger.Warn("stale ticket reference cleared",
		zap.String("requester_id", sess.RequesterID),
		zap.Int("ticket_id", sess.ActiveTicketID))
	sessions.UnlinkTicket(sess.RequesterID)
	sessions.SetMenu(sess.RequesterID, domain.MenuMain)
	e.reply(ctx, sess.RequesterID, "Session error, type *menu* to start over.")
}

func (e *Engine) reply(ctx context.Context, to, text string) {
	if err := e.sender.Send(ctx, to, text); err != nil {
		e.logger.Warn("reply failed", zap.String("to", to), zap.Error(err))
	}
}

func (e *Engine) publish(ctx context.Context, event events.Event) {
	if e.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = e.dispatcher.Publish(ctx, event)
}
