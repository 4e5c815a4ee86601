package dialogue

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/quickstop/cafebot/internal/config"
	"github.com/quickstop/cafebot/internal/domain"
	"github.com/quickstop/cafebot/internal/events"
	"github.com/quickstop/cafebot/internal/session"
)

const requester = "2348011112222"

type fakeSender struct {
	sent []sentMessage
}

type sentMessage struct {
	To   string
	Text string
}

func (f *fakeSender) Send(_ context.Context, to, text string) error {
	f.sent = append(f.sent, sentMessage{To: to, Text: text})
	return nil
}

func (f *fakeSender) last(t *testing.T) sentMessage {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("no messages sent")
	}
	return f.sent[len(f.sent)-1]
}

type recordedEvents struct {
	events []events.Event
}

func (r *recordedEvents) record(dispatcher events.Dispatcher, types ...events.EventType) {
	for _, eventType := range types {
		eventType := eventType
		dispatcher.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			r.events = append(r.events, e)
			return nil
		})
	}
}

func newEngine(policy config.AgentPolicy) (*Engine, *fakeSender, events.Dispatcher) {
	sender := &fakeSender{}
	dispatcher := events.NewInMemoryDispatcher()
	engine := NewEngine(Dependencies{
		Sender:      sender,
		Dispatcher:  dispatcher,
		Logger:      zap.NewNop(),
		AgentPolicy: policy,
	})
	return engine, sender, dispatcher
}

func TestGreetingSendsWelcomeMenu(t *testing.T) {
	engine, sender, _ := newEngine(config.AgentPolicyRelay)
	store := domain.NewStore()

	for _, greeting := range []string{"hi", "Hello", "MENU", "start", "0", " menu "} {
		engine.Handle(context.Background(), store, requester, greeting)
		msg := sender.last(t)
		if msg.To != requester || !strings.Contains(msg.Text, "Welcome to QuickStop") {
			t.Errorf("greeting %q: expected welcome menu, got %q", greeting, msg.Text)
		}
	}
	if len(store.Tickets) != 0 {
		t.Errorf("greetings must not create tickets, got %d", len(store.Tickets))
	}
}

func TestLeafServiceCreatesTicketAndCollects(t *testing.T) {
	engine, sender, dispatcher := newEngine(config.AgentPolicyRelay)
	store := domain.NewStore()
	recorded := &recordedEvents{}
	recorded.record(dispatcher, events.EventTicketCreated)

	engine.Handle(context.Background(), store, requester, "hi")
	engine.Handle(context.Background(), store, requester, "2")

	if len(store.Tickets) != 1 {
		t.Fatalf("expected 1 ticket, got %d", len(store.Tickets))
	}
	ticket := store.Tickets[0]
	if ticket.ServiceName != "School Fees Payment" {
		t.Errorf("unexpected service: %s", ticket.ServiceName)
	}
	if ticket.Status != domain.TicketStatusWaiting {
		t.Errorf("expected waiting, got %s", ticket.Status)
	}

	sess := session.New(store).Get(requester)
	if !sess.Collecting() {
		t.Errorf("expected collecting session, got %+v", sess)
	}
	msg := sender.last(t)
	if !strings.Contains(msg.Text, "Ticket ID: 1") || !strings.Contains(msg.Text, "Queue: 1") {
		t.Errorf("expected ticket id and queue position in reply, got %q", msg.Text)
	}
	if len(recorded.events) != 1 {
		t.Errorf("expected ticket_created event, got %d", len(recorded.events))
	}
}

func TestDetailCollectionAndDone(t *testing.T) {
	engine, sender, dispatcher := newEngine(config.AgentPolicyRelay)
	store := domain.NewStore()
	recorded := &recordedEvents{}
	recorded.record(dispatcher, events.EventDetailsCompleted)

	engine.Handle(context.Background(), store, requester, "hi")
	engine.Handle(context.Background(), store, requester, "2")
	engine.Handle(context.Background(), store, requester, "Jane Doe, 12345")
	engine.Handle(context.Background(), store, requester, "done")

	ticket := store.Tickets[0]
	if len(ticket.DetailMessages) != 1 || ticket.DetailMessages[0].Text != "Jane Doe, 12345" {
		t.Fatalf("expected detail recorded, got %v", ticket.DetailMessages)
	}

	sess := session.New(store).Get(requester)
	if sess.ActiveTicketID != 0 || sess.Menu != domain.MenuMain {
		t.Errorf("expected session back at main, got %+v", sess)
	}

	if len(recorded.events) != 1 {
		t.Fatalf("expected details_completed event, got %d", len(recorded.events))
	}
	payload := recorded.events[0].Payload.(events.DetailsCompletedPayload)
	if len(payload.Transcript) != 1 || payload.Transcript[0] != "Jane Doe, 12345" {
		t.Errorf("expected full transcript, got %v", payload.Transcript)
	}

	msg := sender.last(t)
	if !strings.Contains(msg.Text, "All details saved") {
		t.Errorf("expected confirmation, got %q", msg.Text)
	}
}

func TestDoneTwiceIsNoOp(t *testing.T) {
	engine, sender, dispatcher := newEngine(config.AgentPolicyRelay)
	store := domain.NewStore()
	recorded := &recordedEvents{}
	recorded.record(dispatcher, events.EventDetailsCompleted)

	engine.Handle(context.Background(), store, requester, "hi")
	engine.Handle(context.Background(), store, requester, "5")
	engine.Handle(context.Background(), store, requester, "print 20 pages")
	engine.Handle(context.Background(), store, requester, "done")
	engine.Handle(context.Background(), store, requester, "done")

	if len(recorded.events) != 1 {
		t.Errorf("second done must not relay again, got %d events", len(recorded.events))
	}
	msg := sender.last(t)
	if strings.Contains(msg.Text, "All details saved") {
		t.Errorf("second done must answer with a fallback, got %q", msg.Text)
	}
}

func TestNewStudentSubmenu(t *testing.T) {
	engine, sender, _ := newEngine(config.AgentPolicyRelay)
	store := domain.NewStore()

	engine.Handle(context.Background(), store, requester, "hi")
	engine.Handle(context.Background(), store, requester, "1")
	if msg := sender.last(t); !strings.Contains(msg.Text, "NEW STUDENT REGISTRATION") {
		t.Fatalf("expected submenu, got %q", msg.Text)
	}

	engine.Handle(context.Background(), store, requester, "9")
	if msg := sender.last(t); !strings.Contains(msg.Text, "Invalid option for New Student menu") {
		t.Fatalf("expected submenu re-prompt, got %q", msg.Text)
	}

	engine.Handle(context.Background(), store, requester, "3")
	if len(store.Tickets) != 1 {
		t.Fatalf("expected ticket, got %d", len(store.Tickets))
	}
	if store.Tickets[0].ServiceName != "O'level Verification" {
		t.Errorf("unexpected service: %s", store.Tickets[0].ServiceName)
	}
}

func TestSubmenuBackToMain(t *testing.T) {
	engine, sender, _ := newEngine(config.AgentPolicyRelay)
	store := domain.NewStore()

	engine.Handle(context.Background(), store, requester, "1")
	engine.Handle(context.Background(), store, requester, "0")

	if msg := sender.last(t); !strings.Contains(msg.Text, "Welcome to QuickStop") {
		t.Fatalf("expected welcome menu, got %q", msg.Text)
	}
	if sess := session.New(store).Get(requester); sess.Menu != domain.MenuMain {
		t.Errorf("expected main menu, got %s", sess.Menu)
	}
}

func TestInvalidMainOption(t *testing.T) {
	engine, sender, _ := newEngine(config.AgentPolicyRelay)
	store := domain.NewStore()

	engine.Handle(context.Background(), store, requester, "hi")
	engine.Handle(context.Background(), store, requester, "99")

	if msg := sender.last(t); !strings.Contains(msg.Text, "Invalid main menu option") {
		t.Fatalf("expected invalid-option reply, got %q", msg.Text)
	}
	if len(store.Tickets) != 0 {
		t.Errorf("invalid input must not create tickets")
	}
}

func TestAgentRequestRelayPolicy(t *testing.T) {
	engine, sender, dispatcher := newEngine(config.AgentPolicyRelay)
	store := domain.NewStore()
	recorded := &recordedEvents{}
	recorded.record(dispatcher, events.EventAgentRequested, events.EventRequesterRelayed)

	engine.Handle(context.Background(), store, requester, "8")

	if len(store.Tickets) != 1 || store.Tickets[0].ServiceName != "Speak to Agent" {
		t.Fatalf("expected agent ticket, got %v", store.Tickets)
	}
	sess := session.New(store).Get(requester)
	if sess.Mode != domain.ModeHumanRelay {
		t.Fatalf("expected human relay mode, got %s", sess.Mode)
	}
	if len(recorded.events) != 1 || recorded.events[0].Type != events.EventAgentRequested {
		t.Fatalf("expected agent_requested event, got %v", recorded.events)
	}

	engine.Handle(context.Background(), store, requester, "my printer order is late")
	if len(recorded.events) != 2 || recorded.events[1].Type != events.EventRequesterRelayed {
		t.Fatalf("expected requester_relayed event, got %v", recorded.events)
	}
	payload := recorded.events[1].Payload.(events.RequesterRelayedPayload)
	if payload.Text != "my printer order is late" {
		t.Errorf("expected verbatim relay, got %q", payload.Text)
	}
	if msg := sender.last(t); !strings.Contains(msg.Text, "Forwarded to our team") {
		t.Errorf("expected relay acknowledgement, got %q", msg.Text)
	}
}

func TestAgentRequestCollectPolicy(t *testing.T) {
	engine, _, _ := newEngine(config.AgentPolicyCollect)
	store := domain.NewStore()

	engine.Handle(context.Background(), store, requester, "agent")

	sess := session.New(store).Get(requester)
	if sess.Mode != domain.ModeAwaitingHuman {
		t.Fatalf("expected awaiting-human mode, got %s", sess.Mode)
	}

	engine.Handle(context.Background(), store, requester, "I need help with my result")
	if len(store.Tickets[0].DetailMessages) != 1 {
		t.Errorf("expected detail buffered, got %v", store.Tickets[0].DetailMessages)
	}
}

func TestDuplicateSubmissionGuard(t *testing.T) {
	engine, sender, _ := newEngine(config.AgentPolicyRelay)
	store := domain.NewStore()

	engine.Handle(context.Background(), store, requester, "2")
	engine.Handle(context.Background(), store, requester, "menu")
	engine.Handle(context.Background(), store, requester, "2")

	if len(store.Tickets) != 1 {
		t.Fatalf("expected duplicate blocked, got %d tickets", len(store.Tickets))
	}
	msg := sender.last(t)
	if !strings.Contains(msg.Text, "already have Ticket 1 open") {
		t.Errorf("expected existing ticket surfaced, got %q", msg.Text)
	}
	sess := session.New(store).Get(requester)
	if sess.ActiveTicketID != 1 {
		t.Errorf("expected session relinked to existing ticket, got %d", sess.ActiveTicketID)
	}
}

func TestDanglingTicketReferenceCleared(t *testing.T) {
	engine, sender, _ := newEngine(config.AgentPolicyRelay)
	store := domain.NewStore()

	sessions := session.New(store)
	sessions.GetOrCreate(requester)
	sessions.SetMenu(requester, domain.MenuNone)
	sessions.LinkTicket(requester, 42)

	engine.Handle(context.Background(), store, requester, "some details")

	sess := sessions.Get(requester)
	if sess.ActiveTicketID != 0 || sess.Menu != domain.MenuMain {
		t.Errorf("expected dangling reference cleared, got %+v", sess)
	}
	if msg := sender.last(t); !strings.Contains(msg.Text, "Session error") {
		t.Errorf("expected recoverable session-error message, got %q", msg.Text)
	}
}

func TestDoneStatePreservedOnMenuJump(t *testing.T) {
	engine, _, _ := newEngine(config.AgentPolicyRelay)
	store := domain.NewStore()

	engine.Handle(context.Background(), store, requester, "2")
	engine.Handle(context.Background(), store, requester, "menu")

	sess := session.New(store).Get(requester)
	if sess.ActiveTicketID != 1 {
		t.Errorf("menu jump must keep the active ticket, got %d", sess.ActiveTicketID)
	}
	if sess.Menu != domain.MenuMain {
		t.Errorf("expected main menu, got %s", sess.Menu)
	}
}
