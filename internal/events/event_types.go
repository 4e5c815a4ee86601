package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated    EventType = "ticket_created"
	EventAgentRequested   EventType = "agent_requested"
	EventDetailsCompleted EventType = "details_completed"
	EventRequesterRelayed EventType = "requester_relayed"
	EventTicketClosed     EventType = "ticket_closed"
	EventPaymentVerified  EventType = "payment_verified"
)

// Event represents a domain event emitted while handling an inbound
// message or admin action.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int         `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	RequesterID   string `json:"requester_id"`
	ServiceName   string `json:"service_name"`
	QueuePosition int    `json:"queue_position"`
}

// AgentRequestedPayload payload.
type AgentRequestedPayload struct {
	RequesterID   string `json:"requester_id"`
	QueuePosition int    `json:"queue_position"`
}

// DetailsCompletedPayload payload.
type DetailsCompletedPayload struct {
	RequesterID string   `json:"requester_id"`
	ServiceName string   `json:"service_name"`
	Transcript  []string `json:"transcript"`
}

// RequesterRelayedPayload payload.
type RequesterRelayedPayload struct {
	RequesterID string `json:"requester_id"`
	Text        string `json:"text"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	RequesterID string `json:"requester_id"`
	ClosedBy    string `json:"closed_by"`
}

// PaymentVerifiedPayload payload.
type PaymentVerifiedPayload struct {
	RequesterID string `json:"requester_id"`
	ServiceName string `json:"service_name"`
}
