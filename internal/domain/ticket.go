package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusWaiting  TicketStatus = "waiting"
	TicketStatusAssigned TicketStatus = "assigned"
	TicketStatusDone     TicketStatus = "done"
)

// DetailMessage is one free-text line a requester supplied for a ticket.
type DetailMessage struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// StaffMessage records a message relayed from staff to the requester.
type StaffMessage struct {
	AuthorID string    `json:"author_id"`
	Text     string    `json:"text"`
	At       time.Time `json:"at"`
}

// Ticket is the aggregate for one customer service request.
type Ticket struct {
	ID              int             `json:"id"`
	RequesterID     string          `json:"requester_id"`
	ServiceName     string          `json:"service_name"`
	DetailMessages  []DetailMessage `json:"detail_messages"`
	StaffMessages   []StaffMessage  `json:"staff_messages"`
	Status          TicketStatus    `json:"status"`
	AssignedStaffID string          `json:"assigned_staff_id,omitempty"`
	Paid            bool            `json:"paid"`
	CreatedAt       time.Time       `json:"created_at"`
	ClosedAt        *time.Time      `json:"closed_at,omitempty"`
}

// Terminal reports whether the ticket can no longer change status.
func (t *Ticket) Terminal() bool {
	return t.Status == TicketStatusDone
}
