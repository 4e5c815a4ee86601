package queue

import (
	"time"

	"github.com/quickstop/cafebot/internal/domain"
)

// PositionNotFound is returned by Position for tickets that do not exist
// or are no longer waiting.
const PositionNotFound = -1

// Queue exposes ticket operations over one in-memory store copy. It is
// constructed per inbound event and discarded after the store is saved.
type Queue struct {
	store *domain.Store
	now   func() time.Time
}

// New wraps the given store.
func New(store *domain.Store) *Queue {
	return &Queue{store: store, now: time.Now}
}

// NewWithClock wraps the store with a fixed clock, for tests.
func NewWithClock(store *domain.Store, now func() time.Time) *Queue {
	return &Queue{store: store, now: now}
}

// Create allocates the next ticket id and appends a waiting ticket. The
// counter increment and the insertion are one unit: both land in the same
// store save, so ids are never skipped or reused.
func (q *Queue) Create(requesterID, serviceName string) *domain.Ticket {
	ticket := &domain.Ticket{
		ID:             q.store.NextTicketID,
		RequesterID:    requesterID,
		ServiceName:    serviceName,
		DetailMessages: []domain.DetailMessage{},
		StaffMessages:  []domain.StaffMessage{},
		Status:         domain.TicketStatusWaiting,
		CreatedAt:      q.now(),
	}
	q.store.NextTicketID++
	q.store.Tickets = append(q.store.Tickets, ticket)
	return ticket
}

// Find returns the ticket with the given id, or nil.
func (q *Queue) Find(id int) *domain.Ticket {
	for _, ticket := range q.store.Tickets {
		if ticket.ID == id {
			return ticket
		}
	}
	return nil
}

// FindWaiting returns the requester's open waiting ticket for the given
// service, or nil. Used by the duplicate-submission guard.
func (q *Queue) FindWaiting(requesterID, serviceName string) *domain.Ticket {
	for _, ticket := range q.store.Tickets {
		if ticket.Status == domain.TicketStatusWaiting &&
			ticket.RequesterID == requesterID &&
			ticket.ServiceName == serviceName {
			return ticket
		}
	}
	return nil
}

// Position returns the 1-based rank of a waiting ticket among all waiting
// tickets in creation order. Positions are derived, never stored, so they
// can not drift from ticket statuses.
func (q *Queue) Position(id int) int {
	pos := 0
	for _, ticket := range q.store.Tickets {
		if ticket.Status != domain.TicketStatusWaiting {
			continue
		}
		pos++
		if ticket.ID == id {
			return pos
		}
	}
	return PositionNotFound
}

// Waiting returns all waiting tickets in creation order.
func (q *Queue) Waiting() []*domain.Ticket {
	var out []*domain.Ticket
	for _, ticket := range q.store.Tickets {
		if ticket.Status == domain.TicketStatusWaiting {
			out = append(out, ticket)
		}
	}
	return out
}

// Open returns all non-terminal tickets in creation order.
func (q *Queue) Open() []*domain.Ticket {
	var out []*domain.Ticket
	for _, ticket := range q.store.Tickets {
		if !ticket.Terminal() {
			out = append(out, ticket)
		}
	}
	return out
}

// AppendDetail appends a detail message to the ticket's transcript.
// Returns false when the ticket does not exist; detail collection must not
// crash the handler over a dangling reference.
func (q *Queue) AppendDetail(id int, text string) bool {
	ticket := q.Find(id)
	if ticket == nil {
		return false
	}
	ticket.DetailMessages = append(ticket.DetailMessages, domain.DetailMessage{
		Text: text,
		At:   q.now(),
	})
	return true
}

// AppendStaffMessage records a staff-to-requester message on the ticket.
func (q *Queue) AppendStaffMessage(id int, authorID, text string) bool {
	ticket := q.Find(id)
	if ticket == nil {
		return false
	}
	ticket.StaffMessages = append(ticket.StaffMessages, domain.StaffMessage{
		AuthorID: authorID,
		Text:     text,
		At:       q.now(),
	})
	return true
}

// Assign moves a waiting ticket to assigned and records the staff member.
// Already assigned or done tickets keep their status; the staff id is
// updated only when unset.
func (q *Queue) Assign(id int, staffID string) bool {
	ticket := q.Find(id)
	if ticket == nil {
		return false
	}
	if ticket.Status == domain.TicketStatusWaiting {
		ticket.Status = domain.TicketStatusAssigned
	}
	if ticket.AssignedStaffID == "" {
		ticket.AssignedStaffID = staffID
	}
	return true
}

// Close marks the ticket done. Idempotent: closing a done ticket changes
// nothing, and ClosedAt is set only on the first close.
func (q *Queue) Close(id int) bool {
	ticket := q.Find(id)
	if ticket == nil {
		return false
	}
	if ticket.Terminal() {
		return true
	}
	ticket.Status = domain.TicketStatusDone
	closedAt := q.now()
	ticket.ClosedAt = &closedAt
	return true
}

// MarkPaid sets the payment attestation flag.
func (q *Queue) MarkPaid(id int) bool {
	ticket := q.Find(id)
	if ticket == nil {
		return false
	}
	ticket.Paid = true
	return true
}
