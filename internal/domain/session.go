package domain

// MenuPosition identifies where a requester's conversational cursor sits.
type MenuPosition string

const (
	MenuMain       MenuPosition = "main"
	MenuNewStudent MenuPosition = "new_student"
	// MenuNone means the requester is outside the menu tree, typically
	// supplying detail messages for an active ticket.
	MenuNone MenuPosition = "none"
)

// SessionMode governs how inbound text from the requester is interpreted.
type SessionMode string

const (
	// ModeBot treats inbound text as menu input or ticket detail.
	ModeBot SessionMode = "bot"
	// ModeAwaitingHuman means the requester asked for an agent and is
	// waiting to be picked up; detail text is still buffered to the ticket.
	ModeAwaitingHuman SessionMode = "awaiting_human"
	// ModeHumanRelay forwards all inbound text verbatim to staff.
	ModeHumanRelay SessionMode = "human_relay"
)

// Session is one requester's conversational cursor. Tickets are referenced
// by id only; the referenced ticket may have been closed or lost, and
// consumers must treat ActiveTicketID as a weak reference.
type Session struct {
	RequesterID    string       `json:"requester_id"`
	Menu           MenuPosition `json:"menu"`
	ActiveTicketID int          `json:"active_ticket_id,omitempty"`
	Mode           SessionMode  `json:"mode"`
}

// Collecting reports whether the session is gathering detail messages.
func (s *Session) Collecting() bool {
	return s.ActiveTicketID != 0 && s.Menu == MenuNone
}
