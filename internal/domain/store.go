package domain

// Store is the whole persisted world: every ticket ever created, every
// requester session, and the ticket-id counter. It is loaded in full at the
// start of one inbound event and saved in full at the end.
type Store struct {
	Tickets      []*Ticket           `json:"tickets"`
	Sessions     map[string]*Session `json:"sessions"`
	NextTicketID int                 `json:"next_ticket_id"`
}

// NewStore returns an empty store with the counter at its first id.
func NewStore() *Store {
	return &Store{
		Tickets:      []*Ticket{},
		Sessions:     map[string]*Session{},
		NextTicketID: 1,
	}
}

// Normalize repairs zero values after decoding a possibly partial document.
func (s *Store) Normalize() {
	if s.Tickets == nil {
		s.Tickets = []*Ticket{}
	}
	if s.Sessions == nil {
		s.Sessions = map[string]*Session{}
	}
	if s.NextTicketID < 1 {
		s.NextTicketID = 1
	}
}
