package session

import "github.com/quickstop/cafebot/internal/domain"

// Manager exposes session operations over one in-memory store copy. Like
// the ticket queue it is constructed per inbound event; every mutation is
// persisted by the single store save at the end of event handling.
type Manager struct {
	store *domain.Store
}

// New wraps the given store.
func New(store *domain.Store) *Manager {
	return &Manager{store: store}
}

// GetOrCreate returns the requester's session, creating one at the main
// menu on first contact.
func (m *Manager) GetOrCreate(requesterID string) *domain.Session {
	if sess, ok := m.store.Sessions[requesterID]; ok {
		return sess
	}
	sess := &domain.Session{
		RequesterID: requesterID,
		Menu:        domain.MenuMain,
		Mode:        domain.ModeBot,
	}
	m.store.Sessions[requesterID] = sess
	return sess
}

// Get returns the session for the requester, or nil.
func (m *Manager) Get(requesterID string) *domain.Session {
	return m.store.Sessions[requesterID]
}

// SetMenu moves the requester's menu cursor.
func (m *Manager) SetMenu(requesterID string, menu domain.MenuPosition) {
	m.GetOrCreate(requesterID).Menu = menu
}

// LinkTicket points the session at the ticket accepting detail messages.
func (m *Manager) LinkTicket(requesterID string, ticketID int) {
	m.GetOrCreate(requesterID).ActiveTicketID = ticketID
}

// UnlinkTicket clears the active ticket reference.
func (m *Manager) UnlinkTicket(requesterID string) {
	m.GetOrCreate(requesterID).ActiveTicketID = 0
}

// SetMode changes how inbound text from the requester is interpreted.
func (m *Manager) SetMode(requesterID string, mode domain.SessionMode) {
	m.GetOrCreate(requesterID).Mode = mode
}

// Reset returns the requester to the main menu in bot mode with no active
// ticket. Used when staff close the requester's ticket.
func (m *Manager) Reset(requesterID string) {
	sess := m.GetOrCreate(requesterID)
	sess.Menu = domain.MenuMain
	sess.ActiveTicketID = 0
	sess.Mode = domain.ModeBot
}
