package admin

import (
	"strconv"
	"strings"
)

// Usage is the hint sent to staff for malformed or unrecognized commands.
const Usage = "Commands:\nquote:<ticketId>:<amount> - send a fee quote\nrelay:<ticketId>:<message> - message the requester (message *done* closes the ticket)"

// Command is a parsed staff command.
type Command interface {
	isCommand()
}

// Quote asks the bot to send a fee quote to a ticket's requester.
type Quote struct {
	TicketID int
	Amount   string
}

// Relay forwards a staff message to a ticket's requester; the message
// "done" (or "close") closes the ticket instead.
type Relay struct {
	TicketID int
	Message  string
}

// Malformed is a command-shaped message that failed to parse.
type Malformed struct {
	Hint string
}

func (Quote) isCommand()     {}
func (Relay) isCommand()     {}
func (Malformed) isCommand() {}

// verbs maps accepted command verbs to their canonical form. "admin" and
// "agent" are the verbs the staff were originally trained on.
var verbs = map[string]string{
	"quote": "quote",
	"relay": "relay",
	"admin": "quote",
	"agent": "relay",
}

// Parse interprets staff input as a command. The second return is false
// when the text is not command-shaped at all; such input is not for the
// interpreter.
func Parse(text string) (Command, bool) {
	parts := strings.SplitN(strings.TrimSpace(text), ":", 3)
	verb, ok := verbs[strings.ToLower(parts[0])]
	if !ok {
		return nil, false
	}

	if len(parts) < 3 {
		return Malformed{Hint: Usage}, true
	}
	ticketID, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || ticketID <= 0 {
		return Malformed{Hint: Usage}, true
	}
	payload := strings.TrimSpace(parts[2])
	if payload == "" {
		return Malformed{Hint: Usage}, true
	}

	if verb == "quote" {
		return Quote{TicketID: ticketID, Amount: payload}, true
	}
	return Relay{TicketID: ticketID, Message: payload}, true
}
