package notify

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sender delivers one text message to one recipient. Implementations
// normalize the recipient to a digits-only identifier before sending.
type Sender interface {
	Send(ctx context.Context, to, text string) error
}

// Notifier fans a message out to all configured staff recipients.
type Notifier struct {
	sender Sender
	staff  []string
	logger *zap.Logger
}

// NewNotifier constructs the notifier.
func NewNotifier(sender Sender, staff []string, logger *zap.Logger) *Notifier {
	return &Notifier{sender: sender, staff: staff, logger: logger}
}

// Recipients returns the configured staff identifiers.
func (n *Notifier) Recipients() []string {
	return n.staff
}

// NotifyStaff sends the message to every staff recipient. Sends run
// concurrently; a failed recipient is logged and does not block the rest.
func (n *Notifier) NotifyStaff(ctx context.Context, message string) {
	var g errgroup.Group
	for _, recipient := range n.staff {
		recipient := recipient
		g.Go(func() error {
			if err := n.sender.Send(ctx, recipient, message); err != nil {
				n.logger.Warn("staff notification failed",
					zap.String("recipient", recipient),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

// NormalizeNumber strips everything but digits from a phone identifier.
func NormalizeNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
