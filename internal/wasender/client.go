package wasender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/quickstop/cafebot/internal/config"
	"github.com/quickstop/cafebot/internal/notify"
)

// Client sends WhatsApp messages through the WasenderAPI HTTP endpoint.
type Client struct {
	sendURL string
	token   string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient constructs the outbound client.
func NewClient(cfg config.WasenderConfig, logger *zap.Logger) *Client {
	return &Client{
		sendURL: cfg.SendURL,
		token:   cfg.Token,
		client:  &http.Client{Timeout: cfg.Timeout()},
		logger:  logger,
	}
}

type sendRequest struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

// Send posts one message to the provider. The recipient is normalized to
// digits only.
func (c *Client) Send(ctx context.Context, to, text string) error {
	body, err := json.Marshal(sendRequest{
		To:   notify.NormalizeNumber(to),
		Text: text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sendURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("wasender api error: %s body=%s", resp.Status, respBody)
	}

	c.logger.Debug("message sent",
		zap.String("to", notify.NormalizeNumber(to)),
		zap.Int("length", len(text)))
	return nil
}
