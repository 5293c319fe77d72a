package notify

import (
	"context"
	"fmt"
	"time"

	"resty.dev/v3"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/internal/domain/ports"
)

// WebhookNotifier posts alerts as JSON to a URL
type WebhookNotifier struct {
	client *resty.Client
	url    string
}

var _ ports.Notifier = (*WebhookNotifier)(nil)

// NewWebhookNotifier creates a WebhookNotifier with a 10s request timeout
func NewWebhookNotifier(url string) *WebhookNotifier {
	client := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "nexuscrm-hygiene")
	return &WebhookNotifier{client: client, url: url}
}

// Notify posts the alert; any non-2xx response is an error
func (n *WebhookNotifier) Notify(ctx context.Context, alert models.Alert) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(alert).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// Close releases the underlying client
func (n *WebhookNotifier) Close() error {
	return n.client.Close()
}
