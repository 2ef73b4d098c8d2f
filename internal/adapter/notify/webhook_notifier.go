package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tastebite/checkout/internal/core/domain"
)

// WebhookNotifier posts order confirmations to the mail service. Template
// rendering and delivery live on the other side of the webhook; this core only
// cares about handing over the snapshot.
type WebhookNotifier struct {
	url  string
	http *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

type confirmationPayload struct {
	Email string       `json:"email"`
	Order domain.Order `json:"order"`
}

func (n *WebhookNotifier) Send(ctx context.Context, email string, order domain.Order) error {
	body, err := json.Marshal(confirmationPayload{Email: email, Order: order})
	if err != nil {
		return fmt.Errorf("marshal confirmation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build confirmation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("call notifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notifier returned %d", resp.StatusCode)
	}
	return nil
}
