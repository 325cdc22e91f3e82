package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/signwavelab/glossa/internal/webhook"
)

const defaultSendTimeout = 10 * time.Second

type HTTPSender struct {
	webhookURL string
	client     *http.Client
}

// NewHTTPSender posts results to webhookURL. A slow receiver must never hold
// a session goroutine, so every send is bounded by timeout (zero selects the
// default).
func NewHTTPSender(webhookURL string, timeout time.Duration) webhook.Sender {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	return &HTTPSender{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSender) SendResult(ctx context.Context, payload webhook.ResultPayload) error {
	if s.webhookURL == "" {
		return nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
