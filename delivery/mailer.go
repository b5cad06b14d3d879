package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is one outgoing email.
type Message struct {
	To          string `json:"to"`
	From        string `json:"from"`
	Subject     string `json:"subject"`
	Text        string `json:"text,omitempty"`
	HTML        string `json:"html,omitempty"`
	TrackOpens  bool   `json:"track_opens"`
	TrackClicks bool   `json:"track_clicks"`
}

// Mailer sends a single message synchronously. Implementations own the
// transport; the dispatcher only sees success or failure.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// HTTPMailerConfig configures the mail-API client.
type HTTPMailerConfig struct {
	// URL of the mail API endpoint receiving message JSON.
	URL string `yaml:"url"`
	// Token is sent as a bearer token when set.
	Token string `yaml:"token"`
	// Timeout per send. Default: 10s.
	Timeout time.Duration `yaml:"timeout"`
}

func (c *HTTPMailerConfig) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

// HTTPMailer posts messages as JSON to a mail API endpoint.
type HTTPMailer struct {
	client *http.Client
	config HTTPMailerConfig
}

// NewHTTPMailer creates a mail-API client.
func NewHTTPMailer(cfg HTTPMailerConfig) *HTTPMailer {
	cfg.defaults()
	return &HTTPMailer{
		client: &http.Client{Timeout: cfg.Timeout},
		config: cfg,
	}
}

// Send posts the message. Non-2xx responses are errors.
func (m *HTTPMailer) Send(ctx context.Context, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+m.config.Token)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mail API returned %d", resp.StatusCode)
	}
	return nil
}
