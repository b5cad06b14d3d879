// CLAUDE:SUMMARY Synchronous webhook POST with linear backoff retries and dead-lettering on exhaustion.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazyhaar/cvpipe/idgen"
	"github.com/hazyhaar/cvpipe/internal/store"
)

// WebhookResult summarizes a webhook delivery.
type WebhookResult struct {
	Delivered bool   `json:"delivered"`
	Attempts  int    `json:"attempts"`
	LastError string `json:"last_error,omitempty"`
}

// WebhookSender POSTs profile payloads with bounded retries. Exhausted
// payloads go to the dead-letter table and are never retried again.
type WebhookSender struct {
	client *http.Client
	store  *store.Store
	newID  idgen.Generator
	config WebhookConfig
	logger *slog.Logger

	// sleep is swapped in tests to observe backoff without waiting.
	sleep func(time.Duration)
}

// NewWebhookSender creates a sender over the given store.
func NewWebhookSender(st *store.Store, cfg WebhookConfig, logger *slog.Logger) *WebhookSender {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookSender{
		client: &http.Client{Timeout: cfg.Timeout},
		store:  st,
		newID:  idgen.Prefixed("dl_", idgen.Default),
		config: cfg,
		logger: logger,
		sleep:  time.Sleep,
	}
}

// Send POSTs the payload, retrying up to MaxAttempts with linear backoff
// (BaseDelay times the attempt number). A 2xx response terminates early.
// Send never returns an error: exhaustion is recorded as a dead letter and
// reported in the result. Blocks the caller for the duration of the retries.
func (w *WebhookSender) Send(ctx context.Context, payload *WebhookPayload) *WebhookResult {
	body, err := json.Marshal(payload)
	if err != nil {
		// Profile and metadata are plain data; this does not happen in practice.
		w.logger.Error("webhook: marshal payload", "error", err)
		return &WebhookResult{Attempts: 0, LastError: err.Error()}
	}

	result := &WebhookResult{}
	for attempt := 1; attempt <= w.config.MaxAttempts; attempt++ {
		result.Attempts = attempt
		err := w.post(ctx, body)
		if err == nil {
			result.Delivered = true
			result.LastError = ""
			w.logger.Info("webhook: delivered", "attempts", attempt)
			return result
		}
		result.LastError = err.Error()
		w.logger.Warn("webhook: attempt failed", "attempt", attempt, "error", err)

		if attempt < w.config.MaxAttempts {
			w.sleep(w.config.BaseDelay * time.Duration(attempt))
		}
	}

	w.deadLetter(ctx, string(body), result)
	return result
}

func (w *WebhookSender) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Source-App", w.config.SourceApp)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}

// deadLetter persists the exhausted payload once. A failed insert is logged
// and dropped; dead-lettering must not fail the triggering request either.
func (w *WebhookSender) deadLetter(ctx context.Context, payload string, result *WebhookResult) {
	dl := &store.DeadLetter{
		ID:       w.newID(),
		Payload:  payload,
		Reason:   result.LastError,
		Attempts: result.Attempts,
	}
	if err := w.store.InsertDeadLetter(ctx, dl); err != nil {
		w.logger.Error("webhook: insert dead letter", "error", err)
		return
	}
	w.logger.Warn("webhook: dead-lettered", "id", dl.ID, "attempts", result.Attempts, "reason", result.LastError)
}
