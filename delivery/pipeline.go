// CLAUDE:SUMMARY Delivery pipeline facade: synchronous webhook send plus scheduled confirmation email job.
// Package delivery propagates a parsed profile to two downstream sinks: a
// third-party webhook (synchronous, bounded retries, dead-lettered on
// exhaustion) and a scheduled confirmation email (persisted job, dispatched
// periodically with bounded retries and abandonment).
//
// Once a profile exists nothing here may fail the originating request;
// Deliver returns a result summary, never an error.
package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/cvpipe/cvparse"
	"github.com/hazyhaar/cvpipe/idgen"
	"github.com/hazyhaar/cvpipe/internal/store"
)

// Request carries what the pipeline needs beyond the profile itself.
type Request struct {
	Profile *cvparse.Profile
	// Recipient for the confirmation email. Falls back to the profile's
	// parsed email when empty. No email job is created when both are empty.
	Recipient string
	// Timezone of the applicant for scheduling, IANA name. Default UTC.
	Timezone string
}

// Result summarizes both delivery legs.
type Result struct {
	Webhook      *WebhookResult `json:"webhook"`
	EmailJobID   string         `json:"email_job_id,omitempty"`
	EmailPlanned bool           `json:"email_planned"`
}

// Pipeline wires the webhook sender and the email job store together.
type Pipeline struct {
	store   *store.Store
	webhook *WebhookSender
	newID   idgen.Generator
	config  Config
	logger  *slog.Logger

	// now is swapped in tests.
	now func() time.Time
}

// NewPipeline creates a delivery pipeline over the given store.
func NewPipeline(st *store.Store, cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		store:   st,
		webhook: NewWebhookSender(st, cfg.Webhook, cfg.Logger),
		newID:   idgen.Prefixed("job_", idgen.Default),
		config:  cfg,
		logger:  cfg.Logger,
		now:     time.Now,
	}
}

// Deliver sends the webhook synchronously and persists the scheduled email
// job. Webhook exhaustion and job-insert failures are reported in the
// result and the log respectively; Deliver itself cannot fail.
func (p *Pipeline) Deliver(ctx context.Context, req *Request) *Result {
	now := p.now()

	payload := NewWebhookPayload(req.Profile, p.config.Environment, now)
	result := &Result{
		Webhook: p.webhook.Send(ctx, payload),
	}

	recipient := req.Recipient
	if recipient == "" {
		recipient = req.Profile.PersonalInfo.Email
	}
	if recipient == "" {
		p.logger.Info("delivery: no recipient, skipping confirmation email")
		return result
	}

	job := &store.EmailJob{
		ID:           p.newID(),
		Recipient:    recipient,
		Subject:      p.config.Mail.Subject,
		TextBody:     confirmationText(req.Profile),
		HTMLBody:     confirmationHTML(req.Profile),
		Timezone:     req.Timezone,
		ScheduledFor: NextSendTime(now, req.Timezone, p.config.Mail.SendHour).UnixMilli(),
		MaxAttempts:  p.config.Mail.MaxAttempts,
	}
	if err := p.store.InsertJob(ctx, job); err != nil {
		p.logger.Error("delivery: insert email job", "error", err)
		return result
	}

	result.EmailJobID = job.ID
	result.EmailPlanned = true
	p.logger.Info("delivery: email scheduled", "job_id", job.ID, "scheduled_for", job.ScheduledFor, "timezone", job.Timezone)
	return result
}

func confirmationText(profile *cvparse.Profile) string {
	name := profile.PersonalInfo.Name
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hi %s,\n\nWe received your application and will review it shortly.\n", name)
}

func confirmationHTML(profile *cvparse.Profile) string {
	name := profile.PersonalInfo.Name
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("<p>Hi %s,</p><p>We received your application and will review it shortly.</p>", name)
}
