// CLAUDE:SUMMARY Periodic email dispatcher: atomic due-job claim, concurrent per-job sends, abandonment cleanup.
package delivery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/cvpipe/idgen"
	"github.com/hazyhaar/cvpipe/internal/store"
)

// Dispatcher drains due email jobs on an interval. Each run claims the due
// jobs atomically (the claim increments attempts, so an overlapping run
// cannot pick up the same job at the same attempt number), sends them
// concurrently, then abandons jobs that have spent all their attempts.
type Dispatcher struct {
	store  *store.Store
	mailer Mailer
	newID  idgen.Generator
	config DispatchConfig
	mail   MailConfig
	logger *slog.Logger

	// now is swapped in tests.
	now func() time.Time
}

// NewDispatcher creates a dispatcher over the given store and mailer. The
// mail config supplies the From address and tracking flags on every
// outgoing message.
func NewDispatcher(st *store.Store, mailer Mailer, cfg DispatchConfig, mail MailConfig, logger *slog.Logger) *Dispatcher {
	cfg.defaults()
	mail.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		store:  st,
		mailer: mailer,
		newID:  idgen.Prefixed("log_", idgen.Default),
		config: cfg,
		mail:   mail,
		logger: logger,
		now:    time.Now,
	}
}

// Run dispatches due jobs on a ticker. Blocks until ctx is cancelled. A run
// in progress completes; cancellation is only observed between runs.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.config.Interval)
	defer ticker.Stop()

	// Run once immediately on start.
	d.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single dispatch cycle: claim, send, clean up. Each
// claimed job is attempted exactly once per run.
func (d *Dispatcher) RunOnce(ctx context.Context) {
	now := d.now()

	jobs, err := d.store.ClaimDueJobs(ctx, now)
	if err != nil {
		d.logger.Error("dispatch: claim due jobs", "error", err)
		return
	}

	if len(jobs) > 0 {
		var wg sync.WaitGroup
		for _, job := range jobs {
			wg.Add(1)
			go func(job *store.EmailJob) {
				defer wg.Done()
				d.sendOne(ctx, job)
			}(job)
		}
		wg.Wait()
		d.logger.Debug("dispatch: run complete", "jobs", len(jobs))
	}

	// Cleanup only after every send in this run has resolved.
	d.abandonExhausted(ctx)
}

// sendOne attempts one job. Success deletes the row and logs "sent";
// failure records the error and logs "failed". The attempt count was
// already incremented by the claim.
func (d *Dispatcher) sendOne(ctx context.Context, job *store.EmailJob) {
	msg := &Message{
		To:          job.Recipient,
		From:        d.mail.From,
		Subject:     job.Subject,
		Text:        job.TextBody,
		HTML:        job.HTMLBody,
		TrackOpens:  d.mail.TrackOpens,
		TrackClicks: d.mail.TrackClicks,
	}

	err := d.mailer.Send(ctx, msg)
	if err == nil {
		if err := d.terminate(ctx, job.ID, store.StatusSent, ""); err != nil {
			d.logger.Error("dispatch: finalize sent job", "job_id", job.ID, "error", err)
			return
		}
		d.logger.Info("dispatch: sent", "job_id", job.ID, "attempt", job.Attempts)
		return
	}

	if dbErr := d.store.RecordJobError(ctx, job.ID, err.Error()); dbErr != nil {
		d.logger.Error("dispatch: record job error", "job_id", job.ID, "error", dbErr)
	}
	d.logEntry(ctx, job.ID, store.StatusFailed, err.Error())
	d.logger.Warn("dispatch: send failed", "job_id", job.ID, "attempt", job.Attempts, "error", err)
}

// abandonExhausted writes one terminal "abandoned" entry per spent job and
// deletes the row. Every job terminates as sent or abandoned.
func (d *Dispatcher) abandonExhausted(ctx context.Context) {
	spent, err := d.store.ExhaustedJobs(ctx)
	if err != nil {
		d.logger.Error("dispatch: list exhausted jobs", "error", err)
		return
	}
	for _, job := range spent {
		if err := d.terminate(ctx, job.ID, store.StatusAbandoned, job.LastError); err != nil {
			d.logger.Error("dispatch: finalize abandoned job", "job_id", job.ID, "error", err)
			continue
		}
		d.logger.Warn("dispatch: abandoned", "job_id", job.ID, "attempts", job.Attempts, "last_error", job.LastError)
	}
}

// terminate deletes the job and writes its terminal log entry in one
// transaction; a job never disappears without a sent or abandoned record.
func (d *Dispatcher) terminate(ctx context.Context, jobID, status, errMsg string) error {
	return d.store.CompleteJob(ctx, jobID, &store.DispatchLogEntry{
		ID:           d.newID(),
		JobID:        jobID,
		Status:       status,
		ErrorMessage: errMsg,
	})
}

func (d *Dispatcher) logEntry(ctx context.Context, jobID, status, errMsg string) {
	e := &store.DispatchLogEntry{
		ID:           d.newID(),
		JobID:        jobID,
		Status:       status,
		ErrorMessage: errMsg,
	}
	if err := d.store.InsertDispatchLog(ctx, e); err != nil {
		d.logger.Error("dispatch: insert log entry", "job_id", jobID, "status", status, "error", err)
	}
}
