package store

// WHAT: persistence tests for email jobs, dead letters, dispatch log and
// applications against an in-memory SQLite database.
// WHY: the dispatcher's at-most-once-per-attempt guarantee rests on the
// claim statement incrementing attempts atomically, so the store behavior
// is pinned here independent of the dispatcher loop.

import (
	"context"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/cvpipe/dbopen"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	return NewStore(db)
}

func testJob(id string, scheduledFor time.Time) *EmailJob {
	return &EmailJob{
		ID:           id,
		Recipient:    "jane@example.com",
		Subject:      "Application received",
		TextBody:     "Thank you for applying.",
		HTMLBody:     "<p>Thank you for applying.</p>",
		Timezone:     "Europe/Paris",
		ScheduledFor: scheduledFor.UnixMilli(),
	}
}

func TestInsertAndGetJob(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Now()
	if err := s.InsertJob(ctx, testJob("job-1", now)); err != nil {
		t.Fatalf("InsertJob: %v", err)
	}

	got, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got == nil {
		t.Fatal("GetJob returned nil for existing job")
	}
	if got.Recipient != "jane@example.com" {
		t.Errorf("Recipient = %q", got.Recipient)
	}
	if got.Attempts != 0 {
		t.Errorf("Attempts = %d, want 0", got.Attempts)
	}
	if got.MaxAttempts != 3 {
		t.Errorf("MaxAttempts defaulted to %d, want 3", got.MaxAttempts)
	}
	if got.CreatedAt == 0 {
		t.Error("CreatedAt not defaulted")
	}

	missing, err := s.GetJob(ctx, "nope")
	if err != nil {
		t.Fatalf("GetJob missing: %v", err)
	}
	if missing != nil {
		t.Errorf("GetJob for absent id = %+v, want nil", missing)
	}
}

func TestClaimDueJobs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	for _, j := range []*EmailJob{
		testJob("due-1", past),
		testJob("due-2", past),
		testJob("later", future),
	} {
		if err := s.InsertJob(ctx, j); err != nil {
			t.Fatalf("InsertJob %s: %v", j.ID, err)
		}
	}

	claimed, err := s.ClaimDueJobs(ctx, now)
	if err != nil {
		t.Fatalf("ClaimDueJobs: %v", err)
	}
	if len(claimed) != 2 {
		t.Fatalf("claimed %d jobs, want 2", len(claimed))
	}
	for _, j := range claimed {
		if j.ID == "later" {
			t.Error("claimed a job scheduled in the future")
		}
		if j.Attempts != 1 {
			t.Errorf("job %s attempts = %d after claim, want 1", j.ID, j.Attempts)
		}
		if j.LastAttemptAt == 0 {
			t.Errorf("job %s last_attempt_at not set", j.ID)
		}
	}
}

func TestClaimStopsAtMaxAttempts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Now()
	if err := s.InsertJob(ctx, testJob("job-1", now.Add(-time.Hour))); err != nil {
		t.Fatalf("InsertJob: %v", err)
	}

	for i := 1; i <= 3; i++ {
		claimed, err := s.ClaimDueJobs(ctx, now)
		if err != nil {
			t.Fatalf("claim %d: %v", i, err)
		}
		if len(claimed) != 1 {
			t.Fatalf("claim %d returned %d jobs, want 1", i, len(claimed))
		}
		if claimed[0].Attempts != i {
			t.Errorf("claim %d attempts = %d, want %d", i, claimed[0].Attempts, i)
		}
	}

	// A fourth claim must come up empty.
	claimed, err := s.ClaimDueJobs(ctx, now)
	if err != nil {
		t.Fatalf("fourth claim: %v", err)
	}
	if len(claimed) != 0 {
		t.Fatalf("fourth claim returned %d jobs, want 0", len(claimed))
	}

	exhausted, err := s.ExhaustedJobs(ctx)
	if err != nil {
		t.Fatalf("ExhaustedJobs: %v", err)
	}
	if len(exhausted) != 1 || exhausted[0].ID != "job-1" {
		t.Fatalf("ExhaustedJobs = %v, want the single spent job", exhausted)
	}
}

func TestRecordJobErrorAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.InsertJob(ctx, testJob("job-1", time.Now())); err != nil {
		t.Fatalf("InsertJob: %v", err)
	}
	if err := s.RecordJobError(ctx, "job-1", "smtp refused"); err != nil {
		t.Fatalf("RecordJobError: %v", err)
	}
	got, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.LastError != "smtp refused" {
		t.Errorf("LastError = %q", got.LastError)
	}

	if err := s.DeleteJob(ctx, "job-1"); err != nil {
		t.Fatalf("DeleteJob: %v", err)
	}
	got, err = s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob after delete: %v", err)
	}
	if got != nil {
		t.Error("job still present after DeleteJob")
	}

	count, err := s.CountJobs(ctx)
	if err != nil {
		t.Fatalf("CountJobs: %v", err)
	}
	if count != 0 {
		t.Errorf("CountJobs = %d, want 0", count)
	}
}

func TestCompleteJob(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.InsertJob(ctx, testJob("job-1", time.Now())); err != nil {
		t.Fatalf("InsertJob: %v", err)
	}

	err := s.CompleteJob(ctx, "job-1", &DispatchLogEntry{
		ID:     "log-1",
		JobID:  "job-1",
		Status: StatusSent,
	})
	if err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}

	job, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if job != nil {
		t.Error("job still present after CompleteJob")
	}

	hist, err := s.JobHistory(ctx, "job-1")
	if err != nil {
		t.Fatalf("JobHistory: %v", err)
	}
	if len(hist) != 1 || hist[0].Status != StatusSent {
		t.Fatalf("history = %+v, want single sent entry", hist)
	}
	if hist[0].LoggedAt == 0 {
		t.Error("LoggedAt not defaulted")
	}
}

func TestCompleteJob_RollsBackTogether(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.InsertJob(ctx, testJob("job-1", time.Now())); err != nil {
		t.Fatalf("InsertJob: %v", err)
	}
	// Occupy the log entry's primary key so the insert half fails.
	if err := s.InsertDispatchLog(ctx, &DispatchLogEntry{
		ID: "log-1", JobID: "other", Status: StatusFailed,
	}); err != nil {
		t.Fatalf("InsertDispatchLog: %v", err)
	}

	err := s.CompleteJob(ctx, "job-1", &DispatchLogEntry{
		ID:     "log-1",
		JobID:  "job-1",
		Status: StatusSent,
	})
	if err == nil {
		t.Fatal("CompleteJob succeeded despite conflicting log entry")
	}

	// The delete must have rolled back with the failed insert.
	job, getErr := s.GetJob(ctx, "job-1")
	if getErr != nil {
		t.Fatalf("GetJob: %v", getErr)
	}
	if job == nil {
		t.Error("job deleted even though its terminal entry was not written")
	}
}

func TestDeadLetters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := &DeadLetter{
		ID:        "dl-1",
		Payload:   `{"profile":{}}`,
		Reason:    "webhook returned 500",
		Attempts:  3,
		CreatedAt: 1000,
	}
	second := &DeadLetter{
		ID:        "dl-2",
		Payload:   `{"profile":{}}`,
		Reason:    "connection refused",
		Attempts:  3,
		CreatedAt: 2000,
	}
	for _, dl := range []*DeadLetter{first, second} {
		if err := s.InsertDeadLetter(ctx, dl); err != nil {
			t.Fatalf("InsertDeadLetter %s: %v", dl.ID, err)
		}
	}

	out, err := s.ListDeadLetters(ctx, 0)
	if err != nil {
		t.Fatalf("ListDeadLetters: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d dead letters, want 2", len(out))
	}
	if out[0].ID != "dl-2" {
		t.Errorf("newest first ordering broken, got %q first", out[0].ID)
	}

	limited, err := s.ListDeadLetters(ctx, 1)
	if err != nil {
		t.Fatalf("ListDeadLetters limit: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d rows", len(limited))
	}
}

func TestDispatchLogHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entries := []*DispatchLogEntry{
		{ID: "l-1", JobID: "job-1", Status: StatusFailed, ErrorMessage: "timeout", LoggedAt: 1000},
		{ID: "l-2", JobID: "job-1", Status: StatusFailed, ErrorMessage: "timeout", LoggedAt: 2000},
		{ID: "l-3", JobID: "job-2", Status: StatusSent, LoggedAt: 1500},
	}
	for _, e := range entries {
		if err := s.InsertDispatchLog(ctx, e); err != nil {
			t.Fatalf("InsertDispatchLog %s: %v", e.ID, err)
		}
	}

	hist, err := s.JobHistory(ctx, "job-1")
	if err != nil {
		t.Fatalf("JobHistory: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("got %d entries for job-1, want 2", len(hist))
	}
	if hist[0].ID != "l-1" || hist[1].ID != "l-2" {
		t.Errorf("history out of order: %q, %q", hist[0].ID, hist[1].ID)
	}
	if hist[0].Status != StatusFailed {
		t.Errorf("Status = %q", hist[0].Status)
	}
}

func TestApplications(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	apps := []*Application{
		{
			ID: "app-1", Name: "Jane Doe", Email: "jane@example.com",
			Phone: "+33 6 12 34 56 78", Timezone: "Europe/Paris",
			CVFileName: "jane.pdf", CVLink: "/files/jane.pdf",
			ProfileJSON: `{"personal_info":{"name":"Jane Doe"}}`,
			ReceivedAt:  1000,
		},
		{
			ID: "app-2", Name: "Bob Roe", Email: "bob@example.com",
			ProfileJSON: `{}`, ReceivedAt: 2000,
		},
	}
	for _, a := range apps {
		if err := s.InsertApplication(ctx, a); err != nil {
			t.Fatalf("InsertApplication %s: %v", a.ID, err)
		}
	}

	got, err := s.GetApplication(ctx, "app-1")
	if err != nil {
		t.Fatalf("GetApplication: %v", err)
	}
	if got == nil || got.Name != "Jane Doe" || got.Timezone != "Europe/Paris" {
		t.Fatalf("GetApplication = %+v", got)
	}

	missing, err := s.GetApplication(ctx, "absent")
	if err != nil {
		t.Fatalf("GetApplication absent: %v", err)
	}
	if missing != nil {
		t.Error("absent application should be nil")
	}

	list, err := s.ListApplications(ctx, 0)
	if err != nil {
		t.Fatalf("ListApplications: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d applications, want 2", len(list))
	}
	if list[0].ID != "app-2" {
		t.Errorf("newest first ordering broken, got %q first", list[0].ID)
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := ApplySchema(s.DB); err != nil {
		t.Fatalf("second ApplySchema: %v", err)
	}
}
