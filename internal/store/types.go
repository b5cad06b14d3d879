package store

// EmailJob is a persisted scheduled-email task with bounded attempt tracking.
type EmailJob struct {
	ID            string `json:"id"`
	Recipient     string `json:"recipient"`
	Subject       string `json:"subject"`
	TextBody      string `json:"text_body"`
	HTMLBody      string `json:"html_body"`
	Timezone      string `json:"timezone"`
	ScheduledFor  int64  `json:"scheduled_for"` // ms since epoch
	Attempts      int    `json:"attempts"`
	MaxAttempts   int    `json:"max_attempts"`
	LastError     string `json:"last_error,omitempty"`
	LastAttemptAt int64  `json:"last_attempt_at,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}

// DeadLetter is a webhook payload that exhausted all delivery retries.
type DeadLetter struct {
	ID        string `json:"id"`
	Payload   string `json:"payload"` // JSON as sent
	Reason    string `json:"reason"`
	Attempts  int    `json:"attempts"`
	CreatedAt int64  `json:"created_at"`
}

// Dispatch log statuses. Every email job terminates as sent or abandoned;
// failed entries record the intermediate attempts.
const (
	StatusSent      = "sent"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// DispatchLogEntry records one email job outcome.
type DispatchLogEntry struct {
	ID           string `json:"id"`
	JobID        string `json:"job_id"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	LoggedAt     int64  `json:"logged_at"`
}

// Application is a received job application with its parsed profile.
type Application struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Timezone    string `json:"timezone"`
	CVFileName  string `json:"cv_file_name"`
	CVLink      string `json:"cv_link"`
	ProfileJSON string `json:"profile_json"`
	ReceivedAt  int64  `json:"received_at"`
}
