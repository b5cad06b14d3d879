package delivery

import (
	"time"

	"github.com/hazyhaar/cvpipe/cvparse"
)

// PayloadMetadata identifies the applicant and the processing context of a
// webhook payload.
type PayloadMetadata struct {
	ApplicantName  string `json:"applicant_name"`
	ApplicantEmail string `json:"applicant_email"`
	Environment    string `json:"environment"`
	Processed      bool   `json:"processed"`
	Timestamp      string `json:"timestamp"` // RFC 3339, UTC
}

// WebhookPayload is the JSON body POSTed to the downstream webhook.
type WebhookPayload struct {
	Profile  *cvparse.Profile `json:"profile"`
	Metadata PayloadMetadata  `json:"metadata"`
}

// NewWebhookPayload assembles a payload for a parsed profile.
func NewWebhookPayload(profile *cvparse.Profile, environment string, now time.Time) *WebhookPayload {
	return &WebhookPayload{
		Profile: profile,
		Metadata: PayloadMetadata{
			ApplicantName:  profile.PersonalInfo.Name,
			ApplicantEmail: profile.PersonalInfo.Email,
			Environment:    environment,
			Processed:      true,
			Timestamp:      now.UTC().Format(time.RFC3339),
		},
	}
}
