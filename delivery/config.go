package delivery

import (
	"log/slog"
	"time"
)

// WebhookConfig configures the synchronous webhook sender.
type WebhookConfig struct {
	// URL receives the profile payload via POST.
	URL string `yaml:"url"`
	// SourceApp is sent as the X-Source-App header. Default: "cvpipe".
	SourceApp string `yaml:"source_app"`
	// MaxAttempts bounds retries. Default: 3.
	MaxAttempts int `yaml:"max_attempts"`
	// BaseDelay is multiplied by the attempt number between retries. Default: 1s.
	BaseDelay time.Duration `yaml:"base_delay"`
	// Timeout applies per attempt. Default: 5s.
	Timeout time.Duration `yaml:"timeout"`
}

func (c *WebhookConfig) defaults() {
	if c.SourceApp == "" {
		c.SourceApp = "cvpipe"
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
}

// MailConfig configures the confirmation email content and schedule.
type MailConfig struct {
	// From is the sender address on confirmation emails.
	From string `yaml:"from"`
	// Subject of the confirmation email. Default: "Your application was received".
	Subject string `yaml:"subject"`
	// SendHour is the local hour (0-23) at which confirmations go out,
	// the day after submission. Default: 10.
	SendHour int `yaml:"send_hour"`
	// MaxAttempts bounds dispatch retries per job. Default: 3.
	MaxAttempts int `yaml:"max_attempts"`
	// TrackOpens and TrackClicks are passed through to the mail transport
	// on every outgoing message.
	TrackOpens  bool `yaml:"track_opens"`
	TrackClicks bool `yaml:"track_clicks"`
}

func (c *MailConfig) defaults() {
	if c.From == "" {
		c.From = "no-reply@cvpipe.local"
	}
	if c.Subject == "" {
		c.Subject = "Your application was received"
	}
	if c.SendHour <= 0 || c.SendHour > 23 {
		c.SendHour = 10
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
}

// DispatchConfig configures the periodic email dispatcher.
type DispatchConfig struct {
	// Interval between dispatcher runs. Default: 1 hour.
	Interval time.Duration `yaml:"interval"`
}

func (c *DispatchConfig) defaults() {
	if c.Interval <= 0 {
		c.Interval = time.Hour
	}
}

// Config configures the delivery pipeline.
type Config struct {
	Webhook  WebhookConfig  `yaml:"webhook"`
	Mail     MailConfig     `yaml:"mail"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	// Environment tags outgoing payloads. Default: "production".
	Environment string `yaml:"environment"`

	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	c.Webhook.defaults()
	c.Mail.defaults()
	c.Dispatch.defaults()
	if c.Environment == "" {
		c.Environment = "production"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
