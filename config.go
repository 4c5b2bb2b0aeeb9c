package recap

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Environment variables the program reads.
const (
	EnvSenderEmail    = "SENDER_EMAIL"
	EnvSenderPassword = "SENDER_EMAIL_PASSWORD"
	EnvRecipientPhone = "RECIPIENT_PHONE_NUMBER"
	EnvCarrierGateway = "CARRIER_GATEWAY"

	EnvTeamID      = "RECAP_TEAM_ID"
	EnvSportID     = "RECAP_SPORT_ID"
	EnvScheduleURL = "RECAP_SCHEDULE_URL"
	EnvRecapHost   = "RECAP_HOST"
	EnvHTTPTimeout = "RECAP_HTTP_TIMEOUT"
	EnvSMTPHost    = "SMTP_HOST"
	EnvSMTPPort    = "SMTP_PORT"
	EnvSendPause   = "SMS_SEND_PAUSE"
	EnvEnvironment = "ENV"
	EnvLogFile     = "LOG_FILE"
)

// LookupFunc has the shape of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// MapLookup adapts a map to a LookupFunc, mostly for tests.
func MapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// Config is everything a run needs, read once at startup.
type Config struct {
	Environment string
	LogFile     string

	TeamID      int
	SportID     int
	ScheduleURL string
	RecapHost   string
	HTTPTimeout time.Duration

	SMTP        SMTPConfig
	RateLimit   RateLimitPolicy
	Credentials Credentials
}

// LoadConfig builds a Config from lookup. Unset optional values get defaults;
// set but malformed ones are errors. On error the returned Config still
// carries whatever was read before the bad value, logging settings included,
// so the caller can report the problem where the operator will see it.
// Missing credentials are not an error here. The notifier reports them when
// it is asked to send.
func LoadConfig(lookup LookupFunc) (Config, error) {
	var err error
	cfg := Config{
		Environment: stringOrDefault(lookup, EnvEnvironment, "development"),
		LogFile:     stringOrDefault(lookup, EnvLogFile, ""),
		ScheduleURL: stringOrDefault(lookup, EnvScheduleURL, DefaultScheduleURL),
		RecapHost:   stringOrDefault(lookup, EnvRecapHost, DefaultRecapHost),
		Credentials: Credentials{
			SenderEmail:    stringOrDefault(lookup, EnvSenderEmail, ""),
			SenderPassword: stringOrDefault(lookup, EnvSenderPassword, ""),
			RecipientPhone: stringOrDefault(lookup, EnvRecipientPhone, ""),
			CarrierGateway: stringOrDefault(lookup, EnvCarrierGateway, ""),
		},
	}
	cfg.SMTP.Host = stringOrDefault(lookup, EnvSMTPHost, DefaultSMTPHost)

	if cfg.TeamID, err = positiveIntOrDefault(lookup, EnvTeamID, DefaultTeamID); err != nil {
		return cfg, err
	}
	if cfg.SportID, err = positiveIntOrDefault(lookup, EnvSportID, DefaultSportID); err != nil {
		return cfg, err
	}
	if cfg.SMTP.Port, err = positiveIntOrDefault(lookup, EnvSMTPPort, DefaultSMTPPort); err != nil {
		return cfg, err
	}
	if cfg.HTTPTimeout, err = durationOrDefault(lookup, EnvHTTPTimeout, defaultHTTPTimeout, false); err != nil {
		return cfg, err
	}
	if cfg.RateLimit.Pause, err = durationOrDefault(lookup, EnvSendPause, DefaultSendPause, true); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Production reports whether ENV asks for production logging.
func (c Config) Production() bool {
	switch strings.ToLower(c.Environment) {
	case "prod", "production":
		return true
	}
	return false
}

func stringOrDefault(lookup LookupFunc, key, def string) string {
	if v, ok := lookup(key); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return def
}

func positiveIntOrDefault(lookup LookupFunc, key string, def int) (int, error) {
	raw := stringOrDefault(lookup, key, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", key)
	}
	if v < 1 {
		return 0, errors.Errorf("invalid %s: must be positive, got %d", key, v)
	}
	return v, nil
}

func durationOrDefault(lookup LookupFunc, key string, def time.Duration, allowZero bool) (time.Duration, error) {
	raw := stringOrDefault(lookup, key, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", key)
	}
	if d < 0 || (d == 0 && !allowZero) {
		return 0, errors.Errorf("invalid %s: %s", key, raw)
	}
	return d, nil
}
