package recap

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultSMTPHost and DefaultSMTPPort are Gmail's submission relay.
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587

	// DefaultSendPause keeps carriers from throttling back-to-back texts.
	DefaultSendPause = 2 * time.Second

	smtpDialTimeout = 30 * time.Second
)

// ErrIncompleteCredentials means one of the four notification settings is
// missing.
var ErrIncompleteCredentials = errors.New("incomplete notification credentials")

// Credentials say who sends the text and where it goes.
type Credentials struct {
	SenderEmail    string
	SenderPassword string
	RecipientPhone string
	CarrierGateway string
}

// Validate checks that everything needed for a send is present and that the
// phone number is usable as the local part of the gateway address.
func (c Credentials) Validate() error {
	var missing []string
	if c.SenderEmail == "" {
		missing = append(missing, "sender email")
	}
	if c.SenderPassword == "" {
		missing = append(missing, "sender password")
	}
	if c.RecipientPhone == "" {
		missing = append(missing, "recipient phone number")
	}
	if c.CarrierGateway == "" {
		missing = append(missing, "carrier gateway")
	}
	if len(missing) > 0 {
		return errors.Wrapf(ErrIncompleteCredentials, "missing %s", strings.Join(missing, ", "))
	}
	if strings.ContainsAny(c.SenderEmail, "\r\n") {
		return errors.Errorf("sender email must be a single line, got %q", c.SenderEmail)
	}
	phone := normalizePhone(c.RecipientPhone)
	if phone == "" || strings.IndexFunc(phone, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return errors.Errorf("recipient phone number must be digits, got %q", c.RecipientPhone)
	}
	if strings.ContainsAny(c.CarrierGateway, "@ \t\r\n") {
		return errors.Errorf("carrier gateway must be a bare domain, got %q", c.CarrierGateway)
	}
	return nil
}

// Recipient is the gateway address the carrier turns into a text message.
func (c Credentials) Recipient() string {
	return normalizePhone(c.RecipientPhone) + "@" + c.CarrierGateway
}

// normalizePhone strips the usual separators from a phone number. A leading
// "+" goes too; gateways want the bare digits.
func normalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')', '+':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

// SMTPConfig locates the mail relay.
type SMTPConfig struct {
	Host string
	Port int
}

func (c SMTPConfig) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// RateLimitPolicy is how long to wait after each message before sending
// another one.
type RateLimitPolicy struct {
	Pause time.Duration
}

// smtpClient is the subset of *smtp.Client a send needs.
type smtpClient interface {
	Extension(ext string) (bool, string)
	StartTLS(config *tls.Config) error
	Auth(a smtp.Auth) error
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

type smtpDialFunc func(ctx context.Context, addr, host string) (smtpClient, error)

func dialSMTP(ctx context.Context, addr, host string) (smtpClient, error) {
	d := net.Dialer{Timeout: smtpDialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to SMTP server %s", addr)
	}
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to create SMTP client")
	}
	return c, nil
}

// SMSNotifier sends text messages through a carrier's email-to-SMS gateway.
type SMSNotifier struct {
	Credentials Credentials
	SMTP        SMTPConfig
	RateLimit   RateLimitPolicy

	dial  smtpDialFunc
	sleep func(time.Duration)
	log   *zap.SugaredLogger
}

// NewSMSNotifier returns a notifier that mails through Gmail's relay and
// pauses DefaultSendPause after each message unless options say otherwise.
// Credentials are checked when a message is sent, not here.
func NewSMSNotifier(creds Credentials, options ...func(*SMSNotifier)) *SMSNotifier {
	n := &SMSNotifier{
		Credentials: creds,
		SMTP:        SMTPConfig{Host: DefaultSMTPHost, Port: DefaultSMTPPort},
		RateLimit:   RateLimitPolicy{Pause: DefaultSendPause},
		dial:        dialSMTP,
		sleep:       time.Sleep,
		log:         zap.NewNop().Sugar(),
	}
	for _, o := range options {
		o(n)
	}
	return n
}

// WithSMSLogger sets the logger the notifier uses.
func WithSMSLogger(logger *zap.SugaredLogger) func(*SMSNotifier) {
	return func(n *SMSNotifier) {
		n.log = logger
	}
}

// WithSMTPRelay overrides the relay host and port.
func WithSMTPRelay(cfg SMTPConfig) func(*SMSNotifier) {
	return func(n *SMSNotifier) {
		if cfg.Host != "" {
			n.SMTP.Host = cfg.Host
		}
		if cfg.Port > 0 {
			n.SMTP.Port = cfg.Port
		}
	}
}

// WithRateLimit overrides the pause after each message. Zero disables it.
func WithRateLimit(policy RateLimitPolicy) func(*SMSNotifier) {
	return func(n *SMSNotifier) {
		if policy.Pause >= 0 {
			n.RateLimit = policy
		}
	}
}

// Notify texts message to the configured phone and reports whether the relay
// accepted it. Failures are logged, never returned.
func (n *SMSNotifier) Notify(ctx context.Context, message string) bool {
	if err := n.Credentials.Validate(); err != nil {
		n.log.Errorw("error sending text message via email gateway", "err", err)
		return false
	}
	recipient := n.Credentials.Recipient()
	n.log.Infow("sending text message",
		"sender", n.Credentials.SenderEmail,
		"recipient", recipient,
		"relay", n.SMTP.addr())

	if err := n.send(ctx, recipient, message); err != nil {
		n.log.Errorw("error sending text message via email gateway",
			"recipient", recipient,
			"err", err)
		return false
	}

	if n.RateLimit.Pause > 0 {
		n.sleep(n.RateLimit.Pause)
	}
	n.log.Infow("text message sent successfully via email gateway", "recipient", recipient)
	return true
}

func (n *SMSNotifier) send(ctx context.Context, recipient, message string) error {
	c, err := n.dial(ctx, n.SMTP.addr(), n.SMTP.Host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); !ok {
		return errors.Errorf("SMTP server %s does not support STARTTLS", n.SMTP.Host)
	}
	if err := c.StartTLS(&tls.Config{ServerName: n.SMTP.Host}); err != nil {
		return errors.Wrap(err, "failed to start TLS")
	}
	n.log.Debugw("logging in", "sender", n.Credentials.SenderEmail)
	auth := smtp.PlainAuth("", n.Credentials.SenderEmail, n.Credentials.SenderPassword, n.SMTP.Host)
	if err := c.Auth(auth); err != nil {
		return errors.Wrap(err, "failed to authenticate")
	}
	if err := c.Mail(n.Credentials.SenderEmail); err != nil {
		return errors.Wrap(err, "failed to set sender")
	}
	if err := c.Rcpt(recipient); err != nil {
		return errors.Wrapf(err, "failed to set recipient %s", recipient)
	}
	w, err := c.Data()
	if err != nil {
		return errors.Wrap(err, "failed to get data writer")
	}
	if _, err := w.Write(buildMessage(n.Credentials.SenderEmail, recipient, message)); err != nil {
		w.Close()
		return errors.Wrap(err, "failed to write message")
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "failed to close data writer")
	}
	return c.Quit()
}

// buildMessage renders a minimal plain-text email. The subject stays empty
// because gateways either drop it or prepend it to the text.
func buildMessage(from, to, body string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: \r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	body = strings.ReplaceAll(body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(strings.TrimRight(body, "\n"), "\n", "\r\n"))
	b.WriteString("\r\n")
	return b.Bytes()
}
