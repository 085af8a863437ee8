// Package mailer sends one-shot notification emails through an SMTP relay.
// A send either succeeds or reports why it did not; it never retries and
// never panics or returns an error to the caller.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

var (
	// ErrNotConfigured means host, port, sender or receiver is missing.
	// No connection is attempted.
	ErrNotConfigured = errors.New("SMTP settings are incomplete")

	// ErrDelivery wraps any failure while building, connecting, authenticating
	// or sending.
	ErrDelivery = errors.New("email delivery failed")
)

// Config holds the relay settings. Username and Password are optional; when
// both are set the client authenticates with CRAM-MD5, PLAIN or LOGIN,
// whichever the relay advertises first in that order.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
	Receiver string
	UseTLS   bool
}

// Complete reports whether every setting required for delivery is present.
func (c Config) Complete() bool {
	return c.Host != "" && c.Port > 0 && c.Sender != "" && c.Receiver != ""
}

// Message is a plain-text notification.
type Message struct {
	Subject string
	Body    string
	// ReplyTo is optional. An address that does not parse is dropped.
	ReplyTo string
}

// Result describes a single delivery attempt.
type Result struct {
	Delivered bool
	Detail    string
	// Err is nil on success and otherwise wraps ErrNotConfigured or ErrDelivery.
	Err error
}

// Sender delivers notifications.
type Sender interface {
	Send(ctx context.Context, msg Message) Result
	// Configured reports whether Send can attempt delivery at all.
	Configured() bool
}

type client struct {
	cfg Config
}

// NewClient returns a Sender backed by cfg. An incomplete cfg is allowed:
// every Send then fails fast with ErrNotConfigured.
func NewClient(cfg Config) Sender {
	return &client{cfg: cfg}
}

func (c *client) Configured() bool {
	return c.cfg.Complete()
}

// Send opens a connection, optionally upgrades it with STARTTLS, optionally
// authenticates, sends msg and closes the connection.
func (c *client) Send(ctx context.Context, msg Message) (res Result) {
	if !c.cfg.Complete() {
		return Result{Detail: ErrNotConfigured.Error() + ".", Err: ErrNotConfigured}
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: panic: %v", ErrDelivery, r)
			slog.Warn("email send failed", "error", err)
			res = Result{Detail: err.Error(), Err: err}
		}
	}()

	if err := c.send(ctx, msg); err != nil {
		slog.Warn("email send failed", "host", c.cfg.Host, "port", c.cfg.Port, "error", err)
		return Result{Detail: err.Error(), Err: fmt.Errorf("%w: %w", ErrDelivery, err)}
	}
	return Result{Delivered: true, Detail: "Email sent."}
}

func (c *client) send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(c.cfg.Sender); err != nil {
		return fmt.Errorf("sender address: %w", err)
	}
	if err := m.To(c.cfg.Receiver); err != nil {
		return fmt.Errorf("receiver address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			slog.Debug("dropping unparsable reply-to", "error", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	opts := []mail.Option{mail.WithPort(c.cfg.Port)}
	if c.cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if c.cfg.Username != "" && c.cfg.Password != "" {
		opts = append(opts, mail.WithSMTPAuthCustom(newRelayAuth(c.cfg.Username, c.cfg.Password, c.cfg.Host)))
	}

	mc, err := mail.NewClient(c.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("client: %w", err)
	}
	// DialAndSendWithContext closes the connection on every path.
	return mc.DialAndSendWithContext(ctx, m)
}
