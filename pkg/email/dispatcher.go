package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"gx-services-backend/config"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// Transport opens a verified connection to the relay: TCP dial, TLS and AUTH.
// *gomail.Dialer satisfies it.
type Transport interface {
	Dial() (gomail.SendCloser, error)
}

// DispatcherConfig holds the fixed envelope of every contact email.
type DispatcherConfig struct {
	FromAddress string
	FromName    string
	Recipients  []string
}

// Dispatcher relays rendered contact emails through an SMTP relay.
// It is immutable after construction and safe for concurrent use.
type Dispatcher struct {
	transport Transport
	cfg       DispatcherConfig
	idDomain  string
	newID     func() string
}

// NewDialer builds the gomail dialer from process settings.
//
// InsecureSkipVerify follows SMTP_TLS_INSECURE_SKIP_VERIFY. It is on by default because
// the relays this service talks to present certificates signed by a self-signed
// intermediate; turn it off wherever the relay has a publicly trusted chain.
func NewDialer(cfg *config.Config) *gomail.Dialer {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	d.SSL = cfg.SMTPSecure
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.SMTPHost,
		InsecureSkipVerify: cfg.SMTPInsecureSkipVerify, //nolint:gosec // opt-out documented above
		MinVersion:         tls.VersionTLS12,
	}
	return d
}

// NewDispatcher creates a dispatcher sending through transport.
func NewDispatcher(transport Transport, cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		cfg:       cfg,
		idDomain:  domainOf(cfg.FromAddress),
		newID:     uuid.NewString,
	}
}

// NewDispatcherFromConfig wires a gomail dialer and the configured envelope.
func NewDispatcherFromConfig(cfg *config.Config) *Dispatcher {
	return NewDispatcher(NewDialer(cfg), DispatcherConfig{
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		Recipients:  cfg.EmailTo,
	})
}

// Send verifies the relay connection and then sends content on it, once.
// Returns the Message-ID on success. Errors wrap ErrVerifyFailed when nothing
// could be sent and ErrSendFailed when the relay rejected the message.
func (d *Dispatcher) Send(ctx context.Context, content Content, replyTo string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	conn, err := d.transport.Dial()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrVerifyFailed, err)
	}
	defer conn.Close()

	messageID := d.messageID()
	msg := d.buildMessage(content, replyTo, messageID)

	if err := gomail.Send(conn, msg); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	return messageID, nil
}

func (d *Dispatcher) buildMessage(content Content, replyTo, messageID string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", d.cfg.FromAddress, d.cfg.FromName)
	m.SetHeader("To", d.cfg.Recipients...)
	m.SetHeader("Reply-To", replyTo)
	m.SetHeader("Subject", content.Subject)
	m.SetHeader("Message-ID", messageID)
	m.SetHeader("X-Priority", "1")
	m.SetHeader("X-MSMail-Priority", "High")
	m.SetHeader("Importance", "high")
	m.SetBody("text/plain", content.Text)
	m.AddAlternative("text/html", content.HTML)
	return m
}

func (d *Dispatcher) messageID() string {
	return "<" + d.newID() + "@" + d.idDomain + ">"
}

func domainOf(address string) string {
	if at := strings.LastIndex(address, "@"); at >= 0 && at < len(address)-1 {
		return address[at+1:]
	}
	return "localhost"
}
