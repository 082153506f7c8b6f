package mail

import (
	"fmt"

	"zamar-backend/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	Subject string
	Body    string // HTML
}

type Mailer interface {
	Send(msg Message) error
}

// New returns an SMTP mailer, or a log-only one when SMTP_HOST is empty.
func New(cfg config.MailConfig, log *logrus.Logger) Mailer {
	if cfg.Host == "" {
		return &logMailer{log: log}
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func (m *smtpMailer) Send(msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.Body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

type logMailer struct {
	log *logrus.Logger
}

func (m *logMailer) Send(msg Message) error {
	m.log.WithFields(logrus.Fields{"to": msg.To, "subject": msg.Subject}).Info("mail not sent: SMTP not configured")
	return nil
}

// SendAsync sends in a goroutine so the caller's response is not held up.
func SendAsync(m Mailer, log *logrus.Logger, msg Message) {
	if msg.To == "" {
		return
	}
	go func() {
		if err := m.Send(msg); err != nil {
			log.WithError(err).WithField("subject", msg.Subject).Error("notification mail failed")
		}
	}()
}
