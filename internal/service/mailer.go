package service

import (
	"errors"
	"log"

	gomail "gopkg.in/gomail.v2"

	"github.com/iliyamo/homestay-booking/internal/config"
)

// Mailer sends outbound HTML email over SMTP. When no SMTP host is
// configured, Send logs the message and reports success so development
// environments work without a mail server.
type Mailer struct {
	cfg config.MailConfig
}

func NewMailer(cfg config.MailConfig) *Mailer { return &Mailer{cfg: cfg} }

// Send delivers one HTML email to the given recipients.
func (m *Mailer) Send(to []string, subject, html string) error {
	if len(to) == 0 {
		return errors.New("no recipients")
	}
	if m.cfg.Host == "" {
		log.Printf("mailer: SMTP disabled, skipping %q to %v", subject, to)
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Pass)
	if err := d.DialAndSend(msg); err != nil {
		log.Printf("mailer: send failed: %v", err)
		return err
	}
	return nil
}
