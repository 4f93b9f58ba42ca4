package notify

import (
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"gate-pass-api-server/config"
	"gate-pass-api-server/internal/logger"
)

var _ Notifier = &Mail{}

var l = logger.GetLogger()

// Mail sends workflow notifications through SendGrid.
type Mail struct {
	request rest.Request
	from    *mail.Email
}

func NewMail(cfg config.MailConfig) *Mail {
	request := sendgrid.GetRequest(cfg.SendGridAPIKey, "/v3/mail/send", "")
	request.Method = "POST"
	return &Mail{
		request: request,
		from:    mail.NewEmail(cfg.SenderName, cfg.SenderAddress),
	}
}

func (m *Mail) Notify(event Event) error {
	if event.RecipientEmail == "" {
		// No address on record is a degraded-but-successful path.
		l.Info("Skipping mail, recipient has no email address",
			zap.String("type", event.Type), zap.String("refNo", event.RefNo))
		return nil
	}

	body, err := event.ComposeMailBody()
	if err != nil {
		return err
	}

	m1 := mail.NewV3Mail()
	m1.SetFrom(m.from)
	m1.AddContent(mail.NewContent("text/html", body))

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail(event.RecipientName, event.RecipientEmail))
	personalization.Subject = fmt.Sprintf("Gate Pass System - %s", event.Type)
	m1.AddPersonalizations(personalization)

	req := m.request
	req.Body = mail.GetRequestBody(m1)
	response, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if response.StatusCode != 202 {
		return fmt.Errorf("sendgrid: response code %d", response.StatusCode)
	}
	return nil
}
