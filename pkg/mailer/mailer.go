package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/schoolpilot/schoolpilot-api/internal/models"
	"github.com/schoolpilot/schoolpilot-api/pkg/config"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// Mailer delivers a verification code to an account out-of-band. Delivery
// is best effort; callers never roll back OTP state on failure.
type Mailer interface {
	SendCode(ctx context.Context, account *models.Account, code string) error
}

// SendgridMailer sends verification codes through the Sendgrid v3 API.
type SendgridMailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewSendgridMailer constructs a SendgridMailer.
func NewSendgridMailer(cfg config.MailConfig, logger *zap.Logger) *SendgridMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SendgridMailer{cfg: cfg, logger: logger}
}

// SendCode mails the verification code to the account's address.
func (m *SendgridMailer) SendCode(ctx context.Context, account *models.Account, code string) error {
	personalization := sgmail.NewPersonalization()
	personalization.Subject = "Your verification code"
	personalization.AddTos(sgmail.NewEmail(account.FullName(), account.Email))

	text := fmt.Sprintf("Hello %s,\n\nYour verification code is %s. It expires in a few minutes.\n\n%s",
		account.FullName(), code, m.cfg.PortalURL)
	html := fmt.Sprintf("<p>Hello %s,</p><p>Your verification code is <strong>%s</strong>. It expires in a few minutes.</p><p><a href=%q>Continue to the portal</a></p>",
		account.FullName(), code, m.cfg.PortalURL)

	message := sgmail.NewV3Mail()
	message.SetFrom(sgmail.NewEmail(m.cfg.FromName, m.cfg.FromEmail))
	message.AddPersonalizations(personalization)
	message.AddContent(
		sgmail.NewContent("text/plain", text),
		sgmail.NewContent("text/html", html),
	)

	req := sendgrid.GetRequest(m.cfg.SendgridKey, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(message)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("send code mail: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("send code mail: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// ConsoleMailer logs codes instead of sending them. It backs development
// environments where no Sendgrid key is configured.
type ConsoleMailer struct {
	logger *zap.Logger
}

// NewConsoleMailer constructs a ConsoleMailer.
func NewConsoleMailer(logger *zap.Logger) *ConsoleMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleMailer{logger: logger}
}

// SendCode logs the code for local inspection.
func (m *ConsoleMailer) SendCode(_ context.Context, account *models.Account, code string) error {
	m.logger.Info("verification code issued",
		zap.String("email", account.Email),
		zap.String("code", code),
	)
	return nil
}
