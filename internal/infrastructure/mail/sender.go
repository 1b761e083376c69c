package mail

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sopas/backend/internal/infrastructure/config"
)

// Message is one outbound email
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers outbound email. Delivery is best effort: registration and
// OTP flows log and continue when a send fails.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes outbound mail to the log instead of delivering it.
// Used in development and whenever no real provider is configured.
type LogSender struct {
	logger *zap.Logger
	cfg    config.MailConfig
}

// NewLogSender creates a log-only mail sender
func NewLogSender(logger *zap.Logger, cfg config.MailConfig) *LogSender {
	return &LogSender{logger: logger.Named("mail"), cfg: cfg}
}

// Send logs the message
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("outbound email",
		zap.String("from", fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromAddress)),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

var _ Sender = (*LogSender)(nil)

// OTPMessage builds the verification mail for a one-time password
func OTPMessage(to, code string) Message {
	return Message{
		To:      to,
		Subject: "Your verification code",
		Body:    fmt.Sprintf("Your one-time password is %s. It is valid for 5 minutes.", code),
	}
}

// PasswordResetMessage builds the mail carrying a password reset code
func PasswordResetMessage(to, code string) Message {
	return Message{
		To:      to,
		Subject: "Your password reset code",
		Body:    fmt.Sprintf("Your password reset code is %s. It is valid for 5 minutes.", code),
	}
}

// WelcomeMessage builds the post-registration mail
func WelcomeMessage(to, name string) Message {
	return Message{
		To:      to,
		Subject: "Welcome to SOPAS",
		Body:    fmt.Sprintf("Hi %s, your account has been created. Verify your email to get started.", name),
	}
}
