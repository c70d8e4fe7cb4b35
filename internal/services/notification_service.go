package services

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"niuniq/pkg/config"
)

type NotificationServiceInterface interface {
	SendPasswordResetEmail(ctx context.Context, to, resetURL string) error
}

const passwordResetSubject = "Password reset token"

func passwordResetBody(resetURL string) string {
	return fmt.Sprintf("You are receiving this email because you (or someone else) has requested the reset "+
		"of a password. Please make a PUT request to: \n\n %s", resetURL)
}

// NewNotificationService sends real email when SMTP is configured and logs
// the message otherwise.
func NewNotificationService(cfg config.SMTPConfig, logger *zap.Logger) (NotificationServiceInterface, error) {
	if cfg.Host == "" {
		return NewMockNotificationService(logger), nil
	}
	return NewSMTPNotificationService(cfg, logger)
}

type mockNotificationService struct {
	logger *zap.Logger
}

func NewMockNotificationService(logger *zap.Logger) NotificationServiceInterface {
	return &mockNotificationService{logger: logger}
}

func (s *mockNotificationService) SendPasswordResetEmail(_ context.Context, to, resetURL string) error {
	s.logger.Info("SMTP not configured, password reset email not sent",
		zap.String("to", to),
		zap.String("resetURL", resetURL),
	)
	return nil
}

type smtpNotificationService struct {
	client *mail.Client
	from   string
	logger *zap.Logger
}

func NewSMTPNotificationService(cfg config.SMTPConfig, logger *zap.Logger) (NotificationServiceInterface, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &smtpNotificationService{client: client, from: cfg.From, logger: logger}, nil
}

func (s *smtpNotificationService) SendPasswordResetEmail(ctx context.Context, to, resetURL string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(passwordResetSubject)
	msg.SetBodyString(mail.TypeTextPlain, passwordResetBody(resetURL))

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send password reset email: %w", err)
	}
	s.logger.Info("password reset email sent", zap.String("to", to))
	return nil
}
