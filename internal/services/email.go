package services

import (
	"context"
	"fmt"
	"log/slog"

	"sporthive/internal/domain"
)

const (
	templateRegistrationConfirmed = "registration_confirmed"
	templateWithdrawalConfirmed   = "withdrawal_confirmed"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendRegistrationConfirmation sends the "registration_confirmed" email.
func (s *emailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("registration email data is nil")
	}
	if err := s.send(ctx, data.Email, templateRegistrationConfirmed, data); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "registration confirmation sent", "to", data.Email, "activity", data.ActivityName)
	return nil
}

// SendWithdrawalConfirmation sends the "withdrawal_confirmed" email.
func (s *emailService) SendWithdrawalConfirmation(ctx context.Context, data *domain.WithdrawalEmailData) error {
	if data == nil {
		return fmt.Errorf("withdrawal email data is nil")
	}
	if err := s.send(ctx, data.Email, templateWithdrawalConfirmed, data); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "withdrawal confirmation sent", "to", data.Email, "activity", data.ActivityName)
	return nil
}

func (s *emailService) send(ctx context.Context, to, templateName string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", templateName, err)
	}
	return nil
}
