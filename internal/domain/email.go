package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RegistrationEmailData holds data for the registration confirmation email.
type RegistrationEmailData struct {
	Email        string
	UserName     string
	ActivityName string
	Location     string
	StartTime    time.Time
}

// WithdrawalEmailData holds data for the withdrawal confirmation email.
type WithdrawalEmailData struct {
	Email        string
	UserName     string
	ActivityName string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendRegistrationConfirmation(ctx context.Context, data *RegistrationEmailData) error
	SendWithdrawalConfirmation(ctx context.Context, data *WithdrawalEmailData) error
}
