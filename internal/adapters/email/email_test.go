package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sporthive/internal/domain"
)

func TestTemplateRenderer_RegistrationConfirmed(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	subject, html, text, err := r.Render("registration_confirmed", &domain.RegistrationEmailData{
		Email:        "x@example.com",
		UserName:     "Xavier",
		ActivityName: "Sunday <football>",
		Location:     "Riverside park",
		StartTime:    time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "You're in: Sunday <football>", subject)
	assert.Contains(t, html, "Sunday &lt;football&gt;")
	assert.Contains(t, html, "Sun, 01 Jun 2025 11:00 UTC")
	assert.Contains(t, text, "Hi Xavier,")
	assert.Contains(t, text, "Riverside park")
}

func TestTemplateRenderer_WithdrawalConfirmed(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	subject, html, text, err := r.Render("withdrawal_confirmed", &domain.WithdrawalEmailData{UserName: "Yara", ActivityName: "Trail run"})
	require.NoError(t, err)
	assert.Equal(t, "You left Trail run", subject)
	assert.Contains(t, html, "Trail run")
	assert.Contains(t, text, "Hi Yara,")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)
	_, _, _, err = r.Render("welcome", nil)
	require.Error(t, err)
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, "noreply@sporthive.test", "SportHive", discardLogger())

	require.NoError(t, m.Send(context.Background(), "x@example.com", "Hello", "<p>hi</p>", ""))
	require.NotNil(t, client.input)
	assert.Equal(t, "SportHive <noreply@sporthive.test>", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"x@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Hello", aws.ToString(client.input.Message.Subject.Data))
	assert.Equal(t, "<p>hi</p>", aws.ToString(client.input.Message.Body.Html.Data))
	assert.Nil(t, client.input.Message.Body.Text)
}

func TestSESMailer_SendError(t *testing.T) {
	boom := errors.New("throttled")
	m := newSESMailer(&fakeSES{err: boom}, "noreply@sporthive.test", "", discardLogger())
	err := m.Send(context.Background(), "x@example.com", "Hello", "", "hi")
	require.ErrorIs(t, err, boom)
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(MailerConfig{Provider: ProviderNoop}, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &noopMailer{}, m)
	require.NoError(t, m.Send(context.Background(), "x@example.com", "s", "h", "t"))

	m, err = NewMailer(MailerConfig{Provider: "carrier-pigeon"}, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &noopMailer{}, m)

	_, err = NewMailer(MailerConfig{Provider: ProviderSES}, discardLogger())
	require.Error(t, err)

	m, err = NewMailer(MailerConfig{Provider: ProviderSES, FromAddress: "noreply@sporthive.test", SES: SESConfig{Region: "eu-west-1"}}, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &sesMailer{}, m)
}
