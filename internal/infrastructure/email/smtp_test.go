package email

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/memberhub/memberhub/internal/application/notification"
	sharedConfig "github.com/memberhub/memberhub/internal/shared/config"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

type capturedMail struct {
	from string
	to   []string
	raw  string
}

type fakeSender struct {
	sent   []capturedMail
	closed int
}

func (f *fakeSender) Send(from string, to []string, msg io.WriterTo) error {
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return err
	}
	f.sent = append(f.sent, capturedMail{from: from, to: to, raw: buf.String()})
	return nil
}

func (f *fakeSender) Close() error {
	f.closed++
	return nil
}

func newTestNotifier(t *testing.T) (*SMTPNotifier, *fakeSender) {
	t.Helper()
	sender := &fakeSender{}
	n, err := newSMTPNotifier(SMTPConfig{FromAddress: "office@example.org", FromName: "Membership Office"},
		func() (gomail.SendCloser, error) { return sender, nil },
		logger.NewNop())
	require.NoError(t, err)
	return n, sender
}

func TestSMTPNotifier_PaymentSucceeded(t *testing.T) {
	n, sender := newTestNotifier(t)

	err := n.Send(context.Background(), notification.EventPaymentSucceeded,
		notification.Recipient{Email: "ada@example.com", Name: "Ada Obi"},
		notification.Payload{
			"reference":     "MH-REF-1",
			"purpose":       "membership",
			"provider":      "paystack",
			"amount":        decimal.RequireFromString("5000"),
			"currency":      "NGN",
			"validity_days": 30,
		})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, 1, sender.closed)

	mail := sender.sent[0]
	assert.Equal(t, "office@example.org", mail.from)
	assert.Equal(t, []string{"ada@example.com"}, mail.to)
	assert.Contains(t, mail.raw, "Subject: Payment received (MH-REF-1)")
	assert.Contains(t, mail.raw, "NGN 5,000.00")
	assert.Contains(t, mail.raw, "Hello Ada Obi,")
	assert.Contains(t, mail.raw, "next 30 days")
	assert.Contains(t, mail.raw, "text/html")
	assert.Contains(t, mail.raw, "<strong>")
}

func TestSMTPNotifier_OptionalFields(t *testing.T) {
	n, sender := newTestNotifier(t)

	err := n.Send(context.Background(), notification.EventPaymentSucceeded,
		notification.Recipient{Email: "donor@example.com"},
		notification.Payload{"reference": "R", "purpose": "donation", "provider": "stripe", "amount": "250.5", "currency": "USD"})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	raw := sender.sent[0].raw
	assert.Contains(t, raw, "Hello,")
	assert.Contains(t, raw, "USD 250.50")
	assert.NotContains(t, raw, "ID card")
	assert.NotContains(t, raw, "<no value>")
}

func TestSMTPNotifier_Errors(t *testing.T) {
	n, sender := newTestNotifier(t)

	err := n.Send(context.Background(), notification.Event("unknown"), notification.Recipient{Email: "a@example.com"}, nil)
	assert.Error(t, err)

	err = n.Send(context.Background(), notification.EventPaymentFailed, notification.Recipient{}, nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = n.Send(ctx, notification.EventPaymentFailed, notification.Recipient{Email: "a@example.com"}, nil)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Empty(t, sender.sent)
}

func TestTemplatesCoverEveryEvent(t *testing.T) {
	set, err := loadTemplates()
	require.NoError(t, err)

	events := []notification.Event{
		notification.EventPaymentSucceeded,
		notification.EventPaymentFailed,
		notification.EventSubscriptionActivated,
		notification.EventSubscriptionCancelled,
		notification.EventDonationReceived,
		notification.EventMembershipDemoGranted,
	}
	for _, event := range events {
		msg, err := set.render(event, map[string]any{"amount": "1", "currency": "NGN"})
		require.NoError(t, err, event)
		assert.NotEmpty(t, msg.Subject, event)
		assert.NotEmpty(t, msg.Body, event)
	}
}

func TestNewNotifier_Disabled(t *testing.T) {
	n, err := NewNotifier(sharedConfig.EmailConfig{Enabled: false}, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &loggingNotifier{}, n)
	assert.NoError(t, n.Send(context.Background(), notification.EventPaymentFailed, notification.Recipient{Email: "a@example.com"}, nil))

	n, err = NewNotifier(sharedConfig.EmailConfig{Enabled: true, SMTPHost: "smtp.example.org", SMTPPort: 587}, logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPNotifier{}, n)
}
