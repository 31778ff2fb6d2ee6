// Package notification is the outbound messaging port. Delivery is always
// best-effort: callers log failures and never roll back business state.
package notification

import (
	"context"
	"sync"
)

// Event names a notification template.
type Event string

const (
	EventPaymentSucceeded      Event = "payment_succeeded"
	EventPaymentFailed         Event = "payment_failed"
	EventSubscriptionActivated Event = "subscription_activated"
	EventSubscriptionCancelled Event = "subscription_cancelled"
	EventDonationReceived      Event = "donation_received"
	EventMembershipDemoGranted Event = "membership_demo_granted"
)

// Recipient is who a message goes to.
type Recipient struct {
	Email string
	Name  string
}

// Payload carries template variables. Keys are event specific.
type Payload map[string]any

// Notifier delivers event notifications to a recipient.
type Notifier interface {
	Send(ctx context.Context, event Event, to Recipient, payload Payload) error
}

type nopNotifier struct{}

// NewNopNotifier returns a Notifier that drops every message.
func NewNopNotifier() Notifier {
	return nopNotifier{}
}

func (nopNotifier) Send(context.Context, Event, Recipient, Payload) error {
	return nil
}

// Message is one recorded delivery.
type Message struct {
	Event   Event
	To      Recipient
	Payload Payload
}

// RecordingNotifier keeps every message in memory. Used in tests and when
// email is disabled in development.
type RecordingNotifier struct {
	mu       sync.Mutex
	messages []Message
	sent     chan struct{}
}

// NewRecordingNotifier creates a new RecordingNotifier.
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{sent: make(chan struct{}, 64)}
}

func (r *RecordingNotifier) Send(_ context.Context, event Event, to Recipient, payload Payload) error {
	r.mu.Lock()
	r.messages = append(r.messages, Message{Event: event, To: to, Payload: payload})
	r.mu.Unlock()

	select {
	case r.sent <- struct{}{}:
	default:
	}
	return nil
}

// Messages returns a copy of everything sent so far.
func (r *RecordingNotifier) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Sent signals once per delivered message.
func (r *RecordingNotifier) Sent() <-chan struct{} {
	return r.sent
}
