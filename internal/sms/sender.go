package sms

import "context"

// Sender delivers a single message to a recipient and returns the
// provider-assigned message identifier.
type Sender interface {
	Name() string
	Send(ctx context.Context, to, body string) (string, error)
}
