package repository

import "context"

type EventPublisher interface {
	Publish(ctx context.Context, subject string, message interface{}) error
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every message. It is used
// when no message broker is configured.
func NewNoopPublisher() EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	return nil
}
