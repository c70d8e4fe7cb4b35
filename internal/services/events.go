package services

import (
	"context"

	"niuniq/pkg/eventbus"
)

// EventPublisher is satisfied by *eventbus.Bus.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}
