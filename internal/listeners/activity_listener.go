package listeners

import (
	"context"

	"go.uber.org/zap"

	"niuniq/internal/events"
	"niuniq/pkg/eventbus"
	"niuniq/pkg/metrics"
)

// ActivityListener records marketplace lifecycle events in the log and in
// the niuniq_marketplace_events_total counter.
type ActivityListener struct {
	logger *zap.Logger
}

func NewActivityListener(logger *zap.Logger) *ActivityListener {
	return &ActivityListener{logger: logger}
}

func (l *ActivityListener) Register(bus *eventbus.Bus) {
	for _, name := range events.All {
		bus.Subscribe(name, l.Handle)
	}
}

func (l *ActivityListener) Handle(_ context.Context, event eventbus.Event) error {
	metrics.MarketplaceEvents.WithLabelValues(event.Name()).Inc()

	switch e := event.(type) {
	case events.StoreCreated:
		l.logger.Info("store created", zap.Uint64("storeID", e.StoreID), zap.Uint64("userID", e.UserID))
	case events.StoreDeleted:
		l.logger.Info("store deleted",
			zap.Uint64("storeID", e.StoreID),
			zap.Uint64("actorID", e.ActorID),
			zap.Strings("productIds", e.ProductIDs),
		)
	case events.ProductCreated:
		l.logger.Info("product created",
			zap.Uint64("id", e.ID), zap.String("productId", e.ProductID), zap.Uint64("storeID", e.StoreID))
	case events.ProductDeleted:
		l.logger.Info("product deleted",
			zap.Uint64("id", e.ID), zap.String("productId", e.ProductID), zap.Uint64("actorID", e.ActorID))
	default:
		l.logger.Debug("unhandled event", zap.String("event", event.Name()))
	}
	return nil
}
