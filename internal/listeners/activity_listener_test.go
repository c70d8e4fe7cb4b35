package listeners

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"niuniq/internal/events"
	"niuniq/pkg/eventbus"
	"niuniq/pkg/metrics"
)

func TestActivityListener_CountsAndLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	listener := NewActivityListener(zap.New(core))

	counter := metrics.MarketplaceEvents.WithLabelValues(events.ProductDeletedName)
	before := testutil.ToFloat64(counter)

	require.NoError(t, listener.Handle(context.Background(),
		events.ProductDeleted{ID: 3, ProductID: "AbCdE12345", StoreID: 1, ActorID: 9}))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	entries := logs.FilterMessage("product deleted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "AbCdE12345", entries[0].ContextMap()["productId"])
}

func TestActivityListener_RegisterSubscribesAll(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := eventbus.New(zap.NewNop())
	NewActivityListener(zap.New(core)).Register(bus)

	bus.Publish(context.Background(), events.StoreCreated{StoreID: 1, UserID: 2})
	bus.Publish(context.Background(), events.ProductCreated{ID: 1, ProductID: "x", StoreID: 1})
	require.NoError(t, bus.Wait(context.Background()))

	assert.Equal(t, 1, logs.FilterMessage("store created").Len())
	assert.Equal(t, 1, logs.FilterMessage("product created").Len())
}
