package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mall/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", "agg-1"),
		Data:            "test data",
	}
}

type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, evt)
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	placed := newTestHandler("OrderPlaced")
	paid := newTestHandler("OrderPaid")
	bus.Subscribe(placed)
	bus.Subscribe(paid)

	evt := newTestEvent("OrderPlaced")
	require.NoError(t, bus.Publish(context.Background(), evt))

	assert.Equal(t, 1, placed.count())
	assert.Same(t, evt, placed.handled[0])
	assert.Zero(t, paid.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler("OrderPlaced")
	bus.Subscribe(h, "OrderPaid")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced"), newTestEvent("OrderPaid")))
	assert.Equal(t, 1, h.count())
	assert.Equal(t, "OrderPaid", h.handled[0].EventType())
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := newTestHandler("OrderPlaced")
	failing.err = errors.New("broker down")
	next := newTestHandler("OrderPlaced")
	bus.Subscribe(failing)
	bus.Subscribe(next)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced")))
	assert.Equal(t, 1, next.count())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "event handler failed", logs.All()[0].Message)
}

func TestInMemoryEventBus_RecoversPanickingHandler(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	bad := newTestHandler("OrderPlaced")
	bad.panicWith = "boom"
	good := newTestHandler("OrderPlaced")
	bus.Subscribe(bad)
	bus.Subscribe(good)

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent("OrderPlaced"))
	})
	assert.Equal(t, 1, good.count())
	assert.Equal(t, 1, logs.Len())
}

func TestInMemoryEventBus_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	all := newTestHandler()
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced"), newTestEvent("OrderPaid")))
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler("OrderPlaced")
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced")))
	assert.Zero(t, h.count())
}

func TestInMemoryEventBus_StopRejectsPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()
	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Stop(ctx))

	assert.ErrorIs(t, bus.Publish(ctx, newTestEvent("OrderPlaced")), ErrBusStopped)

	require.NoError(t, bus.Start(ctx))
	assert.NoError(t, bus.Publish(ctx, newTestEvent("OrderPlaced")))
}
