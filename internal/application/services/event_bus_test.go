package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuscrm/hygiene/internal/domain/events"
)

func TestEventBus_PublishInOrder(t *testing.T) {
	bus := NewEventBus()
	var got []string

	bus.Subscribe(events.RunCompleted, func(_ context.Context, p interface{}) error {
		got = append(got, "first:"+p.(string))
		return nil
	})
	bus.Subscribe(events.RunCompleted, func(_ context.Context, p interface{}) error {
		got = append(got, "second:"+p.(string))
		return nil
	})
	bus.Subscribe(events.AlertRaised, func(context.Context, interface{}) error {
		t.Fatal("wrong event type")
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), events.RunCompleted, "run-1"))
	assert.Equal(t, []string{"first:run-1", "second:run-1"}, got)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()
	calls := 0

	unsubscribe := bus.Subscribe(events.AlertRaised, func(context.Context, interface{}) error {
		calls++
		return nil
	})
	keep := 0
	bus.Subscribe(events.AlertRaised, func(context.Context, interface{}) error {
		keep++
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), events.AlertRaised, nil))
	unsubscribe()
	unsubscribe()
	require.NoError(t, bus.Publish(context.Background(), events.AlertRaised, nil))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, keep)
}

func TestEventBus_HandlerErrorStopsPublish(t *testing.T) {
	bus := NewEventBus()
	reached := false

	bus.Subscribe(events.RunFailed, func(context.Context, interface{}) error {
		return errors.New("boom")
	})
	bus.Subscribe(events.RunFailed, func(context.Context, interface{}) error {
		reached = true
		return nil
	})

	err := bus.Publish(context.Background(), events.RunFailed, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run.failed")
	assert.False(t, reached)
}

func TestEventBus_Clear(t *testing.T) {
	bus := NewEventBus()
	called := false
	bus.Subscribe(events.RunStarted, func(context.Context, interface{}) error {
		called = true
		return nil
	})

	bus.Clear()
	assert.NoError(t, bus.Publish(context.Background(), events.RunStarted, nil))
	assert.False(t, called)
}
