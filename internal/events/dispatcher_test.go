package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carenest/marketplace/internal/observability"
)

func TestDispatcherDeliversToAllHandlers(t *testing.T) {
	metrics := observability.NewMetrics()
	d := NewInMemoryDispatcher(zap.NewNop(), metrics)

	var calls []string
	d.Subscribe(EventBookingCreated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventBookingCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.SubjectID)
		return nil
	})
	d.Subscribe(EventReviewSubmitted, func(context.Context, Event) error {
		calls = append(calls, "unrelated")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventBookingCreated, SubjectID: "b-1"}))
	assert.Equal(t, []string{"first", "second:b-1"}, calls)
	assert.Equal(t, int64(1), metrics.Snapshot().DomainEvents[string(EventBookingCreated)])
}
