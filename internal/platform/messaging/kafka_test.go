package messaging

import (
	"context"
	"testing"
	"time"

	contractsv1 "vendorhub/contracts/gen/events/v1"

	"github.com/stretchr/testify/require"
)

func TestKafkaDeliversToSubscribers(t *testing.T) {
	bus, err := NewKafka(nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan contractsv1.Envelope, 1)
	require.NoError(t, bus.Subscribe(ctx, "authz.role_changed", "test", func(_ context.Context, event contractsv1.Envelope) error {
		received <- event
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, "authz.role_changed", contractsv1.Envelope{EventID: "evt-1"}))
	require.NoError(t, bus.Publish(ctx, "vendor.deal_closed", contractsv1.Envelope{EventID: "evt-2"}))

	select {
	case event := <-received:
		require.Equal(t, "evt-1", event.EventID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
	select {
	case event := <-received:
		t.Fatalf("unexpected delivery from other topic: %s", event.EventID)
	case <-time.After(50 * time.Millisecond):
	}
}
