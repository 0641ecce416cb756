package messaging

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_EnvuelvePayload(t *testing.T) {
	ev, err := NewEvent("order.paid", "naturalmede-api", map[string]any{"order_number": "P-20250101-0001"})
	require.NoError(t, err)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "order.paid", ev.Type)
	var data map[string]any
	require.NoError(t, json.Unmarshal(ev.Data, &data))
	assert.Equal(t, "P-20250101-0001", data["order_number"])
}

func TestNewEvent_PayloadNoSerializable(t *testing.T) {
	_, err := NewEvent("x", "api", make(chan int))
	assert.Error(t, err)
}

func TestRecordingPublisher_CuentaPorRoutingKey(t *testing.T) {
	r := &RecordingPublisher{}
	ctx := context.Background()
	require.NoError(t, r.Publish(ctx, "order.paid", 1))
	require.NoError(t, r.Publish(ctx, "order.paid", 2))
	require.NoError(t, r.Publish(ctx, "pos.sale.created", 3))

	assert.Equal(t, 2, r.Count("order.paid"))
	assert.Equal(t, 1, r.Count("pos.sale.created"))
	assert.NoError(t, NoopPublisher{}.Publish(ctx, "x", nil))
}
