package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordChangedJSON(t *testing.T) {
	msg := NewRecordChanged("expenses", OpDeleted, 42)
	body, err := msg.ToJSON()
	require.NoError(t, err)
	require.Contains(t, string(body), `"operation":"deleted"`)

	back, err := RecordChangedFromJSON(body)
	require.NoError(t, err)
	require.Equal(t, msg.ID, back.ID)
	require.Equal(t, msg.Operation, back.Operation)
	require.True(t, msg.Timestamp.Equal(back.Timestamp))

	_, err = RecordChangedFromJSON([]byte("{"))
	require.Error(t, err)
}

func TestBulkInserted(t *testing.T) {
	msg := NewBulkInserted("expenses", 25)
	require.Equal(t, OpBulkInserted, msg.Operation)
	require.Equal(t, 25, msg.Count)

	body, err := msg.ToJSON()
	require.NoError(t, err)
	require.NotContains(t, string(body), `"id"`)
}

func TestRoutingKeys(t *testing.T) {
	require.Equal(t, "budgets.updated", NewRecordChanged("budgets", OpUpdated, 1).RoutingKey())
	keys := RoutingKeys()
	require.Len(t, keys, 8)
	require.Contains(t, keys, "budgets.bulk_inserted")
	require.Contains(t, keys, "expenses.inserted")
}

func TestRecorderAndNop(t *testing.T) {
	ctx := context.Background()
	var r Recorder
	require.NoError(t, r.Publish(ctx, NewRecordChanged("expenses", OpInserted, 1)))
	msgs := r.Messages()
	require.Len(t, msgs, 1)
	msgs[0].ID = 99
	require.Equal(t, int64(1), r.Messages()[0].ID)

	var p Publisher = NopPublisher{}
	require.NoError(t, p.Publish(ctx, msgs[0]))
	require.NoError(t, p.Close())
}

func TestNewAMQPClientBadURL(t *testing.T) {
	_, err := NewAMQPClient("amqp://127.0.0.1:1/", "x", "y")
	require.Error(t, err)
}
