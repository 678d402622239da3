// internal/eventlog/eventlog_test.go
package eventlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	log := NewMemory()

	err := Record(ctx, log, "agg-1", "user", "UserRegistered", samplePayload{Name: "alice", Count: 1})
	require.NoError(t, err)
	err = Record(ctx, log, "agg-2", "loan", "MediaBorrowed", samplePayload{Name: "loan", Count: 2})
	require.NoError(t, err)
	err = Record(ctx, log, "agg-1", "user", "FinePaid", samplePayload{Name: "alice", Count: 3})
	require.NoError(t, err)

	all := log.All()
	require.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(3), all[2].ID)
	assert.False(t, all[0].CreatedAt.IsZero())

	byUser, err := log.ByAggregate(ctx, "agg-1")
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	assert.Equal(t, "UserRegistered", byUser[0].EventType)
	assert.Equal(t, "FinePaid", byUser[1].EventType)

	var payload samplePayload
	require.NoError(t, codec.Unmarshal(byUser[1].EventData, &payload))
	assert.Equal(t, 3, payload.Count)
}

func TestByAggregateUnknown(t *testing.T) {
	ctx := context.Background()
	log := NewMemory()

	events, err := log.ByAggregate(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, events)
}
