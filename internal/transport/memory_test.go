package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryRecordsPublishes(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	require.NoError(t, m.Publish(context.Background(), "scraped_prices", []byte(`{"a":1}`), true))
	require.NoError(t, m.Publish(context.Background(), "scraped_prices", []byte(`{"b":2}`), false))

	msgs := m.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, "scraped_prices", msgs[0].Queue)
	require.True(t, msgs[0].Durable)
	require.False(t, msgs[1].Durable)
}

func TestMemoryFailNextConsumesInOrder(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	m.FailNext(errors.New("broker down"), nil)

	require.Error(t, m.Publish(context.Background(), "q", []byte("1"), true))
	require.NoError(t, m.Publish(context.Background(), "q", []byte("2"), true))
	require.NoError(t, m.Publish(context.Background(), "q", []byte("3"), true))
	require.Len(t, m.Messages(), 2)
}

func TestMemoryClose(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	require.False(t, m.Closed())
	require.NoError(t, m.Close())
	require.True(t, m.Closed())
}
