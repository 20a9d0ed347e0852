package notifications

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterLimits(t *testing.T) {
	hub := NewHub()
	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register("u1", nil)
		require.NoError(t, err)
	}
	_, err := hub.Register("u1", nil)
	assert.ErrorIs(t, err, ErrUserConnLimit)
	assert.Equal(t, maxConnsPerUser, hub.Connections("u1"))

	_, err = hub.Register("u2", nil)
	assert.NoError(t, err)
}

func TestHub_BroadcastAndUnregister(t *testing.T) {
	hub := NewHub()
	a, err := hub.Register("u1", nil)
	require.NoError(t, err)
	b, err := hub.Register("u1", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, hub.Broadcast("u1", "hello"))
	assert.Equal(t, "hello", string(<-a.Send))
	assert.Equal(t, "hello", string(<-b.Send))

	hub.Unregister(a)
	hub.Unregister(a)
	_, open := <-a.Send
	assert.False(t, open)
	assert.Equal(t, 1, hub.Broadcast("u1", "again"))
	assert.Equal(t, 0, hub.Broadcast("nobody", "x"))
}

func TestHub_FullBufferDrops(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register("u1", nil)
	require.NoError(t, err)
	for i := 0; i < sendBuffer; i++ {
		require.True(t, c.TrySend([]byte("m")))
	}
	assert.False(t, c.TrySend([]byte("overflow")))
	assert.Equal(t, 0, hub.Broadcast("u1", "more"))
}

func TestHub_ShutdownRejectsNewConnections(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register("u1", nil)
	require.NoError(t, err)

	require.NoError(t, hub.Shutdown(context.Background()))
	_, open := <-c.Send
	assert.False(t, open)
	assert.Equal(t, 0, hub.Connections("u1"))

	_, err = hub.Register("u1", nil)
	assert.ErrorIs(t, err, ErrServerConnLimit)
	hub.Unregister(c)
}
