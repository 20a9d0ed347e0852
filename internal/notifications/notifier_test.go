package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"nashr/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.NoError(t, n.PublishUser(context.Background(), "u1", "payload"))
	n.Publish(context.Background(), "u1", map[string]string{"a": "b"})
	assert.NoError(t, n.StartPatternSubscriber(context.Background(), func(string, string) {}))

	var nilNotifier *Notifier
	nilNotifier.Publish(context.Background(), "u1", nil)
}

func TestUserChannel(t *testing.T) {
	assert.Equal(t, "notifications:user:abc", UserChannel("abc"))

	id, ok := userFromChannel(UserChannel("abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = userFromChannel("chat:conv:1")
	assert.False(t, ok)
	_, ok = userFromChannel("notifications:user:")
	assert.False(t, ok)
}

func TestHub_ReceivesPublishedNotifications(t *testing.T) {
	rdb := setupRedis(t)
	n := NewNotifier(rdb)
	hub := NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, hub.StartWiring(ctx, n))

	client, err := hub.Register("u1", nil)
	require.NoError(t, err)
	other, err := hub.Register("u2", nil)
	require.NoError(t, err)

	view := View(models.Notification{ID: "n1", Type: models.NotificationLike})
	n.Publish(context.Background(), "u1", NewEvent(view))

	select {
	case raw := <-client.Send:
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		assert.Equal(t, "notification", ev.Type)
		assert.Equal(t, "n1", ev.Payload.ID)
		assert.Equal(t, "کاربری مقاله شما را لایک کرد", ev.Payload.Message)
	case <-time.After(time.Second):
		t.Fatal("notification was not delivered")
	}

	assert.Never(t, func() bool { return len(other.Send) > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}
