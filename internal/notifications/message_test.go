package notifications

import (
	"testing"
	"time"

	"nashr/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name     string
		typ      models.NotificationType
		actor    string
		fallback string
		want     string
	}{
		{"like", models.NotificationLike, "سارا", "", "سارا مقاله شما را لایک کرد"},
		{"comment", models.NotificationComment, "سارا", "", "سارا به مقاله شما کامنت داد"},
		{"follow", models.NotificationFollow, "سارا", "", "سارا شما را دنبال کرد"},
		{"bookmark", models.NotificationBookmark, "سارا", "ignored", "سارا مقاله شما را نشان کرد"},
		{"mention", models.NotificationMention, "سارا", "", "سارا شما را در کامنت منشن کرد"},
		{"anonymous actor", models.NotificationLike, "", "", "کاربری مقاله شما را لایک کرد"},
		{"unknown uses stored", models.NotificationPublicationFollow, "سارا", "سارا انتشار شما را دنبال کرد", "سارا انتشار شما را دنبال کرد"},
		{"unknown without message", "system", "", "", "اطلاع‌رسانی جدید"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMessage(tt.typ, tt.actor, tt.fallback))
		})
	}
}

func TestView(t *testing.T) {
	actorID, postID := "a1", "p1"
	n := models.Notification{
		ID:        "n1",
		Type:      models.NotificationComment,
		ActorID:   &actorID,
		Actor:     &models.User{ID: actorID, Name: "کاوه", Username: "kaveh", Image: "/a.png"},
		PostID:    &postID,
		Post:      &models.Post{ID: postID, Title: "عنوان"},
		CreatedAt: time.Now(),
	}

	v := View(n)
	assert.Equal(t, "کاوه به مقاله شما کامنت داد", v.Message)
	assert.Equal(t, "kaveh", v.ActorUsername)
	assert.Equal(t, "/a.png", v.ActorImage)
	assert.Equal(t, "عنوان", v.PostTitle)
	assert.Equal(t, postID, v.PostSlug)
}

func TestView_MissingActor(t *testing.T) {
	v := View(models.Notification{ID: "n1", Type: models.NotificationFollow})
	assert.Equal(t, "کاربری", v.ActorName)
	assert.Equal(t, "user", v.ActorUsername)
	assert.Equal(t, "کاربری شما را دنبال کرد", v.Message)
	assert.Empty(t, v.PostSlug)
}
