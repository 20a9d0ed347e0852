package notifications

import "nashr/internal/models"

const (
	defaultActorName     = "کاربری"
	defaultActorUsername = "user"
	defaultMessage       = "اطلاع‌رسانی جدید"
)

// FormatMessage renders the text shown for a notification. Known types get a
// fixed sentence about the actor; anything else falls back to the stored
// message, then to a generic one.
func FormatMessage(t models.NotificationType, actorName, fallback string) string {
	if actorName == "" {
		actorName = defaultActorName
	}
	switch t {
	case models.NotificationLike:
		return actorName + " مقاله شما را لایک کرد"
	case models.NotificationComment:
		return actorName + " به مقاله شما کامنت داد"
	case models.NotificationFollow:
		return actorName + " شما را دنبال کرد"
	case models.NotificationBookmark:
		return actorName + " مقاله شما را نشان کرد"
	case models.NotificationMention:
		return actorName + " شما را در کامنت منشن کرد"
	}
	if fallback != "" {
		return fallback
	}
	return defaultMessage
}

// View flattens a notification with its preloaded actor and post.
func View(n models.Notification) models.NotificationView {
	v := models.NotificationView{
		ID:            n.ID,
		Type:          n.Type,
		Read:          n.Read,
		CreatedAt:     n.CreatedAt,
		ActorID:       n.ActorID,
		ActorName:     defaultActorName,
		ActorUsername: defaultActorUsername,
		PostID:        n.PostID,
	}
	actorName := ""
	if n.Actor != nil {
		actorName = n.Actor.Name
		if n.Actor.Name != "" {
			v.ActorName = n.Actor.Name
		}
		if n.Actor.Username != "" {
			v.ActorUsername = n.Actor.Username
		}
		v.ActorImage = n.Actor.Image
	}
	if n.Post != nil {
		v.PostTitle = n.Post.Title
		v.PostSlug = n.Post.ID
	}
	v.Message = FormatMessage(n.Type, actorName, n.Message)
	return v
}

// Event is the payload pushed to live subscribers.
type Event struct {
	Type    string                  `json:"type"`
	Payload models.NotificationView `json:"payload"`
}

// NewEvent wraps a rendered notification for delivery.
func NewEvent(v models.NotificationView) Event {
	return Event{Type: "notification", Payload: v}
}
