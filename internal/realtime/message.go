package realtime

type SSEEvent string

const (
	SSEEventMessageReceived     SSEEvent = "MessageReceived"
	SSEEventNotificationCreated SSEEvent = "NotificationCreated"
	SSEEventAchievementUnlocked SSEEvent = "AchievementUnlocked"
	SSEEventConnectionRequest   SSEEvent = "ConnectionRequest"
	SSEEventConnectionAccepted  SSEEvent = "ConnectionAccepted"
)

// SSEMessage is addressed to a channel; the hub fans it out to every
// client subscribed there. User-directed events use the username as
// the channel.
type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}
