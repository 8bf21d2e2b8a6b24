package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	TypePost            = "post"
	TypeComment         = "comment"
	TypeFollow          = "follow"
	TypeChallenge       = "challenge"
	TypeEvent           = "event"
	TypeGroup           = "group"
	TypeMessage         = "message"
	TypeAchievement     = "achievement"
	TypeGoal            = "goal"
	TypeWorkoutReminder = "workout_reminder"
	TypeSystem          = "system"
)

// Delivery channels.
const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
	ChannelPush  = "push"
	ChannelSMS   = "sms"
)

// Priorities.
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// RelatedEntity is a tagged reference to the one entity a notification is
// about. Kind names the collection (post, challenge, event, group, message,
// achievement, goal, workout); exactly one entity is referenced per
// notification, or none.
type RelatedEntity struct {
	Kind string             `bson:"kind" json:"kind"`
	ID   primitive.ObjectID `bson:"id" json:"id"`
}

// Notification is a directed, typed event record for a single recipient.
type Notification struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Recipient   primitive.ObjectID     `bson:"recipient" json:"recipient"`
	Sender      *primitive.ObjectID    `bson:"sender,omitempty" json:"sender,omitempty"`
	Type        string                 `bson:"type" json:"type"`
	Title       string                 `bson:"title" json:"title"`
	Message     string                 `bson:"message" json:"message"`
	Related     *RelatedEntity         `bson:"related,omitempty" json:"related,omitempty"`
	Metadata    map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Channel     string                 `bson:"channel" json:"channel"`
	Priority    string                 `bson:"priority" json:"priority"`
	IsRead      bool                   `bson:"is_read" json:"is_read"`
	ReadAt      *time.Time             `bson:"read_at,omitempty" json:"read_at,omitempty"`
	IsDelivered bool                   `bson:"is_delivered" json:"is_delivered"`
	DeliveredAt *time.Time             `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	ActionURL   string                 `bson:"action_url,omitempty" json:"action_url,omitempty"`
	ActionText  string                 `bson:"action_text,omitempty" json:"action_text,omitempty"`
	// DailySuggestion marks the once-per-day workout suggestion so the
	// idempotence lookup does not collide with other workout reminders.
	DailySuggestion bool       `bson:"daily_suggestion,omitempty" json:"daily_suggestion,omitempty"`
	ExpiresAt       *time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	CreatedAt       time.Time  `bson:"created_at" json:"created_at"`
}

// Expired reports whether the notification's expiry has passed.
func (n *Notification) Expired(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}
