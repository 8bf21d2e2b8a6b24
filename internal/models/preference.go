package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChannelPreference enables or disables a notification type per channel.
type ChannelPreference struct {
	InApp bool `bson:"in_app" json:"in_app"`
	Email bool `bson:"email" json:"email"`
	Push  bool `bson:"push" json:"push"`
}

// QuietHours is a time-of-day window during which push notifications are
// suppressed. Times are 24-hour "HH:MM" strings interpreted in Timezone.
type QuietHours struct {
	Enabled   bool   `bson:"enabled" json:"enabled"`
	StartTime string `bson:"start_time" json:"start_time"`
	EndTime   string `bson:"end_time" json:"end_time"`
	Timezone  string `bson:"timezone" json:"timezone"`
}

// NotificationPreference holds one user's delivery settings. There is exactly
// one document per user.
type NotificationPreference struct {
	ID          primitive.ObjectID           `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID           `bson:"user_id" json:"user_id"`
	Preferences map[string]ChannelPreference `bson:"preferences" json:"preferences"`
	QuietHours  QuietHours                   `bson:"quiet_hours" json:"quiet_hours"`
	EmailDigest bool                         `bson:"email_digest" json:"email_digest"`
	PushToken   string                       `bson:"push_token,omitempty" json:"push_token,omitempty"`
	CreatedAt   time.Time                    `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time                    `bson:"updated_at" json:"updated_at"`
}

// DefaultPreference returns the settings a user starts with: every known
// type enabled in-app, reminders also on push, quiet hours off.
func DefaultPreference(userID primitive.ObjectID) *NotificationPreference {
	prefs := make(map[string]ChannelPreference)
	for _, t := range []string{
		TypePost, TypeComment, TypeFollow, TypeChallenge, TypeEvent,
		TypeGroup, TypeMessage, TypeAchievement, TypeGoal,
		TypeWorkoutReminder, TypeSystem,
	} {
		prefs[t] = ChannelPreference{InApp: true}
	}
	prefs[TypeWorkoutReminder] = ChannelPreference{InApp: true, Push: true}
	prefs[TypeSystem] = ChannelPreference{InApp: true, Email: true}

	return &NotificationPreference{
		UserID:      userID,
		Preferences: prefs,
		QuietHours: QuietHours{
			Enabled:   false,
			StartTime: "22:00",
			EndTime:   "08:00",
			Timezone:  "UTC",
		},
	}
}
