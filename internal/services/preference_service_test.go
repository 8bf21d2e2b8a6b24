package services

import (
	"context"
	"testing"
	"time"

	"github.com/fittrack/fittrack-api/internal/models"
	"github.com/fittrack/fittrack-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func clockAt(hour, min int) time.Time {
	return time.Date(2025, time.March, 10, hour, min, 0, 0, time.UTC)
}

func TestInQuietHours_Disabled(t *testing.T) {
	qh := models.QuietHours{
		Enabled:   false,
		StartTime: "22:00",
		EndTime:   "08:00",
		Timezone:  "UTC",
	}

	for hour := 0; hour < 24; hour++ {
		assert.False(t, InQuietHours(qh, clockAt(hour, 30)), "hour %d", hour)
	}
}

func TestInQuietHours_WrappingWindow(t *testing.T) {
	qh := models.QuietHours{
		Enabled:   true,
		StartTime: "22:00",
		EndTime:   "08:00",
		Timezone:  "UTC",
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before midnight", clockAt(23, 0), true},
		{"midnight", clockAt(0, 0), true},
		{"just before end", clockAt(7, 59), true},
		{"just after end", clockAt(8, 1), false},
		{"midday", clockAt(12, 0), false},
		{"just before start", clockAt(21, 59), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InQuietHours(qh, tt.now))
		})
	}
}

func TestInQuietHours_SameDayWindow(t *testing.T) {
	qh := models.QuietHours{
		Enabled:   true,
		StartTime: "08:00",
		EndTime:   "22:00",
		Timezone:  "UTC",
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"morning inside", clockAt(9, 0), true},
		{"evening inside", clockAt(21, 59), true},
		{"before start", clockAt(7, 59), false},
		{"after end", clockAt(22, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InQuietHours(qh, tt.now))
		})
	}
}

func TestInQuietHours_Timezone(t *testing.T) {
	qh := models.QuietHours{
		Enabled:   true,
		StartTime: "22:00",
		EndTime:   "08:00",
		Timezone:  "America/New_York",
	}

	// 03:00 UTC is 22:00 or 23:00 in New York depending on DST, inside the
	// window either way.
	assert.True(t, InQuietHours(qh, clockAt(3, 0)))
	// 18:00 UTC is early afternoon in New York, outside the window.
	assert.False(t, InQuietHours(qh, clockAt(18, 0)))
}

func TestShouldSend_FailClosed(t *testing.T) {
	noon := clockAt(12, 0)

	t.Run("nil preference document", func(t *testing.T) {
		assert.False(t, ShouldSend(nil, models.TypePost, models.ChannelInApp, noon))
	})

	t.Run("missing per-type entry", func(t *testing.T) {
		pref := &models.NotificationPreference{
			UserID:      primitive.NewObjectID(),
			Preferences: map[string]models.ChannelPreference{},
		}
		for _, ch := range []string{models.ChannelInApp, models.ChannelEmail, models.ChannelPush, models.ChannelSMS} {
			assert.False(t, ShouldSend(pref, models.TypePost, ch, noon), "channel %s", ch)
		}
	})
}

func TestShouldSend_PerChannel(t *testing.T) {
	noon := clockAt(12, 0)
	pref := &models.NotificationPreference{
		UserID: primitive.NewObjectID(),
		Preferences: map[string]models.ChannelPreference{
			models.TypeWorkoutReminder: {InApp: true, Email: false, Push: true},
		},
	}

	assert.True(t, ShouldSend(pref, models.TypeWorkoutReminder, models.ChannelInApp, noon))
	assert.False(t, ShouldSend(pref, models.TypeWorkoutReminder, models.ChannelEmail, noon))
	assert.True(t, ShouldSend(pref, models.TypeWorkoutReminder, models.ChannelPush, noon))
	// There is no per-channel flag for sms.
	assert.False(t, ShouldSend(pref, models.TypeWorkoutReminder, models.ChannelSMS, noon))
}

func TestShouldSend_QuietHoursSuppressPushOnly(t *testing.T) {
	pref := &models.NotificationPreference{
		UserID: primitive.NewObjectID(),
		Preferences: map[string]models.ChannelPreference{
			models.TypeMessage: {InApp: true, Email: true, Push: true},
		},
		QuietHours: models.QuietHours{
			Enabled:   true,
			StartTime: "22:00",
			EndTime:   "08:00",
			Timezone:  "UTC",
		},
	}

	inside := clockAt(23, 30)
	outside := clockAt(12, 0)

	// Push is suppressed inside quiet hours even though the type allows it.
	assert.False(t, ShouldSend(pref, models.TypeMessage, models.ChannelPush, inside))
	assert.True(t, ShouldSend(pref, models.TypeMessage, models.ChannelPush, outside))

	// Other channels are unaffected by quiet hours.
	assert.True(t, ShouldSend(pref, models.TypeMessage, models.ChannelInApp, inside))
	assert.True(t, ShouldSend(pref, models.TypeMessage, models.ChannelEmail, inside))
}

func TestGetPreferences_DefaultsWhenAbsent(t *testing.T) {
	svc := NewPreferenceService(repository.NewMemoryPreferenceRepository())

	userID := primitive.NewObjectID()
	pref, err := svc.GetPreferences(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, userID, pref.UserID)
	assert.True(t, pref.Preferences[models.TypeWorkoutReminder].InApp)
	assert.False(t, pref.QuietHours.Enabled)
}
