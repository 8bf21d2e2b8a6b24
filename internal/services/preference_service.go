package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fittrack/fittrack-api/internal/models"
	"github.com/fittrack/fittrack-api/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PreferenceService manages per-user notification delivery preferences and
// answers "should this notification be sent right now".
type PreferenceService struct {
	repo repository.PreferenceRepository
}

func NewPreferenceService(repo repository.PreferenceRepository) *PreferenceService {
	return &PreferenceService{repo: repo}
}

// GetPreferences returns the user's saved preferences, or the defaults if
// none exist yet. Absence of a document is not an error for callers.
func (s *PreferenceService) GetPreferences(ctx context.Context, userID primitive.ObjectID) (*models.NotificationPreference, error) {
	pref, err := s.repo.GetByUser(ctx, userID)
	if err == repository.ErrNotFound {
		return models.DefaultPreference(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %v", err)
	}
	return pref, nil
}

// UpdatePreferences saves the user's preference document, creating it on
// first update.
func (s *PreferenceService) UpdatePreferences(ctx context.Context, userID primitive.ObjectID, pref *models.NotificationPreference) (*models.NotificationPreference, error) {
	pref.UserID = userID
	saved, err := s.repo.Upsert(ctx, pref)
	if err != nil {
		return nil, fmt.Errorf("failed to save preferences: %v", err)
	}

	logrus.WithField("userID", userID.Hex()).Info("Notification preferences updated")
	return saved, nil
}

// ShouldSend decides whether a notification of the given type may be
// delivered over the given channel at the given moment. A nil preference
// document or a missing per-type entry means "do not send". Quiet hours
// suppress the push channel unconditionally, regardless of the per-type
// setting.
func ShouldSend(pref *models.NotificationPreference, notifType, channel string, now time.Time) bool {
	if pref == nil {
		return false
	}

	if channel == models.ChannelPush && InQuietHours(pref.QuietHours, now) {
		return false
	}

	cp, ok := pref.Preferences[notifType]
	if !ok {
		return false
	}

	switch channel {
	case models.ChannelInApp:
		return cp.InApp
	case models.ChannelEmail:
		return cp.Email
	case models.ChannelPush:
		return cp.Push
	default:
		// No per-channel flag exists for sms and unknown channels.
		return false
	}
}

// InQuietHours reports whether now falls inside the user's quiet-hours
// window. The current wall-clock time is rendered in the window's timezone
// as 24-hour "HH:MM" and compared lexicographically. A window whose start
// is later than its end wraps midnight.
func InQuietHours(qh models.QuietHours, now time.Time) bool {
	if !qh.Enabled {
		return false
	}

	loc, err := time.LoadLocation(qh.Timezone)
	if err != nil {
		logrus.WithField("timezone", qh.Timezone).Warn("Unknown quiet-hours timezone, using UTC")
		loc = time.UTC
	}
	current := now.In(loc).Format("15:04")

	if qh.StartTime <= qh.EndTime {
		return current >= qh.StartTime && current < qh.EndTime
	}
	return current >= qh.StartTime || current <= qh.EndTime
}
