package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/fittrack/fittrack-api/internal/models"
	"github.com/fittrack/fittrack-api/internal/repository"
	"github.com/fittrack/fittrack-api/internal/services"
	"github.com/sirupsen/logrus"
)

// DailySuggestionJob fans out the daily workout suggestion to every user
// whose preferences allow it. Creation is idempotent per user per day, so
// re-running the job is safe.
type DailySuggestionJob struct {
	Users       repository.UserRepository
	Preferences *services.PreferenceService
	Suggestions *services.SuggestionService
}

func NewDailySuggestionJob(users repository.UserRepository, prefs *services.PreferenceService, suggestions *services.SuggestionService) *DailySuggestionJob {
	return &DailySuggestionJob{
		Users:       users,
		Preferences: prefs,
		Suggestions: suggestions,
	}
}

// Run walks all users and creates today's suggestion for each one that has
// workout reminders enabled in-app. Per-user failures are logged and
// skipped; the scan continues.
func (j *DailySuggestionJob) Run(ctx context.Context) error {
	users, err := j.Users.GetAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch users: %v", err)
	}

	now := time.Now()
	var created int
	for _, user := range users {
		pref, err := j.Preferences.GetPreferences(ctx, user.ID)
		if err != nil {
			logrus.WithError(err).Warnf("Failed to load preferences for user %s", user.ID.Hex())
			continue
		}
		if !services.ShouldSend(pref, models.TypeWorkoutReminder, models.ChannelInApp, now) {
			continue
		}

		if _, err := j.Suggestions.CreateDailySuggestion(ctx, user.ID); err != nil {
			if err != repository.ErrNoWorkouts {
				logrus.WithError(err).Warnf("Failed to create suggestion for user %s", user.ID.Hex())
			}
			continue
		}
		created++
	}

	logrus.Infof("Daily suggestion scan completed: %d users, %d suggestions", len(users), created)
	return nil
}
