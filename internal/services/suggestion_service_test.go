package services

import (
	"context"
	"testing"
	"time"

	"github.com/fittrack/fittrack-api/internal/models"
	"github.com/fittrack/fittrack-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newSuggestionFixture(t *testing.T, level string, workouts []models.Workout) (*SuggestionService, *repository.MemoryNotificationRepository, primitive.ObjectID) {
	t.Helper()

	userRepo := repository.NewMemoryUserRepository()
	user, err := userRepo.CreateUser(context.Background(), &models.User{
		Email:        "athlete@example.com",
		Name:         "Athlete",
		FitnessLevel: level,
	})
	require.NoError(t, err)

	notifRepo := repository.NewMemoryNotificationRepository()
	notifSvc := NewNotificationService(notifRepo, nil, nil, nil)
	svc := NewSuggestionService(repository.NewMemoryWorkoutRepository(workouts), notifSvc, userRepo)

	return svc, notifRepo, user.ID
}

func fullCatalog() []models.Workout {
	return []models.Workout{
		{Name: "Easy Walk", Difficulty: models.LevelBeginner, Minutes: 20},
		{Name: "Mobility Flow", Difficulty: models.LevelBeginner, Minutes: 15},
		{Name: "Tempo Run", Difficulty: models.LevelIntermediate, Minutes: 35},
		{Name: "Heavy Lifts", Difficulty: models.LevelAdvanced, Minutes: 50},
	}
}

func TestPickDailyWorkout_RespectsDifficultyCeiling(t *testing.T) {
	tests := []struct {
		level   string
		allowed map[string]bool
	}{
		{models.LevelBeginner, map[string]bool{models.LevelBeginner: true}},
		{models.LevelIntermediate, map[string]bool{models.LevelBeginner: true, models.LevelIntermediate: true}},
		{models.LevelAdvanced, map[string]bool{models.LevelBeginner: true, models.LevelIntermediate: true, models.LevelAdvanced: true}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			svc, _, userID := newSuggestionFixture(t, tt.level, fullCatalog())

			for i := 0; i < 50; i++ {
				workout, err := svc.PickDailyWorkout(context.Background(), userID)
				require.NoError(t, err)
				assert.True(t, tt.allowed[workout.Difficulty],
					"level %s got difficulty %s", tt.level, workout.Difficulty)
			}
		})
	}
}

func TestPickDailyWorkout_FallsBackToWholeCatalog(t *testing.T) {
	catalog := []models.Workout{
		{Name: "Heavy Lifts", Difficulty: models.LevelAdvanced, Minutes: 50},
	}
	svc, _, userID := newSuggestionFixture(t, models.LevelBeginner, catalog)

	workout, err := svc.PickDailyWorkout(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, "Heavy Lifts", workout.Name)
}

func TestPickDailyWorkout_EmptyCatalog(t *testing.T) {
	svc, _, userID := newSuggestionFixture(t, models.LevelBeginner, nil)

	_, err := svc.PickDailyWorkout(context.Background(), userID)

	assert.ErrorIs(t, err, repository.ErrNoWorkouts)
}

func TestCreateDailySuggestion_OncePerDay(t *testing.T) {
	svc, notifRepo, userID := newSuggestionFixture(t, models.LevelIntermediate, fullCatalog())

	fixed := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	svc.notifs.now = func() time.Time { return fixed }

	first, err := svc.CreateDailySuggestion(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, models.TypeWorkoutReminder, first.Type)
	assert.True(t, first.DailySuggestion)
	assert.Contains(t, []string{models.LevelBeginner, models.LevelIntermediate}, first.Metadata["difficulty"])

	// A later call the same day returns the existing notification.
	svc.now = func() time.Time { return fixed.Add(8 * time.Hour) }
	second, err := svc.CreateDailySuggestion(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, total, err := notifRepo.List(context.Background(), userID, repository.NotificationListOptions{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCreateDailySuggestion_NewDayNewSuggestion(t *testing.T) {
	svc, notifRepo, userID := newSuggestionFixture(t, models.LevelAdvanced, fullCatalog())

	day1 := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day1 }
	svc.notifs.now = func() time.Time { return day1 }

	first, err := svc.CreateDailySuggestion(context.Background(), userID)
	require.NoError(t, err)

	day2 := day1.Add(24 * time.Hour)
	svc.now = func() time.Time { return day2 }
	svc.notifs.now = func() time.Time { return day2 }

	second, err := svc.CreateDailySuggestion(context.Background(), userID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	_, total, err := notifRepo.List(context.Background(), userID, repository.NotificationListOptions{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestCreateDailySuggestion_CarriesWorkoutMetadata(t *testing.T) {
	svc, _, userID := newSuggestionFixture(t, models.LevelBeginner, fullCatalog())

	notif, err := svc.CreateDailySuggestion(context.Background(), userID)
	require.NoError(t, err)

	require.NotNil(t, notif.Related)
	assert.Equal(t, "workout", notif.Related.Kind)
	assert.Equal(t, notif.Related.ID.Hex(), notif.Metadata["workout_id"])
	assert.NotEmpty(t, notif.Metadata["name"])
	assert.NotEmpty(t, notif.ActionURL)
}
