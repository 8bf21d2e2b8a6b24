package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/fittrack/fittrack-api/internal/models"
	"github.com/fittrack/fittrack-api/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// levelOrdinals orders fitness levels; a user may be offered any workout at
// or below their own level.
var levelOrdinals = map[string]int{
	models.LevelBeginner:     0,
	models.LevelIntermediate: 1,
	models.LevelAdvanced:     2,
}

var orderedLevels = []string{
	models.LevelBeginner,
	models.LevelIntermediate,
	models.LevelAdvanced,
}

// SuggestionService picks a daily workout matched to a user's fitness level
// and wraps it in a workout_reminder notification.
type SuggestionService struct {
	workouts repository.WorkoutRepository
	notifs   *NotificationService
	users    repository.UserRepository
	now      func() time.Time
}

func NewSuggestionService(workouts repository.WorkoutRepository, notifs *NotificationService, users repository.UserRepository) *SuggestionService {
	return &SuggestionService{
		workouts: workouts,
		notifs:   notifs,
		users:    users,
		now:      time.Now,
	}
}

// PickDailyWorkout selects one workout the user is allowed to do: uniformly
// at random among workouts at or below their fitness level, falling back to
// the whole catalog when nothing matches. An empty catalog reports
// repository.ErrNoWorkouts.
func (s *SuggestionService) PickDailyWorkout(ctx context.Context, userID primitive.ObjectID) (*models.Workout, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %v", err)
	}

	ordinal, ok := levelOrdinals[user.FitnessLevel]
	if !ok {
		ordinal = 0
	}
	allowed := orderedLevels[:ordinal+1]

	candidates, err := s.workouts.GetWorkoutsByDifficulty(ctx, allowed)
	if err != nil {
		return nil, fmt.Errorf("failed to load workouts: %v", err)
	}
	if len(candidates) == 0 {
		candidates, err = s.workouts.GetAllWorkouts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load workout catalog: %v", err)
		}
	}
	if len(candidates) == 0 {
		return nil, repository.ErrNoWorkouts
	}

	workout := candidates[rand.Intn(len(candidates))]
	return &workout, nil
}

// CreateDailySuggestion creates the user's workout suggestion for today, or
// returns the existing one: at most one daily-suggestion notification per
// user per calendar day (server-local time).
func (s *SuggestionService) CreateDailySuggestion(ctx context.Context, userID primitive.ObjectID) (*models.Notification, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfTomorrow := startOfDay.Add(24 * time.Hour)

	existing, err := s.notifs.repo.FindDailySuggestion(ctx, userID, startOfDay, startOfTomorrow)
	if err == nil {
		return existing, nil
	}
	if err != repository.ErrNotFound {
		return nil, fmt.Errorf("failed to check for existing suggestion: %v", err)
	}

	workout, err := s.PickDailyWorkout(ctx, userID)
	if err != nil {
		return nil, err
	}

	notif := &models.Notification{
		Recipient: userID,
		Type:      models.TypeWorkoutReminder,
		Title:     "Your workout for today",
		Message:   fmt.Sprintf("Today's suggestion: %s (%d min, %s)", workout.Name, workout.Minutes, workout.Difficulty),
		Related:   &models.RelatedEntity{Kind: "workout", ID: workout.ID},
		Metadata: map[string]interface{}{
			"workout_id": workout.ID.Hex(),
			"name":       workout.Name,
			"difficulty": workout.Difficulty,
			"minutes":    workout.Minutes,
		},
		Channel:         models.ChannelInApp,
		DailySuggestion: true,
		ActionURL:       "/workouts/" + workout.ID.Hex(),
		ActionText:      "Start workout",
	}

	created, err := s.notifs.CreateNotification(ctx, notif)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"userID":    userID.Hex(),
		"workoutID": workout.ID.Hex(),
	}).Info("Daily workout suggestion created")
	return created, nil
}
