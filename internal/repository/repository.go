package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fittrack/fittrack-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel errors shared by both storage backends so services can map them
// to HTTP statuses without inspecting driver errors.
var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
	ErrNoWorkouts = errors.New("no workouts available")
)

// UserRepository is the storage contract for user accounts. It has a Mongo
// implementation and an in-memory fallback used when Mongo is unreachable.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
}

// NotificationListOptions controls pagination and filtering for List.
type NotificationListOptions struct {
	Page       int64
	Limit      int64
	UnreadOnly bool
}

// NotificationRepository is the storage contract for notifications. All
// mutations are scoped to the owning recipient; a mismatch is reported as
// ErrNotFound so callers cannot distinguish "absent" from "not yours".
type NotificationRepository interface {
	Create(ctx context.Context, notif *models.Notification) (*models.Notification, error)
	// List returns one page of the recipient's unexpired notifications,
	// newest first, along with the total count matching the filter.
	List(ctx context.Context, recipient primitive.ObjectID, opts NotificationListOptions) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error)
	MarkDelivered(ctx context.Context, ids []primitive.ObjectID, at time.Time) error
	MarkRead(ctx context.Context, id, recipient primitive.ObjectID, at time.Time) error
	MarkAllRead(ctx context.Context, recipient primitive.ObjectID, at time.Time) (int64, error)
	Delete(ctx context.Context, id, recipient primitive.ObjectID) error
	// FindDailySuggestion returns the daily workout suggestion created for
	// the recipient inside [from, to), or ErrNotFound.
	FindDailySuggestion(ctx context.Context, recipient primitive.ObjectID, from, to time.Time) (*models.Notification, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// WorkoutRepository is read-only from the notification subsystem's side.
type WorkoutRepository interface {
	GetWorkoutsByDifficulty(ctx context.Context, difficulties []string) ([]models.Workout, error)
	GetAllWorkouts(ctx context.Context) ([]models.Workout, error)
}

// PreferenceRepository stores one NotificationPreference document per user.
type PreferenceRepository interface {
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.NotificationPreference, error)
	Upsert(ctx context.Context, pref *models.NotificationPreference) (*models.NotificationPreference, error)
}
