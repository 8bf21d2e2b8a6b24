package repository

import (
	"context"
	"sync"
	"time"

	"github.com/fittrack/fittrack-api/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryUserRepository is the in-process fallback for user accounts, active
// when Mongo is unreachable. It keys records by email (one record per email)
// and is not durable across restarts. Concurrent registration of the same
// email is guarded by the mutex; beyond that there are no transactional
// guarantees, which is acceptable for a degraded-mode store.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byEmail: make(map[string]*models.User),
	}
}

// CreateUser inserts a user, failing with ErrEmailTaken on a duplicate email.
func (r *MemoryUserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return nil, ErrEmailTaken
	}

	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	stored := *user
	r.byEmail[user.Email] = &stored

	logrus.WithField("userID", user.ID.Hex()).Info("User stored in memory fallback")
	return user, nil
}

func (r *MemoryUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// GetUserByID scans all records. Linear, but this path only exists for
// development and outage scenarios.
func (r *MemoryUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// UpdateUser merges the provided fields into the stored record.
func (r *MemoryUserRepository) UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.byEmail {
		if user.ID != id {
			continue
		}
		applyUserUpdate(user, update)
		user.UpdatedAt = time.Now()
		copied := *user
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*models.User, 0, len(r.byEmail))
	for _, user := range r.byEmail {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

// applyUserUpdate mirrors the field names the Mongo backend accepts in its
// $set document, so both backends behave identically.
func applyUserUpdate(user *models.User, update map[string]interface{}) {
	for key, value := range update {
		switch key {
		case "name":
			if v, ok := value.(string); ok {
				user.Name = v
			}
		case "fitness_level":
			if v, ok := value.(string); ok {
				user.FitnessLevel = v
			}
		case "goals":
			switch v := value.(type) {
			case []string:
				user.Goals = v
			case []interface{}:
				// JSON-decoded updates arrive as []interface{}.
				goals := make([]string, 0, len(v))
				for _, g := range v {
					if s, ok := g.(string); ok {
						goals = append(goals, s)
					}
				}
				user.Goals = goals
			}
		case "height_cm":
			if v, ok := value.(float64); ok {
				user.HeightCm = v
			}
		case "weight_kg":
			if v, ok := value.(float64); ok {
				user.WeightKg = v
			}
		case "workouts_per_week":
			user.WorkoutsPerWeek = toInt(value, user.WorkoutsPerWeek)
		case "workout_minutes":
			user.WorkoutMinutes = toInt(value, user.WorkoutMinutes)
		case "hashed_password":
			if v, ok := value.(string); ok {
				user.HashedPassword = v
			}
		}
	}
}

func toInt(value interface{}, fallback int) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}
