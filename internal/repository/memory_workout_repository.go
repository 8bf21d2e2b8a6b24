package repository

import (
	"context"
	"sync"

	"github.com/fittrack/fittrack-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryWorkoutRepository holds a static workout catalog for fallback mode
// and tests.
type MemoryWorkoutRepository struct {
	mu       sync.RWMutex
	workouts []models.Workout
}

func NewMemoryWorkoutRepository(workouts []models.Workout) *MemoryWorkoutRepository {
	for i := range workouts {
		if workouts[i].ID.IsZero() {
			workouts[i].ID = primitive.NewObjectID()
		}
	}
	return &MemoryWorkoutRepository{workouts: workouts}
}

func (r *MemoryWorkoutRepository) GetWorkoutsByDifficulty(ctx context.Context, difficulties []string) ([]models.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	allowed := make(map[string]bool, len(difficulties))
	for _, d := range difficulties {
		allowed[d] = true
	}

	var matched []models.Workout
	for _, w := range r.workouts {
		if allowed[w.Difficulty] {
			matched = append(matched, w)
		}
	}
	return matched, nil
}

func (r *MemoryWorkoutRepository) GetAllWorkouts(ctx context.Context) ([]models.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Workout, len(r.workouts))
	copy(all, r.workouts)
	return all, nil
}
