package repository

import (
	"context"
	"fmt"

	"github.com/fittrack/fittrack-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoWorkoutRepository reads the workout catalog. The notification
// subsystem only selects workouts, never mutates them.
type MongoWorkoutRepository struct {
	collection *mongo.Collection
}

func NewMongoWorkoutRepository(db *mongo.Database) *MongoWorkoutRepository {
	return &MongoWorkoutRepository{
		collection: db.Collection("workouts"),
	}
}

// GetWorkoutsByDifficulty returns workouts whose difficulty is in the set.
func (r *MongoWorkoutRepository) GetWorkoutsByDifficulty(ctx context.Context, difficulties []string) ([]models.Workout, error) {
	return r.find(ctx, bson.M{"difficulty": bson.M{"$in": difficulties}})
}

// GetAllWorkouts returns the entire catalog.
func (r *MongoWorkoutRepository) GetAllWorkouts(ctx context.Context) ([]models.Workout, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoWorkoutRepository) find(ctx context.Context, filter bson.M) ([]models.Workout, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workouts: %v", err)
	}
	defer cursor.Close(ctx)

	var workouts []models.Workout
	if err := cursor.All(ctx, &workouts); err != nil {
		return nil, fmt.Errorf("failed to decode workouts: %v", err)
	}
	return workouts, nil
}
