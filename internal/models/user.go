package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fitness levels, ordered from least to most experienced.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// User represents a user account in FitTrack.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email           string             `bson:"email" json:"email"`
	HashedPassword  string             `bson:"hashed_password" json:"-"`
	Name            string             `bson:"name" json:"name"`
	FitnessLevel    string             `bson:"fitness_level" json:"fitness_level"`
	Goals           []string           `bson:"goals,omitempty" json:"goals,omitempty"`
	HeightCm        float64            `bson:"height_cm,omitempty" json:"height_cm,omitempty"`
	WeightKg        float64            `bson:"weight_kg,omitempty" json:"weight_kg,omitempty"`
	WorkoutsPerWeek int                `bson:"workouts_per_week,omitempty" json:"workouts_per_week,omitempty"`
	WorkoutMinutes  int                `bson:"workout_minutes,omitempty" json:"workout_minutes,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// PublicUser is the external projection of a User, without credentials.
type PublicUser struct {
	ID              primitive.ObjectID `json:"id"`
	Email           string             `json:"email"`
	Name            string             `json:"name"`
	FitnessLevel    string             `json:"fitness_level"`
	Goals           []string           `json:"goals,omitempty"`
	HeightCm        float64            `json:"height_cm,omitempty"`
	WeightKg        float64            `json:"weight_kg,omitempty"`
	WorkoutsPerWeek int                `json:"workouts_per_week,omitempty"`
	WorkoutMinutes  int                `json:"workout_minutes,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// Public strips the password hash before a user record leaves the service.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		FitnessLevel:    u.FitnessLevel,
		Goals:           u.Goals,
		HeightCm:        u.HeightCm,
		WeightKg:        u.WeightKg,
		WorkoutsPerWeek: u.WorkoutsPerWeek,
		WorkoutMinutes:  u.WorkoutMinutes,
		CreatedAt:       u.CreatedAt,
	}
}
