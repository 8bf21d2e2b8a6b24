package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a single movement inside a workout.
type Exercise struct {
	Name    string `bson:"name" json:"name"`
	Sets    int    `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps    int    `bson:"reps,omitempty" json:"reps,omitempty"`
	RestSec int    `bson:"rest_sec,omitempty" json:"rest_sec,omitempty"`
}

// Workout is a catalog entry. The notification subsystem only reads these.
type Workout struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Difficulty string             `bson:"difficulty" json:"difficulty"` // beginner | intermediate | advanced
	Minutes    int                `bson:"minutes" json:"minutes"`
	Exercises  []Exercise         `bson:"exercises,omitempty" json:"exercises,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
