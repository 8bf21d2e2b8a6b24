package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fittrack/fittrack-api/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPreferenceRepository stores notification preferences, one document
// per user, keyed by user_id.
type MongoPreferenceRepository struct {
	collection *mongo.Collection
}

func NewMongoPreferenceRepository(db *mongo.Database) *MongoPreferenceRepository {
	return &MongoPreferenceRepository{
		collection: db.Collection("notification_preferences"),
	}
}

// GetByUser returns the user's preference document, or ErrNotFound.
func (r *MongoPreferenceRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.NotificationPreference, error) {
	var pref models.NotificationPreference
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&pref)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": userID.Hex(),
			"error":  err,
		}).Warn("Failed to find notification preferences")
		return nil, fmt.Errorf("failed to find preferences: %v", err)
	}
	return &pref, nil
}

// Upsert writes the user's preference document, creating it on first save.
func (r *MongoPreferenceRepository) Upsert(ctx context.Context, pref *models.NotificationPreference) (*models.NotificationPreference, error) {
	pref.UpdatedAt = time.Now()
	if pref.CreatedAt.IsZero() {
		pref.CreatedAt = pref.UpdatedAt
	}

	filter := bson.M{"user_id": pref.UserID}
	update := bson.M{"$set": bson.M{
		"user_id":      pref.UserID,
		"preferences":  pref.Preferences,
		"quiet_hours":  pref.QuietHours,
		"email_digest": pref.EmailDigest,
		"push_token":   pref.PushToken,
		"updated_at":   pref.UpdatedAt,
	}, "$setOnInsert": bson.M{
		"created_at": pref.CreatedAt,
	}}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		logrus.WithError(err).Error("Failed to upsert notification preferences")
		return nil, fmt.Errorf("failed to save preferences: %v", err)
	}
	return r.GetByUser(ctx, pref.UserID)
}
