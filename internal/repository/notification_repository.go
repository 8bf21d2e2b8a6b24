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

// MongoNotificationRepository stores notifications in the "notifications"
// collection.
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{
		collection: db.Collection("notifications"),
	}
}

// unexpired matches documents whose expiry is unset or in the future.
// Expired notifications stay invisible between purge sweeps.
func unexpired(now time.Time) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"expires_at": bson.M{"$exists": false}},
		bson.M{"expires_at": nil},
		bson.M{"expires_at": bson.M{"$gt": now}},
	}}
}

// Create inserts a new notification.
func (r *MongoNotificationRepository) Create(ctx context.Context, notif *models.Notification) (*models.Notification, error) {
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, notif)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert notification")
		return nil, fmt.Errorf("failed to create notification: %v", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		notif.ID = id
	}
	return notif, nil
}

// List returns one page of the recipient's notifications, newest first,
// plus the total count matching the filter.
func (r *MongoNotificationRepository) List(ctx context.Context, recipient primitive.ObjectID, listOpts NotificationListOptions) ([]models.Notification, int64, error) {
	filter := bson.M{"recipient": recipient}
	for k, v := range unexpired(time.Now()) {
		filter[k] = v
	}
	if listOpts.UnreadOnly {
		filter["is_read"] = false
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((listOpts.Page - 1) * listOpts.Limit).
		SetLimit(listOpts.Limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %v", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, 0, fmt.Errorf("failed to decode notifications: %v", err)
	}
	return notifications, total, nil
}

// CountUnread returns the recipient's unread notification count.
func (r *MongoNotificationRepository) CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	filter := bson.M{"recipient": recipient, "is_read": false}
	for k, v := range unexpired(time.Now()) {
		filter[k] = v
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %v", err)
	}
	return count, nil
}

// MarkDelivered flags the given notifications as delivered. Best effort;
// the caller does not retry.
func (r *MongoNotificationRepository) MarkDelivered(ctx context.Context, ids []primitive.ObjectID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "is_delivered": false},
		bson.M{"$set": bson.M{"is_delivered": true, "delivered_at": at}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notifications delivered: %v", err)
	}
	return nil
}

// MarkRead sets is_read on a single notification owned by recipient.
func (r *MongoNotificationRepository) MarkRead(ctx context.Context, id, recipient primitive.ObjectID, at time.Time) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "recipient": recipient},
		bson.M{"$set": bson.M{"is_read": true, "read_at": at}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %v", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead sets is_read on every unread notification owned by recipient.
func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, recipient primitive.ObjectID, at time.Time) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"recipient": recipient, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": at}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %v", err)
	}
	return result.ModifiedCount, nil
}

// Delete removes a notification owned by recipient.
func (r *MongoNotificationRepository) Delete(ctx context.Context, id, recipient primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "recipient": recipient})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %v", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindDailySuggestion returns the daily suggestion created inside [from, to).
func (r *MongoNotificationRepository) FindDailySuggestion(ctx context.Context, recipient primitive.ObjectID, from, to time.Time) (*models.Notification, error) {
	filter := bson.M{
		"recipient":        recipient,
		"type":             models.TypeWorkoutReminder,
		"daily_suggestion": true,
		"created_at":       bson.M{"$gte": from, "$lt": to},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var notif models.Notification
	err := r.collection.FindOne(ctx, filter, opts).Decode(&notif)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find daily suggestion: %v", err)
	}
	return &notif, nil
}

// DeleteExpired removes notifications whose expiry has passed.
func (r *MongoNotificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$ne": nil, "$lte": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired notifications: %v", err)
	}
	logrus.Infof("Deleted %d expired notifications", result.DeletedCount)
	return result.DeletedCount, nil
}
