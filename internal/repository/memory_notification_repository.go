package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fittrack/fittrack-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryNotificationRepository is the in-process fallback for notifications.
// It mirrors the Mongo backend's external behavior so the lifecycle manager
// stays storage-agnostic; it also serves as the test double.
type MemoryNotificationRepository struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]*models.Notification
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{
		items: make(map[primitive.ObjectID]*models.Notification),
	}
}

func (r *MemoryNotificationRepository) Create(ctx context.Context, notif *models.Notification) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now()
	}
	notif.ID = primitive.NewObjectID()

	stored := *notif
	r.items[notif.ID] = &stored
	return notif, nil
}

func (r *MemoryNotificationRepository) List(ctx context.Context, recipient primitive.ObjectID, opts NotificationListOptions) ([]models.Notification, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	var matched []models.Notification
	for _, n := range r.items {
		if n.Recipient != recipient || n.Expired(now) {
			continue
		}
		if opts.UnreadOnly && n.IsRead {
			continue
		}
		matched = append(matched, *n)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (opts.Page - 1) * opts.Limit
	if start >= total {
		return []models.Notification{}, total, nil
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *MemoryNotificationRepository) CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	var count int64
	for _, n := range r.items {
		if n.Recipient == recipient && !n.IsRead && !n.Expired(now) {
			count++
		}
	}
	return count, nil
}

func (r *MemoryNotificationRepository) MarkDelivered(ctx context.Context, ids []primitive.ObjectID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if n, ok := r.items[id]; ok && !n.IsDelivered {
			n.IsDelivered = true
			deliveredAt := at
			n.DeliveredAt = &deliveredAt
		}
	}
	return nil
}

func (r *MemoryNotificationRepository) MarkRead(ctx context.Context, id, recipient primitive.ObjectID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || n.Recipient != recipient {
		return ErrNotFound
	}
	n.IsRead = true
	readAt := at
	n.ReadAt = &readAt
	return nil
}

func (r *MemoryNotificationRepository) MarkAllRead(ctx context.Context, recipient primitive.ObjectID, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var modified int64
	for _, n := range r.items {
		if n.Recipient == recipient && !n.IsRead {
			n.IsRead = true
			readAt := at
			n.ReadAt = &readAt
			modified++
		}
	}
	return modified, nil
}

func (r *MemoryNotificationRepository) Delete(ctx context.Context, id, recipient primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || n.Recipient != recipient {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryNotificationRepository) FindDailySuggestion(ctx context.Context, recipient primitive.ObjectID, from, to time.Time) (*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.Notification
	for _, n := range r.items {
		if n.Recipient != recipient || n.Type != models.TypeWorkoutReminder || !n.DailySuggestion {
			continue
		}
		if n.CreatedAt.Before(from) || !n.CreatedAt.Before(to) {
			continue
		}
		if latest == nil || n.CreatedAt.After(latest.CreatedAt) {
			latest = n
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (r *MemoryNotificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, n := range r.items {
		if n.Expired(now) {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}
