package repository

import (
	"context"
	"sync"
	"time"

	"github.com/fittrack/fittrack-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryPreferenceRepository is the in-process fallback for notification
// preferences, keyed by user id.
type MemoryPreferenceRepository struct {
	mu     sync.RWMutex
	byUser map[primitive.ObjectID]*models.NotificationPreference
}

func NewMemoryPreferenceRepository() *MemoryPreferenceRepository {
	return &MemoryPreferenceRepository{
		byUser: make(map[primitive.ObjectID]*models.NotificationPreference),
	}
}

func (r *MemoryPreferenceRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.NotificationPreference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pref, ok := r.byUser[userID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *pref
	return &copied, nil
}

func (r *MemoryPreferenceRepository) Upsert(ctx context.Context, pref *models.NotificationPreference) (*models.NotificationPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pref.UpdatedAt = time.Now()
	if existing, ok := r.byUser[pref.UserID]; ok {
		pref.ID = existing.ID
		pref.CreatedAt = existing.CreatedAt
	} else {
		pref.ID = primitive.NewObjectID()
		pref.CreatedAt = pref.UpdatedAt
	}

	stored := *pref
	r.byUser[pref.UserID] = &stored

	copied := stored
	return &copied, nil
}
