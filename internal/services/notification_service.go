package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fittrack/fittrack-api/internal/models"
	"github.com/fittrack/fittrack-api/internal/repository"
	"github.com/fittrack/fittrack-api/pkg/email"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NotificationList is one page of a user's notifications with unread and
// pagination bookkeeping.
type NotificationList struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
	Page          int64                 `json:"page"`
	Limit         int64                 `json:"limit"`
	Total         int64                 `json:"total"`
}

// NotificationService manages the notification lifecycle. It is
// storage-agnostic: the repository may be Mongo or the in-memory fallback.
type NotificationService struct {
	repo     repository.NotificationRepository
	prefs    *PreferenceService
	userRepo repository.UserRepository
	mailer   email.Mailer
	now      func() time.Time
}

func NewNotificationService(repo repository.NotificationRepository, prefs *PreferenceService, userRepo repository.UserRepository, mailer email.Mailer) *NotificationService {
	return &NotificationService{
		repo:     repo,
		prefs:    prefs,
		userRepo: userRepo,
		mailer:   mailer,
		now:      time.Now,
	}
}

// ListNotifications returns one page of the user's notifications, newest
// first, with the unread count. Every returned notification not yet marked
// delivered is flagged delivered as a best-effort side effect; a failure is
// logged, not surfaced, and never retried.
func (s *NotificationService) ListNotifications(ctx context.Context, userID primitive.ObjectID, page, limit int64, unreadOnly bool) (*NotificationList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	notifications, total, err := s.repo.List(ctx, userID, repository.NotificationListOptions{
		Page:       page,
		Limit:      limit,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %v", err)
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %v", err)
	}

	now := s.now()
	var undelivered []primitive.ObjectID
	for i := range notifications {
		if !notifications[i].IsDelivered {
			undelivered = append(undelivered, notifications[i].ID)
			notifications[i].IsDelivered = true
			deliveredAt := now
			notifications[i].DeliveredAt = &deliveredAt
		}
	}
	if len(undelivered) > 0 {
		if err := s.repo.MarkDelivered(ctx, undelivered, now); err != nil {
			logrus.WithError(err).Warn("Failed to mark notifications delivered")
		}
	}

	return &NotificationList{
		Notifications: notifications,
		UnreadCount:   unread,
		Page:          page,
		Limit:         limit,
		Total:         total,
	}, nil
}

// MarkAsRead marks a single notification read, scoped to the owning
// recipient. A notification that does not exist or belongs to someone else
// reports repository.ErrNotFound either way.
func (s *NotificationService) MarkAsRead(ctx context.Context, notifID, userID primitive.ObjectID) error {
	return s.repo.MarkRead(ctx, notifID, userID, s.now())
}

// MarkAllAsRead marks every unread notification of the user read. Idempotent.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID, s.now())
}

// DeleteNotification removes a notification, scoped to the owning recipient.
func (s *NotificationService) DeleteNotification(ctx context.Context, notifID, userID primitive.ObjectID) error {
	return s.repo.Delete(ctx, notifID, userID)
}

// CreateNotification persists a notification and, when its preferences allow
// the email channel, sends it by mail. Email delivery is best effort.
func (s *NotificationService) CreateNotification(ctx context.Context, notif *models.Notification) (*models.Notification, error) {
	if notif.Recipient.IsZero() {
		return nil, fmt.Errorf("notification recipient is required")
	}
	if notif.Channel == "" {
		notif.Channel = models.ChannelInApp
	}
	if notif.Priority == "" {
		notif.Priority = models.PriorityNormal
	}
	notif.CreatedAt = s.now()

	created, err := s.repo.Create(ctx, notif)
	if err != nil {
		return nil, err
	}

	s.dispatchEmail(ctx, created)
	return created, nil
}

func (s *NotificationService) dispatchEmail(ctx context.Context, notif *models.Notification) {
	if s.mailer == nil || s.prefs == nil || s.userRepo == nil {
		return
	}

	pref, err := s.prefs.GetPreferences(ctx, notif.Recipient)
	if err != nil || !ShouldSend(pref, notif.Type, models.ChannelEmail, s.now()) {
		return
	}

	user, err := s.userRepo.GetUserByID(ctx, notif.Recipient)
	if err != nil {
		return
	}

	if err := s.mailer.Send(user.Email, notif.Title, notif.Message); err != nil {
		logrus.WithError(err).Warnf("Failed to email notification to user %s", notif.Recipient.Hex())
	}
}

// PurgeExpired deletes notifications whose expiry has passed. Called by the
// daily cron sweep; reads also filter expired documents so nothing leaks
// between sweeps.
func (s *NotificationService) PurgeExpired(ctx context.Context) error {
	_, err := s.repo.DeleteExpired(ctx, s.now())
	return err
}
