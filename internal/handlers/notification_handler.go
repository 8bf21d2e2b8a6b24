package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/fittrack/fittrack-api/internal/models"
	"github.com/fittrack/fittrack-api/internal/repository"
	"github.com/fittrack/fittrack-api/internal/services"
	"github.com/fittrack/fittrack-api/pkg/logger"
	"github.com/fittrack/fittrack-api/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationHandler struct {
	Service     *services.NotificationService
	Suggestions *services.SuggestionService
	Preferences *services.PreferenceService
}

func NewNotificationHandler(service *services.NotificationService, suggestions *services.SuggestionService, preferences *services.PreferenceService) *NotificationHandler {
	return &NotificationHandler{
		Service:     service,
		Suggestions: suggestions,
		Preferences: preferences,
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return primitive.NilObjectID, false
	}
	return userID, true
}

// GET /api/notifications?page&limit&unreadOnly
func (h *NotificationHandler) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	page, _ := strconv.ParseInt(query.Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(query.Get("limit"), 10, 64)
	unreadOnly := query.Get("unreadOnly") == "true"

	list, err := h.Service.ListNotifications(r.Context(), userID, page, limit, unreadOnly)
	if err != nil {
		logger.Log.Errorf("Failed to fetch notifications: %v", err)
		http.Error(w, "Failed to get notifications", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"notifications": list.Notifications,
		"unreadCount":   list.UnreadCount,
		"pagination": map[string]int64{
			"page":  list.Page,
			"limit": list.Limit,
			"total": list.Total,
		},
	})
}

// PUT /api/notifications/{id}/read
func (h *NotificationHandler) MarkAsReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	notifID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	err = h.Service.MarkAsRead(r.Context(), notifID, userID)
	if err == repository.ErrNotFound {
		http.Error(w, "Notification not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log.Errorf("Failed to mark notification as read: %v", err)
		http.Error(w, "Failed to mark as read", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Notification marked as read"})
}

// PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllAsReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if _, err := h.Service.MarkAllAsRead(r.Context(), userID); err != nil {
		logger.Log.Errorf("Failed to mark all notifications as read: %v", err)
		http.Error(w, "Failed to mark all as read", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "All notifications marked as read"})
}

// DELETE /api/notifications/{id}
func (h *NotificationHandler) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	notifID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	err = h.Service.DeleteNotification(r.Context(), notifID, userID)
	if err == repository.ErrNotFound {
		http.Error(w, "Notification not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log.Errorf("Failed to delete notification: %v", err)
		http.Error(w, "Failed to delete notification", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Notification deleted"})
}

// GET /api/notifications/daily-workout
func (h *NotificationHandler) DailyWorkoutHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	workout, err := h.Suggestions.PickDailyWorkout(r.Context(), userID)
	if err == repository.ErrNoWorkouts {
		http.Error(w, "No workout available", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log.Errorf("Failed to pick daily workout: %v", err)
		http.Error(w, "Failed to pick daily workout", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"workout": workout,
		"message": "Here is your workout for today",
		"date":    time.Now().Format("2006-01-02"),
	})
}

// POST /api/notifications/create-daily-suggestion
func (h *NotificationHandler) CreateDailySuggestionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	notif, err := h.Suggestions.CreateDailySuggestion(r.Context(), userID)
	if err == repository.ErrNoWorkouts {
		http.Error(w, "No workout available", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log.Errorf("Failed to create daily suggestion: %v", err)
		http.Error(w, "Failed to create daily suggestion", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":      "Daily workout suggestion",
		"notification": notif,
	})
}

// GET /api/notifications/preferences
func (h *NotificationHandler) GetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	pref, err := h.Preferences.GetPreferences(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to get preferences: %v", err)
		http.Error(w, "Failed to get preferences", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pref)
}

// PUT /api/notifications/preferences
func (h *NotificationHandler) UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var pref models.NotificationPreference
	if err := json.NewDecoder(r.Body).Decode(&pref); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	saved, err := h.Preferences.UpdatePreferences(r.Context(), userID, &pref)
	if err != nil {
		logger.Log.Errorf("Failed to update preferences: %v", err)
		http.Error(w, "Failed to update preferences", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(saved)
}
