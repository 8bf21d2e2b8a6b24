package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fittrack/fittrack-api/internal/config"
	"github.com/fittrack/fittrack-api/internal/models"
	"github.com/fittrack/fittrack-api/internal/repository"
	"github.com/fittrack/fittrack-api/internal/services"
	"github.com/fittrack/fittrack-api/pkg/logger"
	"github.com/fittrack/fittrack-api/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer wires the API against in-memory repositories, the same way
// cmd/server does in fallback mode.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger.InitLogger("development")

	cfg := &config.Config{
		Env:         "development",
		JWTSecret:   "test-secret",
		TokenExpiry: 7 * 24 * time.Hour,
	}

	userRepo := repository.NewMemoryUserRepository()
	notifRepo := repository.NewMemoryNotificationRepository()
	workoutRepo := repository.NewMemoryWorkoutRepository([]models.Workout{
		{Name: "Easy Walk", Difficulty: models.LevelBeginner, Minutes: 20},
		{Name: "Tempo Run", Difficulty: models.LevelIntermediate, Minutes: 35},
		{Name: "Heavy Lifts", Difficulty: models.LevelAdvanced, Minutes: 50},
	})
	prefRepo := repository.NewMemoryPreferenceRepository()

	userService := services.NewUserService(userRepo)
	prefService := services.NewPreferenceService(prefRepo)
	notifService := services.NewNotificationService(notifRepo, prefService, userRepo, nil)
	suggestionService := services.NewSuggestionService(workoutRepo, notifService, userRepo)

	userHandler := NewUserHandler(userService, cfg)
	notifHandler := NewNotificationHandler(notifService, suggestionService, prefService)

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", userHandler.RegisterUserHandler).Methods("POST")
	api.HandleFunc("/auth/login", userHandler.LoginUserHandler).Methods("POST")

	protectedAuth := api.PathPrefix("/auth").Subrouter()
	protectedAuth.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedAuth.HandleFunc("/user", userHandler.GetMeHandler).Methods("GET")

	notifRoutes := api.PathPrefix("/notifications").Subrouter()
	notifRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	notifRoutes.HandleFunc("", notifHandler.ListNotificationsHandler).Methods("GET")
	notifRoutes.HandleFunc("/read-all", notifHandler.MarkAllAsReadHandler).Methods("PUT")
	notifRoutes.HandleFunc("/daily-workout", notifHandler.DailyWorkoutHandler).Methods("GET")
	notifRoutes.HandleFunc("/create-daily-suggestion", notifHandler.CreateDailySuggestionHandler).Methods("POST")
	notifRoutes.HandleFunc("/preferences", notifHandler.GetPreferencesHandler).Methods("GET")
	notifRoutes.HandleFunc("/{id}/read", notifHandler.MarkAsReadHandler).Methods("PUT")
	notifRoutes.HandleFunc("/{id}", notifHandler.DeleteNotificationHandler).Methods("DELETE")

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func registerUser(t *testing.T, server *httptest.Server, email, level string) string {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/auth/register", "", map[string]interface{}{
		"email":         email,
		"password":      "s3cretpass",
		"name":          "Test User",
		"fitness_level": level,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterLoginAndFetchUser(t *testing.T) {
	server := newTestServer(t)

	registerUser(t, server, "jane@example.com", "beginner")

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", map[string]string{
		"email":    "jane@example.com",
		"password": "s3cretpass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["token"].(string)

	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/auth/user", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jane@example.com", body["email"])
	_, hasHash := body["hashed_password"]
	assert.False(t, hasHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	server := newTestServer(t)

	registerUser(t, server, "jane@example.com", "beginner")

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/auth/register", "", map[string]interface{}{
		"email":    "jane@example.com",
		"password": "s3cretpass",
		"name":     "Second Jane",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegister_ValidationErrors(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/auth/register", "", map[string]interface{}{
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "Email")
	assert.Contains(t, errs, "Password")
	assert.Contains(t, errs, "Name")
}

func TestNotificationRoutes_RequireAuth(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// The end-to-end daily suggestion flow: an intermediate user asks for a
// suggestion, gets a workout at or below their level, and a repeat call the
// same day returns the identical notification.
func TestDailySuggestionFlow(t *testing.T) {
	server := newTestServer(t)
	token := registerUser(t, server, "runner@example.com", "intermediate")

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/notifications/create-daily-suggestion", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	notif := body["notification"].(map[string]interface{})
	assert.Equal(t, "workout_reminder", notif["type"])
	meta := notif["metadata"].(map[string]interface{})
	assert.Contains(t, []interface{}{"beginner", "intermediate"}, meta["difficulty"])

	resp, body = doJSON(t, http.MethodPost, server.URL+"/api/notifications/create-daily-suggestion", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := body["notification"].(map[string]interface{})
	assert.Equal(t, notif["id"], second["id"])

	// The suggestion shows up in the list with an unread count.
	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["unreadCount"])
	notifications := body["notifications"].([]interface{})
	require.Len(t, notifications, 1)
	first := notifications[0].(map[string]interface{})
	assert.Equal(t, true, first["is_delivered"])
}

func TestMarkReadAndDeleteOwnership(t *testing.T) {
	server := newTestServer(t)
	ownerToken := registerUser(t, server, "owner@example.com", "beginner")
	strangerToken := registerUser(t, server, "stranger@example.com", "beginner")

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/notifications/create-daily-suggestion", ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	notifID := body["notification"].(map[string]interface{})["id"].(string)

	// A different user cannot read or delete it; the API reports not found.
	resp, _ = doJSON(t, http.MethodPut, server.URL+"/api/notifications/"+notifID+"/read", strangerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/notifications/"+notifID, strangerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, server.URL+"/api/notifications/"+notifID+"/read", ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/notifications/"+notifID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetDailyWorkout(t *testing.T) {
	server := newTestServer(t)
	token := registerUser(t, server, "walker@example.com", "beginner")

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/notifications/daily-workout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	workout := body["workout"].(map[string]interface{})
	assert.Equal(t, "beginner", workout["difficulty"])
	assert.NotEmpty(t, body["date"])
}

func TestGetPreferences_DefaultDocument(t *testing.T) {
	server := newTestServer(t)
	token := registerUser(t, server, "prefs@example.com", "beginner")

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/notifications/preferences", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	prefs := body["preferences"].(map[string]interface{})
	reminder := prefs["workout_reminder"].(map[string]interface{})
	assert.Equal(t, true, reminder["in_app"])
}
