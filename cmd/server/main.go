package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/fittrack/fittrack-api/internal/config"
	"github.com/fittrack/fittrack-api/internal/database"
	"github.com/fittrack/fittrack-api/internal/handlers"
	"github.com/fittrack/fittrack-api/internal/jobs"
	"github.com/fittrack/fittrack-api/internal/models"
	"github.com/fittrack/fittrack-api/internal/repository"
	cronjobs "github.com/fittrack/fittrack-api/internal/scheduler"
	"github.com/fittrack/fittrack-api/internal/services"
	"github.com/fittrack/fittrack-api/pkg/email"
	"github.com/fittrack/fittrack-api/pkg/logger"
	"github.com/fittrack/fittrack-api/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger(cfg.Env)
	logger.Log.Info("Logger initialized")

	// --- Repositories ---
	// Connect to MongoDB with bounded retries; on failure the server still
	// starts, backed by the in-memory fallback store.
	var (
		userRepo    repository.UserRepository
		notifRepo   repository.NotificationRepository
		workoutRepo repository.WorkoutRepository
		prefRepo    repository.PreferenceRepository
		storage     = "mongodb"
	)

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Log.WithError(err).Warn("MongoDB unreachable, falling back to in-memory storage")
		storage = "memory"
		userRepo = repository.NewMemoryUserRepository()
		notifRepo = repository.NewMemoryNotificationRepository()
		workoutRepo = repository.NewMemoryWorkoutRepository(seedWorkouts())
		prefRepo = repository.NewMemoryPreferenceRepository()
	} else {
		userRepo = repository.NewMongoUserRepository(db)
		notifRepo = repository.NewMongoNotificationRepository(db)
		workoutRepo = repository.NewMongoWorkoutRepository(db)
		prefRepo = repository.NewMongoPreferenceRepository(db)
	}

	// --- Services ---
	mailer := email.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPSender, cfg.SMTPPassword)
	userService := services.NewUserService(userRepo)
	prefService := services.NewPreferenceService(prefRepo)
	notifService := newNotificationService(notifRepo, prefService, userRepo, mailer)
	suggestionService := services.NewSuggestionService(workoutRepo, notifService, userRepo)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	notifHandler := handlers.NewNotificationHandler(notifService, suggestionService, prefService)
	healthHandler := handlers.NewHealthHandler(storage)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", healthHandler.HealthCheckHandler).Methods("GET")

	// Auth routes
	api.HandleFunc("/auth/register", userHandler.RegisterUserHandler).Methods("POST")
	api.HandleFunc("/auth/login", userHandler.LoginUserHandler).Methods("POST")

	protectedAuthRoutes := api.PathPrefix("/auth").Subrouter()
	protectedAuthRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedAuthRoutes.HandleFunc("/user", userHandler.GetMeHandler).Methods("GET")
	protectedAuthRoutes.HandleFunc("/user", userHandler.UpdateMeHandler).Methods("PATCH")

	// Notification routes
	notifRoutes := api.PathPrefix("/notifications").Subrouter()
	notifRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	notifRoutes.HandleFunc("", notifHandler.ListNotificationsHandler).Methods("GET")
	notifRoutes.HandleFunc("/read-all", notifHandler.MarkAllAsReadHandler).Methods("PUT")
	notifRoutes.HandleFunc("/daily-workout", notifHandler.DailyWorkoutHandler).Methods("GET")
	notifRoutes.HandleFunc("/create-daily-suggestion", notifHandler.CreateDailySuggestionHandler).Methods("POST")
	notifRoutes.HandleFunc("/preferences", notifHandler.GetPreferencesHandler).Methods("GET")
	notifRoutes.HandleFunc("/preferences", notifHandler.UpdatePreferencesHandler).Methods("PUT")
	notifRoutes.HandleFunc("/{id}/read", notifHandler.MarkAsReadHandler).Methods("PUT")
	notifRoutes.HandleFunc("/{id}", notifHandler.DeleteNotificationHandler).Methods("DELETE")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Background jobs: nightly expiry purge, morning suggestion fan-out
	suggestionJob := jobs.NewDailySuggestionJob(userRepo, prefService, suggestionService)
	cronjobs.StartNotificationCronJobs(notifService, suggestionJob)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "x-auth-token"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s (storage: %s)\n", port, storage)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}

func newNotificationService(repo repository.NotificationRepository, prefs *services.PreferenceService, users repository.UserRepository, mailer *email.SMTPMailer) *services.NotificationService {
	// A nil *SMTPMailer must stay a nil interface so email dispatch is
	// skipped when SMTP is not configured.
	if mailer == nil {
		return services.NewNotificationService(repo, prefs, users, nil)
	}
	return services.NewNotificationService(repo, prefs, users, mailer)
}

// seedWorkouts gives the fallback store a minimal catalog so the daily
// suggestion routes work without Mongo.
func seedWorkouts() []models.Workout {
	return []models.Workout{
		{Name: "Morning Stretch", Difficulty: models.LevelBeginner, Minutes: 15, Exercises: []models.Exercise{
			{Name: "Neck rolls", Sets: 2, Reps: 10},
			{Name: "Cat-cow", Sets: 2, Reps: 12},
		}},
		{Name: "Bodyweight Basics", Difficulty: models.LevelBeginner, Minutes: 25, Exercises: []models.Exercise{
			{Name: "Squats", Sets: 3, Reps: 12, RestSec: 60},
			{Name: "Push-ups", Sets: 3, Reps: 8, RestSec: 60},
		}},
		{Name: "Interval Run", Difficulty: models.LevelIntermediate, Minutes: 30},
		{Name: "Full Body Circuit", Difficulty: models.LevelIntermediate, Minutes: 40, Exercises: []models.Exercise{
			{Name: "Lunges", Sets: 4, Reps: 12, RestSec: 45},
			{Name: "Plank", Sets: 3, Reps: 1, RestSec: 45},
		}},
		{Name: "HIIT Pyramid", Difficulty: models.LevelAdvanced, Minutes: 45},
	}
}
