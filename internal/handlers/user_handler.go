package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fittrack/fittrack-api/internal/config"
	"github.com/fittrack/fittrack-api/internal/models"
	"github.com/fittrack/fittrack-api/internal/repository"
	"github.com/fittrack/fittrack-api/internal/services"
	jwtutil "github.com/fittrack/fittrack-api/pkg/jwt"
	"github.com/fittrack/fittrack-api/pkg/middleware"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests related to user accounts.
type UserHandler struct {
	Service  *services.UserService
	Config   *config.Config
	validate *validator.Validate
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service:  service,
		Config:   cfg,
		validate: validator.New(),
	}
}

type registerRequest struct {
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required,min=8"`
	Name            string   `json:"name" validate:"required"`
	FitnessLevel    string   `json:"fitness_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Goals           []string `json:"goals"`
	HeightCm        float64  `json:"height_cm" validate:"omitempty,gt=0"`
	WeightKg        float64  `json:"weight_kg" validate:"omitempty,gt=0"`
	WorkoutsPerWeek int      `json:"workouts_per_week" validate:"omitempty,min=1,max=7"`
	WorkoutMinutes  int      `json:"workout_minutes" validate:"omitempty,gt=0"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// validationDetails flattens validator errors into field -> failed rule.
func validationDetails(err error) map[string]string {
	details := make(map[string]string)
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return details
}

func writeValidationError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Validation failed",
		"errors":  validationDetails(err),
	})
}

// RegisterUserHandler handles POST /api/auth/register.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode registration request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user := &models.User{
		Email:           req.Email,
		Name:            req.Name,
		FitnessLevel:    req.FitnessLevel,
		Goals:           req.Goals,
		HeightCm:        req.HeightCm,
		WeightKg:        req.WeightKg,
		WorkoutsPerWeek: req.WorkoutsPerWeek,
		WorkoutMinutes:  req.WorkoutMinutes,
	}

	createdUser, err := h.Service.RegisterUser(r.Context(), user, req.Password)
	if err == repository.ErrEmailTaken {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}
	if err != nil {
		log.WithError(err).Error("Failed to register user")
		http.Error(w, h.errorMessage(err, "Failed to register user"), http.StatusInternalServerError)
		return
	}

	token, err := jwtutil.GenerateToken(createdUser.ID.Hex(), h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	log.WithField("userID", createdUser.ID.Hex()).Info("User registered successfully")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user":  createdUser.Public(),
	})
}

// LoginUserHandler handles POST /api/auth/login.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.Service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		log.WithField("email", req.Email).Warn("Authentication failed")
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User logged in successfully")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user":  user.Public(),
	})
}

// GetMeHandler handles GET /api/auth/user.
func (h *UserHandler) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.Service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		log.WithField("userID", claims.UserID).WithError(err).Warn("User not found")
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user.Public())
}

// UpdateMeHandler handles PATCH /api/auth/user.
func (h *UserHandler) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var update map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.WithError(err).Warn("Failed to decode update request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	user, err := h.Service.UpdateUser(r.Context(), claims.UserID, update)
	if err != nil {
		log.WithField("userID", claims.UserID).WithError(err).Error("Failed to update user")
		http.Error(w, h.errorMessage(err, "Failed to update user"), http.StatusInternalServerError)
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User updated successfully")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user.Public())
}

// errorMessage hides internal details outside development.
func (h *UserHandler) errorMessage(err error, generic string) string {
	if h.Config.Env == "development" {
		return err.Error()
	}
	return generic
}
