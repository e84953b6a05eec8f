package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasktracker/internal/api/shared"
	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/phrazzld/tasktracker/internal/service"
	"github.com/phrazzld/tasktracker/internal/service/auth"
)

// AuthHandler serves /login and /register. Their bodies follow the login and
// register forms rather than the shared ErrorResponse shape.
type AuthHandler struct {
	userService service.UserService
	jwtService  auth.JWTService
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userService service.UserService,
	jwtService auth.JWTService,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		logger:      logger.With("component", "auth_handler"),
	}
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest,
			LoginResponse{Message: "Invalid request format"})
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest,
			LoginResponse{Message: SanitizeValidationError(err)})
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("failed login attempt")
			shared.RespondWithJSON(w, r, http.StatusUnauthorized,
				LoginResponse{Message: "Invalid credentials"})
			return
		}
		log.Error("login failed", "error", err)
		shared.RespondWithJSON(w, r, http.StatusInternalServerError,
			LoginResponse{Message: GetSafeErrorMessage(err)})
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to generate token", "error", err, "user_id", user.ID)
		shared.RespondWithJSON(w, r, http.StatusInternalServerError,
			LoginResponse{Message: "Failed to generate authentication token"})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
	})
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest, RegisterResponse{Msg: "Invalid request format"})
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest, RegisterResponse{Msg: SanitizeValidationError(err)})
		return
	}

	_, err := h.userService.Register(r.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		status := MapErrorToStatusCode(err)
		msg := GetSafeErrorMessage(err)
		if isUserValidationError(err) {
			status, msg = http.StatusBadRequest, err.Error()
		}
		if status >= http.StatusInternalServerError {
			log.Error("registration failed", "error", err)
		}
		shared.RespondWithJSON(w, r, status, RegisterResponse{Msg: msg})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{Msg: "User registered successfully"})
}

// isUserValidationError reports whether err is one of the domain user checks,
// whose messages are safe to show.
func isUserValidationError(err error) bool {
	for _, target := range []error{
		domain.ErrEmptyUsername,
		domain.ErrEmptyEmail,
		domain.ErrInvalidEmail,
		domain.ErrPasswordTooShort,
		domain.ErrPasswordTooLong,
		domain.ErrEmptyPassword,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
