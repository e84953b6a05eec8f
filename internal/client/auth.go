package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/tasktracker/internal/config"
)

// Default auth paths.
const (
	DefaultLoginPath    = "/login"
	DefaultRegisterPath = "/register"
)

// LoginResult is the login outcome. Rejected credentials are a result with
// Success false, not an error.
type LoginResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
}

// RegisterRequest is the register form.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// RegisterResult carries the server's confirmation message.
type RegisterResult struct {
	Msg string `json:"msg"`
}

// AuthClient calls the login and register endpoints.
type AuthClient struct {
	baseURL      string
	loginPath    string
	registerPath string
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewAuthClient creates an AuthClient. Empty paths fall back to the defaults.
func NewAuthClient(cfg config.ClientConfig, logger *slog.Logger) *AuthClient {
	if logger == nil {
		logger = slog.Default()
	}
	c := &AuthClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		loginPath:    cfg.LoginPath,
		registerPath: cfg.RegisterPath,
		httpClient:   &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger:       logger.With("component", "auth_client"),
	}
	if c.loginPath == "" {
		c.loginPath = DefaultLoginPath
	}
	if c.registerPath == "" {
		c.registerPath = DefaultRegisterPath
	}
	if cfg.TimeoutSeconds <= 0 {
		c.httpClient.Timeout = 10 * time.Second
	}
	return c
}

// Login posts the credentials. A 401 comes back as an unsuccessful result;
// other failures are *NetworkError or *APIError.
func (c *AuthClient) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var result LoginResult
	err := doJSON(ctx, c.httpClient, c.logger, http.MethodPost, c.baseURL+c.loginPath, "", body, &result)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return LoginResult{Success: false, Message: apiErr.Message}, nil
		}
		return LoginResult{}, err
	}
	return result, nil
}

// Register creates an account. A duplicate account or a rejected form comes
// back as an *APIError whose Message is the server's msg.
func (c *AuthClient) Register(ctx context.Context, req RegisterRequest) (RegisterResult, error) {
	var result RegisterResult
	if err := doJSON(ctx, c.httpClient, c.logger, http.MethodPost, c.baseURL+c.registerPath, "", req, &result); err != nil {
		return RegisterResult{}, err
	}
	return result, nil
}
