package api

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by the login endpoint for both outcomes.
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
}

// RegisterRequest defines the payload for the register endpoint.
type RegisterRequest struct {
	Username        string `json:"username"        validate:"required"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// RegisterResponse carries the register outcome, success or failure, in msg.
type RegisterResponse struct {
	Msg string `json:"msg"`
}
