package handlers

import (
	"errors"
	"net/http"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/service"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/validation"
)

// AuthHandler handles account registration and login.
type AuthHandler struct {
	userService *service.UserService
}

// NewAuthHandler creates a new AuthHandler with the provided service dependency.
func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string     `json:"message"`
	User    model.User `json:"user"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    model.UserProfile `json:"user"`
}

// Register handles POST requests to create an account.
//
// Endpoint: POST /api/register
// Request Body: RegisterRequest (fullName, email, password)
// Response: 201 Created with RegisterResponse
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if the email is already registered
// Error: 500 Internal Server Error if creation fails
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RegisterRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateRegister(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	user, err := h.userService.Register(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEntry) {
			response.RespondError(w, http.StatusConflict, "email is already registered", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to register user", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, RegisterResponse{
		Message: "User registered successfully",
		User:    user,
	})
}

// Login handles POST requests to exchange credentials for a bearer token.
//
// Endpoint: POST /api/login
// Request Body: LoginRequest (email, password)
// Response: 200 OK with LoginResponse
// Error: 400 Bad Request if the body is invalid
// Error: 401 Unauthorized if the credentials do not match
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LoginRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateLogin(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			response.RespondError(w, http.StatusUnauthorized, "Invalid email or password", "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to log in", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User,
	})
}
