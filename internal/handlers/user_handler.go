package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "peppermint/internal/errors"
	"peppermint/internal/middleware"
	"peppermint/internal/models"
	"peppermint/internal/services"
)

// UserHandler handles registration, login and profile requests.
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
	tokens       *middleware.TokenManager
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer, tokens *middleware.TokenManager) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService, tokens: tokens}
}

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Username        string `json:"username" binding:"required,not_blank,max=150"`
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,min=8,max=128"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
	FirstName       string `json:"first_name" binding:"max=100"`
	LastName        string `json:"last_name" binding:"max=100"`
}

// LoginRequest represents the login form payload.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// UpdateUserRequest represents the profile update payload.
type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email,max=255"`
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Password  *string `json:"password" binding:"omitempty,min=8,max=128"`
}

// UserResponse represents the user data in responses. The password hash is
// never included.
type UserResponse struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Created          time.Time  `json:"created"`
	Modified         time.Time  `json:"modified"`
	LoginAttempts    int        `json:"login_attempts"`
	LastLoginAttempt *time.Time `json:"last_login_attempt,omitempty"`
}

// TokenResponse represents a successful login response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Created:          user.CreatedAt,
		Modified:         user.UpdatedAt,
		LoginAttempts:    user.LoginAttempts,
		LastLoginAttempt: user.LastLoginAttempt,
	}
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user with username, email and password
// @Tags        user
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     200 {object} UserResponse "User registered"
// @Failure     409 {object} ErrorResponse "Username or email already in use"
// @Failure     422 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /user/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	user, err := h.userService.CreateUser(req.Username, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "REGISTER_USER", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, toUserResponse(user))
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate with a username/password form and get a bearer token
// @Tags        user
// @Accept      x-www-form-urlencoded
// @Produce     json
// @Param       username formData string true "Username"
// @Param       password formData string true "Password"
// @Success     200 {object} TokenResponse "Access token issued"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /user/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		// Malformed login forms read as bad credentials, never as a hint
		// about which field was wrong.
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	user, err := h.userService.AttemptLogin(req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(user.ID, "LOGIN", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Username:    user.Username,
	})
}

// GetProfile returns the caller's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile information
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /user/ [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// GetAllUsers returns every registered user
// @Summary     List users
// @Description List all registered users
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} UserResponse "Users"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /user/all [get]
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	if _, err := currentUser(c); err != nil {
		respondWithError(c, err)
		return
	}

	users, err := h.userService.GetAllUsers()
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateUser updates the caller's profile
// @Summary     Update user profile
// @Description Update the authenticated user's profile fields
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateUserRequest true "Fields to update"
// @Success     200 {object} UserResponse "Updated profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Invalid input"
// @Router      /user/ [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	updated, err := h.userService.UpdateUser(user.ID, services.UserUpdateFields{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "UPDATE_USER", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, toUserResponse(updated))
}

// DeleteUser removes a user
// @Summary     Delete a user
// @Description Delete a user and all their accounts and transactions
// @Tags        user
// @Security    BearerAuth
// @Param       user_id path string true "User ID"
// @Success     204 "Deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /user/{user_id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	caller, err := currentUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	userID := c.Param("user_id")
	if err := h.userService.DeleteUser(userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(caller.ID, "DELETE_USER", "user", userID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
