package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"catalog/internal/models"
	"catalog/internal/services"
	"catalog/pkg/validator"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validator   *validator.Validator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, v *validator.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   v,
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterRequest represents the request body for registration. Server-owned
// fields such as id and timestamps are never taken from the client.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, StatusError, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return respondError(c, err)
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}

	if err := h.authService.RegisterUser(&user); err != nil {
		if errors.Is(err, services.ErrUsernameTaken) || errors.Is(err, services.ErrEmailTaken) {
			return respond(c, fiber.StatusConflict, StatusError, err.Error())
		}
		log.Printf("Error registering user: %v", err)
		return err
	}

	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": StatusOK,
		"msg":    "user registered",
		"user":   user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin checks credentials and issues a bearer token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, StatusError, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return respondError(c, err)
	}

	token, err := h.authService.LoginUser(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return respond(c, fiber.StatusUnauthorized, StatusError, err.Error())
		}
		log.Printf("Error during login for user %s: %v", req.Username, err)
		return err
	}

	return c.JSON(fiber.Map{
		"status": StatusOK,
		"msg":    "login successful",
		"token":  token,
	})
}
