package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"

	"github.com/mshirk2/warbler/internal/middleware"
	"github.com/mshirk2/warbler/internal/services"
)

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	authService *services.AuthService
	store       *session.Store
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, store *session.Store) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		store:       store,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/signup", h.HandleSignup)
	router.Post("/login", h.HandleLogin)
	router.Post("/logout", h.HandleLogout)
}

// SignupRequest represents the signup form. The password is deliberately not
// validated here: rejecting an empty credential is the domain's job and must
// hold for every caller, not just this form.
type SignupRequest struct {
	Username string `form:"username" json:"username" validate:"required,min=1,max=100"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password"`
	ImageURL string `form:"image_url" json:"image_url" validate:"omitempty,max=255"`
}

// HandleSignup registers a new user and logs them in.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing signup form: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid signup form")
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(formErrors(err))
	}

	user, err := h.authService.Signup(services.SignupParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, services.ErrPasswordRequired) {
			return c.Status(fiber.StatusBadRequest).SendString("Password is required")
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).SendString("Username already taken")
		}
		log.Printf("Error signing up user: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not sign up user")
	}

	if err := middleware.Login(h.store, c, user.ID); err != nil {
		log.Printf("Error saving session for %s: %v", user, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not start session")
	}
	return c.Redirect("/", fiber.StatusFound)
}

// LoginRequest represents the login form.
type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// HandleLogin authenticates a user and starts their session.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login form: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid login form")
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(formErrors(err))
	}

	user, err := h.authService.Authenticate(req.Username, req.Password)
	if err != nil {
		// The only possible error here is the credential mismatch sentinel.
		return c.Status(fiber.StatusBadRequest).SendString("Invalid credentials.")
	}

	if err := middleware.Login(h.store, c, user.ID); err != nil {
		log.Printf("Error saving session for %s: %v", user, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not start session")
	}
	middleware.Flash(h.store, c, fmt.Sprintf("Hello, %s!", user.Username))
	return c.Redirect("/", fiber.StatusFound)
}

// HandleLogout clears the session identity.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := middleware.Logout(h.store, c); err != nil {
		log.Printf("Error clearing session: %v", err)
	}
	middleware.Flash(h.store, c, "You have successfully logged out.")
	return c.Redirect("/", fiber.StatusFound)
}

// formErrors flattens validator errors into one line per failed field.
func formErrors(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Validation failed"
	}
	out := "Validation failed:"
	for _, e := range validationErrors {
		out += fmt.Sprintf(" field '%s' failed on the '%s' tag;", e.Field(), e.Tag())
	}
	return out
}
