package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mshirk2/warbler/internal/middleware"
	"github.com/mshirk2/warbler/internal/services"
)

// APIHandler exposes a small JSON surface authenticated by bearer tokens
// instead of the browser session.
type APIHandler struct {
	authService    *services.AuthService
	messageService *services.MessageService
	validate       *validator.Validate
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(authService *services.AuthService, messageService *services.MessageService) *APIHandler {
	return &APIHandler{
		authService:    authService,
		messageService: messageService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the API routes under the given group. The token
// endpoint is public; everything else requires a valid bearer token.
func (h *APIHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/auth/token", h.HandleIssueToken)

	protected := router.Group("", middleware.TokenRequired(h.authService))
	protected.Get("/messages", h.HandleListMessages)
	protected.Post("/messages", h.HandleCreateMessage)
}

// HandleIssueToken exchanges credentials for a JWT.
func (h *APIHandler) HandleIssueToken(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   formErrors(err),
		})
	}

	user, err := h.authService.Authenticate(req.Username, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
		})
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		log.Printf("Error generating token for %s: %v", user, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not generate token",
		})
	}
	return c.JSON(fiber.Map{"token": token})
}

// HandleListMessages returns the latest messages as JSON.
func (h *APIHandler) HandleListMessages(c *fiber.Ctx) error {
	messages, err := h.messageService.Recent(c.QueryInt("limit", services.TimelineLimit))
	if err != nil {
		log.Printf("Error listing messages: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve messages",
		})
	}
	return c.JSON(messages)
}

// HandleCreateMessage creates a message owned by the token's subject.
func (h *APIHandler) HandleCreateMessage(c *fiber.Ctx) error {
	userID, ok := middleware.TokenUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid token subject",
		})
	}

	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   formErrors(err),
		})
	}

	message, err := h.messageService.Create(userID, req.Text)
	if err != nil {
		if errors.Is(err, services.ErrMessageText) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error creating message via API: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create message",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}
