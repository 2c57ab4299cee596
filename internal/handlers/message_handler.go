package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/mshirk2/warbler/internal/middleware"
	"github.com/mshirk2/warbler/internal/services"
)

// MessageHandler handles the home timeline and all message actions.
type MessageHandler struct {
	messageService *services.MessageService
	store          *session.Store
	validate       *validator.Validate
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService *services.MessageService, store *session.Store) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		store:          store,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the home page and message routes with the Fiber app.
func (h *MessageHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleHome)

	authed := router.Group("", middleware.RequireUser(h.store))
	authed.Post("/messages/new", h.HandleCreateMessage)
	authed.Get("/messages/:id", h.HandleShowMessage)
	authed.Post("/messages/:id/delete", h.HandleDeleteMessage)
	authed.Post("/messages/:id/like", h.HandleToggleLike)
}

// HandleHome renders the timeline for a session user, or the anonymous home
// page. Pending flash messages surface here after redirects.
func (h *MessageHandler) HandleHome(c *fiber.Ctx) error {
	currentUser := middleware.CurrentUser(c)
	if currentUser == nil {
		return renderPage(c, h.store, "Sign up now to get your own personalized timeline!")
	}

	messages, err := h.messageService.Timeline(currentUser.ID)
	if err != nil {
		log.Printf("Error loading timeline for %s: %v", currentUser, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not load timeline")
	}

	lines := []string{"@" + currentUser.Username}
	for _, m := range messages {
		lines = append(lines, fmt.Sprintf("@%s: %s", m.User.Username, m.Text))
	}
	return renderPage(c, h.store, lines...)
}

// MessageRequest represents the new-message form.
type MessageRequest struct {
	Text string `form:"text" json:"text" validate:"required,max=140"`
}

// HandleCreateMessage persists a new message owned by the current user and
// redirects to their profile.
func (h *MessageHandler) HandleCreateMessage(c *fiber.Ctx) error {
	currentUser := middleware.CurrentUser(c)

	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing message form: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid message form")
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(formErrors(err))
	}

	if _, err := h.messageService.Create(currentUser.ID, req.Text); err != nil {
		if errors.Is(err, services.ErrMessageText) {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		log.Printf("Error creating message for %s: %v", currentUser, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not create message")
	}
	return c.Redirect(fmt.Sprintf("/users/%d", currentUser.ID), fiber.StatusFound)
}

// HandleShowMessage renders one message, or the 404 page when the id does
// not exist.
func (h *MessageHandler) HandleShowMessage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return renderNotFound(c)
	}

	message, err := h.messageService.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrMessageNotFound) {
			return renderNotFound(c)
		}
		log.Printf("Error loading message %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not load message")
	}
	return renderPage(c, h.store, "@"+message.User.Username, message.Text)
}

// HandleDeleteMessage deletes a message for its owner. Anyone else gets the
// unauthorized flash and the message stays.
func (h *MessageHandler) HandleDeleteMessage(c *fiber.Ctx) error {
	currentUser := middleware.CurrentUser(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return renderNotFound(c)
	}

	if err := h.messageService.Delete(uint(id), currentUser.ID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotOwner):
			middleware.Flash(h.store, c, middleware.AccessUnauthorized)
			return c.Redirect("/", fiber.StatusFound)
		case errors.Is(err, services.ErrMessageNotFound):
			return renderNotFound(c)
		default:
			log.Printf("Error deleting message %d: %v", id, err)
			return c.Status(fiber.StatusInternalServerError).SendString("Could not delete message")
		}
	}
	return c.Redirect(fmt.Sprintf("/users/%d", currentUser.ID), fiber.StatusFound)
}

// HandleToggleLike flips the current user's like on a message. One endpoint
// covers like and unlike.
func (h *MessageHandler) HandleToggleLike(c *fiber.Ctx) error {
	currentUser := middleware.CurrentUser(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return renderNotFound(c)
	}

	if _, err := h.messageService.ToggleLike(currentUser.ID, uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrOwnMessageLike):
			middleware.Flash(h.store, c, middleware.AccessUnauthorized)
			return c.Redirect("/", fiber.StatusFound)
		case errors.Is(err, services.ErrMessageNotFound):
			return renderNotFound(c)
		default:
			log.Printf("Error toggling like on message %d: %v", id, err)
			return c.Status(fiber.StatusInternalServerError).SendString("Could not toggle like")
		}
	}
	return c.Redirect("/", fiber.StatusFound)
}
