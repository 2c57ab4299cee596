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

// UserHandler handles the user directory, profiles and relationship actions.
type UserHandler struct {
	userService    *services.UserService
	messageService *services.MessageService
	store          *session.Store
	validate       *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, messageService *services.MessageService, store *session.Store) *UserHandler {
	return &UserHandler{
		userService:    userService,
		messageService: messageService,
		store:          store,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app. The profile
// and directory pages are public; everything else requires a session user.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/users", h.HandleListUsers)
	router.Get("/users/:id", h.HandleShowUser)

	authed := router.Group("", middleware.RequireUser(h.store))
	authed.Get("/users/:id/following", h.HandleShowFollowing)
	authed.Get("/users/:id/followers", h.HandleShowFollowers)
	authed.Get("/users/:id/likes", h.HandleShowLikes)
	authed.Post("/users/follow/:id", h.HandleFollow)
	authed.Post("/users/stop-following/:id", h.HandleUnfollow)
	authed.Post("/users/profile", h.HandleEditProfile)
	authed.Post("/users/delete", h.HandleDeleteUser)
}

// HandleListUsers lists all users, or the ones matching the optional ?q=
// username filter. Accessible without a session.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.userService.Search(c.Query("q"))
	if err != nil {
		log.Printf("Error searching users: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not list users")
	}

	lines := make([]string, 0, len(users))
	for _, u := range users {
		lines = append(lines, "@"+u.Username)
	}
	return renderPage(c, h.store, lines...)
}

// HandleShowUser renders a profile with its four stat counts. Accessible
// without a session.
func (h *UserHandler) HandleShowUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return renderNotFound(c)
	}

	user, err := h.userService.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return renderNotFound(c)
		}
		log.Printf("Error loading user %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not load profile")
	}

	stats, err := h.userService.Stats(user.ID)
	if err != nil {
		log.Printf("Error loading stats for %s: %v", user, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not load profile")
	}

	messages, err := h.messageService.ByUser(user.ID)
	if err != nil {
		log.Printf("Error loading messages for %s: %v", user, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not load profile")
	}

	lines := []string{
		"@" + user.Username,
		fmt.Sprintf("messages: %d", stats.Messages),
		fmt.Sprintf("following: %d", stats.Following),
		fmt.Sprintf("followers: %d", stats.Followers),
		fmt.Sprintf("likes: %d", stats.Likes),
	}
	for _, m := range messages {
		lines = append(lines, m.Text)
	}
	return renderPage(c, h.store, lines...)
}

// HandleShowFollowing lists the users the profile owner follows. Any
// authenticated user may look.
func (h *UserHandler) HandleShowFollowing(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return renderNotFound(c)
	}

	users, err := h.userService.Following(uint(id))
	if err != nil {
		log.Printf("Error loading following of %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not load following")
	}
	lines := make([]string, 0, len(users))
	for _, u := range users {
		lines = append(lines, "@"+u.Username)
	}
	return renderPage(c, h.store, lines...)
}

// HandleShowFollowers lists the profile owner's followers.
func (h *UserHandler) HandleShowFollowers(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return renderNotFound(c)
	}

	users, err := h.userService.Followers(uint(id))
	if err != nil {
		log.Printf("Error loading followers of %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not load followers")
	}
	lines := make([]string, 0, len(users))
	for _, u := range users {
		lines = append(lines, "@"+u.Username)
	}
	return renderPage(c, h.store, lines...)
}

// HandleShowLikes lists the messages the profile owner has liked.
func (h *UserHandler) HandleShowLikes(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return renderNotFound(c)
	}

	messages, err := h.userService.LikedMessages(uint(id))
	if err != nil {
		log.Printf("Error loading likes of %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not load likes")
	}
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, m.Text)
	}
	return renderPage(c, h.store, lines...)
}

// HandleFollow makes the current user follow the target user.
func (h *UserHandler) HandleFollow(c *fiber.Ctx) error {
	currentUser := middleware.CurrentUser(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return renderNotFound(c)
	}

	if err := h.userService.Follow(currentUser.ID, uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrSelfFollow):
			middleware.Flash(h.store, c, "You cannot follow yourself.")
			return c.Redirect(fmt.Sprintf("/users/%d", currentUser.ID), fiber.StatusFound)
		case errors.Is(err, services.ErrUserNotFound):
			return renderNotFound(c)
		default:
			log.Printf("Error following user %d: %v", id, err)
			return c.Status(fiber.StatusInternalServerError).SendString("Could not follow user")
		}
	}
	return c.Redirect(fmt.Sprintf("/users/%d/following", currentUser.ID), fiber.StatusFound)
}

// HandleUnfollow makes the current user stop following the target user.
func (h *UserHandler) HandleUnfollow(c *fiber.Ctx) error {
	currentUser := middleware.CurrentUser(c)
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return renderNotFound(c)
	}

	if err := h.userService.Unfollow(currentUser.ID, uint(id)); err != nil {
		log.Printf("Error unfollowing user %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not unfollow user")
	}
	return c.Redirect(fmt.Sprintf("/users/%d/following", currentUser.ID), fiber.StatusFound)
}

// ProfileRequest represents the profile-edit form. The password field is the
// user's current password and gates the whole edit.
type ProfileRequest struct {
	Username       string `form:"username" json:"username" validate:"omitempty,min=1,max=100"`
	Email          string `form:"email" json:"email" validate:"omitempty,email"`
	ImageURL       string `form:"image_url" json:"image_url" validate:"omitempty,max=255"`
	HeaderImageURL string `form:"header_image_url" json:"header_image_url" validate:"omitempty,max=255"`
	Bio            string `form:"bio" json:"bio"`
	Location       string `form:"location" json:"location" validate:"omitempty,max=100"`
	Password       string `form:"password" json:"password" validate:"required"`
}

// HandleEditProfile edits the current user's profile after re-verifying
// their password.
func (h *UserHandler) HandleEditProfile(c *fiber.Ctx) error {
	currentUser := middleware.CurrentUser(c)

	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing profile form: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Invalid profile form")
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(formErrors(err))
	}

	user, err := h.userService.UpdateProfile(currentUser.ID, services.ProfileParams{
		Username:       req.Username,
		Email:          req.Email,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		Bio:            req.Bio,
		Location:       req.Location,
		Password:       req.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			middleware.Flash(h.store, c, middleware.AccessUnauthorized)
			return c.Redirect("/", fiber.StatusFound)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).SendString("Username already taken")
		}
		log.Printf("Error updating profile of %s: %v", currentUser, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not update profile")
	}
	return c.Redirect(fmt.Sprintf("/users/%d", user.ID), fiber.StatusFound)
}

// HandleDeleteUser deletes the current user's account and everything that
// hangs off it, then ends the session.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	currentUser := middleware.CurrentUser(c)

	if err := h.userService.Delete(currentUser.ID); err != nil {
		log.Printf("Error deleting %s: %v", currentUser, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Could not delete account")
	}
	if err := middleware.Logout(h.store, c); err != nil {
		log.Printf("Error clearing session: %v", err)
	}
	return c.Redirect("/", fiber.StatusFound)
}
