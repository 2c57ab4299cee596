package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/mshirk2/warbler/internal/models"
	"github.com/mshirk2/warbler/internal/repositories"
)

// CurrUserKey is the single session entry holding the authenticated user's
// id. It is set on login/signup and cleared on logout.
const CurrUserKey = "curr_user"

// flashKey holds at most one pending flash message, consumed by the next
// rendered page.
const flashKey = "flash"

// localsUser is the request-scoped slot for the resolved current user.
const localsUser = "currentUser"

// AccessUnauthorized is the flash shown whenever a request lacks the rights
// for its target action.
const AccessUnauthorized = "Access unauthorized."

// LoadCurrentUser resolves the request's identity from the session store and
// places the user in request locals. A session pointing at a deleted user
// resolves to anonymous rather than an error.
func LoadCurrentUser(store *session.Store, userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Next()
		}
		if id, ok := sess.Get(CurrUserKey).(uint); ok {
			if user, err := userRepo.GetByID(id); err == nil {
				c.Locals(localsUser, user)
			}
		}
		return c.Next()
	}
}

// CurrentUser returns the request's authenticated user, or nil for an
// anonymous request. LoadCurrentUser must run earlier in the chain.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUser).(*models.User)
	return user
}

// RequireUser gates a route on an authenticated current user. Anonymous
// requests get the unauthorized flash and a redirect to the home page, never
// a bare 401 body.
func RequireUser(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			Flash(store, c, AccessUnauthorized)
			return c.Redirect("/", fiber.StatusFound)
		}
		return c.Next()
	}
}

// Login records the user id in the session.
func Login(store *session.Store, c *fiber.Ctx, userID uint) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(CurrUserKey, userID)
	return sess.Save()
}

// Logout clears the session identity.
func Logout(store *session.Store, c *fiber.Ctx) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	sess.Delete(CurrUserKey)
	return sess.Save()
}

// Flash stores a message to be rendered by the next page the client loads.
func Flash(store *session.Store, c *fiber.Ctx, message string) {
	sess, err := store.Get(c)
	if err != nil {
		return
	}
	sess.Set(flashKey, message)
	if err := sess.Save(); err != nil {
		// A lost flash is cosmetic; the redirect still happens.
		return
	}
}

// TakeFlash returns the pending flash message, if any, and clears it.
func TakeFlash(store *session.Store, c *fiber.Ctx) string {
	sess, err := store.Get(c)
	if err != nil {
		return ""
	}
	message, ok := sess.Get(flashKey).(string)
	if !ok {
		return ""
	}
	sess.Delete(flashKey)
	sess.Save()
	return message
}
