package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/mshirk2/warbler/internal/middleware"
)

// renderPage writes a minimal page body: any pending flash message first,
// then one line per item. Templating is out of scope; the body carries just
// the observable content (usernames, stats, message text).
func renderPage(c *fiber.Ctx, store *session.Store, lines ...string) error {
	var b strings.Builder
	if flash := middleware.TakeFlash(store, c); flash != "" {
		b.WriteString(flash)
		b.WriteString("\n")
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(b.String())
}

// renderNotFound writes the 404 page.
func renderNotFound(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusNotFound).SendString("That page does not exist!")
}
