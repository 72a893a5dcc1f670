package handlers

import (
	"context"
	"errors"

	"github.com/bnetpineda/PawScan-sub001/internal/models"
	"github.com/bnetpineda/PawScan-sub001/internal/services"
	"github.com/gofiber/fiber/v2"
)

type vetDirectory interface {
	ListVets(ctx context.Context, ownerID int64, query string, excludeExisting bool) ([]models.VetDirectoryEntry, error)
}

type DirectoryHandler struct {
	directory vetDirectory
}

func NewDirectoryHandler(directory vetDirectory) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// ListVets serves the vet directory. The filter runs server-side over the
// full directory; clients are expected to debounce their search input.
// With for_new_chat=true, vets already in a conversation with the caller
// are excluded so the picker cannot start a duplicate conversation.
func (h *DirectoryHandler) ListVets(c *fiber.Ctx) error {
	role, ok := c.Locals("role").(string)
	if !ok || role != "owner" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	query := c.Query("q")
	forNewChat := c.QueryBool("for_new_chat")

	vets, err := h.directory.ListVets(c.Context(), userID, query, forNewChat)
	if err != nil {
		if errors.Is(err, services.ErrNotAuthenticated) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch vets"})
	}

	return c.JSON(fiber.Map{"vets": vets})
}
