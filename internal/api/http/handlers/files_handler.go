package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fashionfiesta/helpdesk/internal/storage"
	apperrors "github.com/fashionfiesta/helpdesk/pkg/util/errorutil"
)

// FilesHandler streams stored attachment bytes back to clients.
type FilesHandler struct {
	store storage.ObjectStore
}

// NewFilesHandler constructs handler.
func NewFilesHandler(store storage.ObjectStore) *FilesHandler {
	return &FilesHandler{store: store}
}

// Serve handles GET /files/:key.
func (h *FilesHandler) Serve(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return apperrors.NewValidationError("file key is required")
	}

	reader, err := h.store.Open(c.UserContext(), key)
	if err != nil {
		return apperrors.NewNotFound("file")
	}
	return c.SendStream(reader)
}
