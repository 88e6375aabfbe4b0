package handler

import (
	"io"

	"go-shoplist/internal/model"
	"go-shoplist/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	store storage.BlobStore
}

func NewUploadHandler(store storage.BlobStore) *UploadHandler {
	return &UploadHandler{store: store}
}

// UploadResponse is the payload returned after a successful upload.
type UploadResponse struct {
	Path      string `json:"path"`
	PublicURL string `json:"public_url"`
}

// Upload stores a product image and returns its public URL
// POST /api/v1/storage/upload (multipart field "file")
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(model.Fail("Missing file field"))
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := storage.ValidateImage(contentType, int(fileHeader.Size)); err != nil {
		return c.Status(400).JSON(model.Fail(err.Error()))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(500).JSON(model.Fail("Failed to read upload"))
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, storage.MaxUploadSize+1))
	if err != nil {
		return c.Status(500).JSON(model.Fail("Failed to read upload"))
	}
	if len(data) > storage.MaxUploadSize {
		return c.Status(400).JSON(model.Fail(storage.ErrTooLarge.Error()))
	}

	path := storage.NewObjectPath(fileHeader.Filename)
	if err := h.store.Save(path, data); err != nil {
		return c.Status(500).JSON(model.Fail("Failed to store upload"))
	}

	return c.Status(201).JSON(model.OK("Upload stored", UploadResponse{
		Path:      path,
		PublicURL: h.store.PublicURL(path),
	}))
}
