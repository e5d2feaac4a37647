package handlers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tworkuz/twork-backend/internal/models"
)

type TempFileHandler struct {
	DB        *gorm.DB
	UploadDir string
	BaseURL   string
}

func NewTempFileHandler(db *gorm.DB, uploadDir, baseURL string) *TempFileHandler {
	return &TempFileHandler{DB: db, UploadDir: uploadDir, BaseURL: baseURL}
}

// Upload stages a file until a project claims it (multipart field: file).
func (h *TempFileHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "file is required (multipart field: file)",
		})
	}
	if file.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid file size",
		})
	}

	tmpDir := filepath.Join(h.UploadDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return fail500(c, "failed to create upload folder")
	}

	id := uuid.New()
	ext := filepath.Ext(file.Filename)
	savePath := filepath.Join(tmpDir, id.String()+ext)

	if err := c.SaveFile(file, savePath); err != nil {
		return fail500(c, "failed to save file")
	}

	record := models.TempFile{
		ID:       id,
		FileName: file.Filename,
		Path:     savePath,
		Size:     file.Size,
	}
	if err := h.DB.Create(&record).Error; err != nil {
		os.Remove(savePath)
		return fail500(c, "failed to store file record")
	}

	publicPath := "/uploads/tmp/" + id.String() + ext
	if h.BaseURL != "" {
		publicPath = strings.TrimRight(h.BaseURL, "/") + publicPath
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":        record.ID,
			"file_name": record.FileName,
			"size":      record.Size,
			"url":       publicPath,
		},
	})
}
