package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/tworkuz/twork-backend/internal/models"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

func (h *CategoryHandler) ListProject(c *fiber.Ctx) error {
	var categories []models.ProjectCategory
	err := h.DB.
		Where("parent_id IS NULL").
		Preload("Children").
		Order("title ASC").
		Find(&categories).Error
	if err != nil {
		return fail500(c, "failed to load categories")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    categories,
	})
}

func (h *CategoryHandler) ListFreelancer(c *fiber.Ctx) error {
	var categories []models.FreelancerCategory
	err := h.DB.
		Where("parent_id IS NULL").
		Preload("Children").
		Order("title ASC").
		Find(&categories).Error
	if err != nil {
		return fail500(c, "failed to load categories")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    categories,
	})
}

type categoryCreateReq struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	ParentID *uint  `json:"parent_id"`
}

func (h *CategoryHandler) validateCreate(req *categoryCreateReq, parentModel interface{}) (FieldErrors, error) {
	errs := FieldErrors{}
	if req.Title == "" {
		errs.Add("title", "Title must be provided")
	}
	if req.Slug == "" {
		errs.Add("slug", "Slug must be provided")
	}
	if req.ParentID != nil {
		err := h.DB.First(parentModel, "id = ?", *req.ParentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Add("parent_id", "You should provide an existing category ID")
		} else if err != nil {
			return nil, err
		}
	}
	return errs, nil
}

func (h *CategoryHandler) CreateProject(c *fiber.Ctx) error {
	var req categoryCreateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	errs, err := h.validateCreate(&req, &models.ProjectCategory{})
	if err != nil {
		return fail500(c, "database error")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	category := models.ProjectCategory{Title: req.Title, Slug: req.Slug, ParentID: req.ParentID}
	if err := h.DB.Create(&category).Error; err != nil {
		errs := FieldErrors{}
		errs.Add("slug", "Slug already exists")
		return validationFail(c, errs)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    category,
	})
}

func (h *CategoryHandler) CreateFreelancer(c *fiber.Ctx) error {
	var req categoryCreateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	errs, err := h.validateCreate(&req, &models.FreelancerCategory{})
	if err != nil {
		return fail500(c, "database error")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	category := models.FreelancerCategory{Title: req.Title, Slug: req.Slug, ParentID: req.ParentID}
	if err := h.DB.Create(&category).Error; err != nil {
		errs := FieldErrors{}
		errs.Add("slug", "Slug already exists")
		return validationFail(c, errs)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    category,
	})
}
