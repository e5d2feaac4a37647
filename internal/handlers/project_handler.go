package handlers

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tworkuz/twork-backend/internal/models"
)

type ProjectHandler struct {
	DB        *gorm.DB
	UploadDir string
}

func NewProjectHandler(db *gorm.DB, uploadDir string) *ProjectHandler {
	return &ProjectHandler{DB: db, UploadDir: uploadDir}
}

func (h *ProjectHandler) clientOf(c *fiber.Ctx) (*models.Client, error) {
	userID, err := getAuth(c)
	if err != nil {
		return nil, err
	}
	var client models.Client
	if err := h.DB.Where("user_id = ?", userID).First(&client).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "no client profile")
	}
	return &client, nil
}

type projectCreateReq struct {
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	ProjectCategoryID    uint     `json:"project_category_id"`
	FreelancerCategoryID uint     `json:"freelancer_category_id"`
	WorkerType           string   `json:"worker_type"`
	Price                int64    `json:"price"`
	PriceNegotiable      bool     `json:"price_negotiable"`
	Deadline             string   `json:"deadline"`
	DeadlineNegotiable   bool     `json:"deadline_negotiable"`
	Status               string   `json:"status"`
	FileIDs              []string `json:"file_ids"`
}

func validWorkerType(t string) bool {
	switch models.WorkerType(t) {
	case models.WorkerAll, models.WorkerFreelancer, models.WorkerTeam, models.WorkerCompany:
		return true
	}
	return false
}

// Create validates the posting and claims the listed temp files inside one
// transaction. Unresolvable file ids are dropped, not rejected: partial
// attachment is the contract, callers must not rely on all-or-nothing here.
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	client, err := h.clientOf(c)
	if err != nil {
		return err
	}

	var req projectCreateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	errs := FieldErrors{}
	if req.Title == "" {
		errs.Add("title", "Title must be provided")
	}

	status := models.ProjectStatus(req.Status)
	if status == "" {
		status = models.ProjectUnpublished
	}
	if status != models.ProjectUnpublished && status != models.ProjectPublished {
		errs.Add("status", "You can either choose an option between 'unpublished' or 'published'")
	}

	workerType := req.WorkerType
	if workerType == "" {
		workerType = string(models.WorkerAll)
	}
	if !validWorkerType(workerType) {
		errs.Add("worker_type", "Invalid worker type")
	}

	deadline, err := parseDate(req.Deadline)
	if err != nil {
		errs.Add("deadline", "Date must be in YYYY-MM-DD format")
	}

	var projectCategory models.ProjectCategory
	if err := h.DB.First(&projectCategory, "id = ?", req.ProjectCategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Add("project_category_id", "You should provide an existing project category ID")
		} else {
			return fail500(c, "database error")
		}
	}
	var freelancerCategory models.FreelancerCategory
	if err := h.DB.First(&freelancerCategory, "id = ?", req.FreelancerCategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Add("freelancer_category_id", "You should provide an existing freelancer category ID")
		} else {
			return fail500(c, "database error")
		}
	}

	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	project := models.Project{
		ClientID:             client.ID,
		Title:                req.Title,
		Description:          req.Description,
		ProjectCategoryID:    req.ProjectCategoryID,
		FreelancerCategoryID: req.FreelancerCategoryID,
		WorkerType:           models.WorkerType(workerType),
		Price:                req.Price,
		PriceNegotiable:      req.PriceNegotiable,
		Deadline:             deadline,
		DeadlineNegotiable:   req.DeadlineNegotiable,
		Status:               status,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		return h.claimTempFiles(tx, &project, req.FileIDs)
	})
	if err != nil {
		return fail500(c, "failed to create project")
	}

	if err := h.DB.Preload("Files").First(&project, "id = ?", project.ID).Error; err != nil {
		return fail500(c, "failed to load project")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    project,
	})
}

// claimTempFiles moves each resolvable temp file into a permanent project-file
// association. Ids that do not parse or do not resolve are skipped silently.
func (h *ProjectHandler) claimTempFiles(tx *gorm.DB, project *models.Project, fileIDs []string) error {
	if len(fileIDs) == 0 {
		return nil
	}

	destDir := filepath.Join(h.UploadDir, "projects")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	for _, raw := range fileIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}

		var tmp models.TempFile
		if err := tx.First(&tmp, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}

		destPath := filepath.Join(destDir, filepath.Base(tmp.Path))
		if err := os.Rename(tmp.Path, destPath); err != nil {
			// file vanished from disk; drop the stale row and move on
			tx.Delete(&tmp)
			continue
		}

		pf := models.ProjectFile{
			ProjectID: project.ID,
			FileName:  tmp.FileName,
			Path:      destPath,
			Size:      tmp.Size,
		}
		if err := tx.Create(&pf).Error; err != nil {
			return err
		}
		if err := tx.Delete(&tmp).Error; err != nil {
			return err
		}
	}
	return nil
}

func (h *ProjectHandler) ListMine(c *fiber.Ctx) error {
	client, err := h.clientOf(c)
	if err != nil {
		return err
	}

	var projects []models.Project
	if err := h.DB.
		Where("client_id = ?", client.ID).
		Preload("Files").
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return fail500(c, "failed to load projects")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    projects,
	})
}

func (h *ProjectHandler) GetOne(c *fiber.Ctx) error {
	client, err := h.clientOf(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid project id",
		})
	}

	var project models.Project
	if err := h.DB.
		Preload("Files").
		First(&project, "id = ? AND client_id = ?", id, client.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "project not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    project,
	})
}

type projectStatusReq struct {
	Status string `json:"status"`
}

func validProjectStatus(s models.ProjectStatus) bool {
	switch s {
	case models.ProjectUnpublished, models.ProjectPublished, models.ProjectWorking, models.ProjectFinished:
		return true
	}
	return false
}

func (h *ProjectHandler) UpdateStatus(c *fiber.Ctx) error {
	client, err := h.clientOf(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid project id",
		})
	}

	var req projectStatusReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	status := models.ProjectStatus(req.Status)
	if !validProjectStatus(status) {
		errs := FieldErrors{}
		errs.Add("status", "Invalid status value")
		return validationFail(c, errs)
	}

	var project models.Project
	if err := h.DB.First(&project, "id = ? AND client_id = ?", id, client.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "project not found",
		})
	}

	project.Status = status
	if err := h.DB.Save(&project).Error; err != nil {
		return fail500(c, "failed to update project")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":     project.ID,
			"status": project.Status,
		},
	})
}

func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	client, err := h.clientOf(c)
	if err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid project id",
		})
	}

	var project models.Project
	if err := h.DB.First(&project, "id = ? AND client_id = ?", id, client.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "project not found",
		})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectFile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		return fail500(c, "failed to delete project")
	}

	return c.JSON(fiber.Map{"success": true})
}
