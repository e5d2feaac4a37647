package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectUnpublished ProjectStatus = "unpublished"
	ProjectPublished   ProjectStatus = "published"
	ProjectWorking     ProjectStatus = "working"
	ProjectFinished    ProjectStatus = "finished"
)

type WorkerType string

const (
	WorkerAll        WorkerType = "all"
	WorkerFreelancer WorkerType = "freelancer"
	WorkerTeam       WorkerType = "team"
	WorkerCompany    WorkerType = "company"
)

type Project struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClientID uint `gorm:"index;not null" json:"client_id"`

	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	ProjectCategoryID    uint       `gorm:"index" json:"project_category_id"`
	FreelancerCategoryID uint       `gorm:"index" json:"freelancer_category_id"`
	WorkerType           WorkerType `gorm:"type:varchar(20);default:'all'" json:"worker_type"`

	Price              int64          `json:"price"`
	PriceNegotiable    bool           `gorm:"default:false" json:"price_negotiable"`
	Deadline           datatypes.Date `json:"deadline"`
	DeadlineNegotiable bool           `gorm:"default:false" json:"deadline_negotiable"`

	Status ProjectStatus `gorm:"type:varchar(20);default:'unpublished'" json:"status"`

	Files []ProjectFile `gorm:"foreignKey:ProjectID" json:"files,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Client *Client `gorm:"foreignKey:ClientID" json:"-"`
}

type ProjectFile struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProjectID uint   `gorm:"index;not null" json:"project_id"`
	FileName  string `gorm:"type:varchar(255)" json:"file_name"`
	Path      string `gorm:"type:text" json:"path"`
	Size      int64  `json:"size"`

	CreatedAt time.Time `json:"created_at"`
}

// TempFile stages an upload until project creation claims it. Unclaimed rows are
// swept by external housekeeping, not by this service.
type TempFile struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FileName string    `gorm:"type:varchar(255)" json:"file_name"`
	Path     string    `gorm:"type:text" json:"path"`
	Size     int64     `json:"size"`

	CreatedAt time.Time `json:"created_at"`
}
