package models

import "time"

type ProjectCategory struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"type:varchar(255);not null" json:"title"`
	Slug     string `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	ParentID *uint  `gorm:"index" json:"parent_id"`

	Children []ProjectCategory `gorm:"foreignKey:ParentID" json:"children,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FreelancerCategory struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"type:varchar(255);not null" json:"title"`
	Slug     string `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	ParentID *uint  `gorm:"index" json:"parent_id"`

	Children []FreelancerCategory `gorm:"foreignKey:ParentID" json:"children,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
