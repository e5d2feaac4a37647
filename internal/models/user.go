package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Phone string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"`

	Password string `gorm:"not null" json:"-"`
	IsStaff  bool   `gorm:"default:false" json:"is_staff"`
	IsAdmin  bool   `gorm:"default:false" json:"is_admin"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// HAS ONE client (clients.user_id -> users.id)
	Client *Client `gorm:"foreignKey:UserID;references:ID" json:"client,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
