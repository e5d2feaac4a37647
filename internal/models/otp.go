package models

import "time"

type Otp struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"type:varchar(8);not null" json:"-"`
	Phone     string    `gorm:"type:varchar(20);not null;index" json:"phone"`
	Activated bool      `gorm:"default:false" json:"activated"`
	ExpiresIn time.Time `json:"expires_in"`
}
