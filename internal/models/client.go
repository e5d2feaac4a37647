package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ClientType string

const (
	ClientTypeIndividual  ClientType = "individual"
	ClientTypeLegalEntity ClientType = "legal_entity"
)

// Client points at its detail row through ClientType + TypeRelatedInfo. The pair
// is either both NULL (no profile detail yet) or both set; only the clients
// package is allowed to dereference it.
type Client struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Fullname string    `gorm:"type:varchar(125)" json:"fullname"`

	ClientType      *ClientType `gorm:"type:varchar(30)" json:"client_type"`
	TypeRelatedInfo *uint       `json:"type_related_info"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// Individual is one of the two detail variants. ClientID is a plain integer
// back-pointer, not a foreign key; 0 means unattached.
type Individual struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClientID uint `gorm:"column:client;default:0" json:"client"`

	Fullname              string         `gorm:"type:varchar(125)" json:"fullname"`
	Email                 string         `gorm:"type:varchar(255)" json:"email"`
	PassportSeries        string         `gorm:"type:varchar(10)" json:"passport_series"`
	PassportNumber        string         `gorm:"type:varchar(20)" json:"passport_number"`
	PassportGivenDate     datatypes.Date `json:"passport_given_date"`
	PassportIssuedAddress string         `gorm:"type:varchar(255)" json:"passport_issued_address"`
	Country               string         `gorm:"type:varchar(255)" json:"country"`
	Region                string         `gorm:"type:varchar(255)" json:"region"`
	City                  string         `gorm:"type:varchar(255)" json:"city"`
	Address               string         `gorm:"type:varchar(255)" json:"address"`
}

type LegalEntity struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClientID uint `gorm:"column:client;default:0" json:"client"`

	Fullname      string `gorm:"type:varchar(125)" json:"fullname"`
	Company       string `gorm:"type:varchar(255)" json:"company"`
	BankName      string `gorm:"type:varchar(255)" json:"bank_name"`
	BankAccount   string `gorm:"type:varchar(255)" json:"bank_account"`
	MFO           string `gorm:"type:varchar(255)" json:"mfo"`
	INN           string `gorm:"type:varchar(255)" json:"inn"`
	IFUT          string `gorm:"type:varchar(255)" json:"ifut"`
	Country       string `gorm:"type:varchar(255)" json:"country"`
	Region        string `gorm:"type:varchar(255)" json:"region"`
	City          string `gorm:"type:varchar(255)" json:"city"`
	PostCode      string `gorm:"type:varchar(20)" json:"post_code"`
	Address       string `gorm:"type:varchar(255)" json:"address"`
	TelegramPhone string `gorm:"type:varchar(20)" json:"telegram_phone"`
	Email         string `gorm:"type:varchar(255)" json:"email"`
}
