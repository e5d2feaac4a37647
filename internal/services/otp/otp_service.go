package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/tworkuz/twork-backend/internal/models"
	"github.com/tworkuz/twork-backend/internal/utils"
)

const (
	codeLength = 5
	codeTTL    = time.Minute
)

var (
	ErrNotFound     = errors.New("otp not found")
	ErrExpired      = errors.New("otp expired or already used")
	ErrCodeMismatch = errors.New("otp code mismatch")
	ErrTooMany      = errors.New("otp issuance limit exceeded")
	ErrPhoneMissing = errors.New("phone must be provided")
)

// Sender dispatches the code to the phone's owner (SMS gateway in production).
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// Limiter caps how many codes one phone can request per window.
type Limiter interface {
	Allow(ctx context.Context, phone string) (bool, error)
}

type OtpService struct {
	DB      *gorm.DB
	Sender  Sender
	Limiter Limiter
}

func NewOtpService(db *gorm.DB, sender Sender, limiter Limiter) *OtpService {
	return &OtpService{DB: db, Sender: sender, Limiter: limiter}
}

// generateCode draws each digit independently, so leading zeros are kept and
// the code is a string value, never a number.
func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, codeLength)
	for i, b := range buf {
		out[i] = '0' + b%10
	}
	return string(out), nil
}

// Issue stores a fresh code for the phone and attempts SMS dispatch. Prior
// outstanding codes stay valid; the limiter is what keeps that bounded.
// Dispatch failure does not fail issuance.
func (s *OtpService) Issue(ctx context.Context, phone string) (*models.Otp, error) {
	phone = utils.NormalizePhone(phone)
	if phone == "" {
		return nil, ErrPhoneMissing
	}

	if s.Limiter != nil {
		ok, err := s.Limiter.Allow(ctx, phone)
		if err != nil {
			// fail open: a broken limiter must not block issuance
			log.Printf("otp limiter unavailable, allowing issue for %s: %v", phone, err)
			ok = true
		}
		if !ok {
			return nil, ErrTooMany
		}
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	record := models.Otp{
		Code:      code,
		Phone:     phone,
		Activated: false,
		ExpiresIn: time.Now().Add(codeTTL),
	}
	if err := s.DB.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}

	if s.Sender != nil {
		if err := s.Sender.Send(ctx, phone, code); err != nil {
			log.Printf("otp dispatch failed for %s: %v", phone, err)
		}
	}

	return &record, nil
}

// Validate marks the code used, exactly once. The state change is a single
// conditional update so two concurrent attempts on the same still-valid code
// cannot both succeed. An activated or expired record reports ErrExpired; the
// two cases are indistinguishable to callers.
func (s *OtpService) Validate(ctx context.Context, id uint, code string, now time.Time) error {
	var record models.Otp
	if err := s.DB.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if record.Activated || !record.ExpiresIn.After(now) {
		return ErrExpired
	}
	if record.Code != code {
		return ErrCodeMismatch
	}

	result := s.DB.WithContext(ctx).Model(&models.Otp{}).
		Where("id = ? AND activated = ? AND expires_in > ?", id, false, now).
		Update("activated", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// lost the race to another request
		return ErrExpired
	}
	return nil
}
