package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tworkuz/twork-backend/internal/services/otp"
)

type OtpHandler struct {
	Service *otp.OtpService
}

func NewOtpHandler(service *otp.OtpService) *OtpHandler {
	return &OtpHandler{Service: service}
}

type otpCreateReq struct {
	Phone string `json:"phone"`
}

// Create issues a code. The response never includes the code itself.
func (h *OtpHandler) Create(c *fiber.Ctx) error {
	var req otpCreateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	record, err := h.Service.Issue(c.Context(), req.Phone)
	switch {
	case errors.Is(err, otp.ErrPhoneMissing):
		errs := FieldErrors{}
		errs.Add("phone", "Phone number must be provided")
		return validationFail(c, errs)
	case errors.Is(err, otp.ErrTooMany):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"success": false,
			"error":   "OTP_LIMIT_EXCEEDED",
			"message": "Too many codes requested for this phone",
		})
	case err != nil:
		return fail500(c, "failed to issue otp")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":         record.ID,
			"phone":      record.Phone,
			"expires_in": record.ExpiresIn,
			"activated":  record.Activated,
		},
	})
}

type otpValidateReq struct {
	Code string `json:"code"`
}

func (h *OtpHandler) Validate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid otp id",
		})
	}

	var req otpValidateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	err = h.Service.Validate(c.Context(), uint(id), req.Code, time.Now())
	switch {
	case errors.Is(err, otp.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "OTP_NOT_FOUND",
			"message": "OTP not found",
		})
	case errors.Is(err, otp.ErrExpired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "OTP_EXPIRED",
			"message": "OTP expired",
		})
	case errors.Is(err, otp.ErrCodeMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "WRONG_OTP_CODE",
			"message": "Wrong OTP code",
		})
	case err != nil:
		return fail500(c, "failed to validate otp")
	}

	return c.JSON(fiber.Map{"success": true})
}
