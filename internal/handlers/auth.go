package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/tworkuz/twork-backend/internal/clients"
	"github.com/tworkuz/twork-backend/internal/models"
	"github.com/tworkuz/twork-backend/internal/utils"
)

type AuthHandler struct {
	DB         *gorm.DB
	Resolver   *clients.Resolver
	JWTSecret  string
	Expires    int
	RefreshExp int
}

type RegisterReq struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
}

func (h *AuthHandler) clientPayload(client *models.Client) (fiber.Map, error) {
	details, err := h.Resolver.ResolveDetails(client)
	if err != nil {
		return nil, err
	}
	return fiber.Map{
		"id":                client.ID,
		"fullname":          client.Fullname,
		"client_type":       client.ClientType,
		"type_related_info": client.TypeRelatedInfo,
		"details":           details,
	}, nil
}

// Register creates the user together with its client row in one transaction,
// so a failed client insert cannot leave an orphaned credential behind.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	phone := utils.NormalizePhone(req.Phone)
	password := req.Password

	errs := FieldErrors{}
	if phone == "" {
		errs.Add("phone", "Phone number must be provided")
	}
	if password == "" {
		errs.Add("password", "Password must be provided")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	var existing models.User
	if err := h.DB.Where("phone = ?", phone).First(&existing).Error; err == nil {
		errs.Add("phone", "Phone number already registered")
		return validationFail(c, errs)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail500(c, "database error")
	}

	pw, err := utils.HashPassword(password)
	if err != nil {
		return fail500(c, "failed to hash password")
	}

	user := models.User{Phone: phone, Password: pw}
	client := models.Client{Fullname: req.Fullname}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		client.UserID = user.ID
		return tx.Create(&client).Error
	})
	if err != nil {
		return fail500(c, "failed to register")
	}

	access, refresh, err := utils.SignTokenPair(h.JWTSecret, user.ID.String(), h.Expires, h.RefreshExp)
	if err != nil {
		return fail500(c, "failed to sign tokens")
	}

	payload, err := h.clientPayload(&client)
	if err != nil {
		return fail500(c, "failed to resolve client")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"access":  access,
			"refresh": refresh,
			"client":  payload,
		},
	})
}

type LoginReq struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	phone := utils.NormalizePhone(req.Phone)

	var user models.User
	if err := h.DB.Where("phone = ?", phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "USER_DOES_NOT_EXIST",
				"message": "User does not exist",
			})
		}
		return fail500(c, "database error")
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "INCORRECT_PASSWORD",
			"message": "Incorrect password",
		})
	}

	access, refresh, err := utils.SignTokenPair(h.JWTSecret, user.ID.String(), h.Expires, h.RefreshExp)
	if err != nil {
		return fail500(c, "failed to sign tokens")
	}

	// client is null when the account has no profile yet
	var payload fiber.Map
	var client models.Client
	if err := h.DB.Where("user_id = ?", user.ID).First(&client).Error; err == nil {
		payload, err = h.clientPayload(&client)
		if err != nil {
			return fail500(c, "failed to resolve client")
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail500(c, "database error")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"access":  access,
			"refresh": refresh,
			"client":  payload,
		},
	})
}

type RefreshReq struct {
	Refresh string `json:"refresh"`
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshReq
	if err := c.BodyParser(&req); err != nil || req.Refresh == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "refresh token required",
		})
	}

	claims, err := utils.ParseJWT(h.JWTSecret, req.Refresh, utils.TokenRefresh)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "invalid refresh token",
		})
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "user no longer exists",
		})
	}

	access, refresh, err := utils.SignTokenPair(h.JWTSecret, user.ID.String(), h.Expires, h.RefreshExp)
	if err != nil {
		return fail500(c, "failed to sign tokens")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"access":  access,
			"refresh": refresh,
		},
	})
}
