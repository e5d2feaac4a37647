package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tworkuz/twork-backend/internal/clients"
	"github.com/tworkuz/twork-backend/internal/models"
	"github.com/tworkuz/twork-backend/internal/utils"
)

type ClientHandler struct {
	DB       *gorm.DB
	Resolver *clients.Resolver
}

func NewClientHandler(db *gorm.DB, resolver *clients.Resolver) *ClientHandler {
	return &ClientHandler{DB: db, Resolver: resolver}
}

type clientUserReq struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type clientCreateReq struct {
	User     clientUserReq `json:"user"`
	Fullname string        `json:"fullname"`
}

// Create registers a client together with its user credential, both rows in
// one transaction.
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var req clientCreateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	phone := utils.NormalizePhone(req.User.Phone)

	errs := FieldErrors{}
	if phone == "" {
		errs.Add("user.phone", "Phone number must be provided")
	}
	if req.User.Password == "" {
		errs.Add("user.password", "Password must be provided")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	var existing models.User
	if err := h.DB.Where("phone = ?", phone).First(&existing).Error; err == nil {
		errs.Add("user.phone", "Phone number already registered")
		return validationFail(c, errs)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail500(c, "database error")
	}

	pw, err := utils.HashPassword(req.User.Password)
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
		return fail500(c, "failed to create client")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":                client.ID,
			"user":              fiber.Map{"id": user.ID, "phone": user.Phone},
			"fullname":          client.Fullname,
			"client_type":       client.ClientType,
			"type_related_info": client.TypeRelatedInfo,
		},
	})
}

func (h *ClientHandler) me(c *fiber.Ctx) (*models.Client, error) {
	userID, err := getAuth(c)
	if err != nil {
		return nil, err
	}
	var client models.Client
	if err := h.DB.Where("user_id = ?", userID).First(&client).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "client not found")
	}
	return &client, nil
}

func (h *ClientHandler) GetMe(c *fiber.Ctx) error {
	client, err := h.me(c)
	if err != nil {
		return err
	}

	details, err := h.Resolver.ResolveDetails(client)
	if err != nil {
		return fail500(c, "failed to resolve client details")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":                client.ID,
			"fullname":          client.Fullname,
			"client_type":       client.ClientType,
			"type_related_info": client.TypeRelatedInfo,
			"details":           details,
		},
	})
}

// DeleteMe removes the client and cascades to its attached detail record.
func (h *ClientHandler) DeleteMe(c *fiber.Ctx) error {
	client, err := h.me(c)
	if err != nil {
		return err
	}

	if err := h.Resolver.DeleteClient(client); err != nil {
		return fail500(c, "failed to delete client")
	}

	return c.JSON(fiber.Map{"success": true})
}

type individualCreateReq struct {
	Client                uint   `json:"client"`
	Fullname              string `json:"fullname"`
	Email                 string `json:"email"`
	PassportSeries        string `json:"passport_series"`
	PassportNumber        string `json:"passport_number"`
	PassportGivenDate     string `json:"passport_given_date"`
	PassportIssuedAddress string `json:"passport_issued_address"`
	Country               string `json:"country"`
	Region                string `json:"region"`
	City                  string `json:"city"`
	Address               string `json:"address"`
}

// CreateIndividual persists the detail record, then attaches it to the given
// client. An unknown client id silently leaves the record unattached; the
// response carries the (possibly reset) back-pointer either way.
func (h *ClientHandler) CreateIndividual(c *fiber.Ctx) error {
	var req individualCreateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	errs := FieldErrors{}
	if req.Fullname == "" {
		errs.Add("fullname", "Fullname must be provided")
	}
	givenDate, err := parseDate(req.PassportGivenDate)
	if err != nil {
		errs.Add("passport_given_date", "Date must be in YYYY-MM-DD format")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	ind := models.Individual{
		Fullname:              req.Fullname,
		Email:                 req.Email,
		PassportSeries:        req.PassportSeries,
		PassportNumber:        req.PassportNumber,
		PassportGivenDate:     givenDate,
		PassportIssuedAddress: req.PassportIssuedAddress,
		Country:               req.Country,
		Region:                req.Region,
		City:                  req.City,
		Address:               req.Address,
	}

	if err := h.DB.Create(&ind).Error; err != nil {
		return fail500(c, "failed to create individual")
	}

	if err := h.Resolver.AttachIndividual(&ind, req.Client); err != nil {
		return fail500(c, "failed to attach individual")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    ind,
	})
}

func (h *ClientHandler) DeleteIndividual(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid individual id",
		})
	}

	var ind models.Individual
	if err := h.DB.First(&ind, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "individual not found",
		})
	}

	if err := h.Resolver.DeleteIndividual(&ind); err != nil {
		return fail500(c, "failed to delete individual")
	}

	return c.JSON(fiber.Map{"success": true})
}

type legalEntityCreateReq struct {
	Client        uint   `json:"client"`
	Fullname      string `json:"fullname"`
	Company       string `json:"company"`
	BankName      string `json:"bank_name"`
	BankAccount   string `json:"bank_account"`
	MFO           string `json:"mfo"`
	INN           string `json:"inn"`
	IFUT          string `json:"ifut"`
	Country       string `json:"country"`
	Region        string `json:"region"`
	City          string `json:"city"`
	PostCode      string `json:"post_code"`
	Address       string `json:"address"`
	TelegramPhone string `json:"telegram_phone"`
	Email         string `json:"email"`
}

func (h *ClientHandler) CreateLegalEntity(c *fiber.Ctx) error {
	var req legalEntityCreateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	errs := FieldErrors{}
	if req.Fullname == "" {
		errs.Add("fullname", "Fullname must be provided")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	le := models.LegalEntity{
		Fullname:      req.Fullname,
		Company:       req.Company,
		BankName:      req.BankName,
		BankAccount:   req.BankAccount,
		MFO:           req.MFO,
		INN:           req.INN,
		IFUT:          req.IFUT,
		Country:       req.Country,
		Region:        req.Region,
		City:          req.City,
		PostCode:      req.PostCode,
		Address:       req.Address,
		TelegramPhone: utils.NormalizePhone(req.TelegramPhone),
		Email:         req.Email,
	}

	if err := h.DB.Create(&le).Error; err != nil {
		return fail500(c, "failed to create legal entity")
	}

	if err := h.Resolver.AttachLegalEntity(&le, req.Client); err != nil {
		return fail500(c, "failed to attach legal entity")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    le,
	})
}

func (h *ClientHandler) DeleteLegalEntity(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid legal entity id",
		})
	}

	var le models.LegalEntity
	if err := h.DB.First(&le, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "legal entity not found",
		})
	}

	if err := h.Resolver.DeleteLegalEntity(&le); err != nil {
		return fail500(c, "failed to delete legal entity")
	}

	return c.JSON(fiber.Map{"success": true})
}

func parseDate(s string) (datatypes.Date, error) {
	if s == "" {
		return datatypes.Date{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}
