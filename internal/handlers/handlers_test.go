package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tworkuz/twork-backend/internal/clients"
	"github.com/tworkuz/twork-backend/internal/middleware"
	"github.com/tworkuz/twork-backend/internal/models"
	"github.com/tworkuz/twork-backend/internal/services/otp"
)

const testSecret = "test-secret"

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Otp{},
		&models.Client{},
		&models.Individual{},
		&models.LegalEntity{},
		&models.ProjectCategory{},
		&models.FreelancerCategory{},
		&models.Project{},
		&models.ProjectFile{},
		&models.TempFile{},
	))
	return db
}

func testApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()

	resolver := clients.NewResolver(db)
	otpService := otp.NewOtpService(db, nil, nil)

	authH := &AuthHandler{
		DB:         db,
		Resolver:   resolver,
		JWTSecret:  testSecret,
		Expires:    60,
		RefreshExp: 10080,
	}
	otpH := NewOtpHandler(otpService)
	clientH := NewClientHandler(db, resolver)
	projectH := NewProjectHandler(db, t.TempDir())

	app := fiber.New()
	api := app.Group("/api")
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/refresh", authH.Refresh)
	api.Post("/otp", otpH.Create)
	api.Post("/otp/:id/validate", otpH.Validate)
	api.Post("/clients", clientH.Create)

	protected := api.Group("/", middleware.JWTFromHeader(testSecret))
	protected.Get("/clients/me", clientH.GetMe)
	protected.Post("/individuals", clientH.CreateIndividual)
	protected.Post("/projects", projectH.Create)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out map[string]interface{}
	if resp.Body != nil {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func TestOtpEndToEnd(t *testing.T) {
	db := testDB(t)
	app := testApp(t, db)

	resp, body := doJSON(t, app, "POST", "/api/otp", fiber.Map{"phone": "998901234567"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "998901234567", data["phone"])
	assert.Equal(t, false, data["activated"])
	_, codeExposed := data["code"]
	assert.False(t, codeExposed, "code must never be serialized")

	id := uint(data["id"].(float64))
	var record models.Otp
	require.NoError(t, db.First(&record, "id = ?", id).Error)

	// wrong code
	wrong := "00000"
	if record.Code == wrong {
		wrong = "11111"
	}
	resp, body = doJSON(t, app, "POST", fmt.Sprintf("/api/otp/%d/validate", id), fiber.Map{"code": wrong}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "WRONG_OTP_CODE", body["error"])

	require.NoError(t, db.First(&record, "id = ?", id).Error)
	assert.False(t, record.Activated)

	// correct code within the window
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/otp/%d/validate", id), fiber.Map{"code": record.Code}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&record, "id = ?", id).Error)
	assert.True(t, record.Activated)

	// same correct code again: expired, not mismatch
	resp, body = doJSON(t, app, "POST", fmt.Sprintf("/api/otp/%d/validate", id), fiber.Map{"code": record.Code}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "OTP_EXPIRED", body["error"])
}

func TestOtpValidateUnknownID(t *testing.T) {
	app := testApp(t, testDB(t))

	resp, body := doJSON(t, app, "POST", "/api/otp/9999/validate", fiber.Map{"code": "12345"}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "OTP_NOT_FOUND", body["error"])
}

func TestRegisterRequiresPhoneAndPassword(t *testing.T) {
	app := testApp(t, testDB(t))

	resp, body := doJSON(t, app, "POST", "/api/auth/register", fiber.Map{}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "phone")
	assert.Contains(t, errs, "password")
}

func TestRegisterCreatesUserAndClientTogether(t *testing.T) {
	db := testDB(t)
	app := testApp(t, db)

	resp, body := doJSON(t, app, "POST", "/api/auth/register", fiber.Map{
		"phone":    "+998 (90) 123-45-67",
		"password": "secret",
		"fullname": "Test User",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access"])
	assert.NotEmpty(t, data["refresh"])

	var user models.User
	require.NoError(t, db.First(&user, "phone = ?", "998901234567").Error)
	var client models.Client
	require.NoError(t, db.First(&client, "user_id = ?", user.ID).Error)
	assert.Equal(t, "Test User", client.Fullname)
}

func TestRefreshRoundTrip(t *testing.T) {
	db := testDB(t)
	app := testApp(t, db)

	_, reg := doJSON(t, app, "POST", "/api/auth/register", fiber.Map{
		"phone":    "998901234567",
		"password": "secret",
	}, "")
	regData := reg["data"].(map[string]interface{})
	access := regData["access"].(string)
	refresh := regData["refresh"].(string)

	resp, body := doJSON(t, app, "POST", "/api/auth/refresh", fiber.Map{"refresh": refresh}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access"])
	assert.NotEmpty(t, data["refresh"])

	// the new access token works against a protected route
	resp, _ = doJSON(t, app, "GET", "/api/clients/me", nil, data["access"].(string))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// an access token is not accepted in place of a refresh token
	resp, _ = doJSON(t, app, "POST", "/api/auth/refresh", fiber.Map{"refresh": access}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// missing token is rejected outright
	resp, _ = doJSON(t, app, "POST", "/api/auth/refresh", fiber.Map{}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefreshRejectsDeletedUser(t *testing.T) {
	db := testDB(t)
	app := testApp(t, db)

	_, reg := doJSON(t, app, "POST", "/api/auth/register", fiber.Map{
		"phone":    "998901234567",
		"password": "secret",
	}, "")
	refresh := reg["data"].(map[string]interface{})["refresh"].(string)

	require.NoError(t, db.Where("phone = ?", "998901234567").Delete(&models.User{}).Error)

	resp, _ := doJSON(t, app, "POST", "/api/auth/refresh", fiber.Map{"refresh": refresh}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginErrorTags(t *testing.T) {
	db := testDB(t)
	app := testApp(t, db)

	_, _ = doJSON(t, app, "POST", "/api/auth/register", fiber.Map{
		"phone":    "998901234567",
		"password": "secret",
		"fullname": "Login User",
	}, "")

	resp, body := doJSON(t, app, "POST", "/api/auth/login", fiber.Map{
		"phone":    "998909999999",
		"password": "secret",
	}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "USER_DOES_NOT_EXIST", body["error"])

	resp, body = doJSON(t, app, "POST", "/api/auth/login", fiber.Map{
		"phone":    "998901234567",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INCORRECT_PASSWORD", body["error"])
}

func TestLoginDatabaseErrorIsNotUserDoesNotExist(t *testing.T) {
	db := testDB(t)
	app := testApp(t, db)

	require.NoError(t, db.Exec("DROP TABLE users").Error)

	resp, body := doJSON(t, app, "POST", "/api/auth/login", fiber.Map{
		"phone":    "998901234567",
		"password": "secret",
	}, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotEqual(t, "USER_DOES_NOT_EXIST", body["error"])
}

func TestLoginReturnsResolvedClientAndNormalizesPhone(t *testing.T) {
	db := testDB(t)
	app := testApp(t, db)

	_, reg := doJSON(t, app, "POST", "/api/auth/register", fiber.Map{
		"phone":    "998901234567",
		"password": "secret",
		"fullname": "Resolved User",
	}, "")
	token := reg["data"].(map[string]interface{})["access"].(string)

	// attach an individual to the client
	var client models.Client
	require.NoError(t, db.First(&client).Error)
	resp, _ := doJSON(t, app, "POST", "/api/individuals", fiber.Map{
		"client":              client.ID,
		"fullname":            "John Smith",
		"passport_given_date": "2020-01-15",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// login with a punctuation-laden variant of the same phone
	resp, body := doJSON(t, app, "POST", "/api/auth/login", fiber.Map{
		"phone":    "+998 (90) 123-45-67",
		"password": "secret",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	clientPayload := data["client"].(map[string]interface{})
	assert.Equal(t, "individual", clientPayload["client_type"])
	details := clientPayload["details"].(map[string]interface{})
	assert.Equal(t, "John Smith", details["fullname"])
}

func TestCreateIndividualWithMissingClientDegradesSilently(t *testing.T) {
	db := testDB(t)
	app := testApp(t, db)

	_, reg := doJSON(t, app, "POST", "/api/auth/register", fiber.Map{
		"phone":    "998901234567",
		"password": "secret",
	}, "")
	token := reg["data"].(map[string]interface{})["access"].(string)

	resp, body := doJSON(t, app, "POST", "/api/individuals", fiber.Map{
		"client":   9999,
		"fullname": "Orphan",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["client"])

	var anyClient models.Client
	require.NoError(t, db.First(&anyClient).Error)
	assert.Nil(t, anyClient.ClientType)
	assert.Nil(t, anyClient.TypeRelatedInfo)
}

func TestProjectCreateValidation(t *testing.T) {
	db := testDB(t)
	app := testApp(t, db)

	_, reg := doJSON(t, app, "POST", "/api/auth/register", fiber.Map{
		"phone":    "998901234567",
		"password": "secret",
	}, "")
	token := reg["data"].(map[string]interface{})["access"].(string)

	pc := models.ProjectCategory{Title: "Design", Slug: "design"}
	require.NoError(t, db.Create(&pc).Error)
	fc := models.FreelancerCategory{Title: "Designers", Slug: "designers"}
	require.NoError(t, db.Create(&fc).Error)

	// status outside unpublished/published is rejected at creation
	resp, body := doJSON(t, app, "POST", "/api/projects", fiber.Map{
		"title":                  "Logo",
		"project_category_id":    pc.ID,
		"freelancer_category_id": fc.ID,
		"status":                 "working",
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "status")

	// unknown category id is rejected
	resp, body = doJSON(t, app, "POST", "/api/projects", fiber.Map{
		"title":                  "Logo",
		"project_category_id":    999,
		"freelancer_category_id": fc.ID,
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs = body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "project_category_id")

	// valid create with unresolvable temp-file ids silently dropped
	resp, body = doJSON(t, app, "POST", "/api/projects", fiber.Map{
		"title":                  "Logo",
		"project_category_id":    pc.ID,
		"freelancer_category_id": fc.ID,
		"status":                 "published",
		"file_ids":               []string{"not-a-uuid", "3b241101-e2bb-4255-8caf-4136c566a962"},
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "published", data["status"])
	var files []models.ProjectFile
	require.NoError(t, db.Find(&files).Error)
	assert.Empty(t, files)
}
