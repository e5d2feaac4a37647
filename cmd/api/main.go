package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/tworkuz/twork-backend/internal/clients"
	"github.com/tworkuz/twork-backend/internal/config"
	"github.com/tworkuz/twork-backend/internal/db"
	"github.com/tworkuz/twork-backend/internal/handlers"
	"github.com/tworkuz/twork-backend/internal/middleware"
	"github.com/tworkuz/twork-backend/internal/models"
	"github.com/tworkuz/twork-backend/internal/services/otp"
	"github.com/tworkuz/twork-backend/internal/services/ratelimit"
	"github.com/tworkuz/twork-backend/internal/services/sms"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	if err := gdb.AutoMigrate(
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
	); err != nil {
		log.Fatal(err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	// the limiter fails open, so a missing redis only disables the cap
	var limiter otp.Limiter
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unavailable, otp rate limit disabled: %v", err)
	} else {
		limiter = ratelimit.NewPhoneLimiter(rdb, cfg.OTPHourlyLimit)
	}

	smsService := sms.NewSMSService(cfg.SMSBaseURL, cfg.SMSToken)
	otpService := otp.NewOtpService(gdb, smsService, limiter)
	resolver := clients.NewResolver(gdb)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "http://127.0.0.1:3000, http://localhost:3000",
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Length",
	}))

	app.Static("/uploads", cfg.UploadDir)

	authH := &handlers.AuthHandler{
		DB:         gdb,
		Resolver:   resolver,
		JWTSecret:  cfg.JWTSecret,
		Expires:    cfg.JWTExpiresMin,
		RefreshExp: cfg.JWTRefreshExpiresMin,
	}
	otpH := handlers.NewOtpHandler(otpService)
	clientH := handlers.NewClientHandler(gdb, resolver)
	categoryH := handlers.NewCategoryHandler(gdb)
	projectH := handlers.NewProjectHandler(gdb, cfg.UploadDir)
	tempFileH := handlers.NewTempFileHandler(gdb, cfg.UploadDir, cfg.AppBaseURL)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/refresh", authH.Refresh)
	api.Post("/otp", otpH.Create)
	api.Post("/otp/:id/validate", otpH.Validate)
	api.Post("/clients", clientH.Create)
	api.Get("/categories/project", categoryH.ListProject)
	api.Get("/categories/freelancer", categoryH.ListFreelancer)

	// protected (JWT)
	protected := api.Group("/", middleware.JWTFromHeader(cfg.JWTSecret))

	protected.Get("/clients/me", clientH.GetMe)
	protected.Delete("/clients/me", clientH.DeleteMe)

	protected.Post("/individuals", clientH.CreateIndividual)
	protected.Delete("/individuals/:id", clientH.DeleteIndividual)
	protected.Post("/legal-entities", clientH.CreateLegalEntity)
	protected.Delete("/legal-entities/:id", clientH.DeleteLegalEntity)

	protected.Post("/files", tempFileH.Upload)
	protected.Post("/projects", projectH.Create)
	protected.Get("/projects", projectH.ListMine)
	protected.Get("/projects/:id", projectH.GetOne)
	protected.Patch("/projects/:id/status", projectH.UpdateStatus)
	protected.Delete("/projects/:id", projectH.Delete)

	// staff only
	staff := protected.Group("/", middleware.RequireStaff(gdb))
	staff.Post("/categories/project", categoryH.CreateProject)
	staff.Post("/categories/freelancer", categoryH.CreateFreelancer)

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
