package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppPort              string
	AppBaseURL           string
	DBDSN                string
	JWTSecret            string
	JWTExpiresMin        int
	JWTRefreshExpiresMin int
	RedisAddr            string
	RedisPassword        string
	OTPHourlyLimit       int
	SMSBaseURL           string
	SMSToken             string
	UploadDir            string
}

func Load() Config {
	expires, _ := strconv.Atoi(get("JWT_EXPIRES_MIN", "60"))
	refreshExpires, _ := strconv.Atoi(get("JWT_REFRESH_EXPIRES_MIN", "10080"))
	otpLimit, _ := strconv.Atoi(get("OTP_HOURLY_LIMIT", "5"))
	return Config{
		AppPort:              get("APP_PORT", "8080"),
		AppBaseURL:           get("APP_BASE_URL", ""),
		DBDSN:                must("DB_DSN"),
		JWTSecret:            must("JWT_SECRET"),
		JWTExpiresMin:        expires,
		JWTRefreshExpiresMin: refreshExpires,
		RedisAddr:            get("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        get("REDIS_PASSWORD", ""),
		OTPHourlyLimit:       otpLimit,
		SMSBaseURL:           get("SMS_BASE_URL", ""),
		SMSToken:             get("SMS_TOKEN", ""),
		UploadDir:            get("UPLOAD_DIR", "./uploads"),
	}
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
