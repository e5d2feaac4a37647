package utils

import "strings"

var phoneCleaner = strings.NewReplacer(
	"(", "",
	")", "",
	" ", "",
	"+", "",
	"-", "",
	".", "",
)

// NormalizePhone strips punctuation so that visually different inputs for the
// same number always collide. Every place a phone enters the system (register,
// login, OTP issue) must go through this.
func NormalizePhone(phone string) string {
	return phoneCleaner.Replace(strings.TrimSpace(phone))
}
