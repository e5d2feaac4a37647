package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+998 (90) 123-45-67": "998901234567",
		"998901234567":        "998901234567",
		"998.90.123.45.67":    "998901234567",
		"  +998901234567  ":   "998901234567",
		"":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePhone(in), "input %q", in)
	}
}

func TestNormalizePhonePunctuationVariantsCollide(t *testing.T) {
	variants := []string{
		"+998 (90) 123 45 67",
		"998-90-123-45-67",
		"998.90 (123) 4567",
	}
	first := NormalizePhone(variants[0])
	for _, v := range variants[1:] {
		assert.Equal(t, first, NormalizePhone(v))
	}
}
