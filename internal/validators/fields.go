package validators

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IsEmail checks the address syntax only; no DNS lookups.
func IsEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	return validate.Var(email, "email") == nil
}

func IsHexColor(color string) bool {
	return len(color) == 7 && validate.Var(color, "hexcolor") == nil
}

func IsTimeOfDay(hm string) bool {
	return validate.Var(hm, "datetime=15:04") == nil
}

// NormalizePhone strips formatting characters and keeps a leading '+'.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func IsPhone(phone string) bool {
	digits := strings.TrimPrefix(NormalizePhone(phone), "+")
	return len(digits) >= 6 && len(digits) <= 15
}

// IsSlug accepts lowercase letters, digits and single dashes.
func IsSlug(slug string) bool {
	if len(slug) < 3 || len(slug) > 100 {
		return false
	}
	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") || strings.Contains(slug, "--") {
		return false
	}
	for _, r := range slug {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' {
			return false
		}
	}
	return true
}
