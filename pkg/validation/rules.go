package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phoneRegexp = regexp.MustCompile(`^\+?[0-9][0-9 \-]{7,13}$`)
	emailRegexp = regexp.MustCompile(`^\w+([.\-+]?\w+)*@\w+([.\-]?\w+)*(\.\w{2,})+$`)
)

// registerRules registers the tags used in DTO struct tags.
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("niuniq_phone", isPhoneNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("niuniq_email", isGoodEmailFormat); err != nil {
		return err
	}
	if err := v.RegisterValidation("province", isKnownProvince); err != nil {
		return err
	}
	if err := v.RegisterValidation("role", isRole); err != nil {
		return err
	}
	return nil
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegexp.MatchString(fl.Field().String())
}

// isPhoneNumber accepts at most 14 characters of digits, spaces and dashes
// with an optional leading plus.
func isPhoneNumber(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	return len(s) <= 14 && phoneRegexp.MatchString(s)
}

func isKnownProvince(fl validator.FieldLevel) bool {
	return IsProvince(fl.Field().String())
}

func isRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "user", "admin":
		return true
	}
	return false
}
