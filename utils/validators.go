package utils

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var verificationCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

func InitValidator() {
	Validate = validator.New()
	Validate.RegisterValidation("verification_code", ValidateVerificationCodeRule)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("verification_code", ValidateVerificationCodeRule)
	}
}

func ValidateVerificationCodeRule(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if code == "" {
		return true // optional; presence is enforced by the token policy
	}
	return ValidateVerificationCode(code)
}

// ValidateVerificationCode checks the out-of-band code format: exactly
// six digits.
func ValidateVerificationCode(code string) bool {
	return verificationCodePattern.MatchString(code)
}
