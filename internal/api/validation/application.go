package validation

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CandidateEmailPattern accepts local@domain with at least one dot in the domain
var CandidateEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateCandidateEmail validates the candidate email format
func ValidateCandidateEmail(fl validator.FieldLevel) bool {
	return CandidateEmailPattern.MatchString(fl.Field().String())
}

// ValidateAbsoluteURL accepts URLs with both a scheme and a host
func ValidateAbsoluteURL(fl validator.FieldLevel) bool {
	return IsAbsoluteURL(fl.Field().String())
}

// IsAbsoluteURL reports whether raw parses as an absolute URL with a host
func IsAbsoluteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// RegisterApplicationValidators registers all application-related custom validators
func RegisterApplicationValidators(v *validator.Validate) {
	v.RegisterValidation("candidate_email", ValidateCandidateEmail)
	v.RegisterValidation("absolute_url", ValidateAbsoluteURL)
}

// New returns a validator with every custom rule registered
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	RegisterApplicationValidators(v)
	return v
}
