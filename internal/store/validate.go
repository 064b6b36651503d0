package store

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/contactbook/internal/contact"
)

// Both patterns are anchored only at the start: trailing characters after a
// match are accepted.
var (
	emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)

	// Egyptian mobile numbers: +201, 01 or 00201, then an operator digit
	// (0, 1, 2 or 5), then eight digits.
	phonePattern = regexp.MustCompile(`^(\+201|01|00201)[0125][0-9]{8}`)
)

// Validation tags referenced by contact.Contact.
const (
	tagEmail = "contact_email"
	tagPhone = "contact_phone"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	rules := map[string]*regexp.Regexp{
		tagEmail: emailPattern,
		tagPhone: phonePattern,
	}
	for tag, re := range rules {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}
	return v
}

// ValidateEmail reports whether s looks like local@domain.tld.
func ValidateEmail(s string) bool {
	return validate.Var(s, tagEmail) == nil
}

// ValidatePhone reports whether s starts with a valid mobile number.
func ValidatePhone(s string) bool {
	return validate.Var(s, tagPhone) == nil
}

// validateContact checks email then phone and returns the first failure.
// Struct validation walks fields in declaration order, and Email precedes
// Phone in contact.Contact.
func validateContact(c contact.Contact) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].StructField() {
		case "Email":
			return ErrInvalidEmail
		case "Phone":
			return ErrInvalidPhone
		}
	}
	return err
}

// validateField returns the rejection for setting field to value, or nil.
// Only email and phone are constrained.
func validateField(field contact.Field, value string) error {
	switch field {
	case contact.FieldEmail:
		if !ValidateEmail(value) {
			return ErrInvalidEmail
		}
	case contact.FieldPhone:
		if !ValidatePhone(value) {
			return ErrInvalidPhone
		}
	}
	return nil
}
