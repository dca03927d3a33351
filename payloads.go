package authclient

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	nameFormat = regexp.MustCompile(`^[a-zA-Z]{3,50}$`)
	codeFormat = regexp.MustCompile(`^[0-9]{6}$`)
)

// passwordSpecials is the character set the signup form accepts as the
// required special character.
const passwordSpecials = `.*$_!\-+@;:/|`

// LoginPayload carries the credentials of a password login.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// SignupPayload carries the registration form fields.
type SignupPayload struct {
	Name      string `json:"name"`
	Firstname string `json:"firstname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Confirm   string `json:"-"`
}

func (p SignupPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Match(nameFormat)),
		validation.Field(&p.Firstname, validation.Required, validation.Match(nameFormat)),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.By(checkPasswordStrength)),
		validation.Field(&p.Confirm, validation.Required, validation.In(p.Password).Error("passwords do not match")),
	)
}

// CodePayload carries a second-factor code submission.
type CodePayload struct {
	Code      string `json:"code"`
	SubjectID string `json:"userId"`
}

func (p CodePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Code, validation.Required, validation.Match(codeFormat).Error("code must only contain digits")),
		validation.Field(&p.SubjectID, validation.Required),
	)
}

// PasswordResetPayload starts the out-of-band reset flow.
type PasswordResetPayload struct {
	Email string `json:"email"`
}

func (p PasswordResetPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
	)
}

// NewPasswordPayload finishes the reset flow with the token from the URL.
type NewPasswordPayload struct {
	Password string `json:"password"`
	Confirm  string `json:"-"`
}

func (p NewPasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Password, validation.Required, validation.By(checkPasswordStrength)),
		validation.Field(&p.Confirm, validation.Required, validation.In(p.Password).Error("passwords do not match")),
	)
}

// checkPasswordStrength enforces the store's password policy: 12-250 chars
// with at least one lowercase, one uppercase, one digit and one special
// character. Written as a By rule because RE2 has no lookaheads.
func checkPasswordStrength(value any) error {
	password, _ := value.(string)

	if len(password) < 12 || len(password) > 250 {
		return errors.New("must be between 12 and 250 characters")
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		default:
			return errors.New("contains an invalid character")
		}
	}

	if !hasLower || !hasUpper || !hasDigit || !hasSpecial {
		return errors.New("must contain a lowercase letter, an uppercase letter, a digit and a special character")
	}

	return nil
}
