// Package validation provides input validation utilities
package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Minimum lengths, counted in runes.
const (
	MinNameLength     = 2
	MinUsernameLength = 3
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

var (
	ErrNameTooShort     = errors.New("نام باید حداقل ۲ کاراکتر باشد")
	ErrInvalidEmail     = errors.New("ایمیل نامعتبر است")
	ErrUsernameTooShort = errors.New("نام کاربری باید حداقل ۳ کاراکتر باشد")
	ErrPasswordTooShort = errors.New("رمز عبور باید حداقل ۶ کاراکتر باشد")
	ErrPasswordTooLong  = errors.New("رمز عبور بیش از حد طولانی است")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateName checks the display name.
func ValidateName(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < MinNameLength {
		return ErrNameTooShort
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateUsername only enforces a minimum length; Persian usernames are allowed.
func ValidateUsername(username string) error {
	if utf8.RuneCountInString(strings.TrimSpace(username)) < MinUsernameLength {
		return ErrUsernameTooShort
	}
	return nil
}

// ValidatePassword checks if a password meets the length requirements
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if n > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

var (
	slugStrip  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces = regexp.MustCompile(`\s+`)
	slugDashes = regexp.MustCompile(`-+`)
)

// DefaultSlug is used when a name has no latin letters or digits left.
const DefaultSlug = "publication"

// Slugify turns a publication name into its URL slug.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(strings.TrimSpace(s), "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return DefaultSlug
	}
	return s
}
