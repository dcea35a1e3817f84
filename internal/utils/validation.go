package utils

import (
	"regexp"
	"strings"
)

// ValidationErrors collects every human-readable problem with an input
// rather than failing on the first one. It is returned to the caller
// as a value, never raised mid-write.
type ValidationErrors []string

func (ve ValidationErrors) Error() string {
	return strings.Join(ve, "; ")
}

func (ve ValidationErrors) Messages() []string {
	return []string(ve)
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,32}$`)
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func ParseInputString(s string) string {
	return strings.TrimSpace(s)
}

func ValidateRegistration(username, email, password, firstName, lastName string) ValidationErrors {
	var errs ValidationErrors
	if username == "" {
		errs = append(errs, "A username is required to register.")
	} else if !usernamePattern.MatchString(username) {
		errs = append(errs, "Usernames must be 3-32 characters of letters, numbers, hyphens or underscores.")
	}
	if email == "" {
		errs = append(errs, "An email address is required to register.")
	} else if !emailPattern.MatchString(email) {
		errs = append(errs, "The email address doesn't look valid.")
	}
	if len(password) < 8 {
		errs = append(errs, "Passwords must be at least 8 characters long.")
	}
	if firstName == "" {
		errs = append(errs, "A first name is required to register.")
	}
	if lastName == "" {
		errs = append(errs, "A last name is required to register.")
	}
	return errs
}

func ValidateLogin(username, password string) ValidationErrors {
	var errs ValidationErrors
	if username == "" {
		errs = append(errs, "A username is required to log in.")
	}
	if password == "" {
		errs = append(errs, "A password is required to log in.")
	}
	return errs
}

const (
	maxBioLength   = 280
	maxTagLength   = 64
	maxProfileTags = 20
)

func ValidateProfileUpdate(bio string, hobbies, interests []string) ValidationErrors {
	var errs ValidationErrors
	if len(bio) > maxBioLength {
		errs = append(errs, "Bios are limited to 280 characters.")
	}
	if len(hobbies) > maxProfileTags {
		errs = append(errs, "You can list at most 20 hobbies.")
	}
	if len(interests) > maxProfileTags {
		errs = append(errs, "You can list at most 20 interests.")
	}
	for _, h := range hobbies {
		if ParseInputString(h) == "" {
			errs = append(errs, "Hobbies cannot be blank.")
			break
		}
		if len(h) > maxTagLength {
			errs = append(errs, "Hobbies are limited to 64 characters each.")
			break
		}
	}
	for _, i := range interests {
		if ParseInputString(i) == "" {
			errs = append(errs, "Interests cannot be blank.")
			break
		}
		if len(i) > maxTagLength {
			errs = append(errs, "Interests are limited to 64 characters each.")
			break
		}
	}
	return errs
}
