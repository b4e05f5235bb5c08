package auth

import "unicode"

// IsPasswordValid checks the sign-up password policy: at least 8 characters,
// containing an uppercase letter, a lowercase letter, a digit, and a character
// that is neither a letter, a digit, nor whitespace. An empty password is
// invalid, not an error.
func IsPasswordValid(password string) bool {
	runes := []rune(password)
	if len(runes) < 8 {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			special = true
		}
	}

	return upper && lower && digit && special
}
