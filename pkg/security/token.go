package security

import (
	"regexp"
	"strings"
)

var (
	unsafeTokenChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	jwtPattern       = regexp.MustCompile(`^[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+$`)
)

// TokenValidator provides validation and handling of API credentials
type TokenValidator struct {
	minLength int
	maxLength int
}

// NewTokenValidator creates a new validator with reasonable defaults
func NewTokenValidator() *TokenValidator {
	return &TokenValidator{
		minLength: 8,
		maxLength: 1024,
	}
}

// SanitizeToken trims whitespace, drops a leading "Bearer " and removes
// characters that could be used for header injection.
func (v *TokenValidator) SanitizeToken(token string) string {
	token = strings.TrimSpace(token)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return unsafeTokenChars.ReplaceAllString(token, "")
}

// ValidateToken checks length constraints and the allowed alphabet
func (v *TokenValidator) ValidateToken(token string) bool {
	if len(token) < v.minLength || len(token) > v.maxLength {
		return false
	}
	return !unsafeTokenChars.MatchString(token)
}

// IsValidTMDBToken accepts a v4 read access token (JWT). v3 API keys are
// rejected: TMDB does not accept them as a bearer token.
func (v *TokenValidator) IsValidTMDBToken(token string) bool {
	if !v.ValidateToken(token) {
		return false
	}
	return jwtPattern.MatchString(token)
}

// MaskToken creates a masked version for logging (shows only first/last few chars)
func (v *TokenValidator) MaskToken(token string) string {
	if len(token) == 0 {
		return "[empty]"
	}

	if len(token) <= 8 {
		return "[***]"
	}

	return token[:3] + "..." + token[len(token)-3:]
}
