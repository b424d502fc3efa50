package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// guidRegex matches the canonical 8-4-4-4-12 hex GUID form used by Atlan.
var guidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// placeholderRegex matches the negative-number placeholders used for assets
// that have not been created yet.
var placeholderRegex = regexp.MustCompile(`^-[0-9]+$`)

// ValidateGUID validates an asset GUID.
// Both real GUIDs and creation placeholders ("-1234") are accepted.
func ValidateGUID(guid string) error {
	if guid == "" {
		return New(ErrCodeInvalidInput, "GUID cannot be empty")
	}
	if !guidRegex.MatchString(guid) && !placeholderRegex.MatchString(guid) {
		return New(ErrCodeInvalidInput, "invalid GUID: %q", guid)
	}
	return nil
}

// ValidateQualifiedName validates a qualified name for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 2048 characters
//
// Qualified names are otherwise free-form: connectors embed slashes, dots and
// quotes in them.
func ValidateQualifiedName(qn string) error {
	if strings.TrimSpace(qn) == "" {
		return New(ErrCodeInvalidInput, "qualified name cannot be empty")
	}
	if len(qn) > 2048 {
		return New(ErrCodeInvalidInput, "qualified name too long (max 2048 characters)")
	}
	for _, r := range qn {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "qualified name contains invalid control characters")
		}
	}
	return nil
}

// typeNameRegex matches Atlas type names (Table, AtlasGlossaryTerm, ...).
var typeNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidateTypeName validates an asset type name.
func ValidateTypeName(typeName string) error {
	if typeName == "" {
		return New(ErrCodeInvalidInput, "type name cannot be empty")
	}
	if !typeNameRegex.MatchString(typeName) {
		return New(ErrCodeInvalidInput, "invalid type name: %q", typeName)
	}
	return nil
}

// ValidateBaseURL validates the tenant base URL.
// It ensures the URL has a safe scheme (http or https) and a host.
func ValidateBaseURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "base URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidConfig, err, "invalid base URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidConfig, "base URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidConfig, "base URL must include a host")
	}
	return nil
}
