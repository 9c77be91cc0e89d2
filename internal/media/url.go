package media

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidURL reports input that does not look like a supported source URL.
var ErrInvalidURL = errors.New("not a recognized YouTube URL")

// sourcePatterns covers the primary domain, the short-link domain, and the
// mobile and music subdomains, scheme-flexible with optional www.
var sourcePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(www\.)?(youtube\.com|youtu\.be)/`),
	regexp.MustCompile(`^https?://m\.youtube\.com/`),
	regexp.MustCompile(`^https?://music\.youtube\.com/`),
}

// ValidateURL accepts a raw user-entered string and reports whether it
// matches a known source URL shape. No network access is performed.
func ValidateURL(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fmt.Errorf("%w: empty input", ErrInvalidURL)
	}
	for _, pattern := range sourcePatterns {
		if pattern.MatchString(trimmed) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidURL, trimmed)
}
