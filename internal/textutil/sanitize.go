package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// titleReplacer maps characters common filesystems reject to underscores.
var titleReplacer = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	"\"", "_",
	"/", "_",
	"\\", "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

// SanitizeTitle converts a media title into a filesystem-safe file stem.
// Unsafe characters become underscores, runs of underscores collapse to one,
// and leading/trailing underscores and dots are trimmed. The function is
// idempotent: sanitizing an already-sanitized title returns it unchanged.
func SanitizeTitle(title string) string {
	out := titleReplacer.Replace(title)
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_.")
}

// NormalizeForMatch applies NFC normalization so filenames written by
// external tools compare equal regardless of unicode composition form.
func NormalizeForMatch(name string) string {
	return norm.NFC.String(name)
}
