package fetch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lathe/internal/textutil"
)

var (
	// ErrDownloadMissing reports that no filesystem entry matched the
	// downloaded item's sanitized title.
	ErrDownloadMissing = errors.New("downloaded file not found")
	// ErrAmbiguousDownload reports multiple candidate entries; picking one
	// silently would risk handing the wrong file to the transcoder.
	ErrAmbiguousDownload = errors.New("multiple candidate downloads found")
)

// resolveDownloaded prefers the exact path the extractor reported and falls
// back to scanning the download directory for entries whose unicode-normalized
// name starts with the sanitized title.
func resolveDownloaded(dir, stem, reported string) (string, error) {
	if reported != "" {
		if _, err := os.Stat(reported); err == nil {
			return reported, nil
		}
	}
	return locateByPrefix(dir, stem)
}

func locateByPrefix(dir, stem string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("scan download directory: %w", err)
	}

	want := textutil.NormalizeForMatch(stem)
	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(textutil.NormalizeForMatch(entry.Name()), want) {
			matches = append(matches, filepath.Join(dir, entry.Name()))
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no entry in %s starts with %q", ErrDownloadMissing, dir, stem)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %d entries in %s start with %q", ErrAmbiguousDownload, len(matches), dir, stem)
	}
}
