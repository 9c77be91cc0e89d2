package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// Info is the subset of extractor metadata lathe consumes.
type Info struct {
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
}

// Client defines the media extraction surface.
type Client interface {
	// Probe queries metadata for the URL without downloading anything.
	Probe(ctx context.Context, url string) (Info, error)
	// Download fetches the best available audio stream into the given
	// output template and returns the final file path as reported by the
	// extractor, or an empty string when it was not reported.
	Download(ctx context.Context, url, outputTemplate string) (string, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the yt-dlp command-line extractor.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "yt-dlp"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Probe runs a metadata-only extraction and parses title and duration.
func (c *CLI) Probe(ctx context.Context, url string) (Info, error) {
	if strings.TrimSpace(url) == "" {
		return Info{}, errors.New("url required")
	}

	args := []string{"-J", "--no-warnings", "--skip-download", "--no-playlist", url}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Info{}, fmt.Errorf("yt-dlp metadata query: %w: %s", err, diagnostic(&stderr))
	}

	var info Info
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return Info{}, fmt.Errorf("parse yt-dlp metadata: %w", err)
	}
	if strings.TrimSpace(info.Title) == "" {
		info.Title = "Unknown"
	}
	return info, nil
}

// Download requests the best available audio-only or combined stream,
// excluding playlist expansion, and asks yt-dlp to print the final path of
// the file it wrote.
func (c *CLI) Download(ctx context.Context, url, outputTemplate string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", errors.New("url required")
	}
	if strings.TrimSpace(outputTemplate) == "" {
		return "", errors.New("output template required")
	}

	args := []string{
		"--format", "bestaudio/best",
		"--no-playlist",
		"--no-warnings",
		"--output", outputTemplate,
		"--no-simulate",
		"--print", "after_move:filepath",
		url,
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("yt-dlp download: %w: %s", err, diagnostic(&stderr))
	}

	// The printed path is the last non-empty stdout line.
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line, nil
		}
	}
	return "", nil
}

func diagnostic(stderr *bytes.Buffer) string {
	text := strings.TrimSpace(stderr.String())
	if text == "" {
		return "(no diagnostic output)"
	}
	return text
}

var _ Client = (*CLI)(nil)
