package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// Client defines the transcoding surface.
type Client interface {
	// Transcode decodes inputPath and encodes it as FLAC at outputPath,
	// overwriting any existing file there.
	Transcode(ctx context.Context, inputPath, outputPath string, compressionLevel int) error
	// Version returns the tool's version banner line.
	Version(ctx context.Context) (string, error)
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

// CLI wraps the ffmpeg command-line transcoder.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Transcode runs a lossless FLAC encode with the given compression effort.
// ffmpeg's exit status signals success; stderr carries the diagnostic text
// surfaced on failure.
func (c *CLI) Transcode(ctx context.Context, inputPath, outputPath string, compressionLevel int) error {
	if inputPath == "" {
		return errors.New("input path required")
	}
	if outputPath == "" {
		return errors.New("output path required")
	}

	args := []string{
		"-nostdin",
		"-loglevel", "error",
		"-i", inputPath,
		"-vn",
		"-acodec", "flac",
		"-compression_level", strconv.Itoa(compressionLevel),
		"-y",
		outputPath,
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = "(no diagnostic output)"
		}
		return fmt.Errorf("ffmpeg transcode: %w: %s", err, detail)
	}
	return nil
}

// Version runs ffmpeg's version query and returns the first banner line.
func (c *CLI) Version(ctx context.Context) (string, error) {
	cmd := commandContext(ctx, c.binary, "-version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg version query: %w", err)
	}
	line, _, _ := strings.Cut(out.String(), "\n")
	return strings.TrimSpace(line), nil
}

var _ Client = (*CLI)(nil)
