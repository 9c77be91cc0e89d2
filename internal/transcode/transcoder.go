package transcode

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"lathe/internal/config"
	"lathe/internal/services/ffmpeg"
)

// Transcoder presses a downloaded audio file into a FLAC in the output
// directory and retires the source file afterwards.
type Transcoder struct {
	cfg    *config.Config
	client ffmpeg.Client
	logger *slog.Logger
}

// New constructs a Transcoder.
func New(cfg *config.Config, client ffmpeg.Client, logger *slog.Logger) *Transcoder {
	return &Transcoder{cfg: cfg, client: client, logger: logger}
}

// Transcode converts inputPath to FLAC and returns the output path. The
// output name is the input's stem with a .flac extension; an existing file
// there is overwritten. On success the input file is deleted unless the
// config retains sources; a failed deletion is logged and does not fail the
// run. On failure the input file is left in place for manual recovery.
func (t *Transcoder) Transcode(ctx context.Context, inputPath string) (string, error) {
	outputDir := t.cfg.Paths.OutputDir
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	outputPath := filepath.Join(outputDir, stem+".flac")

	t.logger.Info("transcoding to flac",
		"file", base,
		"output", filepath.Base(outputPath),
	)

	if err := t.client.Transcode(ctx, inputPath, outputPath, t.cfg.Tools.CompressionLevel); err != nil {
		return "", err
	}

	if fi, statErr := os.Stat(outputPath); statErr == nil {
		t.logger.Info("transcode complete",
			"output", filepath.Base(outputPath),
			"size", humanize.IBytes(uint64(fi.Size())),
		)
	}

	if t.cfg.Tools.KeepSource {
		return outputPath, nil
	}
	if err := os.Remove(inputPath); err != nil {
		t.logger.Warn("could not remove source file", "file", inputPath, "error", err)
	} else {
		t.logger.Debug("removed source file", "file", base)
	}

	return outputPath, nil
}
