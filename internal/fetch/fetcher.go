package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"lathe/internal/config"
	"lathe/internal/media"
	"lathe/internal/services/ytdlp"
	"lathe/internal/textutil"
)

// Result describes a completed fetch: the downloaded file and the metadata
// used to name it.
type Result struct {
	Path string
	Item media.Item
}

// Fetcher retrieves the best available audio stream for a validated URL.
type Fetcher struct {
	cfg    *config.Config
	client ytdlp.Client
	logger *slog.Logger
}

// New constructs a Fetcher.
func New(cfg *config.Config, client ytdlp.Client, logger *slog.Logger) *Fetcher {
	return &Fetcher{cfg: cfg, client: client, logger: logger}
}

// Fetch probes metadata for the URL, downloads the best available audio
// stream into the download directory, and resolves the file that was
// produced. The output template is built from the sanitized title so the
// extractor writes the name the resolution step expects.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	downloadDir := f.cfg.Paths.DownloadDir
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create download directory: %w", err)
	}

	info, err := f.client.Probe(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("query source metadata: %w", err)
	}
	item := media.Item{
		Title:    info.Title,
		Duration: time.Duration(info.Duration * float64(time.Second)),
	}

	stem := textutil.SanitizeTitle(item.Title)
	if stem == "" {
		stem = "audio"
	}

	f.logger.Info("fetching audio",
		"title", item.Title,
		"duration", item.DisplayDuration(),
	)

	template := filepath.Join(downloadDir, stem+".%(ext)s")
	reported, err := f.client.Download(ctx, url, template)
	if err != nil {
		return nil, fmt.Errorf("download audio: %w", err)
	}

	path, err := resolveDownloaded(downloadDir, stem, reported)
	if err != nil {
		return nil, err
	}

	if fi, statErr := os.Stat(path); statErr == nil {
		f.logger.Info("download complete",
			"file", filepath.Base(path),
			"size", humanize.IBytes(uint64(fi.Size())),
		)
	}

	return &Result{Path: path, Item: item}, nil
}
