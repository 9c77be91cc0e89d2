package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := Load(missing)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config to report exists=false")
	}
	if resolved != missing {
		t.Fatalf("resolved path %q, want %q", resolved, missing)
	}
	if cfg.Tools.YtDlpBinary != "yt-dlp" || cfg.Tools.FFmpegBinary != "ffmpeg" {
		t.Fatalf("unexpected tool defaults: %+v", cfg.Tools)
	}
	if cfg.Tools.CompressionLevel != 8 {
		t.Fatalf("compression level default = %d, want 8", cfg.Tools.CompressionLevel)
	}
	if !filepath.IsAbs(cfg.Paths.DownloadDir) {
		t.Fatalf("download dir not expanded: %q", cfg.Paths.DownloadDir)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
download_dir = "` + filepath.Join(dir, "dl") + `"
output_dir = "` + filepath.Join(dir, "out") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[tools]
compression_level = 5
keep_source = true

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Tools.CompressionLevel != 5 {
		t.Fatalf("compression level = %d, want 5", cfg.Tools.CompressionLevel)
	}
	if !cfg.Tools.KeepSource {
		t.Fatal("expected keep_source to be true")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Paths.DownloadDir != filepath.Join(dir, "dl") {
		t.Fatalf("download dir = %q", cfg.Paths.DownloadDir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"compression too high", func(c *Config) { c.Tools.CompressionLevel = 13 }, "compression_level"},
		{"compression negative", func(c *Config) { c.Tools.CompressionLevel = -1 }, "compression_level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"empty download dir", func(c *Config) { c.Paths.DownloadDir = "" }, "download_dir"},
		{"zero notify timeout", func(c *Config) { c.Notifications.RequestTimeout = 0 }, "request_timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestEnsureLogDirOnly(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.DownloadDir = filepath.Join(base, "dl")
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureLogDir(); err != nil {
		t.Fatalf("EnsureLogDir: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.LogDir); err != nil {
		t.Fatalf("log dir not created: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DownloadDir, cfg.Paths.OutputDir} {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Fatalf("directory %q should not exist yet", dir)
		}
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample config not detected")
	}
	if cfg.Tools.CompressionLevel != 8 {
		t.Fatalf("sample compression level = %d", cfg.Tools.CompressionLevel)
	}
}
