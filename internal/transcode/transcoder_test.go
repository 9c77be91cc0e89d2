package transcode

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"lathe/internal/testsupport"
)

type fakeEncoder struct {
	err       error
	lastInput string
	lastLevel int
}

func (f *fakeEncoder) Transcode(ctx context.Context, inputPath, outputPath string, compressionLevel int) error {
	f.lastInput = inputPath
	f.lastLevel = compressionLevel
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outputPath, []byte("flac-bytes"), 0o644)
}

func (f *fakeEncoder) Version(ctx context.Context) (string, error) {
	return "ffmpeg version test", nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeInput(t *testing.T, dir, name string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("audio-bytes"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func TestTranscodeSuccessRemovesSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	input := writeInput(t, cfg.Paths.DownloadDir, "Test Song.webm")
	encoder := &fakeEncoder{}

	output, err := New(cfg, encoder, discardLogger()).Transcode(context.Background(), input)
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if filepath.Base(output) != "Test Song.flac" {
		t.Fatalf("output = %q", output)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if _, err := os.Stat(input); !os.IsNotExist(err) {
		t.Fatal("source file should be removed after a successful transcode")
	}
	if encoder.lastLevel != cfg.Tools.CompressionLevel {
		t.Fatalf("compression level = %d, want %d", encoder.lastLevel, cfg.Tools.CompressionLevel)
	}
}

func TestTranscodeFailureKeepsSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	input := writeInput(t, cfg.Paths.DownloadDir, "Test Song.webm")
	encoder := &fakeEncoder{err: errors.New("invalid data")}

	_, err := New(cfg, encoder, discardLogger()).Transcode(context.Background(), input)
	if err == nil {
		t.Fatal("expected transcode error")
	}
	if _, statErr := os.Stat(input); statErr != nil {
		t.Fatalf("source file must survive a failed transcode: %v", statErr)
	}
}

func TestTranscodeKeepSourceConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithKeepSource())
	input := writeInput(t, cfg.Paths.DownloadDir, "Test Song.webm")

	output, err := New(cfg, &fakeEncoder{}, discardLogger()).Transcode(context.Background(), input)
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if _, err := os.Stat(input); err != nil {
		t.Fatalf("source should be retained with keep_source: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}

func TestTranscodeOverwritesExistingOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	input := writeInput(t, cfg.Paths.DownloadDir, "Test Song.webm")
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		t.Fatalf("mkdir output: %v", err)
	}
	existing := filepath.Join(cfg.Paths.OutputDir, "Test Song.flac")
	if err := os.WriteFile(existing, []byte("old"), 0o644); err != nil {
		t.Fatalf("write existing: %v", err)
	}

	output, err := New(cfg, &fakeEncoder{}, discardLogger()).Transcode(context.Background(), input)
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "flac-bytes" {
		t.Fatalf("output not overwritten: %q", data)
	}
}
