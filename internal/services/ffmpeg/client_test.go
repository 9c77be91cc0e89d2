package ffmpeg

import (
	"context"
	"os/exec"
	"strings"
	"testing"
)

func captureCommand(t *testing.T, script string, captured *[]string) func() {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		*captured = append([]string{name}, args...)
		return exec.CommandContext(ctx, "sh", "-c", script)
	}
	return func() { commandContext = original }
}

func TestTranscodeArguments(t *testing.T) {
	var captured []string
	restore := captureCommand(t, `true`, &captured)
	defer restore()

	cli := NewCLI(WithBinary("custom-ffmpeg"))
	err := cli.Transcode(context.Background(), "/tmp/in.webm", "/tmp/out.flac", 8)
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}

	joined := strings.Join(captured, " ")
	for _, want := range []string{
		"custom-ffmpeg",
		"-i /tmp/in.webm",
		"-acodec flac",
		"-compression_level 8",
		"-y",
		"/tmp/out.flac",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("invocation %q missing %q", joined, want)
		}
	}
}

func TestTranscodeCarriesStderrOnFailure(t *testing.T) {
	var captured []string
	restore := captureCommand(t, `printf 'Invalid data found' >&2; exit 1`, &captured)
	defer restore()

	err := NewCLI().Transcode(context.Background(), "/tmp/in.webm", "/tmp/out.flac", 8)
	if err == nil {
		t.Fatal("expected transcode error")
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("error %q does not carry stderr", err)
	}
}

func TestTranscodeRequiresPaths(t *testing.T) {
	cli := NewCLI()
	if err := cli.Transcode(context.Background(), "", "/tmp/out.flac", 8); err == nil {
		t.Fatal("expected error for empty input path")
	}
	if err := cli.Transcode(context.Background(), "/tmp/in.webm", "", 8); err == nil {
		t.Fatal("expected error for empty output path")
	}
}

func TestVersionReturnsFirstLine(t *testing.T) {
	var captured []string
	restore := captureCommand(t, `printf 'ffmpeg version 7.1\nbuilt with gcc\n'`, &captured)
	defer restore()

	version, err := NewCLI().Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version != "ffmpeg version 7.1" {
		t.Fatalf("version = %q", version)
	}
	if captured[1] != "-version" {
		t.Fatalf("expected -version query, got %v", captured)
	}
}
