package deps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// ErrMissingDependency indicates a required external tool is unavailable.
var ErrMissingDependency = errors.New("required external tool missing")

// Requirement defines an external tool lathe relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	// VersionArg is passed to the binary to confirm it responds, e.g.
	// "--version" for yt-dlp or "-version" for ffmpeg.
	VersionArg string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Version     string
	Detail      string
}

// Requirements returns the external tools needed for a rip, resolved from
// the configured binary names.
func Requirements(ytdlpBinary, ffmpegBinary string) []Requirement {
	return []Requirement{
		{
			Name:        "yt-dlp",
			Command:     ytdlpBinary,
			Description: "media extraction",
			VersionArg:  "--version",
		},
		{
			Name:        "FFmpeg",
			Command:     ffmpegBinary,
			Description: "FLAC transcoding",
			VersionArg:  "-version",
		},
	}
}

// Check evaluates the provided requirements: each binary must resolve on
// PATH and answer its version query.
func Check(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		command := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     command,
			Description: strings.TrimSpace(req.Description),
		}
		if command == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(command)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", command)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		version, err := probeVersion(ctx, resolved, req.VersionArg)
		if err != nil {
			status.Detail = fmt.Sprintf("version query failed: %v", err)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Version = version
		results = append(results, status)
	}
	return results
}

// AllAvailable reports whether every checked dependency is usable.
func AllAvailable(statuses []Status) bool {
	for _, status := range statuses {
		if !status.Available {
			return false
		}
	}
	return len(statuses) > 0
}

// probeVersion runs the binary's version query and returns the first output
// line, which is how both yt-dlp and ffmpeg report themselves.
func probeVersion(ctx context.Context, command, versionArg string) (string, error) {
	if versionArg == "" {
		return "", nil
	}
	cmd := commandContext(ctx, command, versionArg)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(out.String(), "\n")
	return strings.TrimSpace(line), nil
}
