package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"lathe/internal/config"
	"lathe/internal/deps"
	"lathe/internal/fetch"
	"lathe/internal/ledger"
	"lathe/internal/logging"
	"lathe/internal/media"
	"lathe/internal/notifications"
	"lathe/internal/services/ffmpeg"
	"lathe/internal/services/ytdlp"
	"lathe/internal/transcode"
	"lathe/internal/workflow"
)

func newRipCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rip [url]",
		Short: "Download a video's audio track and press it to FLAC",
		Long: `Rip downloads the best available audio stream for a single YouTube URL
and transcodes it to FLAC. The URL can be passed as an argument or entered
at the prompt.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runRip(cmd, cfg, args)
		},
	}
}

func runRip(cmd *cobra.Command, cfg *config.Config, args []string) error {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintln(out, renderSectionHeader("YouTube to FLAC", colorize))

	statuses := deps.Check(cmd.Context(), deps.Requirements(cfg.Tools.YtDlpBinary, cfg.Tools.FFmpegBinary))
	for _, status := range statuses {
		kind := statusOK
		detail := status.Version
		if !status.Available {
			kind = statusError
			detail = status.Detail
		}
		fmt.Fprintln(out, renderStatusLine(status.Name, kind, detail, colorize))
	}
	if !deps.AllAvailable(statuses) {
		return fmt.Errorf("%w: install the tools marked ERROR and retry", deps.ErrMissingDependency)
	}

	url, err := resolveURL(cmd, args)
	if err != nil {
		return err
	}
	if err := media.ValidateURL(url); err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.EnsureLogDir(); err != nil {
		return err
	}
	logWriter := io.Writer(cmd.ErrOrStderr())
	logFile, err := os.OpenFile(filepath.Join(cfg.Paths.LogDir, "lathe.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err == nil {
		defer logFile.Close()
		logWriter = io.MultiWriter(logWriter, logFile)
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: logWriter,
	})
	if err != nil {
		return err
	}

	store, err := ledger.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	extractor := ytdlp.NewCLI(ytdlp.WithBinary(cfg.Tools.YtDlpBinary))
	encoder := ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.Tools.FFmpegBinary))
	manager := workflow.NewManager(cfg, store,
		fetch.New(cfg, extractor, logger),
		transcode.New(cfg, encoder, logger),
		notifications.NewService(cfg),
		logger)

	run, err := manager.Run(runCtx, url)
	switch {
	case errors.Is(err, workflow.ErrInterrupted):
		fmt.Fprintln(out, renderStatusLine("Rip", statusWarn, "interrupted", colorize))
		return err
	case err != nil:
		return err
	}

	fmt.Fprintln(out, renderStatusLine("Title", statusInfo, run.Title, colorize))
	if size := fileSize(run.OutputFile); size != "" {
		fmt.Fprintln(out, renderStatusLine("Output", statusOK,
			fmt.Sprintf("%s (%s)", run.OutputFile, size), colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Output", statusOK, run.OutputFile, colorize))
	}
	return nil
}

// resolveURL takes the URL from the argument list or prompts for one.
func resolveURL(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}
	fmt.Fprint(cmd.OutOrStdout(), "Enter YouTube URL: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read url: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func fileSize(path string) string {
	if path == "" {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return humanize.IBytes(uint64(info.Size()))
}
