package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"lathe/internal/config"
	"lathe/internal/fetch"
	"lathe/internal/ledger"
	"lathe/internal/media"
	"lathe/internal/notifications"
)

var (
	// ErrAlreadyRunning indicates another rip holds the instance lock.
	ErrAlreadyRunning = errors.New("another rip is already running")
	// ErrInterrupted indicates the run was cut short by a signal.
	ErrInterrupted = errors.New("rip interrupted")
)

type fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

type transcoder interface {
	Transcode(ctx context.Context, inputPath string) (string, error)
}

// Manager drives a single rip through its stages and records every
// transition in the ledger.
type Manager struct {
	cfg        *config.Config
	store      *ledger.Store
	fetcher    fetcher
	transcoder transcoder
	notifier   notifications.Service
	logger     *slog.Logger
	lock       *flock.Flock
}

// NewManager wires the stages together. The instance lock lives next to the
// ledger in the log directory.
func NewManager(cfg *config.Config, store *ledger.Store, f fetcher, t transcoder, notifier notifications.Service, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:        cfg,
		store:      store,
		fetcher:    f,
		transcoder: t,
		notifier:   notifier,
		logger:     logger,
		lock:       flock.New(filepath.Join(cfg.Paths.LogDir, "lathe.lock")),
	}
}

// Run validates the URL, then fetches and transcodes it under the instance
// lock. The returned run reflects the final ledger state; it is nil only when
// validation or locking failed before a run was recorded.
func (m *Manager) Run(ctx context.Context, rawURL string) (*ledger.Run, error) {
	url := strings.TrimSpace(rawURL)
	if err := media.ValidateURL(url); err != nil {
		return nil, err
	}

	if err := m.cfg.EnsureLogDir(); err != nil {
		return nil, err
	}
	locked, err := m.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return nil, ErrAlreadyRunning
	}
	defer m.lock.Unlock()

	run, err := m.store.NewRun(ctx, url)
	if err != nil {
		return nil, err
	}
	logger := m.logger.With("run_id", run.RunID)
	logger.Info("starting rip", "url", url)

	run.Status = ledger.StatusFetching
	if err := m.persist(ctx, run); err != nil {
		return run, err
	}
	result, err := m.fetcher.Fetch(ctx, url)
	if err != nil {
		return m.fail(ctx, run, logger, err, "fetch")
	}

	run.Title = result.Item.Title
	run.DurationSeconds = int64(result.Item.Duration.Seconds())
	run.SourceFile = result.Path
	run.Status = ledger.StatusFetched
	if err := m.persist(ctx, run); err != nil {
		return run, err
	}
	if err := m.notifier.NotifyFetchCompleted(ctx, run.Title); err != nil {
		logger.Warn("fetch notification failed", "error", err)
	}

	run.Status = ledger.StatusTranscoding
	if err := m.persist(ctx, run); err != nil {
		return run, err
	}
	outputPath, err := m.transcoder.Transcode(ctx, result.Path)
	if err != nil {
		return m.fail(ctx, run, logger, err, "transcode")
	}

	run.OutputFile = outputPath
	run.Status = ledger.StatusCompleted
	if err := m.persist(ctx, run); err != nil {
		return run, err
	}
	logger.Info("rip complete", "output", outputPath)
	if err := m.notifier.NotifyRunCompleted(ctx, run.Title, outputPath); err != nil {
		logger.Warn("completion notification failed", "error", err)
	}
	return run, nil
}

// fail records a terminal failure. Commands run through exec report a kill
// as "signal: killed" rather than the context error, so an interrupt is
// detected from the context itself.
func (m *Manager) fail(ctx context.Context, run *ledger.Run, logger *slog.Logger, err error, stage string) (*ledger.Run, error) {
	if ctx.Err() != nil {
		err = fmt.Errorf("%w during %s: %v", ErrInterrupted, stage, err)
	} else {
		err = fmt.Errorf("%s failed: %w", stage, err)
	}
	run.SetFailed(err.Error())
	if persistErr := m.persist(context.WithoutCancel(ctx), run); persistErr != nil {
		logger.Error("could not record failure", "error", persistErr)
	}
	logger.Error("rip failed", "stage", stage, "error", err)
	if notifyErr := m.notifier.NotifyError(context.WithoutCancel(ctx), err, stage); notifyErr != nil {
		logger.Warn("error notification failed", "error", notifyErr)
	}
	return run, err
}

func (m *Manager) persist(ctx context.Context, run *ledger.Run) error {
	if err := m.store.Update(ctx, run); err != nil {
		return fmt.Errorf("record run state: %w", err)
	}
	return nil
}
