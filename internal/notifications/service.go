package notifications

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lathe/internal/config"
)

// Service publishes progress events for a rip. Implementations must be safe
// to call with a nil or canceled context error path.
type Service interface {
	NotifyFetchCompleted(ctx context.Context, title string) error
	NotifyRunCompleted(ctx context.Context, title, outputFile string) error
	NotifyError(ctx context.Context, err error, detail string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a Service from config. When no ntfy topic is configured
// the returned service silently drops every event.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	endpoint := topic
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://ntfy.sh/" + endpoint
	}
	return &ntfyService{
		cfg:      cfg,
		endpoint: endpoint,
		client: &http.Client{
			Timeout: time.Duration(cfg.Notifications.RequestTimeout) * time.Second,
		},
	}
}

type noopService struct{}

func (noopService) NotifyFetchCompleted(context.Context, string) error       { return nil }
func (noopService) NotifyRunCompleted(context.Context, string, string) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error         { return nil }
func (noopService) TestNotification(context.Context) error                   { return nil }

type ntfyService struct {
	cfg      *config.Config
	endpoint string
	client   *http.Client
}

type payload struct {
	title    string
	message  string
	tags     string
	priority string
}

func (s *ntfyService) NotifyFetchCompleted(ctx context.Context, title string) error {
	if !s.cfg.Notifications.Fetch {
		return nil
	}
	return s.publish(ctx, payload{
		title:   "Audio fetched",
		message: title,
		tags:    "arrow_down",
	})
}

func (s *ntfyService) NotifyRunCompleted(ctx context.Context, title, outputFile string) error {
	if !s.cfg.Notifications.Transcode {
		return nil
	}
	return s.publish(ctx, payload{
		title:   "FLAC ready",
		message: fmt.Sprintf("%s\n%s", title, outputFile),
		tags:    "white_check_mark",
	})
}

func (s *ntfyService) NotifyError(ctx context.Context, err error, detail string) error {
	if !s.cfg.Notifications.Errors {
		return nil
	}
	message := err.Error()
	if detail != "" {
		message = detail + ": " + message
	}
	return s.publish(ctx, payload{
		title:    "Rip failed",
		message:  message,
		tags:     "rotating_light",
		priority: "high",
	})
}

func (s *ntfyService) TestNotification(ctx context.Context) error {
	return s.publish(ctx, payload{
		title:   "Test notification",
		message: "Notifications are configured correctly.",
		tags:    "bell",
	})
}

func (s *ntfyService) publish(ctx context.Context, p payload) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(p.message))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("X-Title", p.title)
	if p.tags != "" {
		req.Header.Set("X-Tags", p.tags)
	}
	if p.priority != "" {
		req.Header.Set("X-Priority", p.priority)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected: %s", resp.Status)
	}
	return nil
}
