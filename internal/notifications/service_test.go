package notifications

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"lathe/internal/testsupport"
)

func TestUnconfiguredServiceIsNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := NewService(cfg)
	if _, ok := svc.(noopService); !ok {
		t.Fatalf("expected noop service, got %T", svc)
	}
	ctx := context.Background()
	if err := svc.NotifyFetchCompleted(ctx, "Test Song"); err != nil {
		t.Fatalf("noop fetch: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("boom"), "fetch"); err != nil {
		t.Fatalf("noop error: %v", err)
	}
}

func TestPublishSendsTitleAndBody(t *testing.T) {
	var (
		gotTitle string
		gotTags  string
		gotBody  string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("X-Title")
		gotTags = r.Header.Get("X-Tags")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	svc := NewService(cfg)
	if err := svc.NotifyRunCompleted(context.Background(), "Test Song", "/music/Test Song.flac"); err != nil {
		t.Fatalf("NotifyRunCompleted: %v", err)
	}
	if gotTitle != "FLAC ready" {
		t.Fatalf("title = %q", gotTitle)
	}
	if gotTags != "white_check_mark" {
		t.Fatalf("tags = %q", gotTags)
	}
	if gotBody != "Test Song\n/music/Test Song.flac" {
		t.Fatalf("body = %q", gotBody)
	}
}

func TestErrorNotificationsUseHighPriority(t *testing.T) {
	var gotPriority string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPriority = r.Header.Get("X-Priority")
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	svc := NewService(cfg)
	if err := svc.NotifyError(context.Background(), errors.New("ffmpeg exited 1"), "transcode"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}
	if gotPriority != "high" {
		t.Fatalf("priority = %q", gotPriority)
	}
}

func TestDisabledEventsAreSkipped(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	cfg.Notifications.Fetch = false
	svc := NewService(cfg)
	if err := svc.NotifyFetchCompleted(context.Background(), "Test Song"); err != nil {
		t.Fatalf("NotifyFetchCompleted: %v", err)
	}
	if requests != 0 {
		t.Fatalf("expected no requests, got %d", requests)
	}
}

func TestRejectedNotificationReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	if err := NewService(cfg).TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for rejected notification")
	}
}

func TestBareTopicGetsNtfyEndpoint(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic("lathe-rips"))
	svc, ok := NewService(cfg).(*ntfyService)
	if !ok {
		t.Fatalf("expected ntfy service, got %T", NewService(cfg))
	}
	if svc.endpoint != "https://ntfy.sh/lathe-rips" {
		t.Fatalf("endpoint = %q", svc.endpoint)
	}
}
