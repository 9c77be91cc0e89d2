package media

import (
	"errors"
	"testing"
	"time"
)

func TestValidateURLAccepts(t *testing.T) {
	urls := []string{
		"https://www.youtube.com/watch?v=abc123",
		"http://www.youtube.com/watch?v=abc123",
		"https://youtube.com/watch?v=abc123",
		"http://youtube.com/watch?v=abc123",
		"https://youtu.be/abc123",
		"http://youtu.be/abc123",
		"https://m.youtube.com/watch?v=abc123",
		"http://m.youtube.com/watch?v=abc123",
		"https://music.youtube.com/watch?v=abc123",
		"http://music.youtube.com/watch?v=abc123",
		"  https://www.youtube.com/watch?v=abc123  ",
	}
	for _, url := range urls {
		if err := ValidateURL(url); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", url, err)
		}
	}
}

func TestValidateURLRejects(t *testing.T) {
	urls := []string{
		"",
		"   ",
		"not a url",
		"youtube.com/watch?v=abc123",
		"https://example.com/watch?v=abc123",
		"https://vimeo.com/12345",
		"ftp://youtube.com/watch",
		"https://notyoutube.com/watch",
		"https://www.youtube.com.evil.example/watch",
	}
	for _, url := range urls {
		err := ValidateURL(url)
		if err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", url)
			continue
		}
		if !errors.Is(err, ErrInvalidURL) {
			t.Errorf("ValidateURL(%q) = %v, want ErrInvalidURL", url, err)
		}
	}
}

func TestItemDisplayDuration(t *testing.T) {
	if got := (Item{Duration: 125 * time.Second}).DisplayDuration(); got != "2:05" {
		t.Fatalf("DisplayDuration = %q, want 2:05", got)
	}
	if got := (Item{}).DisplayDuration(); got != "" {
		t.Fatalf("DisplayDuration for zero = %q, want empty", got)
	}
}
