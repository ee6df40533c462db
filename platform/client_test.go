package platform

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/api/youtube/v3"
)

func TestResolveChannelIDCanonical(t *testing.T) {
	// Canonical ids never touch the network, so a client without a service is
	// fine here.
	c := &Client{}

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"bare id", "UCuAXFkgsw1L7xaCfnd5JJOw", "UCuAXFkgsw1L7xaCfnd5JJOw"},
		{"channel URL", "https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw", "UCuAXFkgsw1L7xaCfnd5JJOw"},
		{"channel URL with suffix", "https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw/videos", "UCuAXFkgsw1L7xaCfnd5JJOw"},
		{"empty", "", ""},
		{"whitespace", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ResolveChannelID(context.Background(), tt.ref)
			if err != nil {
				t.Fatalf("ResolveChannelID(%q) error = %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("ResolveChannelID(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestExtractHandle(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"@SomeCreator", "@SomeCreator"},
		{"https://www.youtube.com/@SomeCreator", "@SomeCreator"},
		{"https://www.youtube.com/@SomeCreator/videos", "@SomeCreator"},
		{"https://www.youtube.com/@SomeCreator?tab=videos", "@SomeCreator"},
		{"https://www.youtube.com/channel/UCx", ""},
		{"plain name", ""},
	}

	for _, tt := range tests {
		if got := extractHandle(tt.ref); got != tt.want {
			t.Errorf("extractHandle(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestExtractLegacyUser(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"https://www.youtube.com/user/oldschool", "oldschool"},
		{"https://www.youtube.com/user/oldschool/videos", "oldschool"},
		{"https://www.youtube.com/user/oldschool?view=0", "oldschool"},
		{"https://www.youtube.com/@handle", ""},
	}

	for _, tt := range tests {
		if got := extractLegacyUser(tt.ref); got != tt.want {
			t.Errorf("extractLegacyUser(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestSearchTerm(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"The History Channel With A Long Name", "The History Channel With A Long Name"},
		{"https://www.youtube.com/c/SomeChannel", "SomeChannel"},
		{"https://www.youtube.com/c/SomeChannel/featured", "SomeChannel"},
		{"@RawHandle", "RawHandle"},
	}

	for _, tt := range tests {
		if got := searchTerm(tt.ref); got != tt.want {
			t.Errorf("searchTerm(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestCheckQuotaReserve(t *testing.T) {
	c := &Client{
		estimatedQuota: 150,
		quotaReserve:   100,
		lastQuotaReset: time.Now(),
	}

	if err := c.checkQuota(quotaCostList); err != nil {
		t.Errorf("list within budget rejected: %v", err)
	}
	if err := c.checkQuota(quotaCostSearch); !errors.Is(err, ErrQuotaExhausted) {
		t.Errorf("search breaching reserve = %v, want ErrQuotaExhausted", err)
	}

	c.trackQuotaUsage(60)
	if err := c.checkQuota(quotaCostList); !errors.Is(err, ErrQuotaExhausted) {
		t.Errorf("call after exhaustion = %v, want ErrQuotaExhausted", err)
	}
}

func TestQuotaDailyReset(t *testing.T) {
	c := &Client{
		estimatedQuota: 0,
		quotaExhausted: true,
		lastQuotaReset: time.Now().Add(-25 * time.Hour),
	}

	if err := c.checkQuota(quotaCostList); err != nil {
		t.Errorf("checkQuota after daily reset = %v, want nil", err)
	}
	if got := c.RemainingQuota(); got != dailyQuota-0 {
		t.Errorf("RemainingQuota() after reset = %d, want %d", got, dailyQuota)
	}
}

func TestSnapshotVideoFromAPI(t *testing.T) {
	item := &youtube.Video{
		Id: "vid123",
		Snippet: &youtube.VideoSnippet{
			Title:       "Sample Upload",
			PublishedAt: "2025-06-01T10:00:00Z",
			Thumbnails: &youtube.ThumbnailDetails{
				Medium: &youtube.Thumbnail{Url: "https://i.ytimg.com/vi/vid123/mq.jpg"},
			},
		},
		Statistics: &youtube.VideoStatistics{
			ViewCount:    1200,
			LikeCount:    80,
			CommentCount: 14,
		},
		ContentDetails: &youtube.VideoContentDetails{Duration: "PT9M30S"},
	}

	v := snapshotVideoFromAPI(item)
	if v.ID != "vid123" || v.Title != "Sample Upload" {
		t.Errorf("identity fields = %q/%q", v.ID, v.Title)
	}
	if v.ThumbnailURL != "https://i.ytimg.com/vi/vid123/mq.jpg" {
		t.Errorf("ThumbnailURL = %q", v.ThumbnailURL)
	}
	if v.Stats.ViewCount != 1200 || v.Stats.LikeCount != 80 || v.Stats.CommentCount != 14 {
		t.Errorf("Stats = %+v", v.Stats)
	}
	if v.Duration != "9:30" {
		t.Errorf("Duration = %q, want 9:30", v.Duration)
	}
}

func TestSnapshotVideoFromAPISparse(t *testing.T) {
	v := snapshotVideoFromAPI(&youtube.Video{Id: "bare"})
	if v.ID != "bare" {
		t.Errorf("ID = %q", v.ID)
	}
	if v.Title != "" || v.ThumbnailURL != "" || v.Duration != "" {
		t.Errorf("sparse item should leave fields empty, got %+v", v)
	}
}

func TestIsQuotaError(t *testing.T) {
	if !isQuotaError(errors.New("googleapi: Error 403: quotaExceeded")) {
		t.Error("quotaExceeded not detected")
	}
	if !isQuotaError(errors.New("dailyLimitExceeded")) {
		t.Error("dailyLimitExceeded not detected")
	}
	if isQuotaError(errors.New("connection refused")) {
		t.Error("transport error misclassified as quota")
	}
	if isQuotaError(nil) {
		t.Error("nil misclassified")
	}
}

func TestFetchErrorUnwrap(t *testing.T) {
	err := &FetchError{Op: "snapshot", Ref: "UCx", Err: ErrChannelNotFound}
	if !errors.Is(err, ErrChannelNotFound) {
		t.Error("FetchError should unwrap to its cause")
	}
	if got := err.Error(); got == "" {
		t.Error("empty error string")
	}
}
