package gemini

import (
	"strings"
	"testing"

	"nichescope/analysis"
)

func sampleSnapshot(videoCount int) *analysis.ChannelSnapshot {
	snap := &analysis.ChannelSnapshot{
		ID:    "UCexample",
		Title: "Example Channel",
		Stats: analysis.ChannelStats{
			ViewCount:       1_000_000,
			SubscriberCount: 25_000,
			VideoCount:      int64(videoCount),
		},
	}
	for i := 0; i < videoCount; i++ {
		snap.Videos = append(snap.Videos, analysis.SnapshotVideo{
			ID:          "vid" + string(rune('a'+i%26)),
			Title:       "Upload number " + string(rune('A'+i%26)),
			PublishedAt: "2025-05-01T00:00:00Z",
			Stats:       analysis.VideoStats{ViewCount: int64(1000 * (i + 1))},
		})
	}
	return snap
}

func TestBuildAnalysisRequestGrounded(t *testing.T) {
	snap := sampleSnapshot(20)
	req := BuildAnalysisRequest("Example Channel", snap, PromptOptions{})

	if req.Temperature != 0.7 {
		t.Errorf("Temperature = %f, want 0.7", req.Temperature)
	}
	if req.Schema != analysisSchema {
		t.Error("analysis request should carry the analysis schema")
	}
	if !strings.Contains(req.Instruction, "ground truth") {
		t.Error("grounded instruction should pin the model to verified data")
	}
	if !strings.Contains(req.Instruction, "Example Channel") {
		t.Error("instruction should name the channel")
	}
	if !strings.Contains(req.Instruction, "25000") {
		t.Error("instruction should embed the subscriber count")
	}
	if strings.Contains(req.Instruction, "simulate the most accurate data") {
		t.Error("grounded instruction must not fall back to simulation mode")
	}
	if !strings.Contains(req.Prompt, `"Example Channel"`) {
		t.Errorf("prompt should quote the query, got %q", req.Prompt)
	}
}

func TestBuildAnalysisRequestExcerptCap(t *testing.T) {
	snap := sampleSnapshot(40)
	req := BuildAnalysisRequest("q", snap, PromptOptions{ExcerptSize: 3})

	// Video 4 and beyond must not leak into the excerpt. The top-outlier
	// lines quote titles too, so count occurrences of the stats excerpt's
	// date field instead.
	if got := strings.Count(req.Instruction, `"date":"2025-05-01T00:00:00Z"`); got != 3 {
		t.Errorf("excerpt contains %d entries, want 3", got)
	}
}

func TestBuildAnalysisRequestOutlierBlock(t *testing.T) {
	snap := sampleSnapshot(10)
	req := BuildAnalysisRequest("q", snap, PromptOptions{TopOutliers: 2})

	if !strings.Contains(req.Instruction, "top outliers") {
		t.Error("instruction should include the local outlier block")
	}
	if got := strings.Count(req.Instruction, "views, z-score "); got != 2 {
		t.Errorf("outlier block has %d entries, want 2", got)
	}
}

func TestBuildAnalysisRequestSimulated(t *testing.T) {
	req := BuildAnalysisRequest("Stoicism", nil, PromptOptions{})

	if !strings.Contains(req.Instruction, "FULL-SCALE") {
		t.Error("ungrounded instruction should demand a full-scale simulation")
	}
	if strings.Contains(req.Instruction, "ground truth") {
		t.Error("ungrounded instruction must not claim verified data")
	}
}

func TestBuildForensicsRequest(t *testing.T) {
	req := BuildForensicsRequest("https://youtu.be/abc123")

	if req.Temperature != 0.5 {
		t.Errorf("Temperature = %f, want 0.5", req.Temperature)
	}
	if req.Schema != forensicsSchema {
		t.Error("forensics request should carry the forensics schema")
	}
	if !strings.Contains(req.Prompt, "https://youtu.be/abc123") {
		t.Errorf("prompt should carry the video URL, got %q", req.Prompt)
	}
}

func TestBuildDrillDownRequest(t *testing.T) {
	req := BuildDrillDownRequest("Target Channel")

	if req.Temperature != 0.6 {
		t.Errorf("Temperature = %f, want 0.6", req.Temperature)
	}
	if req.Schema != drillDownSchema {
		t.Error("drill-down request should carry the drill-down schema")
	}
	if !strings.Contains(req.Prompt, `"Target Channel"`) {
		t.Errorf("prompt should quote the channel name, got %q", req.Prompt)
	}
}

func TestPromptOptionsDefaults(t *testing.T) {
	opts := PromptOptions{}.withDefaults()
	if opts.ExcerptSize != DefaultExcerptSize {
		t.Errorf("ExcerptSize = %d, want %d", opts.ExcerptSize, DefaultExcerptSize)
	}
	if opts.TopOutliers != DefaultTopOutliers {
		t.Errorf("TopOutliers = %d, want %d", opts.TopOutliers, DefaultTopOutliers)
	}

	kept := PromptOptions{ExcerptSize: 7, TopOutliers: 3}.withDefaults()
	if kept.ExcerptSize != 7 || kept.TopOutliers != 3 {
		t.Errorf("explicit options overridden: %+v", kept)
	}
}
