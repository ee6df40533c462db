package nichescope

import (
	"context"
	"errors"
	"strings"
	"testing"

	"nichescope/analysis"
	"nichescope/gemini"
)

// mockInvoker records requests and returns a canned tree.
type mockInvoker struct {
	requests []gemini.Request
	keys     []string
	tree     map[string]any
	err      error
}

func (m *mockInvoker) Invoke(ctx context.Context, apiKey string, req gemini.Request) (map[string]any, error) {
	m.requests = append(m.requests, req)
	m.keys = append(m.keys, apiKey)
	if m.err != nil {
		return nil, m.err
	}
	if m.tree != nil {
		return m.tree, nil
	}
	return map[string]any{}, nil
}

// mockStats scripts the resolve and snapshot steps.
type mockStats struct {
	resolveID   string
	resolveErr  error
	snapshot    *analysis.ChannelSnapshot
	snapshotErr error

	resolved  []string
	snapshots []string
}

func (m *mockStats) ResolveChannelID(ctx context.Context, ref string) (string, error) {
	m.resolved = append(m.resolved, ref)
	return m.resolveID, m.resolveErr
}

func (m *mockStats) FetchSnapshot(ctx context.Context, channelID string) (*analysis.ChannelSnapshot, error) {
	m.snapshots = append(m.snapshots, channelID)
	if m.snapshotErr != nil {
		return nil, m.snapshotErr
	}
	return m.snapshot, nil
}

func statsFactory(m *mockStats, err error) StatsFactory {
	return func(ctx context.Context, apiKey string) (StatsProvider, error) {
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

func TestRunDispatchesVideoQuery(t *testing.T) {
	inv := &mockInvoker{tree: map[string]any{"videoTitle": "Clip"}}
	e := NewEngine(WithInvoker(inv))

	out, err := e.Run(context.Background(), "https://youtu.be/abc123", Credentials{ModelKey: "mk"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Kind != KindForensics || out.Forensics == nil || out.Analysis != nil {
		t.Fatalf("Run() outcome = %+v, want forensics", out)
	}
	if out.Forensics.VideoTitle != "Clip" {
		t.Errorf("VideoTitle = %q", out.Forensics.VideoTitle)
	}
	if len(inv.requests) != 1 || inv.requests[0].Temperature != 0.5 {
		t.Errorf("expected a single forensics request, got %+v", inv.requests)
	}
}

func TestRunDispatchesTopicQuery(t *testing.T) {
	inv := &mockInvoker{tree: map[string]any{"summary": "niche overview"}}
	e := NewEngine(WithInvoker(inv))

	out, err := e.Run(context.Background(), "Stoicism", Credentials{ModelKey: "mk"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Kind != KindAnalysis || out.Analysis == nil {
		t.Fatalf("Run() outcome = %+v, want analysis", out)
	}
	if out.Analysis.Summary != "niche overview" {
		t.Errorf("Summary = %q", out.Analysis.Summary)
	}
}

func TestAnalyzeEnrichesChannelQueries(t *testing.T) {
	snap := &analysis.ChannelSnapshot{
		ID:    "UCreal",
		Title: "Real Channel",
		Videos: []analysis.SnapshotVideo{
			{ID: "v1", Title: "Upload", Stats: analysis.VideoStats{ViewCount: 100}},
		},
	}
	stats := &mockStats{resolveID: "UCreal", snapshot: snap}
	inv := &mockInvoker{}
	e := NewEngine(WithInvoker(inv), WithStatsFactory(statsFactory(stats, nil)))

	_, err := e.AnalyzeNicheOrChannel(context.Background(), "@RealChannel", Credentials{ModelKey: "mk", PlatformKey: "pk"})
	if err != nil {
		t.Fatalf("AnalyzeNicheOrChannel() error = %v", err)
	}

	if len(stats.resolved) != 1 || stats.resolved[0] != "@RealChannel" {
		t.Errorf("resolved = %v", stats.resolved)
	}
	if len(stats.snapshots) != 1 || stats.snapshots[0] != "UCreal" {
		t.Errorf("snapshots = %v", stats.snapshots)
	}
	if !strings.Contains(inv.requests[0].Instruction, "Real Channel") {
		t.Error("prompt should be grounded on the fetched snapshot")
	}
}

func TestAnalyzeSkipsEnrichmentWithoutPlatformKey(t *testing.T) {
	stats := &mockStats{resolveID: "UCreal"}
	inv := &mockInvoker{}
	e := NewEngine(WithInvoker(inv), WithStatsFactory(statsFactory(stats, nil)))

	res, err := e.AnalyzeNicheOrChannel(context.Background(), "@RealChannel", Credentials{ModelKey: "mk"})
	if err != nil {
		t.Fatalf("AnalyzeNicheOrChannel() error = %v", err)
	}
	if len(stats.resolved) != 0 {
		t.Errorf("resolve attempted without a platform key: %v", stats.resolved)
	}
	if strings.Contains(inv.requests[0].Instruction, "ground truth") {
		t.Error("prompt claims verified data without enrichment")
	}
	if res.Videos == nil || res.MicroNiches == nil || res.Competitors == nil {
		t.Error("sanitized result must carry non-nil lists even from an empty response")
	}
	if res.ChannelAudit != nil {
		t.Error("empty response should leave the audit absent")
	}
}

func TestAnalyzeSkipsEnrichmentForShortTopics(t *testing.T) {
	stats := &mockStats{resolveID: "UCreal"}
	inv := &mockInvoker{}
	e := NewEngine(WithInvoker(inv), WithStatsFactory(statsFactory(stats, nil)))

	_, err := e.AnalyzeNicheOrChannel(context.Background(), "AI News", Credentials{ModelKey: "mk", PlatformKey: "pk"})
	if err != nil {
		t.Fatalf("AnalyzeNicheOrChannel() error = %v", err)
	}
	if len(stats.resolved) != 0 {
		t.Errorf("short topic should not trigger enrichment: %v", stats.resolved)
	}
}

func TestAnalyzeSurvivesEnrichmentFailure(t *testing.T) {
	tests := []struct {
		name  string
		stats *mockStats
		fErr  error
	}{
		{"factory failure", &mockStats{}, errors.New("bad key")},
		{"resolve failure", &mockStats{resolveErr: errors.New("network down")}, nil},
		{"no match", &mockStats{resolveID: ""}, nil},
		{"snapshot failure", &mockStats{resolveID: "UCreal", snapshotErr: errors.New("quota")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &mockInvoker{tree: map[string]any{"summary": "still works"}}
			e := NewEngine(WithInvoker(inv), WithStatsFactory(statsFactory(tt.stats, tt.fErr)))

			res, err := e.AnalyzeNicheOrChannel(context.Background(), "@SomeChannel", Credentials{ModelKey: "mk", PlatformKey: "pk"})
			if err != nil {
				t.Fatalf("enrichment failure must not fail the run: %v", err)
			}
			if res.Summary != "still works" {
				t.Errorf("Summary = %q", res.Summary)
			}
			if strings.Contains(inv.requests[0].Instruction, "ground truth") {
				t.Error("failed enrichment must fall back to simulation mode")
			}
		})
	}
}

func TestAnalyzeModelFailure(t *testing.T) {
	inv := &mockInvoker{err: errors.New("503")}
	e := NewEngine(WithInvoker(inv))

	_, err := e.AnalyzeNicheOrChannel(context.Background(), "Stoicism", Credentials{ModelKey: "mk"})
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Errorf("error = %v, want ErrAnalysisFailed", err)
	}
}

func TestChannelDrillDown(t *testing.T) {
	inv := &mockInvoker{tree: map[string]any{"channelName": "Target"}}
	e := NewEngine(WithInvoker(inv))

	dd, err := e.ChannelDrillDown(context.Background(), "Target", Credentials{ModelKey: "mk"})
	if err != nil {
		t.Fatalf("ChannelDrillDown() error = %v", err)
	}
	if dd.ChannelName != "Target" {
		t.Errorf("ChannelName = %q", dd.ChannelName)
	}
	if dd.Outliers == nil || dd.CopyEvents == nil {
		t.Error("drill-down lists must be sanitized to non-nil")
	}
	if inv.requests[0].Temperature != 0.6 {
		t.Errorf("Temperature = %f, want 0.6", inv.requests[0].Temperature)
	}
	if inv.keys[0] != "mk" {
		t.Errorf("model key = %q, want mk", inv.keys[0])
	}
}

func TestVideoForensicsModelFailure(t *testing.T) {
	inv := &mockInvoker{err: errors.New("timeout")}
	e := NewEngine(WithInvoker(inv))

	if _, err := e.VideoForensics(context.Background(), "https://youtu.be/x", Credentials{ModelKey: "mk"}); !errors.Is(err, ErrAnalysisFailed) {
		t.Errorf("error = %v, want ErrAnalysisFailed", err)
	}
}
