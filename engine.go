package nichescope

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"nichescope/analysis"
	"nichescope/gemini"
	"nichescope/platform"
)

// ErrAnalysisFailed wraps any model invocation failure. Callers surface it as
// a single retriable condition instead of leaking provider details.
var ErrAnalysisFailed = errors.New("nichescope: analysis failed")

// Credentials carries the per-session API keys. PlatformKey is optional; when
// absent the engine skips data enrichment and the model simulates.
type Credentials struct {
	ModelKey    string `json:"modelKey"`
	PlatformKey string `json:"platformKey,omitempty"`
}

// StatsProvider fetches verified channel data for grounding a run.
type StatsProvider interface {
	ResolveChannelID(ctx context.Context, ref string) (string, error)
	FetchSnapshot(ctx context.Context, channelID string) (*analysis.ChannelSnapshot, error)
}

// Invoker runs one generation request against the model.
type Invoker interface {
	Invoke(ctx context.Context, apiKey string, req gemini.Request) (map[string]any, error)
}

// StatsFactory builds a StatsProvider for one session's platform key.
type StatsFactory func(ctx context.Context, apiKey string) (StatsProvider, error)

// Kind tags which report an Outcome carries.
type Kind string

const (
	KindAnalysis  Kind = "analysis"
	KindForensics Kind = "forensics"
)

// Outcome is the result of a dispatched Run: exactly one of the report
// fields is set, per Kind.
type Outcome struct {
	Kind      Kind                      `json:"kind"`
	Analysis  *analysis.Result          `json:"analysis,omitempty"`
	Forensics *analysis.DeepVideoReport `json:"forensics,omitempty"`
}

// Engine orchestrates a full run: query classification, optional data
// enrichment, model invocation, and response sanitization.
type Engine struct {
	model    Invoker
	newStats StatsFactory
	prompt   gemini.PromptOptions
}

// Option configures an Engine.
type Option func(*Engine)

// WithInvoker replaces the model client, mainly for tests.
func WithInvoker(inv Invoker) Option {
	return func(e *Engine) { e.model = inv }
}

// WithStatsFactory replaces how platform clients are built per session.
func WithStatsFactory(f StatsFactory) Option {
	return func(e *Engine) { e.newStats = f }
}

// WithPromptOptions tunes prompt assembly.
func WithPromptOptions(opts gemini.PromptOptions) Option {
	return func(e *Engine) { e.prompt = opts }
}

// NewEngine creates an engine with the real model and platform clients.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		model: gemini.NewClient(),
		newStats: func(ctx context.Context, apiKey string) (StatsProvider, error) {
			return platform.NewClient(ctx, apiKey, platform.Options{})
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run classifies the query exactly once and dispatches: video URLs go to
// forensics, everything else to the general analysis.
func (e *Engine) Run(ctx context.Context, query string, creds Credentials) (*Outcome, error) {
	if analysis.IsVideoQuery(query) {
		report, err := e.VideoForensics(ctx, query, creds)
		if err != nil {
			return nil, err
		}
		return &Outcome{Kind: KindForensics, Forensics: report}, nil
	}

	res, err := e.AnalyzeNicheOrChannel(ctx, query, creds)
	if err != nil {
		return nil, err
	}
	return &Outcome{Kind: KindAnalysis, Analysis: res}, nil
}

// AnalyzeNicheOrChannel runs the general analysis for a topic, keyword, or
// channel reference. When the query looks like a channel and a platform key
// is present, verified stats are fetched and pinned into the prompt; any
// enrichment failure is logged and the run continues unverified.
func (e *Engine) AnalyzeNicheOrChannel(ctx context.Context, query string, creds Credentials) (*analysis.Result, error) {
	runID := uuid.NewString()

	snap := e.enrich(ctx, runID, query, creds)

	req := gemini.BuildAnalysisRequest(query, snap, e.prompt)
	raw, err := e.model.Invoke(ctx, creds.ModelKey, req)
	if err != nil {
		log.Printf("engine: run %s: model invocation failed: %v", runID, err)
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	res := analysis.SanitizeResult(raw, snap)
	log.Printf("engine: run %s: analysis complete (grounded=%t, %d videos, %d niches)",
		runID, snap != nil, len(res.Videos), len(res.MicroNiches))
	return res, nil
}

// enrich returns a verified snapshot for channel-like queries, or nil when
// enrichment is impossible or fails. Enrichment never fails a run.
func (e *Engine) enrich(ctx context.Context, runID, query string, creds Credentials) *analysis.ChannelSnapshot {
	if creds.PlatformKey == "" || !analysis.LooksLikeChannelReference(query) {
		return nil
	}

	stats, err := e.newStats(ctx, creds.PlatformKey)
	if err != nil {
		log.Printf("engine: run %s: stats client unavailable: %v", runID, err)
		return nil
	}

	channelID, err := stats.ResolveChannelID(ctx, query)
	if err != nil {
		log.Printf("engine: run %s: resolve %q failed: %v", runID, query, err)
		return nil
	}
	if channelID == "" {
		log.Printf("engine: run %s: %q resolved to no channel, proceeding unverified", runID, query)
		return nil
	}

	snap, err := stats.FetchSnapshot(ctx, channelID)
	if err != nil {
		log.Printf("engine: run %s: snapshot for %s failed: %v", runID, channelID, err)
		return nil
	}
	return snap
}

// VideoForensics runs the originality report for one video URL.
func (e *Engine) VideoForensics(ctx context.Context, videoURL string, creds Credentials) (*analysis.DeepVideoReport, error) {
	runID := uuid.NewString()

	raw, err := e.model.Invoke(ctx, creds.ModelKey, gemini.BuildForensicsRequest(videoURL))
	if err != nil {
		log.Printf("engine: run %s: forensics invocation failed: %v", runID, err)
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	report := analysis.SanitizeReport(raw)
	log.Printf("engine: run %s: forensics complete (%s, %d matches)",
		runID, report.OriginalityStatus, len(report.TopMatches))
	return report, nil
}

// ChannelDrillDown runs the competitive deep-dive for one channel name.
func (e *Engine) ChannelDrillDown(ctx context.Context, channelName string, creds Credentials) (*analysis.DrillDown, error) {
	runID := uuid.NewString()

	raw, err := e.model.Invoke(ctx, creds.ModelKey, gemini.BuildDrillDownRequest(channelName))
	if err != nil {
		log.Printf("engine: run %s: drill-down invocation failed: %v", runID, err)
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	dd := analysis.SanitizeDrillDown(raw)
	log.Printf("engine: run %s: drill-down complete (%d outliers, %d copy events)",
		runID, len(dd.Outliers), len(dd.CopyEvents))
	return dd, nil
}
