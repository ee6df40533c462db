// Package nichescope provides a YouTube niche research and analytics engine.
//
// It combines verified platform data with a generative model: channel queries
// are optionally grounded on real statistics from the YouTube Data API, the
// model produces the analytical report under a strict JSON schema, and a
// sanitization pass repairs whatever the model got wrong.
//
// Overview
//
// The Engine is the entry point. It supports three operations:
//
//   - Run / AnalyzeNicheOrChannel: analyze a topic, keyword, or channel
//   - VideoForensics: originality report for a single video URL
//   - ChannelDrillDown: competitive deep-dive on one channel
//
// Quick Start
//
// Analyze a niche:
//
//	engine := nichescope.NewEngine()
//	creds := nichescope.Credentials{ModelKey: os.Getenv("NICHESCOPE_MODEL_KEY")}
//	out, err := engine.Run(ctx, "Stoicism", creds)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(out.Analysis.Summary)
//
// Analyze a channel with verified stats:
//
//	creds.PlatformKey = os.Getenv("NICHESCOPE_PLATFORM_KEY")
//	out, err = engine.Run(ctx, "@SomeCreator", creds)
//
// A platform key is optional. Without one, or when a channel reference cannot
// be resolved, the engine proceeds and the model simulates the data instead.
// Enrichment failures never fail a run.
//
// Configuration
//
// The server and CLI load settings from multiple sources:
//
//   1. Environment variables (highest priority)
//   2. Config file (nichescope.json or ~/.config/nichescope/nichescope.json)
//   3. Default values (lowest priority)
//
// Environment variables:
//
//   - NICHESCOPE_LISTEN_ADDR: HTTP listen address
//   - NICHESCOPE_ALLOWED_ORIGINS: comma-separated CORS allow-list
//   - NICHESCOPE_REQUESTS_PER_SECOND: per-client HTTP rate limit
//   - NICHESCOPE_SESSION_TTL: idle session lifetime
//   - NICHESCOPE_EXCERPT_SIZE: verified uploads quoted in the prompt
//   - NICHESCOPE_TOP_OUTLIERS: locally scored outliers quoted in the prompt
//   - NICHESCOPE_SNAPSHOT_CAP: recent uploads fetched per channel (max 50)
//   - NICHESCOPE_QUOTA_RESERVE: platform quota units kept unspent
//   - NICHESCOPE_PLATFORM_RPS: platform API pacing
//
// Error Handling
//
// All operations return errors that implement standard Go error handling:
//
//	if errors.Is(err, nichescope.ErrAnalysisFailed) {
//		fmt.Println("model invocation failed, check credentials")
//	}
//
//	var fetchErr *nichescope.FetchError
//	if errors.As(err, &fetchErr) {
//		fmt.Printf("platform %s for %s failed: %v\n", fetchErr.Op, fetchErr.Ref, fetchErr.Err)
//	}
//
// Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - analysis: report model, query classification, scoring, sanitization
//   - platform: YouTube Data API client and quota tracking
//   - gemini: prompt assembly, response schemas, model invocation
//   - server: HTTP API surface
//   - session: per-client key and result storage
//   - config: configuration management
//
package nichescope
