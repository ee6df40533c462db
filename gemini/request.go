package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"nichescope/analysis"
)

// DefaultModel is the model used when a request does not name one.
const DefaultModel = "gemini-2.5-flash"

// Defaults for PromptOptions.
const (
	DefaultExcerptSize = 15
	DefaultTopOutliers = 5
)

// PromptOptions tunes how much verified data is embedded in a prompt.
type PromptOptions struct {
	// ExcerptSize is the number of recent uploads quoted as ground truth.
	ExcerptSize int
	// TopOutliers is the number of locally scored outliers highlighted.
	TopOutliers int
}

func (o PromptOptions) withDefaults() PromptOptions {
	if o.ExcerptSize <= 0 {
		o.ExcerptSize = DefaultExcerptSize
	}
	if o.TopOutliers <= 0 {
		o.TopOutliers = DefaultTopOutliers
	}
	return o
}

// Request is a fully assembled generation request.
type Request struct {
	Model       string
	Instruction string
	Prompt      string
	Schema      *genai.Schema
	Temperature float32
}

// BuildAnalysisRequest assembles the general or channel analysis request.
// When snap is non-nil its verified numbers are embedded as ground truth;
// otherwise the model is told to run in full simulation mode.
func BuildAnalysisRequest(query string, snap *analysis.ChannelSnapshot, opts PromptOptions) Request {
	opts = opts.withDefaults()

	var b strings.Builder
	b.WriteString(`You are the research core of a YouTube niche intelligence engine.
Your mission is deep, forensic-level analysis that helps new faceless creators pick a winnable niche.
`)

	if snap != nil {
		b.WriteString(groundTruthBlock(snap, opts))
	} else {
		b.WriteString(`
No verified platform data is available for this query.
Perform a FULL-SCALE analysis and simulate the most accurate data possible. Do not limit yourself to a subset.
`)
	}

	b.WriteString(`
1. CHANNEL ANALYSIS (if the query names a channel):
   - Compute z-scores across the upload history.
   - Label videos Outlier++ above z-score 2.0, and include a channel audit.
2. NICHE DISCOVERY (if the query is a topic or keyword):
   - Cluster the space into micro-niches.
   - Only recommend niches with a success probability of 70% or higher; warn and suggest a pivot when saturated.
   - For each niche give a dominance ratio, why it works, and 10 distinct sample ideas.
3. COMPETITORS AND COPY MAPPING:
   - List all relevant competitors, and flag smaller channels shadowing bigger ones.
4. SUCCESS PROJECTION:
   - Score the beginner opportunity from 0 to 100. Below 70 means do not recommend without a perfect strategy.
5. OUTPUT: detailed JSON only. Specific, data-backed insights; no generic advice.
`)

	return Request{
		Model:       DefaultModel,
		Instruction: b.String(),
		Prompt: fmt.Sprintf("Analyze: %q. Identify micro-niche clusters with a success probability of 70%% or higher. "+
			"Provide a clear \"why it works\" and 10 sample ideas for each niche.", query),
		Schema:      analysisSchema,
		Temperature: 0.7,
	}
}

// groundTruthBlock renders the verified snapshot the model must not deviate
// from.
func groundTruthBlock(snap *analysis.ChannelSnapshot, opts PromptOptions) string {
	type excerptVideo struct {
		Title string `json:"title"`
		Views int64  `json:"views"`
		Date  string `json:"date"`
	}

	excerpt := make([]excerptVideo, 0, opts.ExcerptSize)
	for _, v := range snap.Videos {
		if len(excerpt) == opts.ExcerptSize {
			break
		}
		excerpt = append(excerpt, excerptVideo{Title: v.Title, Views: v.Stats.ViewCount, Date: v.PublishedAt})
	}
	excerptJSON, _ := json.Marshal(excerpt)

	var b strings.Builder
	fmt.Fprintf(&b, `
CRITICAL INSTRUCTION:
You have verified platform data for the channel %q. Treat it as ground truth.
- Subscribers: %d
- Total views: %d
- Video count: %d
- Recent videos: %s
Do NOT invent video stats. Compute z-scores from the provided view counts and base the channel audit on this actual performance.
`, snap.Title, snap.Stats.SubscriberCount, snap.Stats.ViewCount, snap.Stats.VideoCount, excerptJSON)

	if top := analysis.TopOutliers(snap.Videos, opts.TopOutliers); len(top) > 0 {
		b.WriteString("Locally computed top outliers by view z-score:\n")
		for _, v := range top {
			fmt.Fprintf(&b, "- %q (%d views, z-score %.2f)\n", v.Title, v.Stats.ViewCount, v.ZScore)
		}
	}
	return b.String()
}

// BuildForensicsRequest assembles the single-video originality request.
func BuildForensicsRequest(videoURL string) Request {
	return Request{
		Model: DefaultModel,
		Instruction: `You are the video forensics unit of a YouTube niche intelligence engine.
Task: analyze one specific video URL for deep forensic data.
1. ORIGINALITY: decide whether it is Original, Likely Original, Derivative, Likely Copy, or Unclear/Concurrent.
2. SIMULATION: compare against recent uploads on transcript, title, thumbnail, and audio.
3. COMPOSITE SCORE: weight transcript 35% and title 30%, the rest split across thumbnail and audio.
4. ATTRIBUTION: identify the likely patient-zero source video.
5. ROADMAP: produce a 10-step reproduction plan for a new creator.
Output strictly in JSON.`,
		Prompt: fmt.Sprintf("Perform forensic analysis on video: %q. "+
			"Simulate a search against recent uploads to find potential copies or sources.", videoURL),
		Schema:      forensicsSchema,
		Temperature: 0.5,
	}
}

// BuildDrillDownRequest assembles the per-channel competitive request.
func BuildDrillDownRequest(channelName string) Request {
	return Request{
		Model: DefaultModel,
		Instruction: `You are the competitive intelligence unit of a YouTube niche intelligence engine.
Perform a full deep-dive on one channel.
1. COPY BEHAVIOR: score 0-100, do they take ideas from others?
2. ORIGINATOR SCORE: score 0-100, do they start trends?
3. SHADOW MAP: graph their source and copy relationships.
4. VULNERABILITIES: find weak spots where a new creator can win.
5. RECOMMENDATIONS: suggest niches to attack.`,
		Prompt: fmt.Sprintf("Deep dive analysis for channel: %q. "+
			"Simulate detailed copy events and a shadow map.", channelName),
		Schema:      drillDownSchema,
		Temperature: 0.6,
	}
}
