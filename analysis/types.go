// Package analysis defines the report data model, query classification,
// outlier scoring, and response sanitization for niche research runs.
package analysis

// Performance labels assigned to individual videos.
const (
	LabelOutlierPlusPlus = "Outlier++"
	LabelOutlierPlus     = "Outlier+"
	LabelStandard        = "Standard"
	LabelUnderperformer  = "Underperformer"
)

// Video is a single scored video inside a Result.
type Video struct {
	// ID is the platform video id, or a synthetic "vid-<index>" id when the
	// model omitted one.
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	UploadDate   string  `json:"uploadDate"`
	Views        float64 `json:"views"`
	Likes        float64 `json:"likes"`
	Comments     float64 `json:"comments"`
	Duration     string  `json:"duration"`
	Type         string  `json:"type"`
	ZScore       float64 `json:"zScore"`
	ViewsPerHour float64 `json:"viewsPerHour"`
	// PerformanceLabel is one of the Label* constants.
	PerformanceLabel string `json:"performanceLabel"`
}

// ChannelProfile summarizes the analyzed channel.
type ChannelProfile struct {
	Name             string  `json:"name"`
	SubscriberCount  string  `json:"subscriberCount"`
	AvgViews         float64 `json:"avgViews"`
	MedianViews      float64 `json:"medianViews"`
	EngagementRate   string  `json:"engagementRate"`
	DominantSubNiche string  `json:"dominantSubNiche"`
}

// ChannelAudit lists qualitative findings for a channel query.
type ChannelAudit struct {
	Strengths              []string `json:"strengths"`
	Weaknesses             []string `json:"weaknesses"`
	ExpansionOpportunities []string `json:"expansionOpportunities"`
}

// MicroNiche is one content-topic cluster with its opportunity profile.
type MicroNiche struct {
	Name             string   `json:"name"`
	SubNiches        []string `json:"subNiches"`
	DemandScore      float64  `json:"demandScore"`
	CompetitionScore float64  `json:"competitionScore"`
	// DominanceRatio is the estimated fraction of visible results owned by
	// already-large channels, in [0,1].
	DominanceRatio     float64  `json:"dominanceRatio"`
	MonetizationClass  string   `json:"monetizationClass"`
	SaturationLevel    string   `json:"saturationLevel"`
	SuccessProbability float64  `json:"successProbability"`
	BarrierToEntry     string   `json:"barrierToEntry"`
	WhyItWorks         string   `json:"whyItWorks"`
	SampleIdeas        []string `json:"sampleIdeas"`
	Keywords           []string `json:"keywords"`
}

// Competitor is a channel competing in the same space.
type Competitor struct {
	Name            string  `json:"name"`
	Subscribers     string  `json:"subscribers"`
	SimilarityScore float64 `json:"similarityScore"`
	Notes           string  `json:"notes"`
}

// ShadowVideo records a detected copycat of an earlier video.
type ShadowVideo struct {
	OriginalVideoID   string `json:"originalVideoId"`
	CopycatChannel    string `json:"copycatChannel"`
	CopycatTitle      string `json:"copycatTitle"`
	PerformanceStatus string `json:"performanceStatus"`
	SimilarityReason  string `json:"similarityReason"`
}

// RoadmapItem is a single planned video in the content roadmap.
type RoadmapItem struct {
	Title       string `json:"title"`
	Hook        string `json:"hook"`
	Structure   string `json:"structure"`
	CTAStrategy string `json:"ctaStrategy"`
}

// GlobalMonetization carries coarse revenue estimates for the niche.
type GlobalMonetization struct {
	TopRegions []string `json:"topRegions"`
	AvgRPM     string   `json:"avgRPM"`
}

// Result is the sanitized output of a general or niche analysis.
// After sanitization every slice field is non-nil, possibly empty.
type Result struct {
	Summary                  string             `json:"summary"`
	BeginnerOpportunityScore float64            `json:"beginnerOpportunityScore"`
	SuccessProbability       float64            `json:"successProbability"`
	ChannelProfile           ChannelProfile     `json:"channelProfile"`
	ChannelAudit             *ChannelAudit      `json:"channelAudit,omitempty"`
	Videos                   []Video            `json:"videos"`
	MicroNiches              []MicroNiche       `json:"microNiches"`
	Competitors              []Competitor       `json:"competitors"`
	ShadowAnalysis           []ShadowVideo      `json:"shadowAnalysis"`
	ContentRoadmap           []RoadmapItem      `json:"contentRoadmap"`
	GlobalMonetization       GlobalMonetization `json:"globalMonetization"`
}

// ReportMatch is a candidate source or copy found during video forensics.
type ReportMatch struct {
	SourceVideoID      string  `json:"sourceVideoId"`
	SourceChannelName  string  `json:"sourceChannelName"`
	CompositeCopyScore float64 `json:"compositeCopyScore"`
	TimeDiffHours      float64 `json:"timeDiffHours"`
	CopyType           string  `json:"copyType"`
}

// ReportNiche is the micro-niche placement of a single analyzed video.
type ReportNiche struct {
	Label                    string  `json:"label"`
	BeginnerOpportunityScore float64 `json:"beginnerOpportunityScore"`
}

// DeepVideoReport is the forensic report for one video.
type DeepVideoReport struct {
	VideoID                  string        `json:"videoId"`
	VideoTitle               string        `json:"videoTitle"`
	OriginalityStatus        string        `json:"originalityStatus"`
	OriginalityConfidencePct float64       `json:"originalityConfidencePct"`
	TopMatches               []ReportMatch `json:"topMatches"`
	TranscriptSimilarity     float64       `json:"transcriptSimilarity"`
	TitleSimilarity          float64       `json:"titleSimilarity"`
	ThumbnailSimilarity      float64       `json:"thumbnailSimilarity"`
	AudioSimilarity          float64       `json:"audioSimilarity"`
	MicroNiche               ReportNiche   `json:"microNiche"`
	Roadmap                  []RoadmapItem `json:"roadmap"`
	ImprovementSuggestions   []string      `json:"improvementSuggestions"`
}

// CopyEvent is one detected source/copy pair in a channel drill-down.
type CopyEvent struct {
	SourceVideoID        string  `json:"sourceVideoId"`
	SourceChannelName    string  `json:"sourceChannelName"`
	CopyVideoID          string  `json:"copyVideoId"`
	CopyChannelName      string  `json:"copyChannelName"`
	TitleSimilarity      float64 `json:"titleSimilarity"`
	TranscriptSimilarity float64 `json:"transcriptSimilarity"`
	ThumbnailSimilarity  float64 `json:"thumbnailSimilarity"`
	AudioSimilarity      float64 `json:"audioSimilarity"`
	CompositeCopyScore   float64 `json:"compositeCopyScore"`
	TimeDiffHours        float64 `json:"timeDiffHours"`
	CopyOutcome          string  `json:"copyOutcome"`
	CopyType             string  `json:"copyType"`
}

// ShadowMapNode is a channel or video node in the copy-relationship graph.
type ShadowMapNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Date  string `json:"date"`
}

// ShadowMapEdge is a directed copy relationship between two nodes.
type ShadowMapEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// ShadowMap is the source/copy relationship graph for a channel.
type ShadowMap struct {
	Nodes []ShadowMapNode `json:"nodes"`
	Edges []ShadowMapEdge `json:"edges"`
}

// DrillDown is the full competitive report for a single channel.
type DrillDown struct {
	ChannelID              string       `json:"channelId"`
	ChannelName            string       `json:"channelName"`
	SubscriberCount        string       `json:"subscriberCount"`
	CopyBehaviorScore      float64      `json:"copyBehaviorScore"`
	OriginatorScore        float64      `json:"originatorScore"`
	Outliers               []Video      `json:"outliers"`
	CopyEvents             []CopyEvent  `json:"copyEvents"`
	RecommendedMicroNiches []MicroNiche `json:"recommendedMicroNiches"`
	ShadowMapData          ShadowMap    `json:"shadowMapData"`
}

// ChannelStats holds aggregate counters for a channel.
type ChannelStats struct {
	ViewCount       int64 `json:"viewCount"`
	SubscriberCount int64 `json:"subscriberCount"`
	VideoCount      int64 `json:"videoCount"`
}

// VideoStats holds per-video counters.
type VideoStats struct {
	ViewCount    int64 `json:"viewCount"`
	LikeCount    int64 `json:"likeCount"`
	CommentCount int64 `json:"commentCount"`
}

// SnapshotVideo is one recent upload inside a ChannelSnapshot.
type SnapshotVideo struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	ThumbnailURL string     `json:"thumbnailUrl"`
	PublishedAt  string     `json:"publishedAt"`
	Stats        VideoStats `json:"stats"`
	// Duration is the display form, "M:SS" or "H:MM:SS".
	Duration string `json:"duration"`
}

// ChannelSnapshot is verified channel data fetched from the video platform.
// It is immutable once fetched and scoped to a single analysis run.
type ChannelSnapshot struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Stats  ChannelStats    `json:"stats"`
	Videos []SnapshotVideo `json:"videos"`
}
