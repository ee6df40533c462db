package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

// defaultWhyItWorks fills a micro-niche whose narrative the model dropped.
const defaultWhyItWorks = "High demand and low competition detected."

// defaultDominanceRatio replaces an absent or zero dominance ratio so every
// niche entry stays renderable.
const defaultDominanceRatio = 0.1

// placeholderHost identifies thumbnails the model invented rather than took
// from supplied data.
const placeholderHost = "picsum"

// placeholderThumbnail returns a deterministic placeholder image URL so that
// repeated identical runs stay visually stable.
func placeholderThumbnail(seed string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/320/180", seed)
}

// SanitizeResult repairs the raw parsed model output of a general or niche
// analysis into a well-formed Result. It never fails: missing or malformed
// fields are coerced to defaults, every slice field comes back non-nil, each
// video gets a stable id, and thumbnails are reconciled against the snapshot
// when one is available. Sanitizing an already-sanitized result is a no-op.
func SanitizeResult(raw map[string]any, snap *ChannelSnapshot) *Result {
	res := &Result{
		Summary:                  asString(raw["summary"]),
		BeginnerOpportunityScore: asNumber(raw["beginnerOpportunityScore"]),
		SuccessProbability:       asNumber(raw["successProbability"]),
		ChannelProfile:           sanitizeProfile(asObject(raw["channelProfile"])),
		Videos:                   []Video{},
		MicroNiches:              []MicroNiche{},
		Competitors:              []Competitor{},
		ShadowAnalysis:           []ShadowVideo{},
		ContentRoadmap:           []RoadmapItem{},
		GlobalMonetization:       sanitizeMonetization(asObject(raw["globalMonetization"])),
	}

	if audit := asObject(raw["channelAudit"]); audit != nil {
		res.ChannelAudit = &ChannelAudit{
			Strengths:              asStringList(audit["strengths"]),
			Weaknesses:             asStringList(audit["weaknesses"]),
			ExpansionOpportunities: asStringList(audit["expansionOpportunities"]),
		}
	}

	for i, item := range asList(raw["videos"]) {
		m := asObject(item)
		if m == nil {
			continue
		}
		res.Videos = append(res.Videos, sanitizeVideo(m, i, snap))
	}

	for _, item := range asList(raw["microNiches"]) {
		m := asObject(item)
		if m == nil {
			continue
		}
		res.MicroNiches = append(res.MicroNiches, sanitizeNiche(m))
	}

	for _, item := range asList(raw["competitors"]) {
		m := asObject(item)
		if m == nil {
			continue
		}
		res.Competitors = append(res.Competitors, Competitor{
			Name:            asString(m["name"]),
			Subscribers:     asString(m["subscribers"]),
			SimilarityScore: asNumber(m["similarityScore"]),
			Notes:           asString(m["notes"]),
		})
	}

	for _, item := range asList(raw["shadowAnalysis"]) {
		m := asObject(item)
		if m == nil {
			continue
		}
		res.ShadowAnalysis = append(res.ShadowAnalysis, ShadowVideo{
			OriginalVideoID:   asString(m["originalVideoId"]),
			CopycatChannel:    asString(m["copycatChannel"]),
			CopycatTitle:      asString(m["copycatTitle"]),
			PerformanceStatus: asString(m["performanceStatus"]),
			SimilarityReason:  asString(m["similarityReason"]),
		})
	}

	res.ContentRoadmap = sanitizeRoadmap(raw["contentRoadmap"])

	return res
}

// sanitizeVideo builds one Video record. The synthetic id and the placeholder
// seed are positional, so results are reproducible across identical runs.
func sanitizeVideo(m map[string]any, index int, snap *ChannelSnapshot) Video {
	v := Video{
		ID:               asString(m["id"]),
		Title:            asString(m["title"]),
		ThumbnailURL:     asString(m["thumbnailUrl"]),
		UploadDate:       asString(m["uploadDate"]),
		Views:            asNumber(m["views"]),
		Likes:            asNumber(m["likes"]),
		Comments:         asNumber(m["comments"]),
		Duration:         asString(m["duration"]),
		Type:             asString(m["type"]),
		ZScore:           asNumber(m["zScore"]),
		ViewsPerHour:     asNumber(m["viewsPerHour"]),
		PerformanceLabel: asString(m["performanceLabel"]),
	}

	// Recover the authentic thumbnail by exact title match. Case and
	// whitespace must match exactly; near-duplicates are not merged.
	if snap != nil && (v.ThumbnailURL == "" || strings.Contains(v.ThumbnailURL, placeholderHost)) {
		for _, sv := range snap.Videos {
			if sv.Title == v.Title {
				v.ThumbnailURL = sv.ThumbnailURL
				break
			}
		}
	}
	if v.ThumbnailURL == "" {
		seed := v.ID
		if seed == "" {
			seed = fmt.Sprintf("%dv", index)
		}
		v.ThumbnailURL = placeholderThumbnail(seed)
	}
	if v.ID == "" {
		v.ID = fmt.Sprintf("vid-%d", index)
	}
	return v
}

func sanitizeNiche(m map[string]any) MicroNiche {
	n := MicroNiche{
		Name:               asString(m["name"]),
		SubNiches:          asStringList(m["subNiches"]),
		DemandScore:        asNumber(m["demandScore"]),
		CompetitionScore:   asNumber(m["competitionScore"]),
		DominanceRatio:     asNumber(m["dominanceRatio"]),
		MonetizationClass:  asString(m["monetizationClass"]),
		SaturationLevel:    asString(m["saturationLevel"]),
		SuccessProbability: asNumber(m["successProbability"]),
		BarrierToEntry:     asString(m["barrierToEntry"]),
		WhyItWorks:         asString(m["whyItWorks"]),
		SampleIdeas:        asStringList(m["sampleIdeas"]),
		Keywords:           asStringList(m["keywords"]),
	}
	if n.WhyItWorks == "" {
		n.WhyItWorks = defaultWhyItWorks
	}
	if n.DominanceRatio == 0 {
		n.DominanceRatio = defaultDominanceRatio
	}
	return n
}

func sanitizeProfile(m map[string]any) ChannelProfile {
	if m == nil {
		return ChannelProfile{}
	}
	return ChannelProfile{
		Name:             asString(m["name"]),
		SubscriberCount:  asString(m["subscriberCount"]),
		AvgViews:         asNumber(m["avgViews"]),
		MedianViews:      asNumber(m["medianViews"]),
		EngagementRate:   asString(m["engagementRate"]),
		DominantSubNiche: asString(m["dominantSubNiche"]),
	}
}

func sanitizeMonetization(m map[string]any) GlobalMonetization {
	g := GlobalMonetization{TopRegions: []string{}}
	if m == nil {
		return g
	}
	g.TopRegions = asStringList(m["topRegions"])
	g.AvgRPM = asString(m["avgRPM"])
	return g
}

func sanitizeRoadmap(v any) []RoadmapItem {
	items := []RoadmapItem{}
	for _, item := range asList(v) {
		m := asObject(item)
		if m == nil {
			continue
		}
		items = append(items, RoadmapItem{
			Title:       asString(m["title"]),
			Hook:        asString(m["hook"]),
			Structure:   asString(m["structure"]),
			CTAStrategy: asString(m["ctaStrategy"]),
		})
	}
	return items
}

// SanitizeReport repairs the raw parsed output of a single-video forensic
// run. Same guarantees as SanitizeResult: never fails, slices non-nil.
func SanitizeReport(raw map[string]any) *DeepVideoReport {
	rep := &DeepVideoReport{
		VideoID:                  asString(raw["videoId"]),
		VideoTitle:               asString(raw["videoTitle"]),
		OriginalityStatus:        asString(raw["originalityStatus"]),
		OriginalityConfidencePct: asNumber(raw["originalityConfidencePct"]),
		TopMatches:               []ReportMatch{},
		TranscriptSimilarity:     asNumber(raw["transcriptSimilarity"]),
		TitleSimilarity:          asNumber(raw["titleSimilarity"]),
		ThumbnailSimilarity:      asNumber(raw["thumbnailSimilarity"]),
		AudioSimilarity:          asNumber(raw["audioSimilarity"]),
		ImprovementSuggestions:   asStringList(raw["improvementSuggestions"]),
	}

	if niche := asObject(raw["microNiche"]); niche != nil {
		rep.MicroNiche = ReportNiche{
			Label:                    asString(niche["label"]),
			BeginnerOpportunityScore: asNumber(niche["beginnerOpportunityScore"]),
		}
	}

	for _, item := range asList(raw["topMatches"]) {
		m := asObject(item)
		if m == nil {
			continue
		}
		rep.TopMatches = append(rep.TopMatches, ReportMatch{
			SourceVideoID:      asString(m["sourceVideoId"]),
			SourceChannelName:  asString(m["sourceChannelName"]),
			CompositeCopyScore: asNumber(m["compositeCopyScore"]),
			TimeDiffHours:      asNumber(m["timeDiffHours"]),
			CopyType:           asString(m["copyType"]),
		})
	}

	rep.Roadmap = sanitizeRoadmap(raw["roadmap"])

	return rep
}

// SanitizeDrillDown repairs the raw parsed output of a channel drill-down.
// Outlier thumbnails are always replaced with the deterministic placeholder,
// since the drill-down never carries verified platform assets.
func SanitizeDrillDown(raw map[string]any) *DrillDown {
	dd := &DrillDown{
		ChannelID:              asString(raw["channelId"]),
		ChannelName:            asString(raw["channelName"]),
		SubscriberCount:        asString(raw["subscriberCount"]),
		CopyBehaviorScore:      asNumber(raw["copyBehaviorScore"]),
		OriginatorScore:        asNumber(raw["originatorScore"]),
		Outliers:               []Video{},
		CopyEvents:             []CopyEvent{},
		RecommendedMicroNiches: []MicroNiche{},
		ShadowMapData:          ShadowMap{Nodes: []ShadowMapNode{}, Edges: []ShadowMapEdge{}},
	}

	for i, item := range asList(raw["outliers"]) {
		m := asObject(item)
		if m == nil {
			continue
		}
		v := sanitizeVideo(m, i, nil)
		seed := asString(m["id"])
		if seed == "" {
			seed = fmt.Sprintf("%dod", i)
		}
		v.ThumbnailURL = placeholderThumbnail(seed)
		if v.PerformanceLabel == "" {
			v.PerformanceLabel = LabelStandard
		}
		dd.Outliers = append(dd.Outliers, v)
	}

	for _, item := range asList(raw["copyEvents"]) {
		m := asObject(item)
		if m == nil {
			continue
		}
		dd.CopyEvents = append(dd.CopyEvents, CopyEvent{
			SourceVideoID:        asString(m["sourceVideoId"]),
			SourceChannelName:    asString(m["sourceChannelName"]),
			CopyVideoID:          asString(m["copyVideoId"]),
			CopyChannelName:      asString(m["copyChannelName"]),
			TitleSimilarity:      asNumber(m["titleSimilarity"]),
			TranscriptSimilarity: asNumber(m["transcriptSimilarity"]),
			ThumbnailSimilarity:  asNumber(m["thumbnailSimilarity"]),
			AudioSimilarity:      asNumber(m["audioSimilarity"]),
			CompositeCopyScore:   asNumber(m["compositeCopyScore"]),
			TimeDiffHours:        asNumber(m["timeDiffHours"]),
			CopyOutcome:          asString(m["copyOutcome"]),
			CopyType:             asString(m["copyType"]),
		})
	}

	for _, item := range asList(raw["recommendedMicroNiches"]) {
		m := asObject(item)
		if m == nil {
			continue
		}
		dd.RecommendedMicroNiches = append(dd.RecommendedMicroNiches, sanitizeNiche(m))
	}

	if sm := asObject(raw["shadowMapData"]); sm != nil {
		for _, item := range asList(sm["nodes"]) {
			m := asObject(item)
			if m == nil {
				continue
			}
			dd.ShadowMapData.Nodes = append(dd.ShadowMapData.Nodes, ShadowMapNode{
				ID:    asString(m["id"]),
				Label: asString(m["label"]),
				Type:  asString(m["type"]),
				Date:  asString(m["date"]),
			})
		}
		for _, item := range asList(sm["edges"]) {
			m := asObject(item)
			if m == nil {
				continue
			}
			dd.ShadowMapData.Edges = append(dd.ShadowMapData.Edges, ShadowMapEdge{
				From:   asString(m["from"]),
				To:     asString(m["to"]),
				Weight: asNumber(m["weight"]),
			})
		}
	}

	return dd
}

// asString coerces a JSON tree value into a string. Numbers are formatted
// rather than dropped; anything else becomes "".
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// asNumber coerces a JSON tree value into a float64. Numeric strings parse;
// anything else becomes 0.
func asNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
	}
	return 0
}

// asObject returns the value as a JSON object, or nil.
func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// asList returns the value as a JSON array, or nil.
func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

// asStringList coerces a JSON tree value into a non-nil string slice,
// skipping entries that are not representable as strings.
func asStringList(v any) []string {
	out := []string{}
	for _, item := range asList(v) {
		switch item.(type) {
		case string, float64, bool:
			out = append(out, asString(item))
		}
	}
	return out
}
