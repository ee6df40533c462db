package gemini

import "google.golang.org/genai"

// Response schemas handed to the model. Constraining the output shape here is
// the first line of defense; analysis.Sanitize* remains the second, since the
// model can still return structurally valid but incomplete JSON.

var videoSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"id":           {Type: genai.TypeString},
		"title":        {Type: genai.TypeString},
		"thumbnailUrl": {Type: genai.TypeString},
		"uploadDate":   {Type: genai.TypeString},
		"views":        {Type: genai.TypeNumber},
		"likes":        {Type: genai.TypeNumber},
		"comments":     {Type: genai.TypeNumber},
		"duration":     {Type: genai.TypeString},
		"type":         {Type: genai.TypeString, Enum: []string{"Long", "Short"}},
		"zScore":       {Type: genai.TypeNumber},
		"viewsPerHour": {Type: genai.TypeNumber},
		"performanceLabel": {
			Type: genai.TypeString,
			Enum: []string{"Outlier++", "Outlier+", "Standard", "Underperformer"},
		},
	},
	Required: []string{"id", "title", "views", "performanceLabel"},
}

var microNicheSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":               {Type: genai.TypeString},
		"subNiches":          {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"demandScore":        {Type: genai.TypeNumber},
		"competitionScore":   {Type: genai.TypeNumber},
		"dominanceRatio":     {Type: genai.TypeNumber},
		"monetizationClass":  {Type: genai.TypeString, Enum: []string{"High", "Medium", "Low"}},
		"saturationLevel":    {Type: genai.TypeString, Enum: []string{"Low", "Medium", "High"}},
		"successProbability": {Type: genai.TypeNumber},
		"barrierToEntry":     {Type: genai.TypeString, Enum: []string{"Low", "Medium", "High"}},
		"whyItWorks":         {Type: genai.TypeString},
		"sampleIdeas":        {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"keywords":           {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"name", "demandScore", "competitionScore", "successProbability"},
}

var roadmapItemSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":       {Type: genai.TypeString},
		"hook":        {Type: genai.TypeString},
		"structure":   {Type: genai.TypeString},
		"ctaStrategy": {Type: genai.TypeString},
	},
	Required: []string{"title", "hook"},
}

// analysisSchema constrains the general and channel analysis response.
var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary":                  {Type: genai.TypeString},
		"beginnerOpportunityScore": {Type: genai.TypeNumber},
		"successProbability":       {Type: genai.TypeNumber},
		"channelProfile": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":             {Type: genai.TypeString},
				"subscriberCount":  {Type: genai.TypeString},
				"avgViews":         {Type: genai.TypeNumber},
				"medianViews":      {Type: genai.TypeNumber},
				"engagementRate":   {Type: genai.TypeString},
				"dominantSubNiche": {Type: genai.TypeString},
			},
		},
		"channelAudit": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"strengths":              {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"weaknesses":             {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"expansionOpportunities": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			},
		},
		"videos":      {Type: genai.TypeArray, Items: videoSchema},
		"microNiches": {Type: genai.TypeArray, Items: microNicheSchema},
		"competitors": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":            {Type: genai.TypeString},
					"subscribers":     {Type: genai.TypeString},
					"similarityScore": {Type: genai.TypeNumber},
					"notes":           {Type: genai.TypeString},
				},
				Required: []string{"name"},
			},
		},
		"shadowAnalysis": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"originalVideoId":   {Type: genai.TypeString},
					"copycatChannel":    {Type: genai.TypeString},
					"copycatTitle":      {Type: genai.TypeString},
					"performanceStatus": {Type: genai.TypeString, Enum: []string{"Better", "Worse", "Similar"}},
					"similarityReason":  {Type: genai.TypeString},
				},
			},
		},
		"contentRoadmap": {Type: genai.TypeArray, Items: roadmapItemSchema},
		"globalMonetization": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"topRegions": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"avgRPM":     {Type: genai.TypeString},
			},
		},
	},
	Required: []string{"summary", "microNiches"},
}

// forensicsSchema constrains the single-video originality report.
var forensicsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"videoId":    {Type: genai.TypeString},
		"videoTitle": {Type: genai.TypeString},
		"originalityStatus": {
			Type: genai.TypeString,
			Enum: []string{"Original", "Likely Original", "Derivative", "Likely Copy", "Unclear/Concurrent"},
		},
		"originalityConfidencePct": {Type: genai.TypeNumber},
		"topMatches": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"sourceVideoId":      {Type: genai.TypeString},
					"sourceChannelName":  {Type: genai.TypeString},
					"compositeCopyScore": {Type: genai.TypeNumber},
					"timeDiffHours":      {Type: genai.TypeNumber},
					"copyType":           {Type: genai.TypeString},
				},
			},
		},
		"transcriptSimilarity": {Type: genai.TypeNumber},
		"titleSimilarity":      {Type: genai.TypeNumber},
		"thumbnailSimilarity":  {Type: genai.TypeNumber},
		"audioSimilarity":      {Type: genai.TypeNumber},
		"microNiche": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"label":                    {Type: genai.TypeString},
				"beginnerOpportunityScore": {Type: genai.TypeNumber},
			},
		},
		"roadmap":                {Type: genai.TypeArray, Items: roadmapItemSchema},
		"improvementSuggestions": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"videoTitle", "originalityStatus", "originalityConfidencePct"},
}

// drillDownSchema constrains the per-channel competitive report.
var drillDownSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"channelId":         {Type: genai.TypeString},
		"channelName":       {Type: genai.TypeString},
		"subscriberCount":   {Type: genai.TypeString},
		"copyBehaviorScore": {Type: genai.TypeNumber},
		"originatorScore":   {Type: genai.TypeNumber},
		"outliers":          {Type: genai.TypeArray, Items: videoSchema},
		"copyEvents": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"sourceVideoId":        {Type: genai.TypeString},
					"sourceChannelName":    {Type: genai.TypeString},
					"copyVideoId":          {Type: genai.TypeString},
					"copyChannelName":      {Type: genai.TypeString},
					"titleSimilarity":      {Type: genai.TypeNumber},
					"transcriptSimilarity": {Type: genai.TypeNumber},
					"thumbnailSimilarity":  {Type: genai.TypeNumber},
					"audioSimilarity":      {Type: genai.TypeNumber},
					"compositeCopyScore":   {Type: genai.TypeNumber},
					"timeDiffHours":        {Type: genai.TypeNumber},
					"copyOutcome":          {Type: genai.TypeString, Enum: []string{"Success", "Fail"}},
					"copyType":             {Type: genai.TypeString},
				},
			},
		},
		"recommendedMicroNiches": {Type: genai.TypeArray, Items: microNicheSchema},
		"shadowMapData": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"nodes": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"id":    {Type: genai.TypeString},
							"label": {Type: genai.TypeString},
							"type":  {Type: genai.TypeString, Enum: []string{"channel", "video"}},
							"date":  {Type: genai.TypeString},
						},
						Required: []string{"id", "label"},
					},
				},
				"edges": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"from":   {Type: genai.TypeString},
							"to":     {Type: genai.TypeString},
							"weight": {Type: genai.TypeNumber},
						},
						Required: []string{"from", "to"},
					},
				},
			},
		},
	},
	Required: []string{"channelName", "copyBehaviorScore", "originatorScore"},
}
