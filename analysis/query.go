package analysis

import "strings"

// channelReferenceMinLength is the query length beyond which free text is
// assumed to be a proper channel name rather than a short topic keyword.
const channelReferenceMinLength = 20

// IsVideoQuery reports whether the query references a specific video rather
// than a channel or topic. Classification is a pure function of the string
// and is evaluated once per submission.
func IsVideoQuery(query string) bool {
	return strings.Contains(query, "youtube.com/watch") || strings.Contains(query, "youtu.be/")
}

// LooksLikeChannelReference reports whether a general query plausibly names a
// channel, making a verified-statistics lookup worthwhile. Bare topic
// keywords ("Stoicism", "AI News") fail this check and go straight to the
// model without enrichment.
func LooksLikeChannelReference(query string) bool {
	if strings.Contains(query, "youtube.com") {
		return true
	}
	if strings.HasPrefix(query, "@") {
		return true
	}
	return len([]rune(query)) > channelReferenceMinLength
}
