package nichescope

import (
	"nichescope/gemini"
	"nichescope/platform"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, nichescope.ErrChannelNotFound) {
//		fmt.Println("Channel not found")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var fetchErr *nichescope.FetchError
//	if errors.As(err, &fetchErr) {
//		fmt.Printf("Fetching %s failed: %v\n", fetchErr.Ref, fetchErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// FetchError wraps errors during platform data fetching.
	FetchError = platform.FetchError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrChannelNotFound indicates the channel does not exist.
	ErrChannelNotFound = platform.ErrChannelNotFound
	// ErrQuotaExhausted indicates the platform API quota is spent.
	ErrQuotaExhausted = platform.ErrQuotaExhausted
	// ErrEmptyResponse indicates the model returned no content.
	ErrEmptyResponse = gemini.ErrEmptyResponse
	// ErrBadJSON indicates the model response could not be parsed.
	ErrBadJSON = gemini.ErrBadJSON
)
