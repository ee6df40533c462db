// Package platform fetches verified channel data from the YouTube Data API.
// It resolves free-form channel references to canonical channel ids and builds
// immutable snapshots of a channel's recent uploads for grounding an analysis
// run.
package platform

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"nichescope/analysis"
	"nichescope/internal/pace"
)

// Sentinel errors returned by the client.
var (
	ErrChannelNotFound = errors.New("platform: channel not found")
	ErrQuotaExhausted  = errors.New("platform: api quota exhausted")
	ErrEmptyResponse   = errors.New("platform: empty api response")
)

// FetchError wraps a failure of a single API operation.
type FetchError struct {
	Op  string // "resolve", "snapshot"
	Ref string // the channel reference or id involved
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("platform: %s %q: %v", e.Op, e.Ref, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// channelIDRegex matches canonical channel ids anywhere in a reference.
var channelIDRegex = regexp.MustCompile(`UC[A-Za-z0-9_-]{22}`)

// Quota cost per API operation, in units.
const (
	quotaCostList   = 1
	quotaCostSearch = 100
	dailyQuota      = 10000
)

// Options configures a Client.
type Options struct {
	// SnapshotCap limits how many recent uploads a snapshot contains.
	// Defaults to 50, the playlistItems page size.
	SnapshotCap int
	// QuotaReserve is the minimum number of quota units to keep unspent.
	QuotaReserve int
	// RequestsPerSecond paces outbound API calls. Zero disables pacing.
	RequestsPerSecond float64
	// Burst is the pacing burst size.
	Burst int
}

// Client talks to the YouTube Data API v3. It tracks estimated quota usage
// and stops issuing calls once the configured reserve would be breached.
type Client struct {
	svc     *youtube.Service
	limiter *pace.Limiter
	breaker *pace.Breaker

	snapshotCap  int
	quotaReserve int

	mu             sync.Mutex
	estimatedQuota int
	lastQuotaReset time.Time
	quotaExhausted bool
}

// NewClient creates a client authenticated with the given API key.
func NewClient(ctx context.Context, apiKey string, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("platform: api key required")
	}

	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("platform: create service: %w", err)
	}

	cap := opts.SnapshotCap
	if cap <= 0 || cap > 50 {
		cap = 50
	}

	return &Client{
		svc:            svc,
		limiter:        pace.NewLimiter(opts.RequestsPerSecond, opts.Burst),
		breaker:        pace.NewBreaker(pace.DefaultThreshold, pace.DefaultCooldown),
		snapshotCap:    cap,
		quotaReserve:   opts.QuotaReserve,
		estimatedQuota: dailyQuota,
		lastQuotaReset: time.Now(),
	}, nil
}

// ResolveChannelID converts a free-form channel reference (canonical id, any
// channel URL form, @handle, legacy username, or plain channel name) into a
// canonical channel id. A reference that matches nothing resolves to ("", nil)
// so the caller can proceed without verified data.
func (c *Client) ResolveChannelID(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}

	// Canonical ids pass through, whether bare or embedded in a URL.
	if id := channelIDRegex.FindString(ref); id != "" {
		return id, nil
	}

	if handle := extractHandle(ref); handle != "" {
		id, err := c.lookupChannel(ctx, func() *youtube.ChannelsListCall {
			return c.svc.Channels.List([]string{"id"}).ForHandle(handle)
		})
		if err != nil {
			return "", &FetchError{Op: "resolve", Ref: ref, Err: err}
		}
		if id != "" {
			return id, nil
		}
	}

	if user := extractLegacyUser(ref); user != "" {
		id, err := c.lookupChannel(ctx, func() *youtube.ChannelsListCall {
			return c.svc.Channels.List([]string{"id"}).ForUsername(user)
		})
		if err != nil {
			return "", &FetchError{Op: "resolve", Ref: ref, Err: err}
		}
		if id != "" {
			return id, nil
		}
	}

	// Last resort: one search call. This is 100x the cost of a list call, so
	// it only runs when every cheaper path came up empty.
	id, err := c.searchChannel(ctx, searchTerm(ref))
	if err != nil {
		return "", &FetchError{Op: "resolve", Ref: ref, Err: err}
	}
	return id, nil
}

// extractHandle pulls an @handle out of a bare handle or a /@handle URL.
func extractHandle(ref string) string {
	if strings.HasPrefix(ref, "@") {
		return ref
	}
	if i := strings.Index(ref, "/@"); i >= 0 {
		handle := ref[i+1:]
		handle = strings.Split(handle, "/")[0]
		handle = strings.Split(handle, "?")[0]
		return handle
	}
	return ""
}

// extractLegacyUser pulls the username out of a /user/ URL.
func extractLegacyUser(ref string) string {
	if i := strings.Index(ref, "/user/"); i >= 0 {
		user := ref[i+len("/user/"):]
		user = strings.Split(user, "/")[0]
		user = strings.Split(user, "?")[0]
		return user
	}
	return ""
}

// searchTerm strips URL scaffolding so the search query carries the name part.
func searchTerm(ref string) string {
	term := ref
	for _, marker := range []string{"/c/", "/channel/"} {
		if i := strings.Index(term, marker); i >= 0 {
			term = term[i+len(marker):]
		}
	}
	term = strings.Split(term, "/")[0]
	term = strings.Split(term, "?")[0]
	return strings.TrimPrefix(term, "@")
}

// lookupChannel runs a channels.list call and returns the first id, or ""
// when the call matched nothing.
func (c *Client) lookupChannel(ctx context.Context, build func() *youtube.ChannelsListCall) (string, error) {
	var id string
	err := c.paced(ctx, quotaCostList, func() error {
		resp, err := build().Context(ctx).Do()
		if err != nil {
			return err
		}
		if len(resp.Items) > 0 {
			id = resp.Items[0].Id
		}
		return nil
	})
	return id, err
}

// searchChannel resolves a plain name via search.list. No match is not an
// error.
func (c *Client) searchChannel(ctx context.Context, term string) (string, error) {
	var id string
	err := c.paced(ctx, quotaCostSearch, func() error {
		resp, err := c.svc.Search.List([]string{"id"}).
			Q(term).
			Type("channel").
			MaxResults(1).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		if len(resp.Items) > 0 && resp.Items[0].Id != nil {
			id = resp.Items[0].Id.ChannelId
		}
		return nil
	})
	return id, err
}

// FetchSnapshot retrieves the channel's profile and its most recent uploads.
func (c *Client) FetchSnapshot(ctx context.Context, channelID string) (*analysis.ChannelSnapshot, error) {
	snap, uploadsPlaylist, err := c.fetchChannel(ctx, channelID)
	if err != nil {
		return nil, &FetchError{Op: "snapshot", Ref: channelID, Err: err}
	}

	videoIDs, err := c.listRecentUploads(ctx, uploadsPlaylist)
	if err != nil {
		return nil, &FetchError{Op: "snapshot", Ref: channelID, Err: err}
	}

	if len(videoIDs) > 0 {
		videos, err := c.fetchVideos(ctx, videoIDs)
		if err != nil {
			return nil, &FetchError{Op: "snapshot", Ref: channelID, Err: err}
		}
		snap.Videos = videos
	} else {
		snap.Videos = []analysis.SnapshotVideo{}
	}

	log.Printf("platform: snapshot for %s: %d videos, quota remaining %d",
		channelID, len(snap.Videos), c.RemainingQuota())
	return snap, nil
}

// fetchChannel loads profile counters and the uploads playlist id.
func (c *Client) fetchChannel(ctx context.Context, channelID string) (*analysis.ChannelSnapshot, string, error) {
	var snap *analysis.ChannelSnapshot
	var uploads string

	err := c.paced(ctx, quotaCostList, func() error {
		resp, err := c.svc.Channels.List([]string{"snippet", "contentDetails", "statistics"}).
			Id(channelID).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		if len(resp.Items) == 0 {
			return ErrChannelNotFound
		}

		ch := resp.Items[0]
		snap = &analysis.ChannelSnapshot{ID: ch.Id}
		if ch.Snippet != nil {
			snap.Title = ch.Snippet.Title
		}
		if ch.Statistics != nil {
			snap.Stats = analysis.ChannelStats{
				ViewCount:       int64(ch.Statistics.ViewCount),
				SubscriberCount: int64(ch.Statistics.SubscriberCount),
				VideoCount:      int64(ch.Statistics.VideoCount),
			}
		}
		if ch.ContentDetails != nil && ch.ContentDetails.RelatedPlaylists != nil {
			uploads = ch.ContentDetails.RelatedPlaylists.Uploads
		}
		if uploads == "" {
			return ErrEmptyResponse
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return snap, uploads, nil
}

// listRecentUploads returns the ids of the newest uploads, capped to a single
// playlist page.
func (c *Client) listRecentUploads(ctx context.Context, playlistID string) ([]string, error) {
	var ids []string
	err := c.paced(ctx, quotaCostList, func() error {
		resp, err := c.svc.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(int64(c.snapshotCap)).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		for _, item := range resp.Items {
			if item.ContentDetails != nil {
				ids = append(ids, item.ContentDetails.VideoId)
			}
		}
		return nil
	})
	return ids, err
}

// fetchVideos loads per-video stats in batches of 50 ids per call.
func (c *Client) fetchVideos(ctx context.Context, ids []string) ([]analysis.SnapshotVideo, error) {
	videos := make([]analysis.SnapshotVideo, 0, len(ids))

	for start := 0; start < len(ids); start += 50 {
		end := start + 50
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		err := c.paced(ctx, quotaCostList, func() error {
			resp, err := c.svc.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
				Id(batch...).
				Context(ctx).
				Do()
			if err != nil {
				return err
			}
			for _, item := range resp.Items {
				videos = append(videos, snapshotVideoFromAPI(item))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return videos, nil
}

func snapshotVideoFromAPI(item *youtube.Video) analysis.SnapshotVideo {
	v := analysis.SnapshotVideo{ID: item.Id}
	if item.Snippet != nil {
		v.Title = item.Snippet.Title
		v.PublishedAt = item.Snippet.PublishedAt
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Medium != nil {
			v.ThumbnailURL = item.Snippet.Thumbnails.Medium.Url
		}
	}
	if item.Statistics != nil {
		v.Stats = analysis.VideoStats{
			ViewCount:    int64(item.Statistics.ViewCount),
			LikeCount:    int64(item.Statistics.LikeCount),
			CommentCount: int64(item.Statistics.CommentCount),
		}
	}
	if item.ContentDetails != nil {
		v.Duration = FormatDuration(item.ContentDetails.Duration)
	}
	return v
}

// paced runs one API call behind the limiter, breaker, and quota tracker.
func (c *Client) paced(ctx context.Context, cost int, call func() error) error {
	if err := c.checkQuota(cost); err != nil {
		return err
	}
	if err := c.breaker.Allow(); err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	err := call()
	if err != nil {
		c.breaker.RecordFailure()
		if isQuotaError(err) {
			c.markExhausted()
			return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
		}
		return err
	}

	c.breaker.RecordSuccess()
	c.trackQuotaUsage(cost)
	return nil
}

// checkQuota refuses a call whose cost would breach the reserve.
func (c *Client) checkQuota(cost int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maybeResetQuota()
	if c.quotaExhausted || c.estimatedQuota-cost < c.quotaReserve {
		return ErrQuotaExhausted
	}
	return nil
}

func (c *Client) trackQuotaUsage(units int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maybeResetQuota()
	c.estimatedQuota -= units
	if c.estimatedQuota < c.quotaReserve && !c.quotaExhausted {
		log.Printf("platform: quota exhausted (remaining %d, reserve %d)", c.estimatedQuota, c.quotaReserve)
		c.quotaExhausted = true
	}
}

func (c *Client) markExhausted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.estimatedQuota = 0
	c.quotaExhausted = true
}

// maybeResetQuota restores the daily budget once a day. Caller holds c.mu.
func (c *Client) maybeResetQuota() {
	if time.Since(c.lastQuotaReset) > 24*time.Hour {
		c.estimatedQuota = dailyQuota
		c.lastQuotaReset = time.Now()
		c.quotaExhausted = false
		log.Printf("platform: quota reset (new day)")
	}
}

// RemainingQuota returns the estimated unspent quota units.
func (c *Client) RemainingQuota() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.estimatedQuota
}

func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "quotaExceeded") || strings.Contains(msg, "dailyLimitExceeded")
}
