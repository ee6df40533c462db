package analysis

import (
	"math"
	"sort"
)

// ScoredVideo pairs a snapshot video with its view-count z-score.
type ScoredVideo struct {
	SnapshotVideo
	ZScore float64
}

// ScoreVideos computes the z-score of each video's view count against the
// snapshot's mean, using the population standard deviation. When the standard
// deviation is zero (uniform views, or fewer than two videos) every z-score
// is zero.
func ScoreVideos(videos []SnapshotVideo) []ScoredVideo {
	scored := make([]ScoredVideo, len(videos))
	if len(videos) == 0 {
		return scored
	}

	var sum float64
	for _, v := range videos {
		sum += float64(v.Stats.ViewCount)
	}
	mean := sum / float64(len(videos))

	var variance float64
	for _, v := range videos {
		d := float64(v.Stats.ViewCount) - mean
		variance += d * d
	}
	variance /= float64(len(videos))
	stddev := math.Sqrt(variance)

	for i, v := range videos {
		z := 0.0
		if stddev > 0 {
			z = (float64(v.Stats.ViewCount) - mean) / stddev
		}
		scored[i] = ScoredVideo{SnapshotVideo: v, ZScore: z}
	}
	return scored
}

// TopOutliers returns the n highest-scoring videos, ordered by z-score
// descending. The sort is stable, so ties keep their snapshot order. Returns
// fewer than n entries when the snapshot is smaller.
func TopOutliers(videos []SnapshotVideo, n int) []ScoredVideo {
	if n <= 0 {
		return nil
	}
	scored := ScoreVideos(videos)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].ZScore > scored[j].ZScore
	})
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}
