package app

import (
	"math/rand"
	"strings"

	"sentiment_qc/internal/domain"
)

// ComputeMetrics aggregates sentiment counts for the dashboard.
//
// PlatformCounts is always computed over the full review set (lower-cased
// platform key): the dashboard shows per-platform availability regardless
// of the active filter. Overall and per-aspect counts cover the filtered
// subset only. Filtering honors just the first entry of platformFilter
// (case-insensitive); an empty list or an "all" entry disables it. The
// multi-value shape is accepted but not applied — known limitation of the
// original contract, kept on purpose.
func ComputeMetrics(reviews []domain.Review, platformFilter []string) domain.Metrics {
	m := domain.Metrics{
		PlatformCounts: make(map[string]int),
		AspectMetrics:  make(map[string]domain.SentimentCounts),
	}

	for _, r := range reviews {
		m.PlatformCounts[strings.ToLower(r.SourcePlatform)]++
	}

	for _, r := range filterForMetrics(reviews, platformFilter) {
		for aspect, res := range r.Results {
			if !recognized(res.Sentiment) {
				continue
			}
			bump(&m.OverallSentiment, res.Sentiment)
			key := strings.ToUpper(aspect)
			ac := m.AspectMetrics[key] // zero counts on first sight
			bump(&ac, res.Sentiment)
			m.AspectMetrics[key] = ac
		}
	}
	return m
}

// SelectReviews filters by exact platform match (unless platform is empty
// or "all") and returns either a uniform sample without replacement
// (sortMode "random") or the filtered-order prefix. The second return is
// the filtered count before limiting. A non-positive limit yields an empty
// result.
func SelectReviews(reviews []domain.Review, platform, sortMode string, limit int) ([]domain.Review, int) {
	filtered := reviews
	if platform != "" && platform != "all" {
		filtered = make([]domain.Review, 0, len(reviews))
		for _, r := range reviews {
			if r.SourcePlatform == platform {
				filtered = append(filtered, r)
			}
		}
	}
	total := len(filtered)

	if limit <= 0 {
		return []domain.Review{}, total
	}
	n := limit
	if n > total {
		n = total
	}

	if sortMode == "random" {
		out := make([]domain.Review, 0, n)
		for _, idx := range rand.Perm(total)[:n] {
			out = append(out, filtered[idx])
		}
		return out, total
	}
	return filtered[:n:n], total
}

func filterForMetrics(reviews []domain.Review, platformFilter []string) []domain.Review {
	if len(platformFilter) == 0 {
		return reviews
	}
	for _, p := range platformFilter {
		if strings.EqualFold(p, "all") {
			return reviews
		}
	}
	want := platformFilter[0] // only the first value applies
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if strings.EqualFold(r.SourcePlatform, want) {
			out = append(out, r)
		}
	}
	return out
}

func recognized(sentiment string) bool {
	switch sentiment {
	case domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral:
		return true
	}
	return false
}

func bump(c *domain.SentimentCounts, sentiment string) {
	switch sentiment {
	case domain.SentimentPositive:
		c.Positive++
	case domain.SentimentNegative:
		c.Negative++
	case domain.SentimentNeutral:
		c.Neutral++
	}
}
