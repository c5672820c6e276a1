package domain

// Recognized sentiment values. Anything else is excluded from aggregate
// counts (not an error).
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Review is one customer review with per-aspect sentiment predictions,
// as stored in reviews.json.
type Review struct {
	ReviewID       int64                   `json:"review_id"`
	SourcePlatform string                  `json:"source_platform"`
	ReviewDate     string                  `json:"review_date"`
	Content        string                  `json:"content"`
	Results        map[string]AspectResult `json:"results"`
}

// AspectResult is the model output for a single aspect of a review.
type AspectResult struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// SentimentCounts groups counts by the three recognized sentiments.
type SentimentCounts struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Total is the sum across all three buckets.
func (c SentimentCounts) Total() int { return c.Positive + c.Negative + c.Neutral }

// Metrics is the request-scoped aggregation over a review set.
// PlatformCounts always covers the full unfiltered set; OverallSentiment and
// AspectMetrics cover the filtered subset. Aspect keys are upper-cased.
type Metrics struct {
	PlatformCounts   map[string]int             `json:"platform_counts"`
	OverallSentiment SentimentCounts            `json:"overall_sentiment"`
	AspectMetrics    map[string]SentimentCounts `json:"aspect_metrics"`
}

// ReviewsQuery selects a sample or prefix of reviews for one platform.
type ReviewsQuery struct {
	Platform string
	Sort     string
	Limit    int
}

// ReviewsPage is the selected reviews plus the filtered-set size before
// limiting.
type ReviewsPage struct {
	Items      []Review
	TotalFound int
}
