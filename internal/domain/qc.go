package domain

import "time"

// QC item statuses.
const (
	QCStatusPending  = "pending"
	QCStatusReviewed = "reviewed"
)

// QCItem is one review/aspect pair queued for human audit, as stored in
// qc_items.json. Several items may reference the same review (one per
// aspect under review).
type QCItem struct {
	QCItemID           int64   `json:"qc_item_id"`
	ReviewID           int64   `json:"review_id"`
	ReviewContent      string  `json:"review_content"`
	Aspect             string  `json:"aspect"`
	PredictedSentiment string  `json:"predicted_sentiment"`
	Confidence         float64 `json:"confidence"`
	SentimentGap       float64 `json:"sentiment_gap"`
	Status             string  `json:"status"`
}

// SessionSummary describes a freshly created QC session: how many items it
// covers and how they split between the low-confidence bucket and the
// random-audit bucket.
type SessionSummary struct {
	SessionID          string
	TotalItems         int
	LowConfidenceCount int
	RandomAuditCount   int
	CreatedAt          time.Time
}

// Progress counts reviewed vs remaining items in a session.
type Progress struct {
	Total     int `json:"total"`
	Reviewed  int `json:"reviewed"`
	Remaining int `json:"remaining"`
}

// QCUpdate is a human correction for one QC item. An empty CorrectSentiment
// means the auditor confirmed the prediction as-is.
type QCUpdate struct {
	QCItemID         int64
	CorrectSentiment string
	Confirmed        int
}

// UpdateResult is the acknowledged outcome of a QC update.
type UpdateResult struct {
	QCItemID       int64
	Status         string
	FinalSentiment string
	UpdatedAt      time.Time
}
