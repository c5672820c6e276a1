package app

import (
	"context"

	"sentiment_qc/internal/domain"
)

// AnalyticsService answers the dashboard's metrics and review-sample
// queries. It holds no state beyond the store: every call reloads the
// fixture and aggregates from scratch.
type AnalyticsService struct {
	reviews domain.ReviewStore
}

func NewAnalyticsService(r domain.ReviewStore) *AnalyticsService {
	return &AnalyticsService{reviews: r}
}

func (s *AnalyticsService) Metrics(ctx context.Context, platformFilter []string) (domain.Metrics, error) {
	rs, err := s.reviews.LoadReviews(ctx)
	if err != nil {
		return domain.Metrics{}, err
	}
	return ComputeMetrics(rs, platformFilter), nil
}

func (s *AnalyticsService) Reviews(ctx context.Context, q domain.ReviewsQuery) (domain.ReviewsPage, error) {
	rs, err := s.reviews.LoadReviews(ctx)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	items, total := SelectReviews(rs, q.Platform, q.Sort, q.Limit)
	return domain.ReviewsPage{Items: items, TotalFound: total}, nil
}
