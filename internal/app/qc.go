package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"sentiment_qc/internal/adapters/observability"
	"sentiment_qc/internal/domain"
)

// Session breakdown is a stub preserved from the original mock: the split
// between the low-confidence bucket and the random-audit bucket is fixed,
// not derived from a confidence threshold. The committed fixture carries
// exactly this many items.
const (
	lowConfidenceCount = 8
	randomAuditCount   = 4

	// Shown in the session meta; the mock serves a single batch.
	BatchName = "Sentiment Review Batch"
)

// QCService owns the quality-control workflow: session creation, item
// listing with progress counters, and update resolution. Updates flow
// through a QCWriter which, in this design, discards them.
type QCService struct {
	items  domain.QCItemStore
	writer domain.QCWriter
	strict bool // unknown qc_item_id becomes ErrNotFound instead of a fallback
}

func NewQCService(items domain.QCItemStore, w domain.QCWriter, strict bool) *QCService {
	return &QCService{items: items, writer: w, strict: strict}
}

func (s *QCService) CreateSession(ctx context.Context, batchID string) (domain.SessionSummary, error) {
	sum := domain.SessionSummary{
		SessionID:          uuid.NewString(),
		TotalItems:         lowConfidenceCount + randomAuditCount,
		LowConfidenceCount: lowConfidenceCount,
		RandomAuditCount:   randomAuditCount,
		CreatedAt:          time.Now().UTC(),
	}
	log.Info().Str("batch_id", batchID).Str("session_id", sum.SessionID).Msg("qc session created")
	return sum, nil
}

// SessionItems returns the full QC fixture with progress counters. The
// session id is accepted but not used for selection: every session maps to
// the same fixture.
func (s *QCService) SessionItems(ctx context.Context, sessionID string) (domain.Progress, []domain.QCItem, error) {
	items, err := s.items.LoadQCItems(ctx)
	if err != nil {
		return domain.Progress{}, nil, err
	}
	p := domain.Progress{Total: len(items)}
	for _, it := range items {
		if it.Status == domain.QCStatusReviewed {
			p.Reviewed++
		}
	}
	p.Remaining = p.Total - p.Reviewed
	return p, items, nil
}

// UpdateItem resolves the final sentiment for a correction and hands it to
// the writer. Resolution order: the auditor's correct_sentiment if given
// (passed through unvalidated), else the item's predicted sentiment, else
// "neutral" when the id is unknown. Unknown ids still succeed unless strict
// lookups are on.
func (s *QCService) UpdateItem(ctx context.Context, id int64, upd domain.QCUpdate) (domain.UpdateResult, error) {
	upd.QCItemID = id

	items, err := s.items.LoadQCItems(ctx)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	var found *domain.QCItem
	for i := range items {
		if items[i].QCItemID == id {
			found = &items[i]
			break
		}
	}

	final := upd.CorrectSentiment
	resolution := "corrected"
	if final == "" {
		if found != nil {
			final = found.PredictedSentiment
			resolution = "confirmed"
		} else {
			final = domain.SentimentNeutral
			resolution = "fallback"
		}
	}
	if found == nil && s.strict {
		return domain.UpdateResult{}, domain.ErrNotFound
	}

	if err := s.writer.Apply(ctx, upd, final); err != nil {
		return domain.UpdateResult{}, err
	}
	observability.ObserveQCUpdate(resolution)

	return domain.UpdateResult{
		QCItemID:       id,
		Status:         domain.QCStatusReviewed,
		FinalSentiment: final,
		UpdatedAt:      time.Now().UTC(),
	}, nil
}
