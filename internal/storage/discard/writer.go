// Package discard provides the no-op QC write adapter: updates are
// acknowledged to the caller but never durably applied, which is the
// documented contract of the mock backend. Replacing this with a real
// store is the only change needed to make corrections stick.
package discard

import (
	"context"

	"github.com/rs/zerolog/log"

	"sentiment_qc/internal/domain"
)

type Writer struct{}

func NewWriter() *Writer { return &Writer{} }

func (w *Writer) Apply(ctx context.Context, upd domain.QCUpdate, final string) error {
	log.Debug().
		Int64("qc_item_id", upd.QCItemID).
		Str("final_sentiment", final).
		Int("confirmed", upd.Confirmed).
		Msg("qc update discarded (no persistence)")
	return nil
}
