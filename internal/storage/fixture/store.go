package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"sentiment_qc/internal/adapters/observability"
	"sentiment_qc/internal/domain"
)

// Fixture file names under the configured directory.
const (
	ReviewsFile = "reviews.json"
	QCItemsFile = "qc_items.json"
)

// Store serves both fixture files. Every Load* call re-reads the backing
// file, so concurrent requests never share mutable state. In the default
// (non-strict) mode a missing or corrupt file degrades to an empty slice;
// strict mode surfaces the error instead.
type Store struct {
	dir      string
	strict   bool
	cache    domain.Cache // optional; caches raw file bytes only
	cacheTTL int          // seconds
}

func New(dir string, strict bool, cache domain.Cache, cacheTTLSec int) *Store {
	return &Store{dir: dir, strict: strict, cache: cache, cacheTTL: cacheTTLSec}
}

func (s *Store) LoadReviews(ctx context.Context) ([]domain.Review, error) {
	var out []domain.Review
	if err := s.load(ctx, ReviewsFile, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Review{}
	}
	return out, nil
}

func (s *Store) LoadQCItems(ctx context.Context) ([]domain.QCItem, error) {
	var out []domain.QCItem
	if err := s.load(ctx, QCItemsFile, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.QCItem{}
	}
	return out, nil
}

func (s *Store) load(ctx context.Context, name string, dst any) error {
	b, err := s.read(ctx, name)
	if err != nil {
		observability.ObserveFixtureLoad(name, "missing")
		if s.strict {
			return fmt.Errorf("read fixture %s: %w", name, err)
		}
		log.Warn().Str("fixture", name).Err(err).Msg("fixture unreadable, serving empty set")
		return nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		observability.ObserveFixtureLoad(name, "corrupt")
		if s.strict {
			return fmt.Errorf("parse fixture %s: %w", name, err)
		}
		log.Warn().Str("fixture", name).Err(err).Msg("fixture corrupt, serving empty set")
		return nil
	}
	observability.ObserveFixtureLoad(name, "ok")
	return nil
}

func (s *Store) read(ctx context.Context, name string) ([]byte, error) {
	key := "fixture:" + name
	if s.cache != nil {
		if b, ok, _ := s.cache.GetBytes(ctx, key); ok {
			return b, nil
		}
	}
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetBytes(ctx, key, b, s.cacheTTL)
	}
	return b, nil
}
