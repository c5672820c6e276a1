package domain

import (
	"context"
	"errors"
)

// ErrNotFound reports a lookup miss. Handlers map it to 404 when strict
// lookups are enabled; the default mock contract swallows it.
var ErrNotFound = errors.New("not found")

// ReviewStore loads the review fixture. Implementations reload from the
// backing source on every call; the returned slice is source-ordered.
type ReviewStore interface {
	LoadReviews(ctx context.Context) ([]Review, error)
}

// QCItemStore loads the QC item fixture.
type QCItemStore interface {
	LoadQCItems(ctx context.Context) ([]QCItem, error)
}

// QCWriter receives resolved QC updates. The wired implementation discards
// them: the service acknowledges corrections but never durably applies
// them. Swap in a real store to make updates stick.
type QCWriter interface {
	Apply(ctx context.Context, upd QCUpdate, final string) error
}

// Cache is an optional byte cache in front of fixture reads. Fixture files
// are immutable, so caching their raw bytes does not change any response.
type Cache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, b []byte, ttlSec int) error
	Del(ctx context.Context, key string) error
}
