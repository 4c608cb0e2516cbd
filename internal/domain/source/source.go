package source

import (
	"context"
	"errors"
	"time"

	"github.com/questboard/backend/internal/entity"
)

// ErrUnavailable marks a source that could not be reached at all (network,
// auth, timeout). The orchestrator treats it as non-fatal and proceeds with
// the remaining sources.
var ErrUnavailable = errors.New("source unavailable")

// RawListing is a listing as a source produced it, before normalization.
// Text fields are carried verbatim; RewardText is the unparsed price string.
type RawListing struct {
	Source     entity.SourceType
	ExternalID string

	Title       string
	Description string
	Link        string
	Author      string

	RewardText string
	Location   string

	// Score is the source ranking signal (e.g. reddit upvotes); -1 when the
	// source has none.
	Score int

	PostedAt time.Time
}

// Source adapters fetch raw listings from one external source. Fetch returns
// the listings, the number of malformed items it skipped, and an error only
// when the source is fully unreachable (wrapped with ErrUnavailable).
// A single malformed item never fails the fetch.
type Source interface {
	Name() entity.SourceType
	Fetch(ctx context.Context) ([]RawListing, int, error)
}

// Acker is implemented by queue-backed sources. Scraped sources re-serve an
// item on the next fetch, so a failed ingestion is retried naturally; a queue
// must keep serving an item until the orchestrator acknowledges it as durably
// handled (stored, or dropped for good).
type Acker interface {
	Ack(ctx context.Context, externalID string) error
}
