package domain

import (
	"context"
	"time"
)

// ClassificationCache caches classification results keyed by page identity
// (normalized URL). Entries expire after a fixed window.
type ClassificationCache interface {
	Get(ctx context.Context, key string) (*ClassificationResult, error)
	Set(ctx context.Context, key string, result *ClassificationResult, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RecordStore persists extracted records for reuse on a different page.
// Best-effort: callers treat absence as "nothing extracted yet", not an error.
type RecordStore interface {
	Save(ctx context.Context, key string, record *ExtractedRecord, ttl time.Duration) error
	Get(ctx context.Context, key string) (*ExtractedRecord, error)
	Delete(ctx context.Context, key string) error
}
