package domain

import "context"

// ListingStore persists composed records. Commit performs exactly one write and
// returns the generated record id; the store assigns CreatedAt.
type ListingStore interface {
	Commit(ctx context.Context, record *ListingRecord) (string, error)
}

// BlobStorage uploads one object under key and returns its retrieval URL.
type BlobStorage interface {
	Put(ctx context.Context, key string, image Image, onProgress ProgressFunc) (string, error)
}

// Geocoder resolves free-text addresses. Unusable answers are reported as
// ErrAddressUnresolvable.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (*GeocodeResult, error)
}

// SessionProvider yields the caller's session status.
type SessionProvider interface {
	Snapshot(ctx context.Context) Session
}

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// SubmissionGuard makes a form submit idempotent. Acquire returns the previously
// completed submission with the same key, nil when the caller now owns the key, or
// ErrDuplicateSubmission while another attempt holds it.
type SubmissionGuard interface {
	Acquire(ctx context.Context, key string) (*CompletedSubmission, error)
	Complete(ctx context.Context, key string, done CompletedSubmission) error
	Release(ctx context.Context, key string) error
}

// Notifier tells the owner their listing was saved.
type Notifier interface {
	NotifyListingSaved(ctx context.Context, toEmail, listingName, detailPath string) error
}
