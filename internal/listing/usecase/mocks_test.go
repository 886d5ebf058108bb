package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"github.com/stretchr/testify/mock"
)

type MockListingStore struct{ mock.Mock }

func (m *MockListingStore) Commit(ctx context.Context, record *domain.ListingRecord) (string, error) {
	args := m.Called(ctx, record)
	return args.String(0), args.Error(1)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Resolve(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeocodeResult), args.Error(1)
}

type MockSubmissionGuard struct{ mock.Mock }

func (m *MockSubmissionGuard) Acquire(ctx context.Context, key string) (*domain.CompletedSubmission, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompletedSubmission), args.Error(1)
}
func (m *MockSubmissionGuard) Complete(ctx context.Context, key string, done domain.CompletedSubmission) error {
	args := m.Called(ctx, key, done)
	return args.Error(0)
}
func (m *MockSubmissionGuard) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// memoryGuard is a SubmissionGuard with SETNX semantics. It refuses writes on a
// cancelled context like a real network client would.
type memoryGuard struct {
	mu      sync.Mutex
	pending map[string]bool
	done    map[string]domain.CompletedSubmission
}

func newMemoryGuard() *memoryGuard {
	return &memoryGuard{pending: map[string]bool{}, done: map[string]domain.CompletedSubmission{}}
}

func (g *memoryGuard) Acquire(ctx context.Context, key string) (*domain.CompletedSubmission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if d, ok := g.done[key]; ok {
		return &d, nil
	}
	if g.pending[key] {
		return nil, domain.ErrDuplicateSubmission
	}
	g.pending[key] = true
	return nil, nil
}

func (g *memoryGuard) Complete(ctx context.Context, key string, done domain.CompletedSubmission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, key)
	g.done[key] = done
	return nil
}

func (g *memoryGuard) Release(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, key)
	return nil
}

func (g *memoryGuard) isPending(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending[key]
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyListingSaved(ctx context.Context, toEmail, listingName, detailPath string) error {
	args := m.Called(ctx, toEmail, listingName, detailPath)
	return args.Error(0)
}

type staticSessions domain.Session

func (s staticSessions) Snapshot(context.Context) domain.Session {
	return domain.Session(s)
}

var errStorageDown = errors.New("storage unavailable")

// fakeStorage is a BlobStorage whose per-image latency and failure are keyed by
// image name. It reports two progress events per successful upload.
type fakeStorage struct {
	mu     sync.Mutex
	delay  map[string]time.Duration
	fail   map[string]bool
	puts   []string
	starts int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{delay: map[string]time.Duration{}, fail: map[string]bool{}}
}

func (s *fakeStorage) Put(ctx context.Context, key string, image domain.Image, onProgress domain.ProgressFunc) (string, error) {
	s.mu.Lock()
	s.starts++
	d := s.delay[image.Name]
	failing := s.fail[image.Name]
	s.mu.Unlock()

	if d > 0 {
		time.Sleep(d)
	}
	if failing {
		return "", errStorageDown
	}
	total := image.Size()
	onProgress(domain.Progress{BytesTransferred: total / 2, TotalBytes: total, State: domain.TransferRunning})
	onProgress(domain.Progress{BytesTransferred: total, TotalBytes: total, State: domain.TransferRunning})

	s.mu.Lock()
	s.puts = append(s.puts, key)
	s.mu.Unlock()
	return "https://cdn.test/" + key, nil
}

func (s *fakeStorage) startCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts
}

func (s *fakeStorage) storedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.puts...)
}

func testImages(names ...string) []domain.Image {
	images := make([]domain.Image, 0, len(names))
	for _, n := range names {
		images = append(images, domain.Image{Name: n, ContentType: "image/jpeg", Data: []byte(strings.Repeat("x", 64))})
	}
	return images
}

func validDraft() *domain.ListingDraft {
	return &domain.ListingDraft{
		Kind:            domain.KindRent,
		Name:            "Cozy Loft",
		BedroomCount:    1,
		BathroomCount:   1,
		RegularPrice:    1500,
		ManualLatitude:  40.7,
		ManualLongitude: -74.0,
		Images:          testImages("cover.jpg", "kitchen.jpg"),
	}
}
