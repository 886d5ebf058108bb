package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("house-marketplace/listing-usecase")

const (
	SubjectListingCreated = "listing.created"
	SubjectUploadOrphaned = "listing.upload.orphaned"
)

// SubmitOptions tune a single submission.
type SubmitOptions struct {
	// ResolveAddress geocodes AddressText instead of using the manual coordinates.
	ResolveAddress bool
	// IdempotencyKey identifies one form submit of one owner. Empty disables the guard.
	IdempotencyKey string
	// OnProgress receives per-image upload progress until Submit returns. Calls are
	// serialized; none happen after Submit returns.
	OnProgress domain.ProgressFunc
	// OnTransition observes every state change, including the terminal one.
	OnTransition func(from, to domain.State)
}

// Outcome is the terminal result of a submission.
type Outcome struct {
	State    domain.State
	RecordID string
	Kind     domain.Kind
	Record   *domain.ListingRecord
	Err      error
}

// DetailPath is the client route of the created listing, or "" if none was created.
func (o *Outcome) DetailPath() string {
	if o == nil || o.RecordID == "" {
		return ""
	}
	return domain.DetailPath(o.Kind, o.RecordID)
}

// Message is the notification shown to the user for this outcome.
func (o *Outcome) Message() string {
	return domain.UserMessage(o.Err)
}

// SubmissionUsecase runs the listing submission pipeline: validate, optionally
// geocode, upload images, compose the record and commit it once.
type SubmissionUsecase struct {
	sessions    domain.SessionProvider
	geocoder    domain.Geocoder
	coordinator *UploadCoordinator
	store       domain.ListingStore
	guard       domain.SubmissionGuard
	publisher   domain.EventPublisher
	notifier    domain.Notifier
	metrics     *metrics.MetricsManager
	logger      *logger.Logger
}

// SubmissionDeps groups the collaborators of SubmissionUsecase. Guard, Publisher,
// Notifier and Metrics are optional.
type SubmissionDeps struct {
	Sessions  domain.SessionProvider
	Geocoder  domain.Geocoder
	Storage   domain.BlobStorage
	Store     domain.ListingStore
	Guard     domain.SubmissionGuard
	Publisher domain.EventPublisher
	Notifier  domain.Notifier
	Metrics   *metrics.MetricsManager
}

func NewSubmissionUsecase(deps SubmissionDeps, log *logger.Logger) *SubmissionUsecase {
	uc := &SubmissionUsecase{
		sessions:  deps.Sessions,
		geocoder:  deps.Geocoder,
		store:     deps.Store,
		guard:     deps.Guard,
		publisher: deps.Publisher,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		logger:    log.Named("SubmissionUsecase"),
	}
	uploader := NewAssetUploader(deps.Storage, log, deps.Metrics)
	uc.coordinator = NewUploadCoordinator(uploader, log, uc.reportOrphans)
	return uc
}

// Submit runs one submission of draft to a terminal state. It refuses to start
// without an active session (ErrNoActiveSession, nil outcome) or while another submit
// with the same idempotency key is running (ErrDuplicateSubmission). Otherwise the
// returned outcome carries the terminal state, and err equals outcome.Err.
func (uc *SubmissionUsecase) Submit(ctx context.Context, draft *domain.ListingDraft, opts SubmitOptions) (*Outcome, error) {
	sess := uc.sessions.Snapshot(ctx)
	if !sess.Active {
		uc.logger.Warn("Submission refused: no active session")
		return nil, domain.ErrNoActiveSession
	}
	if err := draft.BindOwner(sess.OwnerID); err != nil {
		uc.logger.Warn("Submission refused: owner binding failed", zap.String("session_owner_id", sess.OwnerID), zap.Error(err))
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "SubmissionUsecase.Submit", oteltrace.WithAttributes(
		attribute.String("owner_id", sess.OwnerID),
		attribute.String("kind", string(draft.Kind)),
		attribute.Int("image_count", len(draft.Images)),
		attribute.Bool("resolve_address", opts.ResolveAddress),
	))
	defer span.End()

	log := uc.logger.With(zap.String("owner_id", sess.OwnerID))
	run := newSubmissionRun(opts, log)
	defer run.dispose()
	started := time.Now()

	run.to(domain.StateValidating)
	if err := ValidateDraft(draft, opts.ResolveAddress); err != nil {
		return uc.finish(ctx, span, run, started, sess, run.fail(draft, domain.StateValidationFailed, err))
	}

	guardKey := ""
	if opts.IdempotencyKey != "" && uc.guard != nil {
		guardKey = submissionGuardKey(sess.OwnerID, opts.IdempotencyKey, draft)
		done, err := uc.guard.Acquire(ctx, guardKey)
		if err != nil {
			log.Warn("Submission refused by guard", zap.String("idempotency_key", opts.IdempotencyKey), zap.Error(err))
			span.RecordError(err)
			return nil, err
		}
		if done != nil {
			log.Info("Submission already committed, returning existing record", zap.String("record_id", done.RecordID))
			return &Outcome{State: domain.StateSucceeded, RecordID: done.RecordID, Kind: done.Kind}, nil
		}
	}

	outcome := uc.run(ctx, run, draft, opts)
	if guardKey != "" {
		uc.settleGuard(context.WithoutCancel(ctx), log, guardKey, outcome)
	}
	return uc.finish(ctx, span, run, started, sess, outcome)
}

// submissionGuardKey scopes an idempotency key to its owner and to the draft contents,
// so a reused key never replays a record that another owner or another draft produced.
func submissionGuardKey(ownerID, idempotencyKey string, d *domain.ListingDraft) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%d|%t|%t|%t|%d|%d|%s|%g|%g",
		d.Kind, d.Name, d.BedroomCount, d.BathroomCount, d.HasParking, d.IsFurnished, d.HasOffer,
		d.RegularPrice, d.DiscountedPrice, d.AddressText, d.ManualLatitude, d.ManualLongitude)
	for _, img := range d.Images {
		fmt.Fprintf(h, "|%s|%d|", img.Name, img.Size())
		h.Write(img.Data)
	}
	return ownerID + ":" + idempotencyKey + ":" + hex.EncodeToString(h.Sum(nil)[:16])
}

// finish records the terminal outcome and runs post-commit effects on success.
func (uc *SubmissionUsecase) finish(ctx context.Context, span oteltrace.Span, run *submissionRun, started time.Time, sess domain.Session, outcome *Outcome) (*Outcome, error) {
	if !outcome.State.IsTerminal() {
		panic(fmt.Sprintf("listing submission: finished in non-terminal state %s", outcome.State))
	}
	uc.metrics.ObserveSubmission(string(outcome.State), time.Since(started))
	span.SetAttributes(attribute.String("terminal_state", string(outcome.State)))
	if outcome.Err != nil {
		span.RecordError(outcome.Err)
		span.SetStatus(codes.Error, string(outcome.State))
	}
	if outcome.State == domain.StateSucceeded {
		uc.afterCommit(ctx, run.logger, sess, outcome)
	}
	return outcome, outcome.Err
}

// run drives a validated draft from address resolution to a terminal state.
func (uc *SubmissionUsecase) run(ctx context.Context, run *submissionRun, draft *domain.ListingDraft, opts SubmitOptions) *Outcome {
	point := domain.GeoPoint{Lat: draft.ManualLatitude, Lng: draft.ManualLongitude}
	location := ""
	if opts.ResolveAddress {
		run.to(domain.StateResolvingAddress)
		resolved, err := uc.resolveAddress(ctx, draft.AddressText)
		if err != nil {
			return run.fail(draft, domain.StateAddressUnresolvable, err)
		}
		point, location = resolved.Point, resolved.FormattedAddress
	}

	run.to(domain.StateUploading)
	urls, err := uc.coordinator.UploadAll(ctx, draft.OwnerID(), draft.Images, run.progress)
	if err != nil {
		return run.fail(draft, domain.StateUploadFailed, err)
	}

	run.to(domain.StateComposing)
	record := ComposeRecord(draft, point, location, urls)

	run.to(domain.StateCommitting)
	recordID, err := uc.store.Commit(ctx, record)
	if err != nil {
		return run.fail(draft, domain.StateCommitFailed, fmt.Errorf("%w: %w", domain.ErrCommitFailed, err))
	}

	run.to(domain.StateSucceeded)
	run.logger.Info("Listing committed", zap.String("record_id", recordID), zap.Int("image_count", len(urls)))
	return &Outcome{State: domain.StateSucceeded, RecordID: recordID, Kind: draft.Kind, Record: record}
}

func (uc *SubmissionUsecase) resolveAddress(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	res, err := uc.geocoder.Resolve(ctx, address)
	if err != nil {
		uc.metrics.ObserveGeocode("unresolvable")
		if !errors.Is(err, domain.ErrAddressUnresolvable) {
			err = fmt.Errorf("%w: %w", domain.ErrAddressUnresolvable, err)
		}
		return nil, err
	}
	uc.metrics.ObserveGeocode("ok")
	return res, nil
}

func (uc *SubmissionUsecase) settleGuard(ctx context.Context, log *logger.Logger, key string, outcome *Outcome) {
	var err error
	if outcome.State == domain.StateSucceeded {
		err = uc.guard.Complete(ctx, key, domain.CompletedSubmission{RecordID: outcome.RecordID, Kind: outcome.Kind})
	} else {
		err = uc.guard.Release(ctx, key)
	}
	if err != nil {
		log.Warn("Failed to settle submission guard", zap.String("idempotency_key", key), zap.Error(err))
	}
}

// afterCommit runs best-effort side effects. None of them change the outcome.
func (uc *SubmissionUsecase) afterCommit(ctx context.Context, log *logger.Logger, sess domain.Session, outcome *Outcome) {
	if outcome.Record == nil {
		return
	}
	if uc.publisher != nil {
		event := map[string]interface{}{
			"id":       outcome.RecordID,
			"user_ref": sess.OwnerID,
			"type":     outcome.Kind,
			"name":     outcome.Record.Name,
			"geohash":  outcome.Record.Geohash,
		}
		if err := uc.publisher.Publish(ctx, SubjectListingCreated, event); err != nil {
			log.Warn("Failed to publish listing.created event", zap.String("record_id", outcome.RecordID), zap.Error(err))
		}
	}
	if uc.notifier != nil && sess.Email != "" {
		if err := uc.notifier.NotifyListingSaved(ctx, sess.Email, outcome.Record.Name, outcome.DetailPath()); err != nil {
			log.Warn("Failed to send listing saved email", zap.String("record_id", outcome.RecordID), zap.Error(err))
		}
	}
}

// reportOrphans records objects left in blob storage by a failed upload run.
// Cleanup is left to whoever consumes the event.
func (uc *SubmissionUsecase) reportOrphans(keys []string) {
	uc.metrics.ObserveOrphans(len(keys))
	uc.logger.Warn("Upload run left orphaned objects", zap.Strings("keys", keys))
	if uc.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := uc.publisher.Publish(ctx, SubjectUploadOrphaned, map[string]interface{}{"keys": keys}); err != nil {
		uc.logger.Warn("Failed to publish orphaned objects event", zap.Error(err))
	}
}

// submissionRun tracks the state of one Submit call. After dispose it stops
// forwarding progress and transitions to caller callbacks.
type submissionRun struct {
	mu     sync.Mutex
	state  domain.State
	opts   SubmitOptions
	logger *logger.Logger

	// cbMu serializes caller callbacks against each other and against dispose
	cbMu     sync.Mutex
	disposed bool
}

func newSubmissionRun(opts SubmitOptions, log *logger.Logger) *submissionRun {
	return &submissionRun{state: domain.StateIdle, opts: opts, logger: log}
}

func (r *submissionRun) to(next domain.State) {
	r.mu.Lock()
	prev := r.state
	if !domain.CanTransition(prev, next) {
		r.mu.Unlock()
		panic(fmt.Sprintf("listing submission: illegal transition %s -> %s", prev, next))
	}
	r.state = next
	r.mu.Unlock()

	r.logger.Debug("Submission state changed", zap.String("from", string(prev)), zap.String("to", string(next)))
	if r.opts.OnTransition == nil {
		return
	}
	r.cbMu.Lock()
	defer r.cbMu.Unlock()
	if !r.disposed {
		r.opts.OnTransition(prev, next)
	}
}

func (r *submissionRun) fail(draft *domain.ListingDraft, state domain.State, err error) *Outcome {
	r.to(state)
	r.logger.Warn("Submission failed", zap.String("state", string(state)), zap.Error(err))
	return &Outcome{State: state, Kind: draft.Kind, Err: err}
}

func (r *submissionRun) progress(p domain.Progress) {
	if r.opts.OnProgress == nil {
		return
	}
	r.cbMu.Lock()
	defer r.cbMu.Unlock()
	if !r.disposed {
		r.opts.OnProgress(p)
	}
}

// dispose waits for an in-flight callback to return.
func (r *submissionRun) dispose() {
	r.cbMu.Lock()
	r.disposed = true
	r.cbMu.Unlock()
}
