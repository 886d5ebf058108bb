package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/usecase"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/logger"
	"go.uber.org/zap"
)

type submitter interface {
	Submit(ctx context.Context, draft *domain.ListingDraft, opts usecase.SubmitOptions) (*usecase.Outcome, error)
}

type submitResponse struct {
	ID       string `json:"id,omitempty"`
	State    string `json:"state,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Message  string `json:"message"`
}

// ListingHandler serves the create-listing form.
type ListingHandler struct {
	submissions    submitter
	resolveDefault bool
	logger         *logger.Logger
}

// NewListingHandler creates a handler. resolveDefault applies when the form does not
// say whether the address should be geocoded.
func NewListingHandler(submissions submitter, resolveDefault bool, log *logger.Logger) *ListingHandler {
	return &ListingHandler{submissions: submissions, resolveDefault: resolveDefault, logger: log.Named("ListingHandler")}
}

func (h *ListingHandler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	draft, resolve, err := decodeDraft(r, h.resolveDefault)
	if err != nil {
		h.logger.Warn("Invalid create listing form", zap.Error(err))
		respondWithJSON(w, http.StatusBadRequest, submitResponse{Message: err.Error()})
		return
	}

	opts := usecase.SubmitOptions{
		ResolveAddress: resolve,
		IdempotencyKey: r.Header.Get(idempotencyHeader),
		OnProgress: func(p domain.Progress) {
			h.logger.Debug("Image upload progress", zap.Int("index", p.Index), zap.Float64("percent", p.Percent()))
		},
	}
	outcome, err := h.submissions.Submit(r.Context(), draft, opts)
	if outcome == nil {
		respondWithJSON(w, statusFor(err), submitResponse{Message: domain.UserMessage(err)})
		return
	}

	resp := submitResponse{
		ID:       outcome.RecordID,
		State:    string(outcome.State),
		Redirect: outcome.DetailPath(),
		Message:  outcome.Message(),
	}
	if err != nil {
		respondWithJSON(w, statusFor(err), resp)
		return
	}
	respondWithJSON(w, http.StatusCreated, resp)
}

// statusFor maps submission errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusCreated
	case errors.Is(err, domain.ErrNoActiveSession):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrDuplicateSubmission), errors.Is(err, domain.ErrOwnerAlreadyBound):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidationFailed), errors.Is(err, domain.ErrAddressUnresolvable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
