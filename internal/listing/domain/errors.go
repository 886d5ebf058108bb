package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidationFailed    = errors.New("validation failed")
	ErrAddressUnresolvable = errors.New("address unresolvable")
	ErrUploadFailed        = errors.New("images not uploaded")
	ErrCommitFailed        = errors.New("listing commit failed")
	ErrNoActiveSession     = errors.New("no active session")
	ErrOwnerAlreadyBound   = errors.New("draft already belongs to another owner")
	ErrDuplicateSubmission = errors.New("submission already in progress")
)

// Rule names a validation rule. Rules are checked in declaration order.
type Rule string

const (
	RuleDiscountNotBelowRegular Rule = "discount_not_below_regular"
	RuleTooManyImages           Rule = "too_many_images"
	RuleMissingField            Rule = "missing_required_field"
)

// ValidationError reports the first rule a draft violated.
type ValidationError struct {
	Rule  Rule
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", ErrValidationFailed, e.Rule, e.Field)
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed, e.Rule)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// UserMessage turns a submission error into the notification shown to the user.
func UserMessage(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return "Listing Saved!"
	case errors.As(err, &verr):
		switch verr.Rule {
		case RuleDiscountNotBelowRegular:
			return "Discounted Price needs to be LESS than Regular Price."
		case RuleTooManyImages:
			return fmt.Sprintf("Max of %d images", MaxImages)
		default:
			return fmt.Sprintf("Please fill in %s.", verr.Field)
		}
	case errors.Is(err, ErrAddressUnresolvable):
		return "Please Enter a correct address."
	case errors.Is(err, ErrUploadFailed):
		return "Images not uploaded"
	case errors.Is(err, ErrCommitFailed):
		return "Could not save listing"
	case errors.Is(err, ErrNoActiveSession):
		return "Please sign in to create a listing."
	case errors.Is(err, ErrDuplicateSubmission):
		return "This listing is already being submitted."
	}
	return "Something went wrong"
}
