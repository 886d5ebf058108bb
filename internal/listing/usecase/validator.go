package usecase

import (
	"strings"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
)

// ValidateDraft returns the first rule the draft violates, or nil.
// Rules in priority order:
//  1. an offer's discounted price must be below the regular price
//  2. at most MaxImages images
//  3. every required field is present
//
// Range limits (name length, room counts, price bounds) are form constraints and are
// not re-checked here.
func ValidateDraft(d *domain.ListingDraft, resolveAddress bool) error {
	if d.HasOffer && d.DiscountedPrice >= d.RegularPrice {
		return &domain.ValidationError{Rule: domain.RuleDiscountNotBelowRegular, Field: "discountedPrice"}
	}
	if len(d.Images) > domain.MaxImages {
		return &domain.ValidationError{Rule: domain.RuleTooManyImages, Field: "images"}
	}
	if field := missingField(d, resolveAddress); field != "" {
		return &domain.ValidationError{Rule: domain.RuleMissingField, Field: field}
	}
	return nil
}

func missingField(d *domain.ListingDraft, resolveAddress bool) string {
	switch {
	case !d.Kind.IsValid():
		return "type"
	case strings.TrimSpace(d.Name) == "":
		return "name"
	case d.BedroomCount <= 0:
		return "bedrooms"
	case d.BathroomCount <= 0:
		return "bathrooms"
	case d.RegularPrice <= 0:
		return "regularPrice"
	case d.HasOffer && d.DiscountedPrice <= 0:
		return "discountedPrice"
	case resolveAddress && strings.TrimSpace(d.AddressText) == "":
		return "address"
	case len(d.Images) == 0:
		return "images"
	}
	for _, img := range d.Images {
		if len(img.Data) == 0 {
			return "images"
		}
	}
	return ""
}
