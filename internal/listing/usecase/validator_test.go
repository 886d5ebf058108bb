package usecase

import (
	"errors"
	"testing"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(d *domain.ListingDraft)
		resolve   bool
		wantRule  domain.Rule
		wantField string
	}{
		{
			name:   "valid manual coordinates",
			mutate: func(d *domain.ListingDraft) {},
		},
		{
			name: "valid offer",
			mutate: func(d *domain.ListingDraft) {
				d.HasOffer = true
				d.DiscountedPrice = 1200
			},
		},
		{
			name: "discount equal to regular",
			mutate: func(d *domain.ListingDraft) {
				d.HasOffer = true
				d.DiscountedPrice = d.RegularPrice
			},
			wantRule:  domain.RuleDiscountNotBelowRegular,
			wantField: "discountedPrice",
		},
		{
			name: "discount ignored without offer",
			mutate: func(d *domain.ListingDraft) {
				d.DiscountedPrice = 99999
			},
		},
		{
			name: "seven images",
			mutate: func(d *domain.ListingDraft) {
				d.Images = testImages("1", "2", "3", "4", "5", "6", "7")
			},
			wantRule:  domain.RuleTooManyImages,
			wantField: "images",
		},
		{
			name: "six images",
			mutate: func(d *domain.ListingDraft) {
				d.Images = testImages("1", "2", "3", "4", "5", "6")
			},
		},
		{
			name: "discount rule wins over image count",
			mutate: func(d *domain.ListingDraft) {
				d.HasOffer = true
				d.DiscountedPrice = 2000
				d.Images = testImages("1", "2", "3", "4", "5", "6", "7")
			},
			wantRule:  domain.RuleDiscountNotBelowRegular,
			wantField: "discountedPrice",
		},
		{
			name:      "missing kind",
			mutate:    func(d *domain.ListingDraft) { d.Kind = "" },
			wantRule:  domain.RuleMissingField,
			wantField: "type",
		},
		{
			name:      "blank name",
			mutate:    func(d *domain.ListingDraft) { d.Name = "   " },
			wantRule:  domain.RuleMissingField,
			wantField: "name",
		},
		{
			name:      "no bedrooms",
			mutate:    func(d *domain.ListingDraft) { d.BedroomCount = 0 },
			wantRule:  domain.RuleMissingField,
			wantField: "bedrooms",
		},
		{
			name:      "no bathrooms",
			mutate:    func(d *domain.ListingDraft) { d.BathroomCount = 0 },
			wantRule:  domain.RuleMissingField,
			wantField: "bathrooms",
		},
		{
			name:      "no regular price",
			mutate:    func(d *domain.ListingDraft) { d.RegularPrice = 0 },
			wantRule:  domain.RuleMissingField,
			wantField: "regularPrice",
		},
		{
			name:      "address required when resolving",
			mutate:    func(d *domain.ListingDraft) { d.AddressText = "" },
			resolve:   true,
			wantRule:  domain.RuleMissingField,
			wantField: "address",
		},
		{
			name:   "address not required for manual coordinates",
			mutate: func(d *domain.ListingDraft) { d.AddressText = "" },
		},
		{
			name:      "no images",
			mutate:    func(d *domain.ListingDraft) { d.Images = nil },
			wantRule:  domain.RuleMissingField,
			wantField: "images",
		},
		{
			name: "empty image payload",
			mutate: func(d *domain.ListingDraft) {
				d.Images = append(d.Images, domain.Image{Name: "empty.jpg"})
			},
			wantRule:  domain.RuleMissingField,
			wantField: "images",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			d.AddressText = "1 Main St"
			tt.mutate(d)

			err := ValidateDraft(d, tt.resolve)
			if tt.wantRule == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidationFailed)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantRule, verr.Rule)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}
