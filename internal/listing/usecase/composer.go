package usecase

import (
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"github.com/mmcloughlin/geohash"
)

// ComposeRecord shapes a validated draft, its geolocation and the uploaded image URLs
// into the record that gets committed. Images and the free-text address never reach
// the record. DiscountedPrice is only set for offers and Location only when the
// address was resolved. CreatedAt stays zero; the store assigns it.
func ComposeRecord(d *domain.ListingDraft, point domain.GeoPoint, location string, imageURLs []string) *domain.ListingRecord {
	return newRecordBuilder(d).
		withImages(imageURLs).
		withGeolocation(point).
		withLocation(location).
		withOffer(d.HasOffer, d.DiscountedPrice).
		build()
}

type recordBuilder struct {
	rec domain.ListingRecord
}

func newRecordBuilder(d *domain.ListingDraft) *recordBuilder {
	return &recordBuilder{rec: domain.ListingRecord{
		Kind:          d.Kind,
		Name:          d.Name,
		BedroomCount:  d.BedroomCount,
		BathroomCount: d.BathroomCount,
		HasParking:    d.HasParking,
		IsFurnished:   d.IsFurnished,
		HasOffer:      d.HasOffer,
		RegularPrice:  d.RegularPrice,
		Latitude:      d.ManualLatitude,
		Longitude:     d.ManualLongitude,
		OwnerID:       d.OwnerID(),
	}}
}

func (b *recordBuilder) withImages(urls []string) *recordBuilder {
	b.rec.ImageURLs = append([]string(nil), urls...)
	return b
}

func (b *recordBuilder) withGeolocation(p domain.GeoPoint) *recordBuilder {
	b.rec.Geolocation = p
	b.rec.Geohash = geohash.Encode(p.Lat, p.Lng)
	return b
}

func (b *recordBuilder) withLocation(location string) *recordBuilder {
	if location != "" {
		b.rec.Location = location
	}
	return b
}

func (b *recordBuilder) withOffer(hasOffer bool, discounted int64) *recordBuilder {
	if hasOffer {
		price := discounted
		b.rec.DiscountedPrice = &price
	}
	return b
}

func (b *recordBuilder) build() *domain.ListingRecord {
	rec := b.rec
	return &rec
}
