package mongodb

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type geoPointDocument struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

// listingDocument is the inserted shape of a listing. created_at is absent because
// the server assigns it on insert.
type listingDocument struct {
	Kind            string           `bson:"type"`
	Name            string           `bson:"name"`
	Bedrooms        int              `bson:"bedrooms"`
	Bathrooms       int              `bson:"bathrooms"`
	Parking         bool             `bson:"parking"`
	Furnished       bool             `bson:"furnished"`
	Offer           bool             `bson:"offer"`
	RegularPrice    int64            `bson:"regular_price"`
	DiscountedPrice *int64           `bson:"discounted_price,omitempty"`
	UserRef         string           `bson:"user_ref"`
	ImageURLs       []string         `bson:"img_urls"`
	Latitude        float64          `bson:"latitude"`
	Longitude       float64          `bson:"longitude"`
	Geolocation     geoPointDocument `bson:"geolocation"`
	Geohash         string           `bson:"geohash"`
	Location        string           `bson:"location,omitempty"`
}

// storedListing is what a read of the collection decodes into.
type storedListing struct {
	ID              primitive.ObjectID `bson:"_id"`
	listingDocument `bson:",inline"`
	CreatedAt       time.Time `bson:"created_at"`
}

func toListingDocument(r *domain.ListingRecord) *listingDocument {
	urls := r.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	return &listingDocument{
		Kind:            string(r.Kind),
		Name:            r.Name,
		Bedrooms:        r.BedroomCount,
		Bathrooms:       r.BathroomCount,
		Parking:         r.HasParking,
		Furnished:       r.IsFurnished,
		Offer:           r.HasOffer,
		RegularPrice:    r.RegularPrice,
		DiscountedPrice: r.DiscountedPrice,
		UserRef:         r.OwnerID,
		ImageURLs:       urls,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
		Geolocation:     geoPointDocument{Lat: r.Geolocation.Lat, Lng: r.Geolocation.Lng},
		Geohash:         r.Geohash,
		Location:        r.Location,
	}
}

func toDomainRecord(d *storedListing) *domain.ListingRecord {
	return &domain.ListingRecord{
		Kind:            domain.Kind(d.Kind),
		Name:            d.Name,
		BedroomCount:    d.Bedrooms,
		BathroomCount:   d.Bathrooms,
		HasParking:      d.Parking,
		IsFurnished:     d.Furnished,
		HasOffer:        d.Offer,
		RegularPrice:    d.RegularPrice,
		DiscountedPrice: d.DiscountedPrice,
		OwnerID:         d.UserRef,
		ImageURLs:       d.ImageURLs,
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
		Geolocation:     domain.GeoPoint{Lat: d.Geolocation.Lat, Lng: d.Geolocation.Lng},
		Geohash:         d.Geohash,
		Location:        d.Location,
		CreatedAt:       d.CreatedAt,
	}
}
