package mongodb

import (
	"testing"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func documentKeys(t *testing.T, v interface{}) []string {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	elems, err := bson.Raw(raw).Elements()
	require.NoError(t, err)
	keys := make([]string, 0, len(elems))
	for _, e := range elems {
		keys = append(keys, e.Key())
	}
	return keys
}

func TestToListingDocument_FieldPresence(t *testing.T) {
	rec := &domain.ListingRecord{
		Kind:         domain.KindRent,
		Name:         "Cozy Loft",
		BedroomCount: 2,
		RegularPrice: 1500,
		OwnerID:      "u1",
		ImageURLs:    []string{"urlA"},
		Latitude:     40,
		Longitude:    -73,
		Geolocation:  domain.GeoPoint{Lat: 40, Lng: -73},
		Geohash:      "dr5",
	}

	keys := documentKeys(t, toListingDocument(rec))

	assert.Equal(t, []string{
		"type", "name", "bedrooms", "bathrooms", "parking", "furnished", "offer",
		"regular_price", "user_ref", "img_urls", "latitude", "longitude", "geolocation", "geohash",
	}, keys)
}

func TestToListingDocument_OfferAndLocation(t *testing.T) {
	price := int64(1200)
	rec := &domain.ListingRecord{
		Kind:            domain.KindSale,
		HasOffer:        true,
		RegularPrice:    1500,
		DiscountedPrice: &price,
		Location:        "1 Main St",
	}

	keys := documentKeys(t, toListingDocument(rec))

	assert.Contains(t, keys, "discounted_price")
	assert.Contains(t, keys, "location")
	assert.NotContains(t, keys, "created_at")
	assert.NotContains(t, keys, "_id")
}

func TestToListingDocument_NilImagesStoredAsEmptyArray(t *testing.T) {
	doc := toListingDocument(&domain.ListingRecord{Kind: domain.KindRent})
	assert.NotNil(t, doc.ImageURLs)
	assert.Empty(t, doc.ImageURLs)
}

func TestToDomainRecord_KeepsManualCoordinates(t *testing.T) {
	doc := toListingDocument(&domain.ListingRecord{
		Kind:        domain.KindRent,
		Latitude:    40.5,
		Longitude:   -73.25,
		Geolocation: domain.GeoPoint{Lat: 41, Lng: -72},
	})

	rec := toDomainRecord(&storedListing{listingDocument: *doc})

	assert.Equal(t, 40.5, rec.Latitude)
	assert.Equal(t, -73.25, rec.Longitude)
	assert.Equal(t, domain.GeoPoint{Lat: 41, Lng: -72}, rec.Geolocation)
}
