package usecase

import (
	"encoding/json"
	"testing"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"github.com/mmcloughlin/geohash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeRecord_WithoutOffer(t *testing.T) {
	d := validDraft()
	d.DiscountedPrice = 1000
	require.NoError(t, d.BindOwner("owner-1"))
	urls := []string{"https://cdn.test/a", "https://cdn.test/b"}

	rec := ComposeRecord(d, domain.GeoPoint{Lat: 40, Lng: -73}, "", urls)

	assert.Equal(t, domain.KindRent, rec.Kind)
	assert.Equal(t, "Cozy Loft", rec.Name)
	assert.Equal(t, "owner-1", rec.OwnerID)
	assert.Equal(t, urls, rec.ImageURLs)
	assert.Equal(t, domain.GeoPoint{Lat: 40, Lng: -73}, rec.Geolocation)
	assert.Equal(t, 40.7, rec.Latitude)
	assert.Equal(t, -74.0, rec.Longitude)
	assert.Equal(t, geohash.Encode(40, -73), rec.Geohash)
	assert.Nil(t, rec.DiscountedPrice)
	assert.Empty(t, rec.Location)
	assert.True(t, rec.CreatedAt.IsZero())

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "discountedPrice")
	assert.NotContains(t, fields, "location")
	assert.NotContains(t, fields, "images")
	assert.NotContains(t, fields, "address")
	assert.Contains(t, fields, "imgUrls")
	assert.Contains(t, fields, "userRef")
	assert.Equal(t, 40.7, fields["latitude"])
	assert.Equal(t, -74.0, fields["longitude"])
}

func TestComposeRecord_WithOfferAndLocation(t *testing.T) {
	d := validDraft()
	d.HasOffer = true
	d.DiscountedPrice = 1200
	require.NoError(t, d.BindOwner("owner-1"))

	rec := ComposeRecord(d, domain.GeoPoint{Lat: 1, Lng: 2}, "1 Main St, Springfield", []string{"u"})

	require.NotNil(t, rec.DiscountedPrice)
	assert.Equal(t, int64(1200), *rec.DiscountedPrice)
	assert.Equal(t, "1 Main St, Springfield", rec.Location)
}

func TestComposeRecord_Deterministic(t *testing.T) {
	d := validDraft()
	require.NoError(t, d.BindOwner("owner-1"))
	urls := []string{"a", "b"}

	first := ComposeRecord(d, domain.GeoPoint{Lat: 3, Lng: 4}, "x", urls)
	second := ComposeRecord(d, domain.GeoPoint{Lat: 3, Lng: 4}, "x", urls)
	assert.Equal(t, first, second)

	urls[0] = "mutated"
	assert.Equal(t, "a", first.ImageURLs[0])
}
