package domain

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the listing category the record is filed under.
type Kind string

const (
	KindSale Kind = "sale"
	KindRent Kind = "rent"
)

// MaxImages is the upper bound on photographs per listing.
const MaxImages = 6

func (k Kind) IsValid() bool {
	return k == KindSale || k == KindRent
}

// ParseKind normalizes s and reports whether it names a kind. "sale"/"rent" match in
// any case.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	return k, k.IsValid()
}

// Image is one raw photograph attached to a draft.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

func (i Image) Size() int64 {
	return int64(len(i.Data))
}

// GeoPoint is a WGS 84 coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ListingDraft is the form state of a listing under construction. A draft belongs to
// a single submission attempt and must not be mutated while one is running.
type ListingDraft struct {
	Kind            Kind
	Name            string
	BedroomCount    int
	BathroomCount   int
	HasParking      bool
	IsFurnished     bool
	HasOffer        bool
	RegularPrice    int64
	DiscountedPrice int64
	AddressText     string
	ManualLatitude  float64
	ManualLongitude float64
	Images          []Image // first one is the cover

	ownerID string
}

// OwnerID returns the owner bound from the active session, or "".
func (d *ListingDraft) OwnerID() string {
	return d.ownerID
}

// BindOwner sets the owner once. Rebinding to the same id is a no-op.
func (d *ListingDraft) BindOwner(ownerID string) error {
	if ownerID == "" {
		return fmt.Errorf("%w: owner id is empty", ErrNoActiveSession)
	}
	if d.ownerID != "" && d.ownerID != ownerID {
		return ErrOwnerAlreadyBound
	}
	d.ownerID = ownerID
	return nil
}

// ListingRecord is the persisted shape of a listing. It is built once by the composer
// and never mutated afterwards. DiscountedPrice is nil unless HasOffer is set and
// Location is empty when the address was not resolved. Latitude and Longitude keep the
// manually entered coordinates as typed; Geolocation is the point actually used.
type ListingRecord struct {
	Kind            Kind      `json:"type"`
	Name            string    `json:"name"`
	BedroomCount    int       `json:"bedrooms"`
	BathroomCount   int       `json:"bathrooms"`
	HasParking      bool      `json:"parking"`
	IsFurnished     bool      `json:"furnished"`
	HasOffer        bool      `json:"offer"`
	RegularPrice    int64     `json:"regularPrice"`
	DiscountedPrice *int64    `json:"discountedPrice,omitempty"`
	OwnerID         string    `json:"userRef"`
	ImageURLs       []string  `json:"imgUrls"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Geolocation     GeoPoint  `json:"geolocation"`
	Geohash         string    `json:"geohash"`
	Location        string    `json:"location,omitempty"`
	CreatedAt       time.Time `json:"timestamp"` // zero until the store assigns it
}

// TransferState tags an upload progress event.
type TransferState string

const (
	TransferRunning TransferState = "running"
	TransferPaused  TransferState = "paused"
)

// Progress is an observability-only snapshot of one image upload.
type Progress struct {
	Index            int
	Key              string
	BytesTransferred int64
	TotalBytes       int64
	State            TransferState
}

// Percent returns transfer completion in [0, 100].
func (p Progress) Percent() float64 {
	if p.TotalBytes <= 0 {
		return 100
	}
	return float64(p.BytesTransferred) / float64(p.TotalBytes) * 100
}

// ProgressFunc receives progress events. Implementations must not block for long.
type ProgressFunc func(Progress)

// UploadResult is the outcome of uploading the image at Index.
type UploadResult struct {
	Index int
	Key   string
	URL   string
	Err   error
}

// GeocodeResult is a resolved address.
type GeocodeResult struct {
	Point            GeoPoint
	FormattedAddress string
}

// CompletedSubmission is what an idempotency key remembers after a successful commit.
type CompletedSubmission struct {
	RecordID string `json:"record_id"`
	Kind     Kind   `json:"kind"`
}

// Session is a snapshot of the caller's authentication status.
type Session struct {
	Active  bool
	OwnerID string
	Email   string
}

// DetailPath is where a client navigates to after a successful submission.
func DetailPath(kind Kind, recordID string) string {
	return fmt.Sprintf("/category/%s/%s", kind, recordID)
}
