package rest

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
)

const (
	maxFormMemory  = 32 << 20
	maxRequestBody = 64 << 20

	idempotencyHeader = "Idempotency-Key"
)

// formError is a malformed request, as opposed to a draft that fails validation.
type formError struct {
	field string
	err   error
}

func (e *formError) Error() string {
	return fmt.Sprintf("invalid form field %q: %v", e.field, e.err)
}

func (e *formError) Unwrap() error { return e.err }

// decodeDraft reads the create-listing multipart form. Empty numeric fields decode to
// zero so the validator can report them as missing. geolocationEnabled falls back to
// resolveDefault when absent.
func decodeDraft(r *http.Request, resolveDefault bool) (*domain.ListingDraft, bool, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return nil, false, &formError{field: "form", err: err}
	}
	f := formValues{form: r.MultipartForm}

	// an unknown kind is left for the validator to reject
	kind, _ := domain.ParseKind(f.get("type"))
	d := &domain.ListingDraft{
		Kind:        kind,
		Name:        strings.TrimSpace(f.get("name")),
		AddressText: strings.TrimSpace(f.get("address")),
	}
	d.BedroomCount = f.intField("bedrooms")
	d.BathroomCount = f.intField("bathrooms")
	d.HasParking = f.boolField("parking", false)
	d.IsFurnished = f.boolField("furnished", false)
	d.HasOffer = f.boolField("offer", false)
	d.RegularPrice = f.int64Field("regularPrice")
	d.DiscountedPrice = f.int64Field("discountedPrice")
	d.ManualLatitude = f.floatField("latitude")
	d.ManualLongitude = f.floatField("longitude")
	resolve := f.boolField("geolocationEnabled", resolveDefault)
	if f.err != nil {
		return nil, false, f.err
	}

	images, err := readImages(r.MultipartForm.File["images"])
	if err != nil {
		return nil, false, err
	}
	d.Images = images
	return d, resolve, nil
}

func readImages(headers []*multipart.FileHeader) ([]domain.Image, error) {
	images := make([]domain.Image, 0, len(headers))
	for _, fh := range headers {
		file, err := fh.Open()
		if err != nil {
			return nil, &formError{field: "images", err: err}
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, &formError{field: "images", err: err}
		}
		images = append(images, domain.Image{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return images, nil
}

// formValues keeps the first parse error so fields can be read in sequence.
type formValues struct {
	form *multipart.Form
	err  error
}

func (f *formValues) get(key string) string {
	if v := f.form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (f *formValues) fail(key string, err error) {
	if f.err == nil {
		f.err = &formError{field: key, err: err}
	}
}

func (f *formValues) intField(key string) int {
	return int(f.int64Field(key))
}

func (f *formValues) int64Field(key string) int64 {
	s := strings.TrimSpace(f.get(key))
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f.fail(key, err)
	}
	return n
}

func (f *formValues) floatField(key string) float64 {
	s := strings.TrimSpace(f.get(key))
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f.fail(key, err)
	}
	return n
}

func (f *formValues) boolField(key string, fallback bool) bool {
	s := strings.TrimSpace(f.get(key))
	if s == "" {
		return fallback
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		f.fail(key, err)
		return fallback
	}
	return b
}
