package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"

	// unresolvedToken shows up in formatted addresses the service could not resolve.
	unresolvedToken = "undefined"
)

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Results      []geocodeResult `json:"results"`
}

type geocodeResult struct {
	FormattedAddress string `json:"formatted_address"`
	Geometry         *struct {
		Location *struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

// Client resolves addresses with the Google Geocoding API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(baseURL, apiKey string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		// no client timeout; the caller bounds the request through ctx
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		logger:     log.Named("GeocoderClient"),
	}
}

// Resolve makes exactly one request. Every failure, including transport errors, is
// reported as domain.ErrAddressUnresolvable with the cause attached.
func (c *Client) Resolve(ctx context.Context, address string) (*domain.GeocodeResult, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrAddressUnresolvable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Geocoding request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrAddressUnresolvable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Geocoding service returned non-2xx", zap.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("%w: geocoding service responded %d", domain.ErrAddressUnresolvable, resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Warn("Failed to decode geocoding response", zap.Error(err))
		return nil, fmt.Errorf("%w: decode response: %w", domain.ErrAddressUnresolvable, err)
	}

	return interpret(&body)
}

func interpret(body *geocodeResponse) (*domain.GeocodeResult, error) {
	switch {
	case body.Status == statusZeroResults:
		return nil, fmt.Errorf("%w: zero results", domain.ErrAddressUnresolvable)
	case body.Status != "" && body.Status != statusOK:
		return nil, fmt.Errorf("%w: status %s %s", domain.ErrAddressUnresolvable, body.Status, body.ErrorMessage)
	case len(body.Results) == 0:
		return nil, fmt.Errorf("%w: no results", domain.ErrAddressUnresolvable)
	}

	first := body.Results[0]
	formatted := strings.TrimSpace(first.FormattedAddress)
	if formatted == "" || strings.Contains(formatted, unresolvedToken) {
		return nil, fmt.Errorf("%w: formatted address %q", domain.ErrAddressUnresolvable, formatted)
	}

	// a result without geometry resolves to the origin
	var point domain.GeoPoint
	if first.Geometry != nil && first.Geometry.Location != nil {
		point = domain.GeoPoint{Lat: first.Geometry.Location.Lat, Lng: first.Geometry.Location.Lng}
	}
	return &domain.GeocodeResult{Point: point, FormattedAddress: formatted}, nil
}
