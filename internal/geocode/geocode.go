// Package geocode resolves postal addresses to coordinates through the
// Google Geocoding API.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/rehabdesk/pkg/constants"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

// geocodePath is appended to the base URL by the maps client.
const geocodePath = "/maps/api/geocode/json"

// ErrNoAPIKey is returned by Geocode when the client was built without a key.
var ErrNoAPIKey = errors.New("no geocoding API key configured")

// Location is a resolved coordinate.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Options configures a Client.
type Options struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client calls the geocoding API.
type Client struct {
	maps   *maps.Client
	logger *zap.Logger
}

// NewClient creates a client. Empty options fall back to the public
// endpoint and the default timeout. Without an API key every lookup fails
// with ErrNoAPIKey.
func NewClient(opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{logger: logger}
	if opts.APIKey == "" {
		return c
	}
	if opts.BaseURL == "" {
		opts.BaseURL = constants.DefaultGeocodeBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultGeocodeTimeout
	}

	mc, err := maps.NewClient(
		maps.WithAPIKey(opts.APIKey),
		maps.WithBaseURL(strings.TrimSuffix(strings.TrimRight(opts.BaseURL, "/"), geocodePath)),
		maps.WithHTTPClient(&http.Client{Timeout: opts.Timeout}),
	)
	if err != nil {
		logger.Error("failed to create geocoding client", zap.String("op", "geocode.NewClient"), zap.Error(err))
		return c
	}
	c.maps = mc
	return c
}

// Geocode returns the location of address, or nil when the API finds no
// match. Transport failures and error statuses are returned as errors.
func (c *Client) Geocode(ctx context.Context, address string) (*Location, error) {
	const op = "geocode.Geocode"
	if c.maps == nil {
		return nil, ErrNoAPIKey
	}

	c.logger.Debug("geocoding address", zap.String("op", op), zap.String("address", address))
	results, err := c.maps.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	if len(results) == 0 {
		c.logger.Info("address not geocoded", zap.String("op", op), zap.String("address", address))
		return nil, nil
	}

	loc := Location{Lat: results[0].Geometry.Location.Lat, Lng: results[0].Geometry.Location.Lng}
	c.logger.Debug("geocoded address",
		zap.String("op", op),
		zap.Float64("lat", loc.Lat),
		zap.Float64("lng", loc.Lng),
	)
	return &loc, nil
}
