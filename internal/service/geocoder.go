package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"clinic-directory/internal/models"
	"clinic-directory/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// GeocodeCache memoizes lookup attempts, positive and negative alike.
type GeocodeCache interface {
	GetGeocodeResult(ctx context.Context, address string) (*models.GeocodeResult, error)
	UpsertGeocodeResult(ctx context.Context, address string, lat, lon *float64) error
}

// GeocoderConfig configures the external geocoding client.
type GeocoderConfig struct {
	// BaseURL of the Nominatim-compatible search endpoint.
	BaseURL string
	// UserAgent is required by the upstream usage policy and must not be
	// empty.
	UserAgent string
	// CountryCode scopes the search (e.g. "pl").
	CountryCode string
	// CountryName and CountryNameEN are used to detect whether an address
	// already mentions the country; otherwise CountryName is appended to the
	// query to bias results.
	CountryName   string
	CountryNameEN string
	// Timeout for one external request. Defaults to 10s.
	Timeout time.Duration
	// MinInterval is the minimum spacing between external requests.
	// Defaults to 1s, the upstream politeness contract.
	MinInterval time.Duration
}

// Geocoder resolves free-text addresses to coordinates through an external
// service, consulting the cache first and serializing external calls behind
// a global rate limit.
type Geocoder struct {
	cache       GeocodeCache
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	countryCode string
	countryName string
	countryRefs []string

	mu          sync.Mutex
	lastRequest time.Time
	minInterval time.Duration

	logger zerolog.Logger
}

// NewGeocoder creates a geocoder backed by the given cache.
func NewGeocoder(cache GeocodeCache, cfg GeocoderConfig) *Geocoder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = time.Second
	}
	var refs []string
	for _, name := range []string{cfg.CountryName, cfg.CountryNameEN} {
		if name != "" {
			refs = append(refs, strings.ToLower(name))
		}
	}
	return &Geocoder{
		cache:       cache,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:   cfg.UserAgent,
		countryCode: cfg.CountryCode,
		countryName: cfg.CountryName,
		countryRefs: refs,
		minInterval: cfg.MinInterval,
		logger:      log.With().Str("component", "geocoder").Logger(),
	}
}

// Resolve maps an address to coordinates, or nil when the address is unknown.
// Geocoding failure is always a soft outcome: transport errors, bad statuses,
// parse failures and empty result sets all degrade to nil and are memoized so
// an unresolvable address never hits the network twice.
func (g *Geocoder) Resolve(ctx context.Context, address string) *models.Coordinates {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil
	}

	cached, err := g.cache.GetGeocodeResult(ctx, address)
	if err == nil {
		return cached.Coordinates()
	}
	if !errors.Is(err, repository.ErrNotFound) {
		g.logger.Warn().Err(err).Str("address", address).Msg("geocode cache read failed")
	}

	// The cache is keyed by the caller's address; only the outbound query
	// gets the country bias appended.
	query := address
	if !g.mentionsCountry(address) && g.countryName != "" {
		query = address + ", " + g.countryName
	}

	g.waitTurn()

	coords := g.fetch(ctx, query)
	if coords == nil {
		g.store(ctx, address, nil, nil)
		return nil
	}
	g.store(ctx, address, &coords.Lat, &coords.Lon)
	return coords
}

func (g *Geocoder) mentionsCountry(address string) bool {
	lower := strings.ToLower(address)
	for _, ref := range g.countryRefs {
		if strings.Contains(lower, ref) {
			return true
		}
	}
	return false
}

// waitTurn enforces the minimum spacing before every external request. It is
// a global serialization point, not per address.
func (g *Geocoder) waitTurn() {
	g.mu.Lock()
	defer g.mu.Unlock()

	wait := g.minInterval
	if !g.lastRequest.IsZero() {
		if elapsed := time.Since(g.lastRequest); elapsed < g.minInterval {
			wait = g.minInterval - elapsed
		} else {
			wait = 0
		}
	}
	if wait > 0 {
		time.Sleep(wait)
	}
	g.lastRequest = time.Now()
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *Geocoder) fetch(ctx context.Context, query string) *models.Coordinates {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("q", query)
	if g.countryCode != "" {
		params.Set("countrycodes", g.countryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		g.logger.Warn().Err(err).Str("query", query).Msg("failed to build geocode request")
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn().Err(err).Str("query", query).Msg("geocode request failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn().Int("status", resp.StatusCode).Str("query", query).Msg("geocode request rejected")
		return nil
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		g.logger.Warn().Err(err).Str("query", query).Msg("failed to decode geocode response")
		return nil
	}
	if len(places) == 0 {
		return nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		g.logger.Warn().Err(err).Str("query", query).Msg("invalid latitude in geocode response")
		return nil
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		g.logger.Warn().Err(err).Str("query", query).Msg("invalid longitude in geocode response")
		return nil
	}

	return &models.Coordinates{Lat: lat, Lon: lon}
}

func (g *Geocoder) store(ctx context.Context, address string, lat, lon *float64) {
	if err := g.cache.UpsertGeocodeResult(ctx, address, lat, lon); err != nil {
		g.logger.Warn().Err(err).Str("address", address).Msg("failed to cache geocode result")
	}
}
