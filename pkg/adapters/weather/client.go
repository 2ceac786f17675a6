// Package weather fetches forecasts from the US National Weather Service API (api.weather.gov).
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://api.weather.gov"
	DefaultUserAgent = "sequent (github.com/aretw0/sequent)"
)

var (
	// ErrNoForecast is returned when the service has no forecast for a location.
	ErrNoForecast = errors.New("no forecast available")
	// ErrInvalidCoordinates is returned for a latitude or longitude out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// StatusError reports a non-2xx answer from the service.
type StatusError struct {
	URL    string
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("weather: GET %s: HTTP %d: %s", e.URL, e.Status, e.Detail)
	}
	return fmt.Sprintf("weather: GET %s: HTTP %d", e.URL, e.Status)
}

// Period is one forecast period (usually half a day).
type Period struct {
	Number           int    `json:"number"`
	Name             string `json:"name"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	IsDaytime        bool   `json:"isDaytime"`
	Temperature      int    `json:"temperature"`
	TemperatureUnit  string `json:"temperatureUnit"`
	WindSpeed        string `json:"windSpeed"`
	WindDirection    string `json:"windDirection"`
	ShortForecast    string `json:"shortForecast"`
	DetailedForecast string `json:"detailedForecast"`
}

type pointResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []Period `json:"periods"`
	} `json:"properties"`
}

// Client queries the forecast endpoints. It is safe for concurrent use.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the service endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithUserAgent sets the User-Agent header. The service rejects requests without one.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a weather client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		http:      &http.Client{Timeout: 30 * time.Second},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Forecast resolves the grid point for the coordinates and returns its forecast periods.
func (c *Client) Forecast(ctx context.Context, latitude, longitude float64) ([]Period, error) {
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return nil, fmt.Errorf("%w: latitude %v, longitude %v", ErrInvalidCoordinates, latitude, longitude)
	}

	pointURL := fmt.Sprintf("%s/points/%s,%s", c.baseURL, coordinate(latitude), coordinate(longitude))
	var point pointResponse
	if err := c.getJSON(ctx, pointURL, &point); err != nil {
		return nil, err
	}
	if point.Properties.Forecast == "" {
		return nil, fmt.Errorf("%w for latitude %v and longitude %v", ErrNoForecast, latitude, longitude)
	}

	var forecast forecastResponse
	if err := c.getJSON(ctx, point.Properties.Forecast, &forecast); err != nil {
		return nil, err
	}
	if len(forecast.Properties.Periods) == 0 {
		return nil, fmt.Errorf("%w for latitude %v and longitude %v", ErrNoForecast, latitude, longitude)
	}

	c.logger.DebugContext(ctx, "forecast", "latitude", latitude, "longitude", longitude, "periods", len(forecast.Properties.Periods))
	return forecast.Properties.Periods, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("weather: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: url, Status: resp.StatusCode, Detail: problemDetail(resp.Body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("weather: decode %s: %w", url, err)
	}
	return nil
}

// problemDetail extracts the "detail" of an RFC 7807 problem document, if any.
func problemDetail(r io.Reader) string {
	var problem struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 1<<16)).Decode(&problem); err != nil {
		return ""
	}
	return problem.Detail
}

// coordinate renders v with at most four decimals, the precision the points endpoint accepts.
func coordinate(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}

// FormatPeriods renders one line per period.
func FormatPeriods(periods []Period) string {
	var b strings.Builder
	for i, p := range periods {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Period %d, %s, periodStart: %s, periodEnd: %s, Forecast: %s",
			p.Number, p.Name, p.StartTime, p.EndTime, p.DetailedForecast)
	}
	return b.String()
}
