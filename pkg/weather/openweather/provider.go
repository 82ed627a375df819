package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Siphelele-Maphumulo/WeatherApp/pkg/weather"
)

/*
	OpenWeather API Response Codes
	Success codes
	200  // Success for current weather data

	Error codes
	400  // Bad request (e.g., invalid parameters)
	401  // Unauthorized (invalid or missing API key)
	404  // City not found
	429  // Too many requests (exceeded rate limit)
	500  // Internal server error

	Every non-2xx code is reported to the user as "City not found".
*/

const (
	DefaultBaseURL  = "https://api.openweathermap.org"
	DefaultTestFile = "weather.weather.json"
	userAgent       = "WeatherApp/1.0"
)

// errorBody is what the API sends alongside a non-2xx status.
type errorBody struct {
	Code    any    `json:"cod"`
	Message string `json:"message"`
}

var _ weather.Provider = (*Provider)(nil)

type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	testFile   string
	debugMode  bool
}

type Option func(*Provider)

func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.httpClient = c }
}

func WithBaseURL(u string) Option {
	return func(p *Provider) { p.baseURL = strings.TrimRight(u, "/") }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// WithTestData makes the provider read responses from a local file instead
// of the network. An empty name uses DefaultTestFile.
func WithTestData(filename string) Option {
	return func(p *Provider) {
		if filename == "" {
			filename = DefaultTestFile
		}
		p.testFile = filename
	}
}

func WithDebug(debug bool) Option {
	return func(p *Provider) { p.debugMode = debug }
}

func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CurrentConditions fetches the current conditions for a city in metric units.
func (p *Provider) CurrentConditions(ctx context.Context, city string) (*weather.Snapshot, error) {
	body, err := p.fetchData(ctx, city)
	if err != nil {
		return nil, err
	}

	var data weather.Snapshot
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}

	return &data, nil
}

func (p *Provider) fetchData(ctx context.Context, city string) ([]byte, error) {
	if p.testFile != "" {
		body, err := os.ReadFile(p.testFile)
		if err != nil {
			return nil, fmt.Errorf("error reading test file: %w", err)
		}
		return body, nil
	}

	requestID := uuid.NewString()
	log := p.logger.With(zap.String("request_id", requestID), zap.String("city", city))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.buildURL(city), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)

	if p.debugMode {
		log.Debug("requesting current conditions", zap.String("url", p.redactedURL(city)))
	}

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		// The url.Error wrapper carries the full request URL, key included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		log.Warn("request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("response received",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	// The status alone decides the outcome; the body is read only for the log.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if raw, readErr := io.ReadAll(resp.Body); readErr == nil {
			if jsonErr := json.Unmarshal(raw, &eb); jsonErr == nil && eb.Message != "" {
				log.Debug("provider rejected lookup", zap.String("message", eb.Message))
			}
		}
		return nil, weather.ErrCityNotFound
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn("reading response failed", zap.Error(err))
		return nil, err
	}

	return body, nil
}

func (p *Provider) buildURL(city string) string {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", p.apiKey)
	params.Set("units", "metric")
	return p.baseURL + "/data/2.5/weather?" + params.Encode()
}

func (p *Provider) redactedURL(city string) string {
	return strings.Replace(p.buildURL(city), "appid="+url.QueryEscape(p.apiKey), "appid=REDACTED", 1)
}
