package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// BreakerSettings enables a fail-fast circuit breaker in front of the provider.
type BreakerSettings struct {
	Failures uint32        // consecutive failures before opening
	Cooldown time.Duration // time spent open before probing again
}

// Options configures a weather client.
type Options struct {
	APIKey  string
	BaseURL string
	Units   string
	Timeout time.Duration
	Breaker *BreakerSettings
	Logger  *slog.Logger

	// HTTPClient overrides the default client. Its Timeout is left untouched.
	HTTPClient *http.Client
}

var errServerStatus = errors.New("server error status")

// httpCore performs single-attempt GET requests and maps failures onto *Error.
type httpCore struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

func newHTTPCore(name string, opts Options) *httpCore {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &httpCore{client: client, logger: logger}

	if b := opts.Breaker; b != nil {
		failures := b.Failures
		if failures == 0 {
			failures = 5
		}
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     b.Cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("weather circuit breaker state changed", "provider", name, "from", from.String(), "to", to.String())
			},
		})
	}

	return c
}

// get issues one GET request. location is only used for error messages.
func (c *httpCore) get(ctx context.Context, endpoint string, params url.Values, location string) (json.RawMessage, error) {
	u := endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: fmt.Sprintf("Weather API error: %v", err), Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		var werr *Error
		if errors.As(err, &werr) {
			return nil, werr
		}
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("weather api returned error status", "status", resp.StatusCode, "location", location)
		return nil, statusError(resp.StatusCode, body, location)
	}

	if !json.Valid(body) {
		return nil, &Error{Kind: KindTransport, Message: "Weather API error: invalid JSON response"}
	}

	return json.RawMessage(body), nil
}

func (c *httpCore) do(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.client.Do(req)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return resp, errServerStatus
		}
		return resp, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &Error{Kind: KindUnavailable, Message: "Weather service is temporarily unavailable", Err: err}
	}
	if errors.Is(err, errServerStatus) {
		err = nil
	}
	if err != nil {
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}

func normalizeLocation(location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", errLocationRequired()
	}
	return location, nil
}

func clampDays(days, maxDays int) int {
	return max(1, min(days, maxDays))
}

func unitsOrDefault(units string) string {
	if units == "" {
		return "metric"
	}
	return units
}
