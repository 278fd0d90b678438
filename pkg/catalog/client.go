package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/OFFIS-RIT/actorlink/internal/util"
	"github.com/OFFIS-RIT/actorlink/pkg/logger"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.themoviedb.org/3"

// StatusError is returned for unexpected HTTP status codes.
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Code)
}

// ErrNotFound marks catalog IDs with no movie behind them.
var ErrNotFound = errors.New("movie not found in catalog")

// Client talks to the TMDB v3 API. All requests share one rate limiter and
// are retried on transport errors, 429 and 5xx responses.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxTries   int
	retryDelay time.Duration
}

type ClientParams struct {
	BaseURL           string
	APIKey            string
	RequestsPerSecond float64
	HTTPClient        *http.Client
	MaxTries          int
	RetryDelay        time.Duration
}

func NewClient(params ClientParams) (*Client, error) {
	if params.APIKey == "" {
		return nil, errors.New("catalog api key is empty")
	}
	if params.BaseURL == "" {
		params.BaseURL = DefaultBaseURL
	}
	if params.HTTPClient == nil {
		params.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if params.MaxTries <= 0 {
		params.MaxTries = 3
	}
	if params.RetryDelay < 0 {
		params.RetryDelay = 0
	}

	limit := rate.Inf
	burst := 1
	if params.RequestsPerSecond > 0 {
		limit = rate.Limit(params.RequestsPerSecond)
		burst = max(1, int(params.RequestsPerSecond))
	}

	return &Client{
		baseURL:    strings.TrimSuffix(params.BaseURL, "/"),
		apiKey:     params.APIKey,
		httpClient: params.HTTPClient,
		limiter:    rate.NewLimiter(limit, burst),
		maxTries:   params.MaxTries,
		retryDelay: params.RetryDelay,
	}, nil
}

// MovieExists issues a HEAD request for the movie record.
func (c *Client) MovieExists(ctx context.Context, tmdbID int64) (bool, error) {
	_, err := c.do(ctx, http.MethodHead, moviePath(tmdbID))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) MovieDetails(ctx context.Context, tmdbID int64) (MovieDetails, error) {
	var d MovieDetails
	if err := c.getJSON(ctx, moviePath(tmdbID), &d); err != nil {
		return MovieDetails{}, err
	}
	return d, nil
}

func (c *Client) MovieCredits(ctx context.Context, tmdbID int64) (Credits, error) {
	var cr Credits
	if err := c.getJSON(ctx, moviePath(tmdbID)+"/credits", &cr); err != nil {
		return Credits{}, err
	}
	return cr, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func moviePath(tmdbID int64) string {
	return "/movie/" + strconv.FormatInt(tmdbID, 10)
}

func (c *Client) do(ctx context.Context, method, path string) ([]byte, error) {
	return util.RetryWithBackoff(ctx, c.maxTries, c.retryDelay, func(ctx context.Context) ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+url.Values{"api_key": {c.apiKey}}.Encode(), nil)
		if err != nil {
			return nil, util.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			logger.Debug("[Catalog] Request failed", "method", method, "path", path, "err", err)
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, util.Permanent(ErrNotFound)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode}
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			return nil, util.Permanent(&StatusError{Method: method, Path: path, Code: resp.StatusCode})
		}

		if method == http.MethodHead {
			return nil, nil
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return body, nil
	})
}
