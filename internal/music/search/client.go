package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"musicbot/pkg/retrylimit"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"
	maxResults     = 10
)

// Client queries the YouTube Data API v3 search endpoint.
type Client struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
	limiter *retrylimit.AdaptiveLimiter
}

// New creates a search client. An empty apiKey yields a client whose Search
// always fails with NotConfigured, so callers don't need a nil check.
func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		limiter: retrylimit.NewAdaptiveLimiter(5, 1, 10, 1, 0.5),
	}
}

type statusError struct {
	code int
}

func (e *statusError) Error() string   { return fmt.Sprintf("unexpected status %d", e.code) }
func (e *statusError) StatusCode() int { return e.code }

// Search returns up to 10 candidates for the query, in backend order.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if c.apiKey == "" {
		return nil, &Error{Kind: NotConfigured}
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("maxResults", fmt.Sprintf("%d", maxResults))
	q.Set("q", query)
	q.Set("key", c.apiKey)
	reqURL := c.baseURL + "/search?" + q.Encode()

	var payload struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
		} `json:"items"`
	}

	err := retrylimit.WithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return &retrylimit.FatalError{Err: err}
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return &statusError{code: resp.StatusCode}
		default:
			// 4xx other than throttling won't get better on retry.
			return &retrylimit.FatalError{Err: &statusError{code: resp.StatusCode}}
		}

		return json.NewDecoder(resp.Body).Decode(&payload)
	}, c.limiter)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &Error{Kind: NetworkFailure, Err: err}
	}

	results := make([]Result, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.ID.VideoID == "" {
			continue
		}
		results = append(results, Result{
			Title:   item.Snippet.Title,
			VideoID: item.ID.VideoID,
		})
	}

	if len(results) == 0 {
		return nil, &Error{Kind: EmptyResult}
	}
	return results, nil
}
