// Package resolver turns a user-supplied query into one or more playable
// tracks. URLs go straight to extraction (playlists are expanded in source
// order), free text is first matched to the best candidate video.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"musicbot/internal/music/track"
	"musicbot/pkg/retrylimit"
)

// ErrorKind classifies resolution failures.
type ErrorKind int

const (
	// NotFound means no track could be produced for the query.
	NotFound ErrorKind = iota
	// NetworkFailure covers transport and backend errors.
	NetworkFailure
	// UnsupportedSource means no extractor handles the given URL.
	UnsupportedSource
)

func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case NetworkFailure:
		return "network failure"
	case UnsupportedSource:
		return "unsupported source"
	}
	return "unknown"
}

// Error is the failure type returned by Resolve.
type Error struct {
	Kind  ErrorKind
	Query string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve %q: %s: %v", e.Query, e.Kind, e.Err)
	}
	return fmt.Sprintf("resolve %q: %s", e.Query, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Extractor turns a media URL into playable tracks.
type Extractor interface {
	Name() string
	Match(rawURL string) bool
	Extract(ctx context.Context, rawURL string) ([]track.Track, error)
}

// Picker maps a free-text query to the single best candidate URL.
type Picker interface {
	PickBest(ctx context.Context, query string) (string, error)
}

// Resolver resolves queries through an ordered chain of extractors,
// trying the next one when the previous fails. Transient extraction
// failures are retried against the adaptive limiter before the chain
// moves on.
type Resolver struct {
	extractors []Extractor
	picker     Picker
	limiter    *retrylimit.AdaptiveLimiter
	retry      retrylimit.Config
}

// New builds the default resolver: yt-dlp first, the native YouTube client
// as fallback, and YouTube keyword search for free text.
func New() *Resolver {
	return &Resolver{
		extractors: []Extractor{newYTDLPExtractor(), newNativeExtractor()},
		picker:     &searchPicker{},
		limiter:    retrylimit.NewAdaptiveLimiter(2, 1, 5, 1, 0.5),
		retry:      retrylimit.DefaultConfig(),
	}
}

// Resolve returns at least one track or an *Error, never both empty.
func (r *Resolver) Resolve(ctx context.Context, query string) ([]track.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &Error{Kind: NotFound, Query: query}
	}

	if !isURL(query) {
		best, err := r.picker.PickBest(ctx, query)
		if err != nil {
			return nil, &Error{Kind: classifyKind(err), Query: query, Err: err}
		}
		return r.resolveURL(ctx, query, best)
	}

	return r.resolveURL(ctx, query, query)
}

func (r *Resolver) resolveURL(ctx context.Context, query, rawURL string) ([]track.Track, error) {
	matched := false
	var errs []error

	for _, ex := range r.extractors {
		if !ex.Match(rawURL) {
			continue
		}
		matched = true

		tracks, err := r.extractWithRetry(ctx, ex, rawURL)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ex.Name(), err))
			continue
		}
		if len(tracks) > 0 {
			return tracks, nil
		}
	}

	if !matched {
		return nil, &Error{Kind: UnsupportedSource, Query: query}
	}
	joined := errors.Join(errs...)
	return nil, &Error{Kind: classifyKind(joined), Query: query, Err: joined}
}

// extractWithRetry runs one extractor, retrying only failures that look
// transient. Everything else fails fast so the next extractor in the
// chain gets its turn without burning the retry budget.
func (r *Resolver) extractWithRetry(ctx context.Context, ex Extractor, rawURL string) ([]track.Track, error) {
	var tracks []track.Track
	err := retrylimit.WithRetryConfig(ctx, func() error {
		var err error
		tracks, err = ex.Extract(ctx, rawURL)
		if err == nil {
			return nil
		}
		if classifyKind(err) != NetworkFailure {
			return &retrylimit.FatalError{Err: err}
		}
		return err
	}, r.limiter, r.retry)
	return tracks, err
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// classifyKind maps backend failure text onto the error taxonomy. Extraction
// tools only report through exit status and stderr, so this is heuristic.
func classifyKind(err error) ErrorKind {
	if err == nil {
		return NotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NetworkFailure
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unsupported url"):
		return UnsupportedSource
	case strings.Contains(msg, "unable to download"),
		strings.Contains(msg, "network"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "connection"):
		return NetworkFailure
	default:
		return NotFound
	}
}
