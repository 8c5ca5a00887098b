// Package search turns a keyword query into a numbered list of candidate
// videos using the YouTube Data API. The bot shows the list to the user,
// who picks an entry by index with the play command.
package search

// Result is one search candidate.
type Result struct {
	Title   string
	VideoID string
}

// URL returns the watch page for the candidate.
func (r Result) URL() string {
	return "https://www.youtube.com/watch?v=" + r.VideoID
}

// ErrorKind classifies search failures.
type ErrorKind int

const (
	// NotConfigured means no search backend credential was provided.
	NotConfigured ErrorKind = iota
	// NetworkFailure covers transport errors and backend error responses.
	NetworkFailure
	// EmptyResult means the backend answered but found nothing.
	EmptyResult
)

func (k ErrorKind) String() string {
	switch k {
	case NotConfigured:
		return "not configured"
	case NetworkFailure:
		return "network failure"
	case EmptyResult:
		return "empty result"
	}
	return "unknown"
}

// Error is the failure type returned by Client.Search.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "search: " + e.Kind.String() + ": " + e.Err.Error()
	}
	return "search: " + e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }
