package session

import "errors"

// ErrNotPlaying is returned by operations that require an active track.
var ErrNotPlaying = errors.New("nothing is playing right now")

// UserInputKind classifies rejected user input.
type UserInputKind int

const (
	// OutOfRange means a numeric argument fell outside its valid range.
	OutOfRange UserInputKind = iota
	// StaleIndex means a search-result index referenced results that do
	// not exist anymore (or never did).
	StaleIndex
	// MissingArgument means a command that needs an argument got none.
	MissingArgument
)

func (k UserInputKind) String() string {
	switch k {
	case OutOfRange:
		return "out of range"
	case StaleIndex:
		return "stale index"
	case MissingArgument:
		return "missing argument"
	}
	return "unknown"
}

// UserInputError reports invalid input from a chat user. It carries a
// message suitable for direct display.
type UserInputError struct {
	Kind UserInputKind
	Msg  string
}

func (e *UserInputError) Error() string { return e.Msg }
