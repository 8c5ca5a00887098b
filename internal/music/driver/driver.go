// Package driver bridges a playback session to the guild's voice
// connection. It owns the ffmpeg decode pipeline and the opus send loop,
// and reports stream completion back through per-stream Done channels.
package driver

import (
	"musicbot/internal/music/track"
)

// ErrorKind classifies streaming failures.
type ErrorKind int

const (
	// NotConnected means there is no usable voice connection for the guild.
	NotConnected ErrorKind = iota
	// ConnectionLost means the stream died mid-playback.
	ConnectionLost
	// DecodeFailure means the decode pipeline could not be set up or broke.
	DecodeFailure
)

func (k ErrorKind) String() string {
	switch k {
	case NotConnected:
		return "not connected"
	case ConnectionLost:
		return "connection lost"
	case DecodeFailure:
		return "decode failure"
	}
	return "unknown"
}

// Error is the failure type produced by the driver.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "stream: " + e.Kind.String() + ": " + e.Err.Error()
	}
	return "stream: " + e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Handle controls one started stream. Done is closed exactly once per
// started stream, whether the media ended naturally or Stop forced it.
type Handle interface {
	// Stop forcibly terminates the stream. Safe to call more than once.
	Stop()
	// SetVolume adjusts the stream gain, 0.0 to 2.0.
	SetVolume(v float64)
	// Done is closed when the stream has fully finished.
	Done() <-chan struct{}
	// Err reports how the stream ended; valid only after Done is closed.
	// nil means natural completion or forced stop.
	Err() error
}

// Driver starts audio streams for guilds. Implementations must guarantee
// at most one active stream per guild at any instant.
type Driver interface {
	Start(guildID, channelID string, t track.Track, volume float64) (Handle, error)
}
