package command

import (
	"errors"

	"musicbot/internal/music/driver"
	"musicbot/internal/music/resolver"
	"musicbot/internal/music/search"
	"musicbot/internal/music/session"
)

// ErrNotInVoice means the command needs the author to be in a voice channel.
var ErrNotInVoice = errors.New("user not in any voice channel")

// ErrNotOwner means an owner-restricted command was issued by someone else.
var ErrNotOwner = errors.New("command restricted to the bot owner")

// FormatError converts any error flowing out of a command into a message
// fit for a chat reply. Unrecognized errors are surfaced verbatim.
func FormatError(err error) string {
	if errors.Is(err, ErrNotInVoice) {
		return "🔊 Join a voice channel first."
	}
	if errors.Is(err, ErrNotOwner) {
		return "⛔ Only the bot owner can do that."
	}
	if errors.Is(err, session.ErrNotPlaying) {
		return "🔇 Nothing is playing right now."
	}

	var uerr *session.UserInputError
	if errors.As(err, &uerr) {
		return "⚠️ " + uerr.Msg
	}

	var rerr *resolver.Error
	if errors.As(err, &rerr) {
		switch rerr.Kind {
		case resolver.NotFound:
			return "🔍 Couldn't find anything playable for that request."
		case resolver.NetworkFailure:
			return "🌐 The source is unreachable right now, try again in a bit."
		case resolver.UnsupportedSource:
			return "🚫 That link points somewhere I can't play from."
		}
	}

	var serr *search.Error
	if errors.As(err, &serr) {
		switch serr.Kind {
		case search.NotConfigured:
			return "🔍 Search is not set up, the bot needs a YouTube API key."
		case search.NetworkFailure:
			return "🌐 Search backend is unreachable, try again in a bit."
		case search.EmptyResult:
			return "🔍 Nothing found, try different keywords."
		}
	}

	var derr *driver.Error
	if errors.As(err, &derr) {
		switch derr.Kind {
		case driver.NotConnected:
			return "🔌 Not connected to a voice channel."
		case driver.ConnectionLost:
			return "🔌 Lost the voice connection mid-stream."
		case driver.DecodeFailure:
			return "💥 Could not decode that stream."
		}
	}

	return "❗ " + err.Error()
}
