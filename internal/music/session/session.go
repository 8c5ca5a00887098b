// Package session holds the per-guild playback state machine: the FIFO
// queue, the current track, volume, and the most recent search results.
// Each session serializes its own mutations; sessions for different
// guilds never block each other.
package session

import (
	"fmt"
	"log"
	"slices"
	"sync"

	"musicbot/internal/music/driver"
	"musicbot/internal/music/search"
	"musicbot/internal/music/track"
)

// EventType tags session events delivered on the Events channel.
type EventType int

const (
	// EventNowPlaying fires when a new track starts streaming.
	EventNowPlaying EventType = iota
	// EventQueueDrained fires when the queue empties and the session goes idle.
	EventQueueDrained
	// EventStreamError fires when a track fails to start or dies mid-stream.
	EventStreamError
)

// Event is a notification from a session to whoever announces playback
// state (chat messages, presence, status page).
type Event struct {
	GuildID string
	Type    EventType
	Track   track.Track
	Err     error
}

const (
	defaultVolume = 0.5
	maxVolume     = 2.0
	eventBuffer   = 16
)

// Session is the playback state machine for one guild. All methods are
// safe for concurrent use.
type Session struct {
	guildID string
	drv     driver.Driver
	events  chan Event

	mu            sync.Mutex
	channelID     string
	textChannelID string
	queue         []track.Track
	current       *track.Track
	handle        driver.Handle
	token         uint64
	volume        float64
	lastSearch    []search.Result
}

func newSession(guildID string, drv driver.Driver) *Session {
	return &Session{
		guildID: guildID,
		drv:     drv,
		volume:  defaultVolume,
		events:  make(chan Event, eventBuffer),
	}
}

// GuildID returns the guild this session belongs to.
func (s *Session) GuildID() string { return s.guildID }

// Events returns the session's notification channel. Events are dropped
// rather than blocking playback when nobody reads fast enough.
func (s *Session) Events() <-chan Event { return s.events }

func (s *Session) emit(ev Event) {
	ev.GuildID = s.guildID
	select {
	case s.events <- ev:
	default:
		log.Printf("[WARN] Dropping session event for guild %s, listener too slow", s.guildID)
	}
}

// SetVoiceChannel records which voice channel playback should stream into.
func (s *Session) SetVoiceChannel(channelID string) {
	s.mu.Lock()
	s.channelID = channelID
	s.mu.Unlock()
}

// SetTextChannel records the text channel playback announcements go to.
func (s *Session) SetTextChannel(channelID string) {
	s.mu.Lock()
	s.textChannelID = channelID
	s.mu.Unlock()
}

// TextChannel returns the channel for playback announcements, empty when
// no play command has been seen yet.
func (s *Session) TextChannel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.textChannelID
}

// Enqueue appends tracks to the queue. If the session is idle, playback
// starts immediately with the first track that can be streamed.
func (s *Session) Enqueue(tracks ...track.Track) {
	if len(tracks) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = append(s.queue, tracks...)
	if s.current == nil {
		s.advanceLocked()
	}
}

// advanceLocked pops the next queued track and starts streaming it.
// Tracks that fail to start are dropped with an error event so the queue
// never wedges on a single bad entry. Caller must hold s.mu.
func (s *Session) advanceLocked() {
	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]

		s.token++
		tok := s.token

		h, err := s.drv.Start(s.guildID, s.channelID, next, s.volume)
		if err != nil {
			log.Printf("[ERR] Failed to start %q on guild %s: %v", next.Title, s.guildID, err)
			s.emit(Event{Type: EventStreamError, Track: next, Err: err})
			continue
		}

		s.current = &next
		s.handle = h
		s.emit(Event{Type: EventNowPlaying, Track: next})
		go s.watch(tok, h)
		return
	}

	s.current = nil
	s.handle = nil
	s.emit(Event{Type: EventQueueDrained})
}

// watch waits for one stream to finish and reports back with its token.
func (s *Session) watch(tok uint64, h driver.Handle) {
	<-h.Done()
	s.onStreamEnded(tok, h.Err())
}

// onStreamEnded handles a stream-completion signal. Signals whose token
// does not match the most recently started stream are stale, left over
// from a superseded stream, and ignored so advancement runs exactly once
// per completed slot.
func (s *Session) onStreamEnded(tok uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok != s.token {
		return
	}
	if err != nil && s.current != nil {
		log.Printf("[ERR] Stream ended with error on guild %s: %v", s.guildID, err)
		s.emit(Event{Type: EventStreamError, Track: *s.current, Err: err})
	}
	s.current = nil
	s.handle = nil
	s.advanceLocked()
}

// Skip forcibly stops the current stream; the completion signal then
// advances to the next queued track. Reports whether anything was playing.
func (s *Session) Skip() bool {
	s.mu.Lock()
	h := s.handle
	s.mu.Unlock()

	if h == nil {
		return false
	}
	h.Stop()
	return true
}

// Stop drains the queue and terminates any active stream. The session is
// idle when Stop returns; a late completion signal from the stopped
// stream is discarded by the token guard.
func (s *Session) Stop() {
	s.mu.Lock()
	s.queue = nil
	wasPlaying := s.current != nil
	s.current = nil
	h := s.handle
	s.handle = nil
	s.token++
	if wasPlaying {
		s.emit(Event{Type: EventQueueDrained})
	}
	s.mu.Unlock()

	if h != nil {
		h.Stop()
	}
}

// SetVolumePercent sets the gain from a user-facing 0 to 200 percentage.
// The new value also applies to every subsequent track.
func (s *Session) SetVolumePercent(pct int) error {
	if pct < 0 || pct > 200 {
		return &UserInputError{
			Kind: OutOfRange,
			Msg:  fmt.Sprintf("volume must be between 0 and 200, got %d", pct),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNotPlaying
	}
	s.volume = float64(pct) / 100.0
	s.handle.SetVolume(s.volume)
	return nil
}

// VolumePercent returns the current gain as a 0 to 200 percentage.
func (s *Session) VolumePercent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.volume * 100)
}

// NowPlaying returns the track currently streaming, if any.
func (s *Session) NowPlaying() (track.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return track.Track{}, false
	}
	return *s.current, true
}

// QueueSnapshot returns a copy of the pending queue in play order. The
// snapshot is detached from the live queue.
func (s *Session) QueueSnapshot() []track.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queue)
}

// QueueLen returns the number of pending tracks, not counting the one
// currently playing.
func (s *Session) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// SetSearchResults replaces the guild's search-result cache. Any index
// handed out against the previous results becomes stale.
func (s *Session) SetSearchResults(results []search.Result) {
	s.mu.Lock()
	s.lastSearch = slices.Clone(results)
	s.mu.Unlock()
}

// ResultByIndex resolves a 1-based index against the most recent search
// results for this guild.
func (s *Session) ResultByIndex(i int) (search.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lastSearch) == 0 {
		return search.Result{}, &UserInputError{
			Kind: StaleIndex,
			Msg:  "no search results to pick from, run a search first",
		}
	}
	if i < 1 || i > len(s.lastSearch) {
		return search.Result{}, &UserInputError{
			Kind: OutOfRange,
			Msg:  fmt.Sprintf("pick a number between 1 and %d", len(s.lastSearch)),
		}
	}
	return s.lastSearch[i-1], nil
}
