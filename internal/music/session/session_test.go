package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"musicbot/internal/music/driver"
	"musicbot/internal/music/search"
	"musicbot/internal/music/track"
)

type fakeHandle struct {
	once sync.Once
	done chan struct{}

	mu     sync.Mutex
	err    error
	volume float64
}

func newFakeHandle(volume float64) *fakeHandle {
	return &fakeHandle{done: make(chan struct{}), volume: volume}
}

func (h *fakeHandle) Stop() {
	h.once.Do(func() { close(h.done) })
}

// finish simulates natural stream completion, or a mid-stream failure
// when err is non-nil.
func (h *fakeHandle) finish(err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
	h.once.Do(func() { close(h.done) })
}

func (h *fakeHandle) SetVolume(v float64) {
	h.mu.Lock()
	h.volume = v
	h.mu.Unlock()
}

func (h *fakeHandle) currentVolume() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.volume
}

func (h *fakeHandle) Done() <-chan struct{} { return h.done }

func (h *fakeHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

type fakeDriver struct {
	mu       sync.Mutex
	started  []track.Track
	handles  []*fakeHandle
	startErr []error // consumed one per Start call, nil means success
}

func (d *fakeDriver) Start(guildID, channelID string, t track.Track, volume float64) (driver.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.startErr) > 0 {
		err := d.startErr[0]
		d.startErr = d.startErr[1:]
		if err != nil {
			return nil, err
		}
	}
	d.started = append(d.started, t)
	h := newFakeHandle(volume)
	d.handles = append(d.handles, h)
	return h, nil
}

func (d *fakeDriver) startedTitles() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	titles := make([]string, len(d.started))
	for i, t := range d.started {
		titles[i] = t.Title
	}
	return titles
}

func (d *fakeDriver) handle(i int) *fakeHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.handles[i]
}

func (d *fakeDriver) startCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.started)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestSession() (*Session, *fakeDriver) {
	d := &fakeDriver{}
	return newSession("guild-1", d), d
}

func TestEnqueue_StartsPlaybackWhenIdle(t *testing.T) {
	s, d := newTestSession()

	s.Enqueue(track.Track{Title: "A"})

	now, ok := s.NowPlaying()
	if !ok || now.Title != "A" {
		t.Fatalf("expected A playing, got %v %v", now, ok)
	}
	if d.startCount() != 1 {
		t.Errorf("expected exactly one stream start, got %d", d.startCount())
	}
}

func TestEnqueue_WhilePlayingQueuesWithoutRestart(t *testing.T) {
	s, d := newTestSession()

	s.Enqueue(track.Track{Title: "A"})
	s.Enqueue(track.Track{Title: "B"})

	if d.startCount() != 1 {
		t.Fatalf("expected one start, got %d", d.startCount())
	}
	queue := s.QueueSnapshot()
	if len(queue) != 1 || queue[0].Title != "B" {
		t.Errorf("expected B queued, got %+v", queue)
	}
}

func TestQueue_FIFOOrderToCompletion(t *testing.T) {
	s, d := newTestSession()

	s.Enqueue(track.Track{Title: "A"}, track.Track{Title: "B"}, track.Track{Title: "C"})

	for i := 0; i < 3; i++ {
		d.handle(i).finish(nil)
		want := i + 2
		if i == 2 {
			waitFor(t, "session to go idle", func() bool {
				_, ok := s.NowPlaying()
				return !ok
			})
			break
		}
		waitFor(t, "next track to start", func() bool { return d.startCount() == want })
	}

	got := d.startedTitles()
	if len(got) != 3 || got[0] != "A" || got[1] != "B" || got[2] != "C" {
		t.Errorf("play order = %v, want [A B C]", got)
	}
	if len(s.QueueSnapshot()) != 0 {
		t.Errorf("expected empty queue after natural run, got %v", s.QueueSnapshot())
	}
}

func TestSkip_AdvancesExactlyOnce(t *testing.T) {
	s, d := newTestSession()

	s.Enqueue(track.Track{Title: "A"}, track.Track{Title: "B"})

	if !s.Skip() {
		t.Fatal("expected Skip to report an active track")
	}
	waitFor(t, "B to start after skip", func() bool {
		now, ok := s.NowPlaying()
		return ok && now.Title == "B"
	})

	// A late natural-completion signal for the skipped stream must be
	// discarded by the token guard, not advance a second time.
	s.onStreamEnded(1, nil)

	now, ok := s.NowPlaying()
	if !ok || now.Title != "B" {
		t.Errorf("stale completion advanced the session, now playing %v %v", now, ok)
	}
	if d.startCount() != 2 {
		t.Errorf("expected 2 starts, got %d", d.startCount())
	}
}

func TestSkip_WhenIdleIsNoop(t *testing.T) {
	s, _ := newTestSession()
	if s.Skip() {
		t.Error("expected Skip to be a no-op while idle")
	}
}

func TestStop_ClearsQueueAndGoesIdle(t *testing.T) {
	s, d := newTestSession()

	s.Enqueue(track.Track{Title: "A"}, track.Track{Title: "B"}, track.Track{Title: "C"})
	s.Stop()

	if _, ok := s.NowPlaying(); ok {
		t.Error("expected idle session after Stop")
	}
	if n := len(s.QueueSnapshot()); n != 0 {
		t.Errorf("expected empty queue after Stop, got %d entries", n)
	}

	// The stopped stream's completion signal must not restart playback.
	d.handle(0).finish(nil)
	time.Sleep(20 * time.Millisecond)
	if _, ok := s.NowPlaying(); ok {
		t.Error("completion of stopped stream restarted playback")
	}
	if d.startCount() != 1 {
		t.Errorf("expected no new starts after Stop, got %d", d.startCount())
	}
}

func TestStopThenEnqueue_StartsNewQueueIntact(t *testing.T) {
	s, d := newTestSession()

	s.Enqueue(track.Track{Title: "A"})
	s.Stop()
	s.Enqueue(track.Track{Title: "B"})

	now, ok := s.NowPlaying()
	if !ok || now.Title != "B" {
		t.Fatalf("expected B to start right after stop, got %v %v", now, ok)
	}

	// The stopped stream drains afterwards; its completion signal must
	// not disturb the fresh queue.
	d.handle(0).finish(nil)
	time.Sleep(20 * time.Millisecond)

	now, ok = s.NowPlaying()
	if !ok || now.Title != "B" {
		t.Errorf("old stream's completion disturbed playback, got %v %v", now, ok)
	}
	if d.startCount() != 2 {
		t.Errorf("expected 2 starts, got %d", d.startCount())
	}
}

func TestSetVolume_RangeAndPersistence(t *testing.T) {
	s, d := newTestSession()

	if err := s.SetVolumePercent(100); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("expected ErrNotPlaying while idle, got %v", err)
	}

	s.Enqueue(track.Track{Title: "A"})

	if err := s.SetVolumePercent(150); err != nil {
		t.Fatalf("unexpected error for volume 150: %v", err)
	}
	if v := d.handle(0).currentVolume(); v != 1.5 {
		t.Errorf("handle volume = %v, want 1.5", v)
	}

	err := s.SetVolumePercent(250)
	var uerr *UserInputError
	if !errors.As(err, &uerr) || uerr.Kind != OutOfRange {
		t.Fatalf("expected OutOfRange for volume 250, got %v", err)
	}
	if got := s.VolumePercent(); got != 150 {
		t.Errorf("failed set changed volume to %d, want 150 preserved", got)
	}

	// New volume carries over to the next track.
	d.handle(0).finish(nil)
	waitFor(t, "session to go idle", func() bool {
		_, ok := s.NowPlaying()
		return !ok
	})
	s.Enqueue(track.Track{Title: "B"})
	if v := d.handle(1).currentVolume(); v != 1.5 {
		t.Errorf("next track started at volume %v, want 1.5", v)
	}
}

func TestStartError_SkipsToNextTrack(t *testing.T) {
	d := &fakeDriver{startErr: []error{&driver.Error{Kind: driver.NotConnected}}}
	s := newSession("guild-1", d)

	s.Enqueue(track.Track{Title: "bad"}, track.Track{Title: "good"})

	now, ok := s.NowPlaying()
	if !ok || now.Title != "good" {
		t.Errorf("expected playback to skip to good, got %v %v", now, ok)
	}
}

func TestStartError_OnlyTrackLeavesSessionIdle(t *testing.T) {
	d := &fakeDriver{startErr: []error{&driver.Error{Kind: driver.DecodeFailure}}}
	s := newSession("guild-1", d)

	s.Enqueue(track.Track{Title: "bad"})

	if _, ok := s.NowPlaying(); ok {
		t.Error("expected idle session after start failure")
	}
	if n := len(s.QueueSnapshot()); n != 0 {
		t.Errorf("expected empty queue, got %d entries", n)
	}
}

func TestMidStreamError_AdvancesAndEmitsEvent(t *testing.T) {
	s, d := newTestSession()

	s.Enqueue(track.Track{Title: "A"}, track.Track{Title: "B"})

	// Drain the now-playing event for A first.
	<-s.Events()

	d.handle(0).finish(&driver.Error{Kind: driver.ConnectionLost})
	waitFor(t, "B to start after stream error", func() bool {
		now, ok := s.NowPlaying()
		return ok && now.Title == "B"
	})

	sawError := false
	for done := false; !done; {
		select {
		case ev := <-s.Events():
			if ev.Type == EventStreamError && ev.Track.Title == "A" {
				sawError = true
			}
		default:
			done = true
		}
	}
	if !sawError {
		t.Error("expected a stream-error event for A")
	}
}

func TestResultByIndex_WithoutSearchIsStale(t *testing.T) {
	s, _ := newTestSession()

	_, err := s.ResultByIndex(1)
	var uerr *UserInputError
	if !errors.As(err, &uerr) || uerr.Kind != StaleIndex {
		t.Errorf("expected StaleIndex with no prior search, got %v", err)
	}
}

func TestResultByIndex_OneBasedAndBounded(t *testing.T) {
	s, _ := newTestSession()
	s.SetSearchResults([]search.Result{
		{Title: "first", VideoID: "v1"},
		{Title: "second", VideoID: "v2"},
	})

	got, err := s.ResultByIndex(2)
	if err != nil || got.VideoID != "v2" {
		t.Errorf("ResultByIndex(2) = %v, %v, want second result", got, err)
	}

	for _, i := range []int{0, 3, -1} {
		_, err := s.ResultByIndex(i)
		var uerr *UserInputError
		if !errors.As(err, &uerr) || uerr.Kind != OutOfRange {
			t.Errorf("ResultByIndex(%d): expected OutOfRange, got %v", i, err)
		}
	}
}

func TestSetSearchResults_Overwrites(t *testing.T) {
	s, _ := newTestSession()
	s.SetSearchResults([]search.Result{{Title: "old", VideoID: "old"}})
	s.SetSearchResults([]search.Result{{Title: "new", VideoID: "new"}})

	got, err := s.ResultByIndex(1)
	if err != nil || got.VideoID != "new" {
		t.Errorf("expected newest results to win, got %v, %v", got, err)
	}
}

func TestQueueSnapshot_IsDetached(t *testing.T) {
	s, _ := newTestSession()
	s.Enqueue(track.Track{Title: "A"}, track.Track{Title: "B"})

	snap := s.QueueSnapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 queued track, got %d", len(snap))
	}
	snap[0].Title = "mutated"

	if got := s.QueueSnapshot()[0].Title; got != "B" {
		t.Errorf("snapshot mutation leaked into queue, title = %q", got)
	}
}
