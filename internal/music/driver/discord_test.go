package driver

import (
	"testing"
	"time"
)

func drainingHandle() *streamHandle {
	return &streamHandle{stop: make(chan struct{}), done: make(chan struct{})}
}

func TestWaitIdle_BlocksUntilPreviousStreamDrains(t *testing.T) {
	g := &guildVoice{}
	h := drainingHandle()
	g.active = h

	released := make(chan struct{})
	go func() {
		g.mu.Lock()
		g.waitIdle()
		g.mu.Unlock()
		close(released)
	}()

	select {
	case <-released:
		t.Fatal("waitIdle returned while the old stream was still draining")
	case <-time.After(20 * time.Millisecond):
	}

	close(h.done)

	select {
	case <-released:
	case <-time.After(2 * time.Second):
		t.Fatal("waitIdle never returned after the old stream drained")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active != nil {
		t.Error("expected the slot to be released")
	}
}

func TestWaitIdle_ReturnsImmediatelyWhenSlotFree(t *testing.T) {
	g := &guildVoice{}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.waitIdle() // must not block with no stream at all

	h := drainingHandle()
	close(h.done)
	g.active = h
	g.waitIdle() // finished stream releases without blocking
	if g.active != nil {
		t.Error("expected finished stream's slot to be released")
	}
}

func TestConnected_UnknownGuild(t *testing.T) {
	d := NewDiscord(nil)
	if d.Connected("never-seen") {
		t.Error("expected unknown guild to report not connected")
	}
}

func TestGuild_SlotsAreIndependentPerGuild(t *testing.T) {
	d := NewDiscord(nil)
	a := d.guild("guild-a")
	b := d.guild("guild-b")
	if a == b {
		t.Fatal("expected distinct voice slots for distinct guilds")
	}
	if again := d.guild("guild-a"); again != a {
		t.Error("expected repeated lookup to return the same slot")
	}

	// Holding one guild's lock must not block another guild's operations.
	a.mu.Lock()
	defer a.mu.Unlock()
	done := make(chan struct{})
	go func() {
		d.Connected("guild-b")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("guild-b operation blocked behind guild-a's lock")
	}
}
