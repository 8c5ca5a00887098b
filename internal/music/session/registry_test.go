package session

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistry_GetOrCreateIsIdempotent(t *testing.T) {
	r := NewRegistry(&fakeDriver{})

	a := r.GetOrCreate("guild-1")
	b := r.GetOrCreate("guild-1")
	if a != b {
		t.Error("expected the same session for repeated access")
	}

	c := r.GetOrCreate("guild-2")
	if c == a {
		t.Error("expected distinct sessions for distinct guilds")
	}
}

func TestRegistry_ConcurrentFirstAccessCreatesOne(t *testing.T) {
	r := NewRegistry(&fakeDriver{})

	const n = 32
	got := make(chan *Session, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got <- r.GetOrCreate("guild-race")
		}()
	}
	wg.Wait()
	close(got)

	first := <-got
	for s := range got {
		if s != first {
			t.Fatal("concurrent GetOrCreate returned different sessions")
		}
	}
}

func TestRegistry_GetDoesNotCreate(t *testing.T) {
	r := NewRegistry(&fakeDriver{})

	if _, ok := r.Get("missing"); ok {
		t.Error("expected Get to miss for unseen guild")
	}
	r.GetOrCreate("seen")
	if _, ok := r.Get("seen"); !ok {
		t.Error("expected Get to hit after creation")
	}
}

func TestRegistry_AllReturnsEverySession(t *testing.T) {
	r := NewRegistry(&fakeDriver{})
	for i := 0; i < 5; i++ {
		r.GetOrCreate(fmt.Sprintf("guild-%d", i))
	}
	if got := len(r.All()); got != 5 {
		t.Errorf("expected 5 sessions, got %d", got)
	}
}
