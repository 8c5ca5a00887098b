package driver

import (
	"math"
	"testing"
)

func TestApplyVolume(t *testing.T) {
	tests := []struct {
		name   string
		in     []int16
		volume float64
		want   []int16
	}{
		{
			name:   "unity gain leaves samples alone",
			in:     []int16{100, -200, 3000},
			volume: 1.0,
			want:   []int16{100, -200, 3000},
		},
		{
			name:   "half gain",
			in:     []int16{100, -200, 3000},
			volume: 0.5,
			want:   []int16{50, -100, 1500},
		},
		{
			name:   "mute",
			in:     []int16{100, -200},
			volume: 0,
			want:   []int16{0, 0},
		},
		{
			name:   "double gain clamps at int16 bounds",
			in:     []int16{30000, -30000},
			volume: 2.0,
			want:   []int16{math.MaxInt16, math.MinInt16},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := make([]int16, len(tt.in))
			copy(samples, tt.in)
			applyVolume(samples, tt.volume)
			for i := range samples {
				if samples[i] != tt.want[i] {
					t.Errorf("sample %d = %d, want %d", i, samples[i], tt.want[i])
				}
			}
		})
	}
}

func TestStreamHandle_StopIsIdempotent(t *testing.T) {
	h := &streamHandle{stop: make(chan struct{}), done: make(chan struct{})}
	h.Stop()
	h.Stop() // must not panic on double close

	select {
	case <-h.stop:
	default:
		t.Error("expected stop channel to be closed")
	}
}

func TestStreamHandle_VolumeRoundTrip(t *testing.T) {
	h := &streamHandle{stop: make(chan struct{}), done: make(chan struct{})}
	h.SetVolume(1.5)
	if got := h.volume(); got != 1.5 {
		t.Errorf("volume = %v, want 1.5", got)
	}
}
