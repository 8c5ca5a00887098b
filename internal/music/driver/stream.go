package driver

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"layeh.com/gopus"
)

// streamHandle is one ffmpeg-to-opus pump. It terminates on natural EOF,
// on Stop, or on a pipeline error, and closes done exactly once.
type streamHandle struct {
	cmd *exec.Cmd
	pcm io.ReadCloser

	volumeBits atomic.Uint64

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	mu  sync.Mutex
	err error
}

func newStreamHandle(cmd *exec.Cmd, pcm io.ReadCloser, volume float64) *streamHandle {
	h := &streamHandle{
		cmd:  cmd,
		pcm:  pcm,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	h.SetVolume(volume)
	return h
}

func (h *streamHandle) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

func (h *streamHandle) SetVolume(v float64) {
	h.volumeBits.Store(math.Float64bits(v))
}

func (h *streamHandle) volume() float64 {
	return math.Float64frombits(h.volumeBits.Load())
}

func (h *streamHandle) Done() <-chan struct{} { return h.done }

func (h *streamHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *streamHandle) setErr(err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
}

// run pumps PCM frames from ffmpeg through the opus encoder into the voice
// connection until EOF, Stop, or error.
func (h *streamHandle) run(vc *discordgo.VoiceConnection) {
	defer func() {
		if h.cmd.Process != nil {
			_ = h.cmd.Process.Kill()
		}
		_ = h.cmd.Wait()
		_ = h.pcm.Close()
		close(h.done)
	}()

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		h.setErr(&Error{Kind: DecodeFailure, Err: fmt.Errorf("encoder error: %w", err)})
		return
	}

	_ = vc.Speaking(true)
	defer func() { _ = vc.Speaking(false) }()

	pcmBuf := make([]byte, frameSize*channels*2)
	intBuf := make([]int16, frameSize*channels)

	for {
		select {
		case <-h.stop:
			return
		default:
		}

		_, err := io.ReadFull(h.pcm, pcmBuf)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return // natural end of media
		}
		if err != nil {
			h.setErr(&Error{Kind: ConnectionLost, Err: fmt.Errorf("read error: %w", err)})
			return
		}

		for i := range intBuf {
			intBuf[i] = int16(binary.LittleEndian.Uint16(pcmBuf[i*2 : i*2+2]))
		}
		applyVolume(intBuf, h.volume())

		opus, err := encoder.Encode(intBuf, frameSize, len(pcmBuf))
		if err != nil {
			h.setErr(&Error{Kind: DecodeFailure, Err: fmt.Errorf("encode error: %w", err)})
			return
		}

		if !vc.Ready || vc.OpusSend == nil {
			h.setErr(&Error{Kind: ConnectionLost, Err: errors.New("voice connection not ready")})
			return
		}

		select {
		case vc.OpusSend <- opus:
		case <-h.stop:
			return
		}
	}
}

// applyVolume scales samples in place, clamping to the int16 range.
func applyVolume(samples []int16, volume float64) {
	if volume == 1.0 {
		return
	}
	for i, s := range samples {
		scaled := float64(s) * volume
		switch {
		case scaled > math.MaxInt16:
			samples[i] = math.MaxInt16
		case scaled < math.MinInt16:
			samples[i] = math.MinInt16
		default:
			samples[i] = int16(scaled)
		}
	}
}
