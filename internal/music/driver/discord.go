package driver

import (
	"fmt"
	"log"
	"os/exec"
	"sync"

	"github.com/bwmarrin/discordgo"

	"musicbot/internal/music/track"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz
)

// guildVoice is one guild's voice state: its connection and the stream
// occupying it. Each guild has its own mutex so a slow join or pipeline
// drain in one guild never stalls another.
type guildVoice struct {
	mu     sync.Mutex
	conn   *discordgo.VoiceConnection
	active *streamHandle
}

// waitIdle blocks until any previous stream has fully drained and
// releases its slot. A stopped stream keeps the slot until its ffmpeg
// pipeline winds down, so a stop immediately followed by play must wait
// here rather than fail. Called with g.mu held; returns with g.mu held
// and g.active nil.
func (g *guildVoice) waitIdle() {
	for g.active != nil {
		h := g.active
		select {
		case <-h.Done():
		default:
			// Drop the lock while the old pipeline drains.
			g.mu.Unlock()
			<-h.Done()
			g.mu.Lock()
		}
		if g.active == h {
			g.active = nil
		}
	}
}

// Discord streams tracks into Discord voice channels. One instance
// serves all guilds; the driver-wide mutex guards only the guild map,
// everything slow runs under the per-guild lock.
type Discord struct {
	dg *discordgo.Session

	mu     sync.Mutex
	guilds map[string]*guildVoice
}

// NewDiscord creates a driver on top of an open gateway session.
func NewDiscord(dg *discordgo.Session) *Discord {
	return &Discord{
		dg:     dg,
		guilds: make(map[string]*guildVoice),
	}
}

// guild returns the guild's voice slot, creating it on first use.
func (d *Discord) guild(guildID string) *guildVoice {
	d.mu.Lock()
	defer d.mu.Unlock()

	g, ok := d.guilds[guildID]
	if !ok {
		g = &guildVoice{}
		d.guilds[guildID] = g
	}
	return g
}

// Join connects the bot to a voice channel, reusing an existing connection
// when it already sits in the right channel.
func (d *Discord) Join(guildID, channelID string) error {
	g := d.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()
	_, err := d.joinLocked(g, guildID, channelID)
	return err
}

// joinLocked dials the voice channel. Caller must hold g.mu; only that
// guild's operations wait on the join.
func (d *Discord) joinLocked(g *guildVoice, guildID, channelID string) (*discordgo.VoiceConnection, error) {
	if g.conn != nil && g.conn.ChannelID == channelID {
		return g.conn, nil
	}

	vc, err := d.dg.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, &Error{Kind: NotConnected, Err: fmt.Errorf("failed to join voice channel: %w", err)}
	}
	g.conn = vc
	log.Printf("[INFO] Joined voice channel %s on guild %s", channelID, guildID)
	return vc, nil
}

// Leave disconnects from the guild's voice channel. Active streams are
// stopped first. No-op when not connected.
func (d *Discord) Leave(guildID string) error {
	d.mu.Lock()
	g, ok := d.guilds[guildID]
	d.mu.Unlock()
	if !ok {
		return nil
	}

	g.mu.Lock()
	h := g.active
	vc := g.conn
	g.conn = nil
	g.mu.Unlock()

	if h != nil {
		h.Stop()
		<-h.Done()
	}
	if vc == nil {
		return nil
	}
	return vc.Disconnect()
}

// Connected reports whether the driver holds a voice connection for the guild.
func (d *Discord) Connected(guildID string) bool {
	d.mu.Lock()
	g, ok := d.guilds[guildID]
	d.mu.Unlock()
	if !ok {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.conn != nil
}

// Start begins streaming the track into the guild's voice channel. It
// waits for a draining predecessor to release the slot before claiming
// it, so an enqueue right after stop or skip never loses its track.
func (d *Discord) Start(guildID, channelID string, t track.Track, volume float64) (Handle, error) {
	g := d.guild(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	g.waitIdle()

	vc, err := d.joinLocked(g, guildID, channelID)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command("ffmpeg",
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-i", t.StreamURL,
		"-vn",
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)

	pcm, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &Error{Kind: DecodeFailure, Err: fmt.Errorf("stdout pipe error: %w", err)}
	}
	if err := cmd.Start(); err != nil {
		return nil, &Error{Kind: DecodeFailure, Err: fmt.Errorf("ffmpeg start error: %w", err)}
	}

	h := newStreamHandle(cmd, pcm, volume)
	g.active = h

	go func() {
		h.run(vc)
		g.mu.Lock()
		if g.active == h {
			g.active = nil
		}
		g.mu.Unlock()
	}()

	return h, nil
}
