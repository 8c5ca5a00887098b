package bot

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"musicbot/internal/command"
	"musicbot/internal/music/session"
)

// watchSession announces one session's playback events for the process
// lifetime. Installed as the registry's on-create hook, so every guild
// gets exactly one watcher.
func (b *Bot) watchSession(s *session.Session) {
	for ev := range s.Events() {
		switch ev.Type {
		case session.EventNowPlaying:
			b.announceNowPlaying(s, ev)
		case session.EventQueueDrained:
			b.clearPresence()
		case session.EventStreamError:
			b.announceStreamError(s, ev)
		}
	}
}

func (b *Bot) announceNowPlaying(s *session.Session, ev session.Event) {
	if err := b.dg.UpdateListeningStatus(ev.Track.Title); err != nil {
		log.Printf("[WARN] Failed to update presence: %v", err)
	}
	if err := b.store.RecordTrackPlay(ev.GuildID, ev.Track.Title, ev.Track.URL); err != nil {
		log.Printf("[WARN] Failed to record track play: %v", err)
	}

	channelID := s.TextChannel()
	if channelID == "" {
		return
	}

	desc := fmt.Sprintf("🎶 [%s](%s)", ev.Track.Title, ev.Track.URL)
	if ev.Track.Duration > 0 {
		desc += " (" + ev.Track.FormatDuration() + ")"
	}
	e := &discordgo.MessageEmbed{
		Title:       "▶️ Now Playing",
		Description: desc,
		Color:       command.EmbedColor,
	}
	if ev.Track.Thumbnail != "" {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: ev.Track.Thumbnail}
	}
	MessageEmbed(b.dg, channelID, e)
}

func (b *Bot) clearPresence() {
	if err := b.dg.UpdateListeningStatus(""); err != nil {
		log.Printf("[WARN] Failed to clear presence: %v", err)
	}
}

func (b *Bot) announceStreamError(s *session.Session, ev session.Event) {
	channelID := s.TextChannel()
	if channelID == "" {
		return
	}
	MessageEmbed(b.dg, channelID, &discordgo.MessageEmbed{
		Color:       command.EmbedColor,
		Description: fmt.Sprintf("⚠️ Skipping **%s**: %s", ev.Track.Title, command.FormatError(ev.Err)),
	})
}
