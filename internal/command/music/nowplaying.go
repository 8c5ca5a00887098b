package music

import (
	"fmt"

	embed "github.com/clinet/discordgo-embed"

	"musicbot/internal/command"
	"musicbot/internal/music/session"
)

type NowPlayingCommand struct{}

func (c *NowPlayingCommand) Name() string        { return "nowplaying" }
func (c *NowPlayingCommand) Description() string { return "Show the track playing right now" }
func (c *NowPlayingCommand) Aliases() []string   { return []string{"np"} }

func (c *NowPlayingCommand) Run(ctx *command.MessageContext) error {
	sess, ok := ctx.Sessions.Get(ctx.Event.GuildID)
	if !ok {
		return session.ErrNotPlaying
	}
	now, ok := sess.NowPlaying()
	if !ok {
		return session.ErrNotPlaying
	}

	desc := fmt.Sprintf("🎶 [%s](%s)\nDuration %s, %d track(s) queued after it.",
		now.Title, now.URL, now.FormatDuration(), sess.QueueLen())

	msg := embed.NewEmbed().
		SetColor(command.EmbedColor).
		SetTitle("▶️ Now Playing").
		SetDescription(desc)
	if now.Thumbnail != "" {
		msg = msg.SetThumbnail(now.Thumbnail)
	}
	return ctx.ReplyEmbed(msg.MessageEmbed)
}
