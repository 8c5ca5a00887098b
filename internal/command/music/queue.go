package music

import (
	"fmt"
	"strings"

	embed "github.com/clinet/discordgo-embed"

	"musicbot/internal/command"
)

const queueDisplayLimit = 15

type QueueCommand struct{}

func (c *QueueCommand) Name() string        { return "queue" }
func (c *QueueCommand) Description() string { return "Show the pending queue" }
func (c *QueueCommand) Aliases() []string   { return []string{"q"} }

func (c *QueueCommand) Run(ctx *command.MessageContext) error {
	sess, ok := ctx.Sessions.Get(ctx.Event.GuildID)
	if !ok {
		return ctx.Reply("📭 The queue is empty.")
	}

	var sb strings.Builder
	if now, ok := sess.NowPlaying(); ok {
		fmt.Fprintf(&sb, "▶️ **%s** (%s)\n\n", now.Title, now.FormatDuration())
	}

	queue := sess.QueueSnapshot()
	if sb.Len() == 0 && len(queue) == 0 {
		return ctx.Reply("📭 The queue is empty.")
	}

	for i, t := range queue {
		if i == queueDisplayLimit {
			fmt.Fprintf(&sb, "… and %d more.\n", len(queue)-queueDisplayLimit)
			break
		}
		fmt.Fprintf(&sb, "`%2d.` %s (%s)\n", i+1, t.Title, t.FormatDuration())
	}

	msg := embed.NewEmbed().
		SetColor(command.EmbedColor).
		SetTitle("🎵 Queue").
		SetDescription(sb.String())
	return ctx.ReplyEmbed(msg.MessageEmbed)
}
