package music

import (
	"fmt"
	"strings"

	embed "github.com/clinet/discordgo-embed"

	"musicbot/internal/command"
)

type HistoryCommand struct{}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show recently played tracks" }
func (c *HistoryCommand) Aliases() []string   { return []string{"played"} }

func (c *HistoryCommand) Run(ctx *command.MessageContext) error {
	history, err := ctx.Storage.FetchTrackHistory(ctx.Event.GuildID)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return ctx.Reply("📭 Nothing has been played here yet.")
	}

	var sb strings.Builder
	// Newest entries sit at the end of the stored history.
	for i := len(history) - 1; i >= 0; i-- {
		tr := history[i]
		fmt.Fprintf(&sb, "[%s](%s) — played %d time(s)\n", tr.Title, tr.URL, tr.PlayCount)
	}

	msg := embed.NewEmbed().
		SetColor(command.EmbedColor).
		SetTitle("📜 Recently played").
		SetDescription(sb.String())
	return ctx.ReplyEmbed(msg.MessageEmbed)
}
