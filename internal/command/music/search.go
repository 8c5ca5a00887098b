package music

import (
	"context"
	"fmt"
	"strings"
	"time"

	embed "github.com/clinet/discordgo-embed"

	"musicbot/internal/command"
	"musicbot/internal/music/session"
)

const searchTimeout = 30 * time.Second

type SearchCommand struct{}

func (c *SearchCommand) Name() string        { return "search" }
func (c *SearchCommand) Description() string { return "Search for tracks, then play one by number" }
func (c *SearchCommand) Aliases() []string   { return []string{"find"} }

func (c *SearchCommand) Run(ctx *command.MessageContext) error {
	if len(ctx.Args) == 0 {
		return &session.UserInputError{
			Kind: session.MissingArgument,
			Msg:  "give me something to search for",
		}
	}
	query := strings.Join(ctx.Args, " ")

	sctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	results, err := ctx.Searcher.Search(sctx, query)
	if err != nil {
		return err
	}

	sess := ctx.Sessions.GetOrCreate(ctx.Event.GuildID)
	sess.SetSearchResults(results)

	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "`%2d.` %s\n", i+1, r.Title)
	}
	sb.WriteString("\nPlay one with `play <number>`.")

	msg := embed.NewEmbed().
		SetColor(command.EmbedColor).
		SetTitle("🔍 Search results").
		SetDescription(sb.String())
	return ctx.ReplyEmbed(msg.MessageEmbed)
}
