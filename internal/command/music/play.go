// Package music holds the playback commands.
package music

import (
	"context"
	"strconv"
	"strings"
	"time"

	"musicbot/internal/command"
	"musicbot/internal/music/session"
)

const resolveTimeout = 60 * time.Second

type PlayCommand struct{}

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Play a link, search text, or search result number" }
func (c *PlayCommand) Aliases() []string   { return []string{"p"} }

func (c *PlayCommand) Run(ctx *command.MessageContext) error {
	if len(ctx.Args) == 0 {
		return &session.UserInputError{
			Kind: session.MissingArgument,
			Msg:  "give me a link, search text, or a result number",
		}
	}
	query := strings.Join(ctx.Args, " ")

	sess := ctx.Sessions.GetOrCreate(ctx.Event.GuildID)

	// A bare number picks from the guild's latest search results.
	if n, err := strconv.Atoi(query); err == nil {
		result, err := sess.ResultByIndex(n)
		if err != nil {
			return err
		}
		query = result.URL()
	}

	channelID, err := ctx.UserVoiceChannel()
	if err != nil {
		return err
	}

	rctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	tracks, err := ctx.Resolver.Resolve(rctx, query)
	if err != nil {
		return err
	}

	sess.SetVoiceChannel(channelID)
	sess.SetTextChannel(ctx.Event.ChannelID)
	sess.Enqueue(tracks...)

	if len(tracks) > 1 {
		return ctx.Reply("➕ Queued **%d** tracks from the playlist", len(tracks))
	}
	return ctx.Reply("➕ Added **%s** to the queue", tracks[0].Title)
}
