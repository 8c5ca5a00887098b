package music

import (
	"musicbot/internal/command"
)

type JoinCommand struct{}

func (c *JoinCommand) Name() string        { return "join" }
func (c *JoinCommand) Description() string { return "Join your voice channel" }
func (c *JoinCommand) Aliases() []string   { return nil }

func (c *JoinCommand) Run(ctx *command.MessageContext) error {
	channelID, err := ctx.UserVoiceChannel()
	if err != nil {
		return err
	}

	if err := ctx.Voice.Join(ctx.Event.GuildID, channelID); err != nil {
		return err
	}

	sess := ctx.Sessions.GetOrCreate(ctx.Event.GuildID)
	sess.SetVoiceChannel(channelID)
	sess.SetTextChannel(ctx.Event.ChannelID)

	return ctx.Reply("👋 Joined your voice channel.")
}
