package music

import (
	"musicbot/internal/command"
)

type LeaveCommand struct{}

func (c *LeaveCommand) Name() string        { return "leave" }
func (c *LeaveCommand) Description() string { return "Leave the voice channel" }
func (c *LeaveCommand) Aliases() []string   { return []string{"disconnect"} }

func (c *LeaveCommand) Run(ctx *command.MessageContext) error {
	// Silent no-op when not connected.
	if !ctx.Voice.Connected(ctx.Event.GuildID) {
		return nil
	}

	if sess, ok := ctx.Sessions.Get(ctx.Event.GuildID); ok {
		sess.Stop()
	}
	if err := ctx.Voice.Leave(ctx.Event.GuildID); err != nil {
		return err
	}
	return ctx.Reply("👋 Left the voice channel.")
}
