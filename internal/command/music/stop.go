package music

import (
	"musicbot/internal/command"
)

type StopCommand struct{}

func (c *StopCommand) Name() string        { return "stop" }
func (c *StopCommand) Description() string { return "Stop playback and clear the queue" }
func (c *StopCommand) Aliases() []string   { return nil }

func (c *StopCommand) Run(ctx *command.MessageContext) error {
	if sess, ok := ctx.Sessions.Get(ctx.Event.GuildID); ok {
		sess.Stop()
	}
	return ctx.Reply("⏹️ Playback stopped. Queue cleared.")
}
