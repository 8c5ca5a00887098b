package music

import (
	"musicbot/internal/command"
)

type SkipCommand struct{}

func (c *SkipCommand) Name() string        { return "skip" }
func (c *SkipCommand) Description() string { return "Skip the current track" }
func (c *SkipCommand) Aliases() []string   { return []string{"next"} }

func (c *SkipCommand) Run(ctx *command.MessageContext) error {
	sess, ok := ctx.Sessions.Get(ctx.Event.GuildID)
	if !ok || !sess.Skip() {
		// No-op when nothing is playing.
		return nil
	}
	return ctx.Reply("⏭️ Skipped.")
}
