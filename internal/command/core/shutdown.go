package core

import (
	"log"

	"musicbot/internal/command"
)

type ShutdownCommand struct{}

func (c *ShutdownCommand) Name() string        { return "shutdown" }
func (c *ShutdownCommand) Description() string { return "Shut the bot down (owner only)" }
func (c *ShutdownCommand) Aliases() []string   { return nil }

func (c *ShutdownCommand) Run(ctx *command.MessageContext) error {
	if err := ctx.Reply("🛑 Shutting down."); err != nil {
		log.Printf("[WARN] Failed to confirm shutdown: %v", err)
	}
	if ctx.Shutdown != nil {
		ctx.Shutdown()
	}
	return nil
}
