// Package core holds the non-music commands.
package core

import (
	"fmt"
	"strings"

	embed "github.com/clinet/discordgo-embed"

	"musicbot/internal/command"
	"musicbot/internal/version"
)

type HelpCommand struct {
	Prefix string
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List available commands" }
func (c *HelpCommand) Aliases() []string   { return []string{"h"} }

func (c *HelpCommand) Run(ctx *command.MessageContext) error {
	var sb strings.Builder
	for _, cmd := range ctx.Commands {
		name := cmd.Name()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			name += " (" + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(&sb, "`%s%s` %s\n", c.Prefix, name, cmd.Description())
	}

	msg := embed.NewEmbed().
		SetColor(command.EmbedColor).
		SetTitle(fmt.Sprintf("ℹ️ %s commands", version.AppName)).
		SetDescription(sb.String())
	return ctx.ReplyEmbed(msg.MessageEmbed)
}
