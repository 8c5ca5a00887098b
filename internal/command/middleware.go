package command

import (
	"log"
	"strings"
	"time"

	"musicbot/internal/storage"
)

type Middleware func(Command) Command

type wrappedCommand struct {
	Command
	wrap func(ctx *MessageContext) error
}

func (w *wrappedCommand) Run(ctx *MessageContext) error {
	if w.wrap != nil {
		return w.wrap(ctx)
	}
	return w.Command.Run(ctx)
}

func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}

// WithGuildOnly drops commands issued outside a guild (direct messages).
func WithGuildOnly() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *MessageContext) error {
				if ctx.Event.GuildID == "" {
					return nil
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// WithCommandLogger records the command in the guild's history after it runs.
func WithCommandLogger() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *MessageContext) error {
				err := cmd.Run(ctx)

				if ctx.Storage != nil {
					record := storage.CommandRecord{
						ChannelID: ctx.Event.ChannelID,
						UserID:    ctx.Event.Author.ID,
						Username:  ctx.Event.Author.Username,
						Command:   cmd.Name(),
						Param:     strings.Join(ctx.Args, " "),
						Datetime:  time.Now(),
					}
					if e := ctx.Storage.AppendCommand(ctx.Event.GuildID, record); e != nil {
						log.Printf("[WARN] Failed to log command %s: %v", cmd.Name(), e)
					}
				}

				return err
			},
		}
	}
}

// WithOwnerOnly restricts a command to the configured bot owner.
func WithOwnerOnly() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx *MessageContext) error {
				if ctx.OwnerID == "" || ctx.Event.Author.ID != ctx.OwnerID {
					return ErrNotOwner
				}
				return cmd.Run(ctx)
			},
		}
	}
}
