package music

import (
	"strconv"

	"musicbot/internal/command"
	"musicbot/internal/music/session"
)

type VolumeCommand struct{}

func (c *VolumeCommand) Name() string        { return "volume" }
func (c *VolumeCommand) Description() string { return "Show or set playback volume, 0 to 200" }
func (c *VolumeCommand) Aliases() []string   { return []string{"vol"} }

func (c *VolumeCommand) Run(ctx *command.MessageContext) error {
	sess := ctx.Sessions.GetOrCreate(ctx.Event.GuildID)

	if len(ctx.Args) == 0 {
		return ctx.Reply("🔊 Volume is at **%d%%**.", sess.VolumePercent())
	}

	pct, err := strconv.Atoi(ctx.Args[0])
	if err != nil {
		return &session.UserInputError{
			Kind: session.OutOfRange,
			Msg:  "volume must be a number between 0 and 200",
		}
	}

	if err := sess.SetVolumePercent(pct); err != nil {
		return err
	}
	return ctx.Reply("🔊 Volume set to **%d%%**.", pct)
}
