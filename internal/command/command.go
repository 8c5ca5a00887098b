// Package command defines the chat command surface: the command
// contract, the dispatch registry, and the middlewares that wrap
// command execution.
package command

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"

	"musicbot/internal/music/search"
	"musicbot/internal/music/session"
	"musicbot/internal/music/track"
	"musicbot/internal/storage"
)

const EmbedColor = 0x5865f2

// Command is one chat command reachable through the bot prefix.
type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Run(ctx *MessageContext) error
}

// VoiceGateway is what commands need from the voice layer.
type VoiceGateway interface {
	Join(guildID, channelID string) error
	Leave(guildID string) error
	Connected(guildID string) bool
}

// Resolver turns a user query into playable tracks.
type Resolver interface {
	Resolve(ctx context.Context, query string) ([]track.Track, error)
}

// Searcher lists candidate results for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
}

// MessageContext is what the runtime hands a command when executing it.
type MessageContext struct {
	Session  *discordgo.Session
	Event    *discordgo.MessageCreate
	Args     []string
	Storage  *storage.Storage
	Sessions *session.Registry
	Voice    VoiceGateway
	Resolver Resolver
	Searcher Searcher
	Commands []Command
	OwnerID  string
	Shutdown func()
}

// UserVoiceChannel finds the voice channel the message author currently
// sits in.
func (c *MessageContext) UserVoiceChannel() (string, error) {
	guild, err := c.Session.State.Guild(c.Event.GuildID)
	if err != nil {
		return "", fmt.Errorf("error retrieving guild: %w", err)
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == c.Event.Author.ID {
			return vs.ChannelID, nil
		}
	}
	return "", ErrNotInVoice
}

// Reply sends a plain embed to the channel the command came from.
func (c *MessageContext) Reply(format string, args ...any) error {
	msg := embed.NewEmbed().
		SetColor(EmbedColor).
		SetDescription(fmt.Sprintf(format, args...))
	_, err := c.Session.ChannelMessageSendEmbed(c.Event.ChannelID, msg.MessageEmbed)
	return err
}

// ReplyEmbed sends a prebuilt embed to the channel the command came from.
func (c *MessageContext) ReplyEmbed(msg *discordgo.MessageEmbed) error {
	_, err := c.Session.ChannelMessageSendEmbed(c.Event.ChannelID, msg)
	return err
}
