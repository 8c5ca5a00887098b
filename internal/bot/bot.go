// Package bot owns the Discord gateway session, command dispatch, and
// playback announcements.
package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"musicbot/internal/command"
	"musicbot/internal/command/core"
	"musicbot/internal/command/music"
	"musicbot/internal/config"
	"musicbot/internal/music/driver"
	"musicbot/internal/music/resolver"
	"musicbot/internal/music/search"
	"musicbot/internal/music/session"
	"musicbot/internal/storage"
)

type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	store    *storage.Storage
	voice    *driver.Discord
	sessions *session.Registry
	registry *command.Registry
	resolver *resolver.Resolver
	searcher *search.Client
	shutdown func()
}

// New builds a bot ready to Run. shutdown is invoked by the owner-only
// shutdown command.
func New(cfg *config.Config, store *storage.Storage, shutdown func()) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	voice := driver.NewDiscord(dg)
	b := &Bot{
		dg:       dg,
		cfg:      cfg,
		store:    store,
		voice:    voice,
		sessions: session.NewRegistry(voice),
		resolver: resolver.New(),
		searcher: search.New(cfg.YouTubeAPIKey),
		shutdown: shutdown,
	}
	b.sessions.SetOnCreate(b.watchSession)
	b.registerCommands()

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	return b, nil
}

// Sessions exposes the playback registry for the status server.
func (b *Bot) Sessions() *session.Registry { return b.sessions }

// Run opens the gateway connection and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.configureIntents()

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Cleaning up...")
	for _, s := range b.sessions.All() {
		s.Stop()
	}
	return nil
}

func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent
}

func (b *Bot) registerCommands() {
	reg := command.NewRegistry()

	for _, cmd := range []command.Command{
		&music.JoinCommand{},
		&music.LeaveCommand{},
		&music.PlayCommand{},
		&music.SearchCommand{},
		&music.SkipCommand{},
		&music.StopCommand{},
		&music.VolumeCommand{},
		&music.NowPlayingCommand{},
		&music.QueueCommand{},
		&music.HistoryCommand{},
	} {
		reg.Register(command.ApplyMiddlewares(
			cmd,
			command.WithCommandLogger(),
			command.WithGuildOnly(),
		))
	}

	reg.Register(command.ApplyMiddlewares(
		&core.HelpCommand{Prefix: b.cfg.CommandPrefix},
		command.WithGuildOnly(),
	))
	reg.Register(command.ApplyMiddlewares(
		&core.ShutdownCommand{},
		command.WithOwnerOnly(),
	))

	b.registry = reg
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("[INFO] Logged in as %s, serving %d guild(s)", r.User.Username, len(r.Guilds))
}

// onMessageCreate dispatches prefix commands. Unknown commands are
// silently ignored.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	content := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(content, b.cfg.CommandPrefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(content, b.cfg.CommandPrefix))
	if len(fields) == 0 {
		return
	}

	cmd, ok := b.registry.Get(fields[0])
	if !ok {
		return
	}

	ctx := &command.MessageContext{
		Session:  s,
		Event:    m,
		Args:     fields[1:],
		Storage:  b.store,
		Sessions: b.sessions,
		Voice:    b.voice,
		Resolver: b.resolver,
		Searcher: b.searcher,
		Commands: b.registry.All(),
		OwnerID:  b.cfg.OwnerID,
		Shutdown: b.shutdown,
	}

	if err := cmd.Run(ctx); err != nil {
		log.Printf("[ERR] Command %s failed on guild %s: %v", fields[0], m.GuildID, err)
		MessageEmbed(s, m.ChannelID, &discordgo.MessageEmbed{
			Color:       command.EmbedColor,
			Description: command.FormatError(err),
		})
	}
}
