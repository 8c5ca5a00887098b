package bot

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// MessageEmbed sends an embed to a channel, logging delivery failures
// instead of propagating them.
func MessageEmbed(s *discordgo.Session, channelID string, e *discordgo.MessageEmbed) {
	if _, err := s.ChannelMessageSendEmbed(channelID, e); err != nil {
		log.Printf("[WARN] Failed to send embed to channel %s: %v", channelID, err)
	}
}
