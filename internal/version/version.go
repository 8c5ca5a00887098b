package version

const (
	AppName        = "MusicBot"
	AppDescription = "Discord bot that streams audio into voice channels with a per-guild queue"
	AppVersion     = "3.0.0"
)
