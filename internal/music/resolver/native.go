package resolver

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	youtube "github.com/kkdai/youtube/v2"

	"musicbot/internal/music/track"
)

var youtubeURLRe = regexp.MustCompile(`(?:https?://)?(?:www\.|music\.)?(youtube\.com|youtu\.be)/\S+`)

// nativeExtractor resolves YouTube video URLs through the in-process client,
// used when yt-dlp is missing or fails.
type nativeExtractor struct {
	client *youtube.Client
}

func newNativeExtractor() *nativeExtractor {
	return &nativeExtractor{
		client: &youtube.Client{
			HTTPClient: &http.Client{Timeout: 15 * time.Second},
		},
	}
}

func (e *nativeExtractor) Name() string { return "native" }

func (e *nativeExtractor) Match(rawURL string) bool {
	// No playlist support here; yt-dlp handles those.
	return youtubeURLRe.MatchString(rawURL) && !strings.Contains(rawURL, "list=")
}

func (e *nativeExtractor) Extract(ctx context.Context, rawURL string) ([]track.Track, error) {
	video, err := e.client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("youtube client error: %w", err)
	}

	formats := video.Formats.WithAudioChannels().Type("audio")
	if len(formats) == 0 {
		return nil, fmt.Errorf("no audio formats for %s", rawURL)
	}
	formats.Sort()

	streamURL, err := e.client.GetStreamURLContext(ctx, video, &formats[0])
	if err != nil {
		return nil, fmt.Errorf("stream URL error: %w", err)
	}

	thumbnail := ""
	if len(video.Thumbnails) > 0 {
		thumbnail = video.Thumbnails[len(video.Thumbnails)-1].URL
	}

	return []track.Track{{
		Title:     video.Title,
		URL:       "https://www.youtube.com/watch?v=" + video.ID,
		StreamURL: streamURL,
		Duration:  video.Duration,
		Thumbnail: thumbnail,
	}}, nil
}
