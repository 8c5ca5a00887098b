package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"musicbot/internal/music/track"
)

// ytdlpExtractor shells out to yt-dlp for metadata and the direct media URL.
// It handles any URL yt-dlp supports, including playlist expansion.
type ytdlpExtractor struct {
	bin string
}

func newYTDLPExtractor() *ytdlpExtractor {
	return &ytdlpExtractor{bin: "yt-dlp"}
}

func (e *ytdlpExtractor) Name() string { return "ytdlp" }

func (e *ytdlpExtractor) Match(rawURL string) bool {
	return isURL(rawURL)
}

type ytdlpEntry struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	WebpageURL string  `json:"webpage_url"`
	Duration   float64 `json:"duration"`
	Thumbnail  string  `json:"thumbnail"`
	Formats    []struct {
		URL string `json:"url"`
	} `json:"formats"`
}

type ytdlpInfo struct {
	ytdlpEntry
	Entries []ytdlpEntry `json:"entries"`
}

func (e *ytdlpExtractor) Extract(ctx context.Context, rawURL string) ([]track.Track, error) {
	cmd := exec.CommandContext(ctx, e.bin,
		"-J",
		"-f", "bestaudio",
		"--no-warnings",
		"--ignore-config",
		rawURL,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return nil, fmt.Errorf("yt-dlp error: %w", err)
		}
		return nil, fmt.Errorf("yt-dlp error: %s: %w", detail, err)
	}

	var info ytdlpInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("yt-dlp json unmarshal error: %w", err)
	}

	if len(info.Entries) > 0 {
		tracks := make([]track.Track, 0, len(info.Entries))
		for _, entry := range info.Entries {
			if t, ok := entryToTrack(entry); ok {
				tracks = append(tracks, t)
			}
		}
		return tracks, nil
	}

	t, ok := entryToTrack(info.ytdlpEntry)
	if !ok {
		return nil, fmt.Errorf("empty URL returned from yt-dlp")
	}
	return []track.Track{t}, nil
}

func entryToTrack(entry ytdlpEntry) (track.Track, bool) {
	streamURL := strings.TrimSpace(entry.URL)
	if streamURL == "" && len(entry.Formats) > 0 {
		streamURL = strings.TrimSpace(entry.Formats[0].URL)
	}
	if streamURL == "" {
		return track.Track{}, false
	}

	pageURL := entry.WebpageURL
	if pageURL == "" {
		pageURL = streamURL
	}

	return track.Track{
		Title:     entry.Title,
		URL:       pageURL,
		StreamURL: streamURL,
		Duration:  time.Duration(entry.Duration * float64(time.Second)),
		Thumbnail: entry.Thumbnail,
	}, true
}
