package resolver

import (
	"context"
	"fmt"

	"github.com/raitonoberu/ytsearch"
)

// searchPicker resolves free text to the top keyword-search hit.
type searchPicker struct{}

func (p *searchPicker) PickBest(ctx context.Context, query string) (string, error) {
	search := ytsearch.VideoSearch(query)
	results, err := search.Next()
	if err != nil {
		return "", fmt.Errorf("video search network error: %w", err)
	}
	if len(results.Videos) == 0 {
		return "", fmt.Errorf("no videos found for %q", query)
	}
	return "https://www.youtube.com/watch?v=" + results.Videos[0].ID, nil
}
