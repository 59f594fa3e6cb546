// Package importer seeds the catalog from the static feeds fixture the
// browsing UI originally shipped with. It also exposes the fixture's
// expert directory and category list, which stay fixture-backed rather
// than moving into the store.
package importer

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/clmartin/podshelf/internal/podshelf"
	"github.com/clmartin/podshelf/logger"
)

//go:embed feeds.json
var feedsJSON []byte

type (
	// Fixture is the decoded feeds.json payload.
	Fixture struct {
		TrendingPodcasts []podshelf.Podcast `json:"trending_podcasts"`
		PopularPodcasts  []podshelf.Podcast `json:"popular_podcasts"`
		FeaturedExperts  []Expert           `json:"featured_experts"`
		Categories       []Category         `json:"categories"`
	}

	// Expert is a directory entry, distinct from the per-podcast
	// expert comments the store tracks.
	Expert struct {
		ID        string   `json:"id"`
		Name      string   `json:"name"`
		Title     string   `json:"title"`
		Avatar    string   `json:"avatar"`
		Bio       string   `json:"bio"`
		Expertise []string `json:"expertise"`
		Social    Social   `json:"social"`
	}

	Social struct {
		Twitter  string `json:"twitter"`
		LinkedIn string `json:"linkedin"`
	}

	Category struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}

	// Result reports an import run. The counts are the fixture sizes,
	// i.e. items attempted, not items that actually landed; the loop
	// is best-effort and failures only show up in the log.
	Result struct {
		Success       bool   `json:"success"`
		TrendingCount int    `json:"trendingCount"`
		PopularCount  int    `json:"popularCount"`
		Error         string `json:"error,omitempty"`
	}
)

// Load decodes the embedded fixture.
func Load() (Fixture, error) {
	var f Fixture
	if err := json.Unmarshal(feedsJSON, &f); err != nil {
		return Fixture{}, fmt.Errorf("error decoding feeds fixture: %s", err)
	}

	return f, nil
}

// Run replays every fixture podcast through the repository's create
// path. A record that fails is logged and skipped, the rest keep going.
func Run(ctx context.Context, repo podshelf.CatalogService, f Fixture) Result {
	slog.InfoContext(ctx, "importing fixture",
		"trending", len(f.TrendingPodcasts),
		"popular", len(f.PopularPodcasts),
	)

	for _, batch := range [][]podshelf.Podcast{f.TrendingPodcasts, f.PopularPodcasts} {
		for _, p := range batch {
			pCtx := logger.Ctx(ctx, slog.String("title", p.Title))
			if _, err := repo.CreatePodcast(pCtx, p); err != nil {
				slog.ErrorContext(pCtx, "error importing podcast", "error", err)
				continue
			}
			slog.InfoContext(pCtx, "imported podcast")
		}
	}

	return Result{
		Success:       true,
		TrendingCount: len(f.TrendingPodcasts),
		PopularCount:  len(f.PopularPodcasts),
	}
}
