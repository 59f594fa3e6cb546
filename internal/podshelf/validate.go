package podshelf

import (
	"fmt"
	"net/http"
	"time"

	shelferrs "github.com/clmartin/podshelf/internal/errors"
)

// Validate checks the aggregate against the schema rules before any
// write. It does not stop at the first problem: every failing field gets
// its own detail so the admin form can surface all of them at once.
//
// ID is optional; an empty one means the store assigns a new identifier.
func (p Podcast) Validate() error {
	var details []shelferrs.Detail

	requireNonEmpty := func(field, val string) {
		if val == "" {
			details = append(details, shelferrs.Detail{Field: field, Error: "must not be empty"})
		}
	}

	requireNonEmpty("title", p.Title)
	requireNonEmpty("duration", p.Duration)
	requireNonEmpty("description", p.Description)
	requireNonEmpty("url", p.URL)
	requireNonEmpty("cover", p.Cover)

	if p.Type != PodcastTypeAudio && p.Type != PodcastTypeVideo {
		details = append(details, shelferrs.Detail{Field: "type", Error: "must be one of audio, video"})
	}

	if _, err := time.Parse(time.RFC3339, p.PublishedAt); err != nil {
		details = append(details, shelferrs.Detail{Field: "publishedAt", Error: "must be an ISO-8601 date-time"})
	}

	requireNonEmpty("author.name", p.Author.Name)
	requireNonEmpty("author.title", p.Author.Title)
	requireNonEmpty("author.avatar", p.Author.Avatar)

	for i, expert := range p.Experts {
		requireNonEmpty(fmt.Sprintf("experts[%d].name", i), expert.Name)
		requireNonEmpty(fmt.Sprintf("experts[%d].avatar", i), expert.Avatar)
	}

	if p.Stats.Views < 0 {
		details = append(details, shelferrs.Detail{Field: "stats.views", Error: "must not be negative"})
	}
	if p.Stats.Likes < 0 {
		details = append(details, shelferrs.Detail{Field: "stats.likes", Error: "must not be negative"})
	}
	if p.Stats.Shares < 0 {
		details = append(details, shelferrs.Detail{Field: "stats.shares", Error: "must not be negative"})
	}

	if len(details) > 0 {
		return shelferrs.E("invalid podcast", http.StatusBadRequest, details)
	}

	return nil
}
