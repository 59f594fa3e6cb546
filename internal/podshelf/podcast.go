// Package podshelf holds the domain types for the catalog: the podcast
// aggregate and the service surface the storage layer implements.
package podshelf

import (
	"context"
	"errors"
)

var (
	ErrConflict = errors.New("resource already exists")
	ErrNotFound = errors.New("resource not found")
)

// PodcastType enumerates the media kinds the catalog stores.
//
// The browsing UI additionally knows a text-only kind that has no media
// URL; the store deliberately does not.
type PodcastType string

const (
	PodcastTypeAudio PodcastType = "audio"
	PodcastTypeVideo PodcastType = "video"
)

type (
	// Podcast is the aggregate the catalog revolves around: the base
	// record plus its embedded author and stats, its tag set, and the
	// expert commentary attached to it.
	Podcast struct {
		ID          string          `json:"id"`
		Title       string          `json:"title"`
		Duration    string          `json:"duration"`
		Type        PodcastType     `json:"type"`
		PublishedAt string          `json:"publishedAt"`
		Cover       string          `json:"cover"`
		Description string          `json:"description"`
		URL         string          `json:"url"`
		Author      Author          `json:"author"`
		Tags        []string        `json:"tags"`
		Experts     []ExpertComment `json:"experts"`
		Stats       Stats           `json:"stats"`
	}

	// Author is embedded in the podcast row, not a separate entity.
	Author struct {
		Name   string `json:"name"`
		Title  string `json:"title"`
		Avatar string `json:"avatar"`
	}

	// ExpertComment is one expert's remark on one podcast. The expert
	// entity itself is identified by the (name, avatar) pair and shared
	// between podcasts; the comment text belongs to the relation.
	ExpertComment struct {
		Name    string `json:"name"`
		Avatar  string `json:"avatar"`
		Comment string `json:"comment"`
	}

	Stats struct {
		Views  int `json:"views"`
		Likes  int `json:"likes"`
		Shares int `json:"shares"`
	}

	// CatalogService is the read/write surface over the podcast store.
	CatalogService interface {
		Podcasts(ctx context.Context) ([]Podcast, error)
		Podcast(ctx context.Context, id string) (Podcast, error)
		CreatePodcast(ctx context.Context, p Podcast) (Podcast, error)
		UpdatePodcast(ctx context.Context, id string, args UpdatePodcastArgs) (Podcast, error)
		DeletePodcast(ctx context.Context, id string) error
	}
)
