package podshelf_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shelferrs "github.com/clmartin/podshelf/internal/errors"
	"github.com/clmartin/podshelf/internal/podshelf"
)

func validPodcast() podshelf.Podcast {
	return podshelf.Podcast{
		Title:       "The Alignment Question",
		Duration:    "42:10",
		Type:        podshelf.PodcastTypeAudio,
		PublishedAt: "2025-03-14T09:00:00Z",
		Cover:       "/covers/alignment.jpg",
		Description: "A long conversation about where the field is heading.",
		URL:         "/media/alignment.mp3",
		Author: podshelf.Author{
			Name:   "Dana Reyes",
			Title:  "Host",
			Avatar: "/avatars/dana.jpg",
		},
		Tags: []string{"AI", "Policy"},
		Experts: []podshelf.ExpertComment{
			{Name: "Prof. Lin Wei", Avatar: "/avatars/lin.jpg", Comment: "A fair summary of the debate."},
		},
		Stats: podshelf.Stats{Views: 1200, Likes: 80, Shares: 12},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validPodcast().Validate())

	// ID is optional, experts may omit their comment.
	p := validPodcast()
	p.ID = ""
	p.Experts[0].Comment = ""
	assert.NoError(t, p.Validate())
}

func TestValidate_CollectsEveryFailingField(t *testing.T) {
	p := validPodcast()
	p.Title = ""
	p.Type = "podcast"
	p.PublishedAt = "last tuesday"
	p.Author.Avatar = ""
	p.Stats.Likes = -1
	p.Experts = append(p.Experts, podshelf.ExpertComment{Comment: "anonymous"})

	err := p.Validate()
	require.Error(t, err)

	var shelferr *shelferrs.Error
	require.ErrorAs(t, err, &shelferr)
	assert.Equal(t, http.StatusBadRequest, shelferr.Status)

	fields := make([]string, 0, len(shelferr.Details))
	for _, d := range shelferr.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{
		"title",
		"type",
		"publishedAt",
		"author.avatar",
		"stats.likes",
		"experts[1].name",
		"experts[1].avatar",
	}, fields)
}

func TestValidate_InvalidTypeNamesTheField(t *testing.T) {
	p := validPodcast()
	p.Type = "podcast"

	err := p.Validate()
	require.Error(t, err)

	var shelferr *shelferrs.Error
	require.ErrorAs(t, err, &shelferr)
	require.Len(t, shelferr.Details, 1)
	assert.Equal(t, "type", shelferr.Details[0].Field)
}

func TestApplyTo_PartialStats(t *testing.T) {
	existing := validPodcast()
	views := 5
	merged := podshelf.UpdatePodcastArgs{
		Stats: &podshelf.StatsPatch{Views: &views},
	}.ApplyTo(existing)

	assert.Equal(t, 5, merged.Stats.Views)
	assert.Equal(t, existing.Stats.Likes, merged.Stats.Likes)
	assert.Equal(t, existing.Stats.Shares, merged.Stats.Shares)
	assert.Equal(t, existing.Title, merged.Title)
	assert.Equal(t, existing.Tags, merged.Tags)
	assert.Equal(t, existing.Experts, merged.Experts)
}

func TestApplyTo_AuthorMergedFieldByField(t *testing.T) {
	existing := validPodcast()
	name := "Someone Else"
	merged := podshelf.UpdatePodcastArgs{
		Author: &podshelf.AuthorPatch{Name: &name},
	}.ApplyTo(existing)

	assert.Equal(t, "Someone Else", merged.Author.Name)
	assert.Equal(t, existing.Author.Title, merged.Author.Title)
	assert.Equal(t, existing.Author.Avatar, merged.Author.Avatar)
}

func TestApplyTo_TagsReplacedWholesale(t *testing.T) {
	existing := validPodcast()
	tags := []string{"Economics"}
	merged := podshelf.UpdatePodcastArgs{Tags: &tags}.ApplyTo(existing)

	assert.Equal(t, []string{"Economics"}, merged.Tags)

	// An explicit empty set clears the tags, a nil patch keeps them.
	empty := []string{}
	cleared := podshelf.UpdatePodcastArgs{Tags: &empty}.ApplyTo(existing)
	assert.Empty(t, cleared.Tags)

	kept := podshelf.UpdatePodcastArgs{}.ApplyTo(existing)
	assert.Equal(t, existing.Tags, kept.Tags)
}
