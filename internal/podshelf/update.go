package podshelf

type (
	// UpdatePodcastArgs holds the optional fields for a partial update.
	// A nil field keeps the stored value. Author and stats are merged
	// key by key; tags and experts, when present, replace the stored
	// set wholesale.
	UpdatePodcastArgs struct {
		Title       *string          `json:"title"`
		Duration    *string          `json:"duration"`
		Type        *PodcastType     `json:"type"`
		PublishedAt *string          `json:"publishedAt"`
		Cover       *string          `json:"cover"`
		Description *string          `json:"description"`
		URL         *string          `json:"url"`
		Author      *AuthorPatch     `json:"author"`
		Tags        *[]string        `json:"tags"`
		Experts     *[]ExpertComment `json:"experts"`
		Stats       *StatsPatch      `json:"stats"`
	}

	AuthorPatch struct {
		Name   *string `json:"name"`
		Title  *string `json:"title"`
		Avatar *string `json:"avatar"`
	}

	StatsPatch struct {
		Views  *int `json:"views"`
		Likes  *int `json:"likes"`
		Shares *int `json:"shares"`
	}
)

// ApplyTo overlays the patch onto an existing aggregate and returns the
// merged result. The precedence per field is explicit here rather than
// relying on any generic deep-merge. The caller re-validates the result
// before committing it.
func (args UpdatePodcastArgs) ApplyTo(p Podcast) Podcast {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	setStr(&p.Title, args.Title)
	setStr(&p.Duration, args.Duration)
	setStr(&p.PublishedAt, args.PublishedAt)
	setStr(&p.Cover, args.Cover)
	setStr(&p.Description, args.Description)
	setStr(&p.URL, args.URL)
	if args.Type != nil {
		p.Type = *args.Type
	}

	if args.Author != nil {
		setStr(&p.Author.Name, args.Author.Name)
		setStr(&p.Author.Title, args.Author.Title)
		setStr(&p.Author.Avatar, args.Author.Avatar)
	}

	if args.Stats != nil {
		if args.Stats.Views != nil {
			p.Stats.Views = *args.Stats.Views
		}
		if args.Stats.Likes != nil {
			p.Stats.Likes = *args.Stats.Likes
		}
		if args.Stats.Shares != nil {
			p.Stats.Shares = *args.Stats.Shares
		}
	}

	if args.Tags != nil {
		p.Tags = *args.Tags
	}
	if args.Experts != nil {
		p.Experts = *args.Experts
	}

	return p
}
