package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"

	"github.com/clmartin/podshelf/internal/podshelf"
)

const podcastNamespace = "-pod"

// The base row with the author and stats flattened into it. Tags and
// expert comments hang off the join tables and are reassembled on read.
type podcastRow struct {
	ID           string `db:"id"`
	Title        string `db:"title"`
	Duration     string `db:"duration"`
	Type         string `db:"type"`
	PublishedAt  string `db:"published_at"`
	Cover        string `db:"cover"`
	Description  string `db:"description"`
	URL          string `db:"url"`
	Views        int    `db:"views"`
	Likes        int    `db:"likes"`
	Shares       int    `db:"shares"`
	AuthorName   string `db:"author_name"`
	AuthorTitle  string `db:"author_title"`
	AuthorAvatar string `db:"author_avatar"`
}

const podcastColumns = `id, title, duration, type, published_at, cover, description, url,
	views, likes, shares, author_name, author_title, author_avatar`

func rowFromPodcast(p podshelf.Podcast) podcastRow {
	return podcastRow{
		ID:           p.ID,
		Title:        p.Title,
		Duration:     p.Duration,
		Type:         string(p.Type),
		PublishedAt:  p.PublishedAt,
		Cover:        p.Cover,
		Description:  p.Description,
		URL:          p.URL,
		Views:        p.Stats.Views,
		Likes:        p.Stats.Likes,
		Shares:       p.Stats.Shares,
		AuthorName:   p.Author.Name,
		AuthorTitle:  p.Author.Title,
		AuthorAvatar: p.Author.Avatar,
	}
}

// Podcasts returns every podcast, newest published first. A storage
// failure on this path is logged and degraded to an empty list so the
// browsing surface can fall back to its static data.
func (r Repo) Podcasts(ctx context.Context) ([]podshelf.Podcast, error) {
	q := fmt.Sprintf(`SELECT %s FROM podcasts ORDER BY published_at DESC;`, podcastColumns)

	var rows []podcastRow
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		slog.ErrorContext(ctx, "error listing podcasts", "error", err)
		return []podshelf.Podcast{}, nil
	}

	podcasts := make([]podshelf.Podcast, 0, len(rows))
	for _, row := range rows {
		p, err := r.assemble(ctx, row)
		if err != nil {
			slog.ErrorContext(ctx, "error assembling podcast", "id", row.ID, "error", err)
			return []podshelf.Podcast{}, nil
		}
		podcasts = append(podcasts, p)
	}

	return podcasts, nil
}

// Podcast fetches a single aggregate by id. Absence is ErrNotFound, and
// like the list path, unexpected storage failures degrade to absence
// after being logged.
func (r Repo) Podcast(ctx context.Context, id string) (podshelf.Podcast, error) {
	q := fmt.Sprintf(`SELECT %s FROM podcasts WHERE id = ?;`, podcastColumns)

	var row podcastRow
	err := r.db.GetContext(ctx, &row, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return podshelf.Podcast{}, podshelf.ErrNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "error fetching podcast", "id", id, "error", err)
		return podshelf.Podcast{}, podshelf.ErrNotFound
	}

	p, err := r.assemble(ctx, row)
	if err != nil {
		slog.ErrorContext(ctx, "error assembling podcast", "id", id, "error", err)
		return podshelf.Podcast{}, podshelf.ErrNotFound
	}

	return p, nil
}

// assemble performs the two follow-up lookups that turn a base row into
// the full aggregate.
func (r Repo) assemble(ctx context.Context, row podcastRow) (podshelf.Podcast, error) {
	const tagsQ = `SELECT t.name FROM tags t
	JOIN podcast_tags pt ON t.id = pt.tag_id
	WHERE pt.podcast_id = ?;`

	tags := []string{}
	if err := r.db.SelectContext(ctx, &tags, tagsQ, row.ID); err != nil {
		return podshelf.Podcast{}, fmt.Errorf("error fetching tags: %s", err)
	}

	const expertsQ = `SELECT e.name, e.avatar, ec.comment FROM experts e
	JOIN expert_comments ec ON e.id = ec.expert_id
	WHERE ec.podcast_id = ?
	ORDER BY ec.id;`

	experts := []podshelf.ExpertComment{}
	if err := r.db.SelectContext(ctx, &experts, expertsQ, row.ID); err != nil {
		return podshelf.Podcast{}, fmt.Errorf("error fetching expert comments: %s", err)
	}

	return podshelf.Podcast{
		ID:          row.ID,
		Title:       row.Title,
		Duration:    row.Duration,
		Type:        podshelf.PodcastType(row.Type),
		PublishedAt: row.PublishedAt,
		Cover:       row.Cover,
		Description: row.Description,
		URL:         row.URL,
		Author: podshelf.Author{
			Name:   row.AuthorName,
			Title:  row.AuthorTitle,
			Avatar: row.AuthorAvatar,
		},
		Tags:    tags,
		Experts: experts,
		Stats: podshelf.Stats{
			Views:  row.Views,
			Likes:  row.Likes,
			Shares: row.Shares,
		},
	}, nil
}

// CreatePodcast validates the input and writes the whole aggregate in
// one transaction: the base row, then insert-if-absent for every tag
// and expert plus their link rows.
func (r Repo) CreatePodcast(ctx context.Context, p podshelf.Podcast) (podshelf.Podcast, error) {
	if err := p.Validate(); err != nil {
		return podshelf.Podcast{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString() + podcastNamespace
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return podshelf.Podcast{}, fmt.Errorf("error beginning transaction: %s", err)
	}
	defer tx.Rollback()

	const insertQ = `INSERT INTO podcasts (
	id, title, duration, type, published_at, cover, description, url,
	views, likes, shares, author_name, author_title, author_avatar
	) VALUES (
	:id, :title, :duration, :type, :published_at, :cover, :description, :url,
	:views, :likes, :shares, :author_name, :author_title, :author_avatar
	);`
	_, err = tx.NamedExecContext(ctx, insertQ, rowFromPodcast(p))
	if isConstraintErr(err) {
		return podshelf.Podcast{}, fmt.Errorf("podcast already exists: %w", podshelf.ErrConflict)
	}
	if err != nil {
		return podshelf.Podcast{}, fmt.Errorf("error inserting podcast: %s", err)
	}

	if err := insertTags(ctx, tx, p.ID, p.Tags); err != nil {
		return podshelf.Podcast{}, err
	}
	if err := insertExpertComments(ctx, tx, p.ID, p.Experts); err != nil {
		return podshelf.Podcast{}, err
	}

	if err := tx.Commit(); err != nil {
		return podshelf.Podcast{}, fmt.Errorf("error committing podcast: %s", err)
	}

	return r.Podcast(ctx, p.ID)
}

// UpdatePodcast merges the patch onto the stored aggregate, re-validates
// the result, and rewrites it in one transaction. Tags and experts are
// only touched when the patch carries them, in which case the old link
// rows are dropped and rebuilt.
func (r Repo) UpdatePodcast(ctx context.Context, id string, args podshelf.UpdatePodcastArgs) (podshelf.Podcast, error) {
	existing, err := r.Podcast(ctx, id)
	if err != nil {
		return podshelf.Podcast{}, err
	}

	merged := args.ApplyTo(existing)
	if err := merged.Validate(); err != nil {
		return podshelf.Podcast{}, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return podshelf.Podcast{}, fmt.Errorf("error beginning transaction: %s", err)
	}
	defer tx.Rollback()

	query, qArgs, err := sq.Update("podcasts").
		Set("title", merged.Title).
		Set("duration", merged.Duration).
		Set("type", string(merged.Type)).
		Set("published_at", merged.PublishedAt).
		Set("cover", merged.Cover).
		Set("description", merged.Description).
		Set("url", merged.URL).
		Set("views", merged.Stats.Views).
		Set("likes", merged.Stats.Likes).
		Set("shares", merged.Stats.Shares).
		Set("author_name", merged.Author.Name).
		Set("author_title", merged.Author.Title).
		Set("author_avatar", merged.Author.Avatar).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return podshelf.Podcast{}, fmt.Errorf("error constructing sql: %s", err)
	}
	if _, err := tx.ExecContext(ctx, query, qArgs...); err != nil {
		return podshelf.Podcast{}, fmt.Errorf("error updating podcast: %s", err)
	}

	if args.Tags != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM podcast_tags WHERE podcast_id = ?;`, id); err != nil {
			return podshelf.Podcast{}, fmt.Errorf("error clearing tag links: %s", err)
		}
		if err := insertTags(ctx, tx, id, merged.Tags); err != nil {
			return podshelf.Podcast{}, err
		}
	}
	if args.Experts != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM expert_comments WHERE podcast_id = ?;`, id); err != nil {
			return podshelf.Podcast{}, fmt.Errorf("error clearing expert comments: %s", err)
		}
		if err := insertExpertComments(ctx, tx, id, merged.Experts); err != nil {
			return podshelf.Podcast{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return podshelf.Podcast{}, fmt.Errorf("error committing update: %s", err)
	}

	return r.Podcast(ctx, id)
}

// DeletePodcast removes the base row; the cascade takes the link and
// comment rows with it. The tag and expert entities stay behind even if
// nothing references them anymore.
func (r Repo) DeletePodcast(ctx context.Context, id string) error {
	if _, err := r.Podcast(ctx, id); err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM podcasts WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("error deleting podcast: %s", err)
	}

	return nil
}

// Tag names are matched exactly: no trimming, no case folding. Two tags
// differing only in case are distinct entities.
func insertTags(ctx context.Context, tx *sqlx.Tx, podcastID string, tags []string) error {
	const insertTag = `INSERT OR IGNORE INTO tags (name) VALUES (?);`
	const linkTag = `INSERT INTO podcast_tags (podcast_id, tag_id)
	SELECT ?, id FROM tags WHERE name = ?;`

	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, insertTag, tag); err != nil {
			return fmt.Errorf("error inserting tag %q: %s", tag, err)
		}
		if _, err := tx.ExecContext(ctx, linkTag, podcastID, tag); err != nil {
			return fmt.Errorf("error linking tag %q: %s", tag, err)
		}
	}

	return nil
}

// A comment row is written for every expert, empty comment or not; the
// presence of the relation is what puts the expert on the podcast.
func insertExpertComments(ctx context.Context, tx *sqlx.Tx, podcastID string, experts []podshelf.ExpertComment) error {
	const insertExpert = `INSERT OR IGNORE INTO experts (name, avatar) VALUES (?, ?);`
	const insertComment = `INSERT INTO expert_comments (podcast_id, expert_id, comment)
	SELECT ?, id, ? FROM experts WHERE name = ? AND avatar = ?;`

	for _, expert := range experts {
		if _, err := tx.ExecContext(ctx, insertExpert, expert.Name, expert.Avatar); err != nil {
			return fmt.Errorf("error inserting expert %q: %s", expert.Name, err)
		}
		if _, err := tx.ExecContext(ctx, insertComment, podcastID, expert.Comment, expert.Name, expert.Avatar); err != nil {
			return fmt.Errorf("error inserting expert comment for %q: %s", expert.Name, err)
		}
	}

	return nil
}

func isConstraintErr(err error) bool {
	sqliteErr := &sqlite.Error{}
	if !errors.As(err, &sqliteErr) {
		return false
	}

	// SQLITE_CONSTRAINT_PRIMARYKEY and SQLITE_CONSTRAINT_UNIQUE.
	return sqliteErr.Code() == 1555 || sqliteErr.Code() == 2067
}
