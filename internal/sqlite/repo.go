// Package sqlite implements the catalog service over a file-backed
// sqlite database. It is the only package that knows how the podcast
// aggregate is spread across the five relations.
package sqlite

import (
	"github.com/jmoiron/sqlx"

	"github.com/clmartin/podshelf/internal/podshelf"
)

// Ensure Repo implements the catalog surface.
var _ podshelf.CatalogService = (*Repo)(nil)

type Repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repo {
	return Repo{db: db}
}
