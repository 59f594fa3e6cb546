package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	shelferrs "github.com/clmartin/podshelf/internal/errors"
	"github.com/clmartin/podshelf/internal/podshelf"
)

func (s Server) handleListPodcasts(w http.ResponseWriter, r *http.Request) error {
	podcasts, err := s.repo.Podcasts(r.Context())
	if err != nil {
		return repoErr(err)
	}

	return writeJSON(w, http.StatusOK, podcasts)
}

func (s Server) handleGetPodcast(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["id"]

	podcast, err := s.repo.Podcast(r.Context(), id)
	if err != nil {
		return repoErr(err)
	}

	return writeJSON(w, http.StatusOK, podcast)
}

func (s Server) handleCreatePodcast(w http.ResponseWriter, r *http.Request) error {
	var body podshelf.Podcast
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return shelferrs.E(err, http.StatusBadRequest)
	}

	// The admin form posts whatever the datetime widget produced.
	body.PublishedAt = normalizePublishedAt(body.PublishedAt)

	created, err := s.repo.CreatePodcast(r.Context(), body)
	if err != nil {
		return repoErr(err)
	}

	return writeJSON(w, http.StatusCreated, created)
}

func (s Server) handleUpdatePodcast(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["id"]

	var body podshelf.UpdatePodcastArgs
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return shelferrs.E(err, http.StatusBadRequest)
	}

	updated, err := s.repo.UpdatePodcast(r.Context(), id, body)
	if err != nil {
		return repoErr(err)
	}

	return writeJSON(w, http.StatusOK, updated)
}

func (s Server) handleDeletePodcast(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["id"]

	if err := s.repo.DeletePodcast(r.Context(), id); err != nil {
		return repoErr(err)
	}

	return writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// normalizePublishedAt coerces loosely formatted publish times to RFC
// 3339 in UTC. A non-empty value that cannot be parsed at all becomes
// the current time rather than a rejection, which is what the admin
// console has always relied on.
func normalizePublishedAt(s string) string {
	if s == "" {
		return s
	}

	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC().Format(time.RFC3339)
		}
	}

	return time.Now().UTC().Format(time.RFC3339)
}
