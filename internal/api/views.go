package api

import (
	"net/http"
	"sort"

	"github.com/clmartin/podshelf/internal/importer"
)

const (
	featuredSize = 6
	popularSize  = 10
)

// Featured is the newest slice of the catalog: the list endpoint
// already orders by publish time descending.
func (s Server) handleFeaturedPodcasts(w http.ResponseWriter, r *http.Request) error {
	podcasts, err := s.repo.Podcasts(r.Context())
	if err != nil {
		return repoErr(err)
	}

	if len(podcasts) > featuredSize {
		podcasts = podcasts[:featuredSize]
	}

	return writeJSON(w, http.StatusOK, podcasts)
}

// Popular re-sorts the catalog by view count. The sort is stable so
// ties keep their publish order.
func (s Server) handlePopularPodcasts(w http.ResponseWriter, r *http.Request) error {
	podcasts, err := s.repo.Podcasts(r.Context())
	if err != nil {
		return repoErr(err)
	}

	sort.SliceStable(podcasts, func(i, j int) bool {
		return podcasts[i].Stats.Views > podcasts[j].Stats.Views
	})
	if len(podcasts) > popularSize {
		podcasts = podcasts[:popularSize]
	}

	return writeJSON(w, http.StatusOK, podcasts)
}

// The expert directory and category list still come from the fixture;
// they have no home in the store yet.
func (s Server) handleFeaturedExperts(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, s.fixture.FeaturedExperts)
}

func (s Server) handleCategories(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, s.fixture.Categories)
}

// Import re-reads the fixture on every call, like the loader it
// replaces. A fixture that fails to decode reports success=false in the
// body rather than an error status.
func (s Server) handleImport(w http.ResponseWriter, r *http.Request) error {
	f, err := importer.Load()
	if err != nil {
		return writeJSON(w, http.StatusOK, importer.Result{Success: false, Error: err.Error()})
	}

	res := importer.Run(r.Context(), s.repo, f)

	return writeJSON(w, http.StatusOK, res)
}
