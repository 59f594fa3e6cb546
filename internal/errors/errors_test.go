package errors_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shelferrs "github.com/clmartin/podshelf/internal/errors"
)

func TestEConstructor(t *testing.T) {
	got := shelferrs.E(
		"invalid podcast",
		shelferrs.Detail{Field: "title", Error: "must not be empty"},
		shelferrs.Detail{Field: "type", Error: "must be one of audio, video"},
		http.StatusBadRequest,
	)
	want := &shelferrs.Error{
		Err: errors.New("invalid podcast"),
		Details: []shelferrs.Detail{
			{Field: "title", Error: "must not be empty"},
			{Field: "type", Error: "must be one of audio, video"},
		},
		Status: http.StatusBadRequest,
	}

	assert.Equal(t, want, got)
}

func TestMarshalJSON(t *testing.T) {
	e := shelferrs.E("podcast not found", http.StatusNotFound)

	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "podcast not found"}`, string(b))
}
