package playback

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lushplayer/catalogue/internal/errors"
)

func TestResolvePlaylist(t *testing.T) {
	var gotPath, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"videos": [
			{"id": "v1", "starttime": "2017-06-21T10:00:00.000+0100", "livebroadcastlength": "00:30:00"},
			{"id": "v2", "starttime": "2017-06-21T10:30:00.000+0100", "duration": 1800.0}
		]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, PolicyKey: "pk-123"})

	entries, err := client.ResolvePlaylist(context.Background(), "live-42")
	require.NoError(t, err)

	assert.Equal(t, "/playlists/live-42", gotPath)
	assert.Equal(t, "application/json;pk=pk-123", gotAccept)

	require.Len(t, entries, 2)
	assert.Equal(t, "2017-06-21T10:00:00.000+0100", entries[0].StartTime)
	assert.Equal(t, "00:30:00", entries[0].BroadcastLength)
	require.NotNil(t, entries[1].DurationSeconds)
	assert.Equal(t, 1800.0, *entries[1].DurationSeconds)
}

func TestResolvePlaylist_EmptyID(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://example.invalid"})

	_, err := client.ResolvePlaylist(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.GetErrorCode(err))
}

func TestResolvePlaylist_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.ResolvePlaylist(context.Background(), "live-42")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidStatus, apperrors.GetErrorCode(err))
}

func TestResolvePlaylist_MalformedDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.ResolvePlaylist(context.Background(), "live-42")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidResponse, apperrors.GetErrorCode(err))
}

func TestResolvePlaylist_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.ResolvePlaylist(context.Background(), "live-42")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeTransport, apperrors.GetErrorCode(err))
}
