package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lushplayer/catalogue/internal/catalogue"
	apperrors "github.com/lushplayer/catalogue/internal/errors"
	"github.com/lushplayer/catalogue/internal/models"
	"github.com/lushplayer/catalogue/internal/schedule"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeService stubs the catalogue client behind the service interface
type fakeService struct {
	cache *catalogue.Cache

	programmes      []models.Programme
	programmesErr   error
	detail          models.Programme
	detailErr       error
	playlistID      string
	playlistErr     error
	searchResults   []models.SearchResult
	channels        []models.Channel
	events          []models.Event
	eventProgrammes []models.Programme

	fetchProgrammesCalls int
}

func newFakeService() *fakeService {
	return &fakeService{cache: catalogue.NewCache()}
}

func (f *fakeService) FetchProgrammes(ctx context.Context, media models.Media) ([]models.Programme, error) {
	f.fetchProgrammesCalls++
	return f.programmes, f.programmesErr
}

func (f *fakeService) FetchProgrammesByChannel(ctx context.Context, channel models.Channel, media *models.Media) ([]models.Programme, error) {
	return f.programmes, f.programmesErr
}

func (f *fakeService) FetchProgrammesByTag(ctx context.Context, tagValue string) ([]models.Programme, error) {
	return f.programmes, f.programmesErr
}

func (f *fakeService) FetchDetails(ctx context.Context, programme models.Programme) (models.Programme, error) {
	return f.detail, f.detailErr
}

func (f *fakeService) FetchLivePlaylist(ctx context.Context) (string, error) {
	return f.playlistID, f.playlistErr
}

func (f *fakeService) Search(ctx context.Context, term string) ([]models.SearchResult, error) {
	return f.searchResults, nil
}

func (f *fakeService) FetchChannels(ctx context.Context) ([]models.Channel, error) {
	return f.channels, nil
}

func (f *fakeService) FetchEvents(ctx context.Context) ([]models.Event, error) {
	return f.events, nil
}

func (f *fakeService) FetchEventProgrammes(ctx context.Context, event models.Event) ([]models.Programme, error) {
	return f.eventProgrammes, nil
}

func (f *fakeService) Cache() *catalogue.Cache { return f.cache }
func (f *fakeService) PolicyKey() string       { return "test-policy-key" }

// fakePlayback resolves every playlist to a fixed set of raw entries
type fakePlayback struct {
	entries []schedule.RawEntry
	err     error
}

func (f *fakePlayback) ResolvePlaylist(ctx context.Context, playlistID string) ([]schedule.RawEntry, error) {
	return f.entries, f.err
}

func doRequest(t *testing.T, server *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestListProgrammes(t *testing.T) {
	svc := newFakeService()
	svc.programmes = []models.Programme{
		{ID: "1", Title: "Soap Box", Media: models.MediaTV},
	}
	server := NewServer(svc, nil)

	rec := doRequest(t, server, "/api/v1/programmes?media=tv")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ProgrammeListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Programmes, 1)
	assert.Equal(t, "Soap Box", body.Programmes[0].Title)
	assert.False(t, body.Cached)
}

func TestListProgrammes_CacheFirst(t *testing.T) {
	svc := newFakeService()
	svc.cache.SetProgrammesByMedia(models.MediaTV, []models.Programme{
		{ID: "cached", Media: models.MediaTV},
	})
	server := NewServer(svc, nil)

	rec := doRequest(t, server, "/api/v1/programmes?media=tv")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ProgrammeListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Cached)
	assert.Equal(t, 0, svc.fetchProgrammesCalls, "cache hit must not fetch")
}

func TestListProgrammes_RefreshBypassesCache(t *testing.T) {
	svc := newFakeService()
	svc.cache.SetProgrammesByMedia(models.MediaTV, []models.Programme{
		{ID: "cached", Media: models.MediaTV},
	})
	svc.programmes = []models.Programme{{ID: "fresh", Media: models.MediaTV}}
	server := NewServer(svc, nil)

	rec := doRequest(t, server, "/api/v1/programmes?media=tv&refresh=true")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ProgrammeListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Programmes, 1)
	assert.Equal(t, "fresh", body.Programmes[0].ID)
	assert.Equal(t, 1, svc.fetchProgrammesCalls)
}

func TestListProgrammes_BadMedia(t *testing.T) {
	server := NewServer(newFakeService(), nil)

	rec := doRequest(t, server, "/api/v1/programmes?media=podcast")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProgrammes_UpstreamFailureMapsToBadGateway(t *testing.T) {
	svc := newFakeService()
	svc.programmesErr = apperrors.InvalidStatusError(502, "views/videos")
	server := NewServer(svc, nil)

	rec := doRequest(t, server, "/api/v1/programmes?media=tv")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_STATUS", body.Error)
}

func TestProgrammeDetail(t *testing.T) {
	svc := newFakeService()
	svc.detail = models.Programme{ID: "42", Title: "Fresh Handmade Radio", Media: models.MediaRadio}
	server := NewServer(svc, nil)

	rec := doRequest(t, server, "/api/v1/programmes/42")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ProgrammeDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "42", body.ID)
	assert.Equal(t, "radio", body.Media)
}

func TestSearch_RequiresTerm(t *testing.T) {
	server := NewServer(newFakeService(), nil)

	rec := doRequest(t, server, "/api/v1/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLivePlaylist_OffAir(t *testing.T) {
	svc := newFakeService()
	svc.playlistErr = apperrors.EmptyResponseError("no live playlist scheduled")
	server := NewServer(svc, nil)

	rec := doRequest(t, server, "/api/v1/live")
	require.Equal(t, http.StatusOK, rec.Code, "off air is a normal state, not an error")

	var body LiveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "off_air", body.Status)
	assert.Empty(t, body.PlaylistID)
}

func TestLivePlaylist_Live(t *testing.T) {
	svc := newFakeService()
	svc.playlistID = "live-42"
	server := NewServer(svc, nil)

	rec := doRequest(t, server, "/api/v1/live")
	require.Equal(t, http.StatusOK, rec.Code)

	var body LiveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "live", body.Status)
	assert.Equal(t, "live-42", body.PlaylistID)
	assert.Equal(t, "test-policy-key", body.PolicyKey)
}

func TestLiveNow_OnAir(t *testing.T) {
	svc := newFakeService()
	svc.playlistID = "live-42"

	// A window covering the whole current day in the request's zone, so the
	// test passes at any wall-clock time.
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	literal := start.Format("2006-01-02T15:04:05.000-0700")

	playback := &fakePlayback{entries: []schedule.RawEntry{
		{Ref: map[string]interface{}{"id": "v1"}, StartTime: literal, BroadcastLength: "24:00:00"},
	}}
	server := NewServer(svc, playback)

	rec := doRequest(t, server, "/api/v1/live/now")
	require.Equal(t, http.StatusOK, rec.Code)

	var body LiveNowResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "on_air", body.Status)
	require.NotNil(t, body.OffsetSeconds)
	assert.GreaterOrEqual(t, *body.OffsetSeconds, int64(0))
	assert.Equal(t, "test-policy-key", body.PolicyKey)
	require.NotNil(t, body.Video)
}

func TestLiveNow_OffAirPlaylist(t *testing.T) {
	svc := newFakeService()
	svc.playlistErr = apperrors.EmptyResponseError("no live playlist scheduled")
	server := NewServer(svc, &fakePlayback{})

	rec := doRequest(t, server, "/api/v1/live/now")
	require.Equal(t, http.StatusOK, rec.Code)

	var body LiveNowResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "off_air", body.Status)
	assert.Nil(t, body.OffsetSeconds)
}

func TestLiveNow_GapIsOffAir(t *testing.T) {
	svc := newFakeService()
	svc.playlistID = "live-42"

	// A one-second window at the start of the day; by the time the test runs
	// it has always passed.
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	literal := start.Format("2006-01-02T15:04:05.000-0700")

	playback := &fakePlayback{entries: []schedule.RawEntry{
		{Ref: "v1", StartTime: literal, BroadcastLength: "00:00:01"},
	}}
	server := NewServer(svc, playback)

	rec := doRequest(t, server, "/api/v1/live/now")
	require.Equal(t, http.StatusOK, rec.Code)

	var body LiveNowResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "off_air", body.Status)
}

func TestLiveNow_NoResolverConfigured(t *testing.T) {
	server := NewServer(newFakeService(), nil)

	rec := doRequest(t, server, "/api/v1/live/now")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestEventProgrammes(t *testing.T) {
	svc := newFakeService()
	svc.eventProgrammes = []models.Programme{
		{ID: "p1", Title: "Summit Opening", Media: models.MediaTV},
	}
	server := NewServer(svc, nil)

	rec := doRequest(t, server, "/api/v1/events/creative-showcase")
	require.Equal(t, http.StatusOK, rec.Code)

	var body EventDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "creative-showcase", body.ID)
	require.Len(t, body.Programmes, 1)
	assert.Equal(t, "Summit Opening", body.Programmes[0].Title)
}

func TestRequestIDHeader(t *testing.T) {
	server := NewServer(newFakeService(), nil)

	rec := doRequest(t, server, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDHeader_Propagated(t *testing.T) {
	server := NewServer(newFakeService(), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-abc")
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, "req-abc", rec.Header().Get("X-Request-ID"))
}

func TestChannelProgrammes_CacheFirst(t *testing.T) {
	svc := newFakeService()
	svc.cache.SetProgrammesByChannel("kitchen", []models.Programme{
		{ID: "cached", Media: models.MediaTV},
	})
	server := NewServer(svc, nil)

	rec := doRequest(t, server, "/api/v1/channels/kitchen/programmes")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ProgrammeListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Cached)
}

func TestChannelProgrammes_BadMedia(t *testing.T) {
	server := NewServer(newFakeService(), nil)

	rec := doRequest(t, server, "/api/v1/channels/kitchen/programmes?media=podcast")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListChannels(t *testing.T) {
	svc := newFakeService()
	svc.channels = []models.Channel{{Tag: "kitchen", Name: "Lush Kitchen"}}
	server := NewServer(svc, nil)

	rec := doRequest(t, server, "/api/v1/channels")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []ChannelDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "kitchen", body[0].Tag)
}

func TestHealth(t *testing.T) {
	server := NewServer(newFakeService(), nil)

	rec := doRequest(t, server, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
