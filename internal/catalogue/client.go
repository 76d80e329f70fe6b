// Package catalogue implements the content API client, the in-memory
// programme cache and the refresh notifier.
package catalogue

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lushplayer/catalogue/internal/circuitbreaker"
	apperrors "github.com/lushplayer/catalogue/internal/errors"
	"github.com/lushplayer/catalogue/internal/logger"
	"github.com/lushplayer/catalogue/internal/models"
	"github.com/lushplayer/catalogue/internal/retry"
)

const defaultTimeout = 10 * time.Second

// SnapshotStore persists the latest programme list per cache key so a
// restarted process can serve a stale catalogue before its first fetch.
// Implementations must tolerate being called on every successful fetch.
type SnapshotStore interface {
	SaveMediaSnapshot(ctx context.Context, media models.Media, programmes []models.Programme) error
	SaveChannelSnapshot(ctx context.Context, channelTag string, programmes []models.Programme) error
}

// Client is the single point of access to the remote content API. It owns
// the cache and the refresh notifier; decoding is delegated to the models
// package. Construct one per process and inject it; there is no package
// singleton.
type Client struct {
	baseURL    string
	policyKey  string
	httpClient *http.Client
	logger     *logger.Logger
	circuitBrk *circuitbreaker.CircuitBreaker
	retryCfg   retry.Config
	cache      *Cache
	notifier   *Notifier
	store      SnapshotStore
}

// Config holds catalogue client configuration
type Config struct {
	// BaseURL is the content API base, up to and including the version
	// segment, e.g. https://api.example.com/v2
	BaseURL string

	// PolicyKey is the HLS policy key handed to downstream playback
	PolicyKey string

	Timeout time.Duration
	Retry   retry.Config
	Breaker circuitbreaker.Config

	// Store is optional; nil disables snapshot persistence
	Store SnapshotStore
}

// NewClient creates a new content API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.DefaultConfig()
	}
	if cfg.Breaker.MaxFailures == 0 {
		cfg.Breaker = circuitbreaker.DefaultConfig()
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		policyKey:  cfg.PolicyKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.AppLogger(),
		circuitBrk: circuitbreaker.New(cfg.Breaker),
		retryCfg:   cfg.Retry,
		cache:      NewCache(),
		notifier:   NewNotifier(),
		store:      cfg.Store,
	}
}

// Cache returns the client's programme cache
func (c *Client) Cache() *Cache {
	return c.cache
}

// Notifier returns the client's refresh notifier
func (c *Client) Notifier() *Notifier {
	return c.notifier
}

// PolicyKey returns the HLS policy key for downstream playback
func (c *Client) PolicyKey() string {
	return c.policyKey
}

// FetchProgrammes fetches all programmes for a media type, caches them under
// the media key and publishes a refresh event.
func (c *Client) FetchProgrammes(ctx context.Context, media models.Media) ([]models.Programme, error) {
	items, err := c.fetchArray(ctx, media.EndpointPath(), nil)
	if err != nil {
		return nil, err
	}

	programmes := c.decodeProgrammes(items, media.EndpointPath())

	if err := ctx.Err(); err != nil {
		return nil, apperrors.TransportError("fetch cancelled", err)
	}

	c.cache.SetProgrammesByMedia(media, programmes)
	c.saveMediaSnapshot(ctx, media, programmes)
	c.notifier.Publish(RefreshEvent{Media: media, Count: len(programmes), At: time.Now()})

	return programmes, nil
}

// FetchProgrammesByChannel fetches the programmes of a channel, optionally
// restricted to one media type, and caches them under the channel tag.
func (c *Client) FetchProgrammesByChannel(ctx context.Context, channel models.Channel, media *models.Media) ([]models.Programme, error) {
	query := url.Values{}
	query.Set("channel", channel.Tag)
	if media != nil {
		query.Set("type", media.String())
	}

	items, err := c.fetchArray(ctx, "views/categories", query)
	if err != nil {
		return nil, err
	}

	programmes := c.decodeProgrammes(items, "views/categories")

	if err := ctx.Err(); err != nil {
		return nil, apperrors.TransportError("fetch cancelled", err)
	}

	c.cache.SetProgrammesByChannel(channel.Tag, programmes)
	c.saveChannelSnapshot(ctx, channel.Tag, programmes)

	return programmes, nil
}

// FetchProgrammesByTag fetches the programmes carrying a tag. Not cached.
func (c *Client) FetchProgrammesByTag(ctx context.Context, tagValue string) ([]models.Programme, error) {
	items, err := c.fetchArray(ctx, "tags/"+url.PathEscape(tagValue), nil)
	if err != nil {
		return nil, err
	}
	return c.decodeProgrammes(items, "tags"), nil
}

// FetchDetails re-fetches a programme by ID to obtain the fields the listing
// payloads omit, notably the playback GUID and the radio file URL. The
// detail payload is not guaranteed to echo the ID, so the input's ID is
// overlaid on the result.
func (c *Client) FetchDetails(ctx context.Context, programme models.Programme) (models.Programme, error) {
	query := url.Values{}
	query.Set("id", programme.ID)

	items, err := c.fetchArray(ctx, "views/programme", query)
	if err != nil {
		return models.Programme{}, err
	}
	if len(items) == 0 {
		return models.Programme{}, apperrors.InvalidResponseError("empty detail payload for programme "+programme.ID, nil)
	}

	payload := items[0]
	if _, ok := payload["id"]; !ok {
		payload["id"] = programme.ID
	}

	detail, err := models.DecodeProgramme(payload)
	if err != nil {
		return models.Programme{}, apperrors.InvalidResponseError("undecodable detail payload for programme "+programme.ID, err)
	}

	detail.ID = programme.ID
	return detail, nil
}

// FetchLivePlaylist fetches the identifier of the currently scheduled live
// playlist. An empty payload is the normal off-air state and is reported as
// an empty-response error for callers to branch on.
func (c *Client) FetchLivePlaylist(ctx context.Context) (string, error) {
	items, err := c.fetchArray(ctx, "views/playlist", nil)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", apperrors.EmptyResponseError("no live playlist currently scheduled")
	}

	id, ok := items[0]["id"].(string)
	if !ok || id == "" {
		return "", apperrors.InvalidResponseError("playlist entry without id", nil)
	}

	return id, nil
}

// Search runs a full-text programme search. Spaces become plus signs before
// percent-encoding, so "foo bar" travels as programme-search/foo%2Bbar.
func (c *Client) Search(ctx context.Context, term string) ([]models.SearchResult, error) {
	items, err := c.fetchArray(ctx, "programme-search/"+encodeSearchTerm(term), nil)
	if err != nil {
		return nil, err
	}

	results, dropped := models.DecodeSearchResults(items)
	if dropped > 0 {
		c.logger.WithFields(map[string]interface{}{
			"term":    term,
			"dropped": dropped,
		}).Warn("dropped undecodable search results")
	}

	return results, nil
}

// FetchChannels fetches the server-defined channel set.
func (c *Client) FetchChannels(ctx context.Context) ([]models.Channel, error) {
	items, err := c.fetchArray(ctx, "channels", nil)
	if err != nil {
		return nil, err
	}

	channels, dropped := models.DecodeChannels(items)
	if dropped > 0 {
		c.logger.WithFields(map[string]interface{}{"dropped": dropped}).Warn("dropped undecodable channels")
	}

	return channels, nil
}

// FetchEvents fetches the current curated events. Programmes are empty at
// this point; FetchEventProgrammes populates them.
func (c *Client) FetchEvents(ctx context.Context) ([]models.Event, error) {
	items, err := c.fetchArray(ctx, "events", nil)
	if err != nil {
		return nil, err
	}

	events, dropped := models.DecodeEvents(items)
	if dropped > 0 {
		c.logger.WithFields(map[string]interface{}{"dropped": dropped}).Warn("dropped undecodable events")
	}

	return events, nil
}

// FetchEventProgrammes fetches the programme list of one event. Not cached.
func (c *Client) FetchEventProgrammes(ctx context.Context, event models.Event) ([]models.Programme, error) {
	items, err := c.fetchArray(ctx, "events/"+url.PathEscape(event.ID), nil)
	if err != nil {
		return nil, err
	}
	return c.decodeProgrammes(items, "events/"+event.ID), nil
}

// fetchArray performs a GET against the content API and decodes the JSON
// array envelope. Envelope-level failures abort the operation: non-200
// status, transport failure, or a payload that is not an array.
func (c *Client) fetchArray(ctx context.Context, path string, query url.Values) ([]models.Payload, error) {
	requestURL := c.baseURL + "/" + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	operation := func() ([]models.Payload, error) {
		var items []models.Payload
		err := c.circuitBrk.Execute(func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
			if err != nil {
				return apperrors.TransportError("building request", err)
			}
			req.Header.Set("Accept", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return apperrors.TransportError("request failed", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return apperrors.InvalidStatusError(resp.StatusCode, path)
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return apperrors.TransportError("reading response", err)
			}

			if err := json.Unmarshal(body, &items); err != nil {
				return apperrors.InvalidResponseError("payload is not an array", err)
			}

			return nil
		})
		return items, err
	}

	items, err := retry.DoWithResult(ctx, c.retryCfg, operation, apperrors.IsRetryable)
	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		}).Warn("content API request failed")
		return nil, err
	}

	return items, nil
}

// decodeProgrammes decodes a programme payload array, logging how many
// items were dropped. Per-item failures never fail the operation.
func (c *Client) decodeProgrammes(items []models.Payload, path string) []models.Programme {
	programmes, dropped := models.DecodeProgrammes(items)
	if dropped > 0 {
		c.logger.WithFields(map[string]interface{}{
			"path":    path,
			"dropped": dropped,
		}).Warn("dropped undecodable programmes")
	}
	return programmes
}

// saveMediaSnapshot persists a media-keyed snapshot; store failures are
// logged and never fail the fetch.
func (c *Client) saveMediaSnapshot(ctx context.Context, media models.Media, programmes []models.Programme) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveMediaSnapshot(ctx, media, programmes); err != nil {
		c.logger.WithFields(map[string]interface{}{"media": media.String()}).Error("failed to persist programme snapshot", err)
	}
}

func (c *Client) saveChannelSnapshot(ctx context.Context, channelTag string, programmes []models.Programme) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveChannelSnapshot(ctx, channelTag, programmes); err != nil {
		c.logger.WithFields(map[string]interface{}{"channel": channelTag}).Error("failed to persist programme snapshot", err)
	}
}

// encodeSearchTerm prepares a search term for the path: spaces collapse to
// plus signs first, then the whole token is percent-encoded.
func encodeSearchTerm(term string) string {
	return url.QueryEscape(strings.ReplaceAll(term, " ", "+"))
}
