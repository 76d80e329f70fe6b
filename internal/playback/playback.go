// Package playback resolves live playlist IDs against the playback
// catalogue's data feed. Only the playlist data is consumed here; stream
// setup belongs to the player.
package playback

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/lushplayer/catalogue/internal/errors"
	"github.com/lushplayer/catalogue/internal/logger"
	"github.com/lushplayer/catalogue/internal/schedule"
)

const defaultTimeout = 10 * time.Second

// Client fetches playlists from the playback catalogue feed
type Client struct {
	baseURL    string
	policyKey  string
	httpClient *http.Client
	logger     *logger.Logger
}

// Config holds playback feed settings
type Config struct {
	// BaseURL is the playlist feed base, without a trailing slash
	BaseURL string

	// PolicyKey authorizes feed reads
	PolicyKey string

	Timeout time.Duration
}

// playlistEnvelope is the feed's playlist document
type playlistEnvelope struct {
	Videos []map[string]interface{} `json:"videos"`
}

// NewClient creates a playback feed client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		policyKey:  cfg.PolicyKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.AppLogger(),
	}
}

// ResolvePlaylist fetches the playlist document and returns its videos as
// raw schedule entries, in feed order.
func (c *Client) ResolvePlaylist(ctx context.Context, playlistID string) ([]schedule.RawEntry, error) {
	if playlistID == "" {
		return nil, apperrors.ValidationError("playlist id is required")
	}

	url := fmt.Sprintf("%s/playlists/%s", c.baseURL, playlistID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.TransportError("failed to create playlist request", err)
	}
	if c.policyKey != "" {
		req.Header.Set("Accept", "application/json;pk="+c.policyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.TransportError("playlist request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.InvalidStatusError(resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.TransportError("failed to read playlist response", err)
	}

	var envelope playlistEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperrors.InvalidResponseError("playlist response is not a playlist document", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"playlist_id": playlistID,
		"videos":      len(envelope.Videos),
	}).Debug("resolved live playlist")

	return schedule.FromPayloads(envelope.Videos), nil
}
