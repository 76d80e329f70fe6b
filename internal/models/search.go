package models

import (
	"net/url"

	apperrors "github.com/lushplayer/catalogue/internal/errors"
)

// SearchResult is a lightweight projection of a programme returned by the
// full-text search endpoint.
type SearchResult struct {
	ID           string
	Title        string
	ThumbnailURL *url.URL
	Media        Media
}

// DecodeSearchResult decodes one API payload item into a SearchResult.
// ID and a resolvable media type are required.
func DecodeSearchResult(payload Payload) (SearchResult, error) {
	id, ok := stringField(payload, "id")
	if !ok {
		return SearchResult{}, apperrors.DecodeError("search result", "missing id")
	}

	rawMedia, ok := stringField(payload, "type")
	if !ok {
		return SearchResult{}, apperrors.DecodeError("search result", "missing type")
	}
	media, err := DecodeMedia(rawMedia)
	if err != nil {
		return SearchResult{}, err
	}

	result := SearchResult{
		ID:           id,
		Media:        media,
		ThumbnailURL: urlField(payload, "thumbnail", "image"),
	}
	result.Title, _ = textField(payload, "title", "name")

	return result, nil
}

// DecodeSearchResults decodes a payload array, dropping items that fail to
// decode.
func DecodeSearchResults(payloads []Payload) ([]SearchResult, int) {
	results := make([]SearchResult, 0, len(payloads))
	dropped := 0

	for _, payload := range payloads {
		result, err := DecodeSearchResult(payload)
		if err != nil {
			dropped++
			continue
		}
		results = append(results, result)
	}

	return results, dropped
}
