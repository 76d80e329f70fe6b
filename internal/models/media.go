package models

import (
	apperrors "github.com/lushplayer/catalogue/internal/errors"
)

// Media represents the broadcast medium of a programme
type Media string

const (
	MediaTV    Media = "tv"
	MediaRadio Media = "radio"
)

// mediaAliases maps every upstream spelling of the media field to its Media
// value. The API is inconsistent between list and detail payloads, so new
// aliases go here rather than at call sites.
var mediaAliases = map[string]Media{
	"tv":            MediaTV,
	"tv_program":    MediaTV,
	"radio":         MediaRadio,
	"radio_program": MediaRadio,
}

// DecodeMedia resolves an upstream media-type string to a Media value.
// Unknown spellings fail the decode.
func DecodeMedia(raw string) (Media, error) {
	media, ok := mediaAliases[raw]
	if !ok {
		return "", apperrors.DecodeError("media", "unknown media type "+raw)
	}
	return media, nil
}

// String returns the canonical form, also used as the querystring value
func (m Media) String() string {
	return string(m)
}

// EndpointPath returns the listing endpoint for the media type
func (m Media) EndpointPath() string {
	if m == MediaRadio {
		return "views/radio"
	}
	return "views/videos"
}
