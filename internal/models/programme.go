package models

import (
	"net/url"
	"time"

	apperrors "github.com/lushplayer/catalogue/internal/errors"
)

// programmeDateLayout is the upstream publication date format
const programmeDateLayout = "02/01/2006"

// webPlayerBase is the public web player URL prefix for programme pages
const webPlayerBase = "http://player.lush.com"

// Programme is a single playable TV or radio content item. Programmes are
// immutable values; identity is the API-stable ID.
type Programme struct {
	ID           string
	GUID         string // playback-system identifier, populated by a detail fetch
	Title        string
	Description  string
	ThumbnailURL *url.URL
	File         *url.URL // direct playable URL, radio content only
	Date         *time.Time
	DateString   string
	Duration     string
	Media        Media
	Tags         []Tag

	// alias is only used to derive the web player URL
	alias string
}

// WebURL returns the public web player page for the programme, or nil when
// the upstream payload carried no alias.
func (p Programme) WebURL() *url.URL {
	if p.alias == "" {
		return nil
	}
	u, err := url.Parse(webPlayerBase + "/" + p.Media.String() + "/" + p.alias)
	if err != nil {
		return nil
	}
	return u
}

// DecodeProgramme decodes one API payload item into a Programme. Only a
// missing ID or an unresolvable media type fail the decode; every other
// field is optional.
func DecodeProgramme(payload Payload) (Programme, error) {
	id, ok := stringField(payload, "id")
	if !ok {
		return Programme{}, apperrors.DecodeError("programme", "missing id")
	}

	rawMedia, ok := stringField(payload, "type", "media")
	if !ok {
		return Programme{}, apperrors.DecodeError("programme", "missing media type")
	}
	media, err := DecodeMedia(rawMedia)
	if err != nil {
		return Programme{}, err
	}

	p := Programme{
		ID:           id,
		Media:        media,
		ThumbnailURL: urlField(payload, "thumbnail", "image"),
		File:         urlField(payload, "file"),
	}

	p.GUID, _ = stringField(payload, "guid")
	p.Title, _ = textField(payload, "title", "name")
	p.Description, _ = textField(payload, "description")
	p.Duration, _ = stringField(payload, "duration")
	p.alias, _ = stringField(payload, "alias")

	// An unparseable date keeps the raw text but leaves Date unset.
	if raw, ok := stringField(payload, "date"); ok {
		p.DateString = raw
		if date, err := time.Parse(programmeDateLayout, raw); err == nil {
			p.Date = &date
		}
	}

	if rawTags, ok := payload["tags"].([]interface{}); ok {
		items := make([]Payload, 0, len(rawTags))
		for _, item := range rawTags {
			if m, ok := item.(map[string]interface{}); ok {
				items = append(items, Payload(m))
			}
		}
		p.Tags, _ = DecodeTags(items)
	}

	return p, nil
}

// DecodeProgrammes decodes a payload array, dropping items that fail to
// decode. It returns the decoded programmes in payload order and the number
// of dropped items.
func DecodeProgrammes(payloads []Payload) ([]Programme, int) {
	programmes := make([]Programme, 0, len(payloads))
	dropped := 0

	for _, payload := range payloads {
		programme, err := DecodeProgramme(payload)
		if err != nil {
			dropped++
			continue
		}
		programmes = append(programmes, programme)
	}

	return programmes, dropped
}
