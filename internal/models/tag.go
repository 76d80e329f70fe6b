package models

import (
	apperrors "github.com/lushplayer/catalogue/internal/errors"
)

// Tag filters programmes; Value is the key used in the tags endpoint path.
type Tag struct {
	Name  string
	Value string
}

// DecodeTag decodes one API payload item into a Tag. Both fields are
// required.
func DecodeTag(payload Payload) (Tag, error) {
	name, ok := textField(payload, "name")
	if !ok {
		return Tag{}, apperrors.DecodeError("tag", "missing name")
	}

	value, ok := stringField(payload, "value")
	if !ok {
		return Tag{}, apperrors.DecodeError("tag", "missing value")
	}

	return Tag{Name: name, Value: value}, nil
}

// DecodeTags decodes a payload array, dropping items that fail to decode.
func DecodeTags(payloads []Payload) ([]Tag, int) {
	tags := make([]Tag, 0, len(payloads))
	dropped := 0

	for _, payload := range payloads {
		tag, err := DecodeTag(payload)
		if err != nil {
			dropped++
			continue
		}
		tags = append(tags, tag)
	}

	return tags, dropped
}
