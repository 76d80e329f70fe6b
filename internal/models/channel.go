package models

import (
	apperrors "github.com/lushplayer/catalogue/internal/errors"
)

// Channel is a named topical grouping of programmes. The set is
// server-defined; Tag is the stable key used in querystrings.
type Channel struct {
	Tag  string
	Name string
}

// DecodeChannel decodes one API payload item into a Channel. Only the tag
// is required.
func DecodeChannel(payload Payload) (Channel, error) {
	tag, ok := stringField(payload, "tag")
	if !ok {
		return Channel{}, apperrors.DecodeError("channel", "missing tag")
	}

	channel := Channel{Tag: tag}
	channel.Name, _ = textField(payload, "name", "title")

	return channel, nil
}

// DecodeChannels decodes a payload array, dropping items that fail to decode.
func DecodeChannels(payloads []Payload) ([]Channel, int) {
	channels := make([]Channel, 0, len(payloads))
	dropped := 0

	for _, payload := range payloads {
		channel, err := DecodeChannel(payload)
		if err != nil {
			dropped++
			continue
		}
		channels = append(channels, channel)
	}

	return channels, dropped
}
