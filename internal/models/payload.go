package models

import (
	"html"
	"net/url"
)

// Payload is one loosely-typed item from a decoded API response array
type Payload map[string]interface{}

// stringField returns the first non-empty string value among the given keys
func stringField(payload Payload, keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := payload[key]; ok {
			if s, ok := value.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// textField is stringField plus HTML-entity unescaping for display text
func textField(payload Payload, keys ...string) (string, bool) {
	s, ok := stringField(payload, keys...)
	if !ok {
		return "", false
	}
	return html.UnescapeString(s), true
}

// urlField parses the first string value among the given keys as a URL.
// Unparseable values are treated as absent.
func urlField(payload Payload, keys ...string) *url.URL {
	s, ok := stringField(payload, keys...)
	if !ok {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil
	}
	return u
}
