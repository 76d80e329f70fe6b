package models

import (
	"time"

	apperrors "github.com/lushplayer/catalogue/internal/errors"
)

// eventDateLayout is ISO-8601 with a numeric zone offset
const eventDateLayout = "2006-01-02T15:04:05Z0700"

// Event is a time-bounded curated collection of programmes. Events are
// immutable values; WithProgrammes returns a new Event rather than mutating
// in place, so cached and displayed copies never alias.
type Event struct {
	ID         string
	Title      string
	StartDate  time.Time
	EndDate    time.Time
	Programmes []Programme
}

// WithProgrammes returns a copy of the event holding the given programmes.
func (e Event) WithProgrammes(programmes []Programme) Event {
	copied := make([]Programme, len(programmes))
	copy(copied, programmes)
	e.Programmes = copied
	return e
}

// DecodeEvent decodes one API payload item into an Event. The upstream keys
// are tag (the event ID), name, start_date and end_date; all four are
// required and both dates must parse.
func DecodeEvent(payload Payload) (Event, error) {
	id, ok := stringField(payload, "tag")
	if !ok {
		return Event{}, apperrors.DecodeError("event", "missing tag")
	}

	title, ok := textField(payload, "name")
	if !ok {
		return Event{}, apperrors.DecodeError("event", "missing name")
	}

	rawStart, ok := stringField(payload, "start_date")
	if !ok {
		return Event{}, apperrors.DecodeError("event", "missing start_date")
	}
	startDate, err := time.Parse(eventDateLayout, rawStart)
	if err != nil {
		return Event{}, apperrors.DecodeError("event", "unparseable start_date "+rawStart)
	}

	rawEnd, ok := stringField(payload, "end_date")
	if !ok {
		return Event{}, apperrors.DecodeError("event", "missing end_date")
	}
	endDate, err := time.Parse(eventDateLayout, rawEnd)
	if err != nil {
		return Event{}, apperrors.DecodeError("event", "unparseable end_date "+rawEnd)
	}

	return Event{
		ID:        id,
		Title:     title,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

// DecodeEvents decodes a payload array, dropping items that fail to decode.
func DecodeEvents(payloads []Payload) ([]Event, int) {
	events := make([]Event, 0, len(payloads))
	dropped := 0

	for _, payload := range payloads {
		event, err := DecodeEvent(payload)
		if err != nil {
			dropped++
			continue
		}
		events = append(events, event)
	}

	return events, dropped
}
