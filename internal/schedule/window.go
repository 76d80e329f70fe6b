package schedule

import (
	"strconv"
	"strings"
	"time"

	apperrors "github.com/lushplayer/catalogue/internal/errors"
)

// startTimeLayout is the playlist start-time literal: ISO-8601 with
// milliseconds and a numeric zone offset.
const startTimeLayout = "2006-01-02T15:04:05.000-0700"

// RelativeWindow anchors a wall-clock start time to a reference date. The
// upstream live schedule is a recurring daily template, so only the
// time-of-day of the literal carries meaning: the window keeps the literal's
// hour, minute and second but takes year, month and day from the reference
// date, observed in the literal's zone. The end is start plus duration.
func RelativeWindow(startLiteral string, duration time.Duration, reference time.Time) (time.Time, time.Time, error) {
	parsed, err := time.Parse(startTimeLayout, startLiteral)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.ParseError("unparseable start time "+startLiteral, err)
	}

	year, month, day := reference.In(parsed.Location()).Date()
	start := time.Date(year, month, day, parsed.Hour(), parsed.Minute(), parsed.Second(), 0, parsed.Location())

	return start, start.Add(duration), nil
}

// ParseBroadcastLength converts an HH:MM:SS literal to a duration. Anything
// other than exactly three colon-separated numeric fields is a format error.
func ParseBroadcastLength(raw string) (time.Duration, error) {
	fields := strings.Split(raw, ":")
	if len(fields) != 3 {
		return 0, apperrors.DurationFormatError(raw)
	}

	values := make([]int, 3)
	for i, field := range fields {
		value, err := strconv.Atoi(field)
		if err != nil {
			return 0, apperrors.DurationFormatError(raw)
		}
		values[i] = value
	}

	seconds := values[0]*3600 + values[1]*60 + values[2]
	return time.Duration(seconds) * time.Second, nil
}
