package events

import (
	"strings"

	"minglebot/internal/database"
)

// errorSentinel marks an upstream failure reported inside the completion
// body rather than as a transport error.
const errorSentinel = "Error"

// fieldDelimiter separates the name, date, and link fields on each line.
const fieldDelimiter = " - "

// parseEvents extracts events from a completion response. Each candidate
// line must start with a digit and split on " - " into exactly three fields;
// anything else is dropped and counted, never surfaced. A response carrying
// the error sentinel yields no events regardless of any well-formed lines.
func parseEvents(response string) (parsed []database.Event, dropped int) {
	if strings.Contains(response, errorSentinel) {
		return nil, 0
	}

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !isDigit(line[0]) {
			continue
		}

		parts := strings.Split(line, fieldDelimiter)
		if len(parts) != 3 {
			dropped++
			continue
		}

		parsed = append(parsed, database.Event{
			Name: stripOrdinal(parts[0]),
			Date: strings.TrimSpace(parts[1]),
			Link: strings.TrimSpace(parts[2]),
		})
	}

	return parsed, dropped
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// stripOrdinal removes a leading list ordinal such as "1. " or "12) " from
// an event name.
func stripOrdinal(s string) string {
	s = strings.TrimSpace(s)

	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == 0 {
		return s
	}
	if i < len(s) && (s[i] == '.' || s[i] == ')') {
		i++
	}
	return strings.TrimSpace(s[i:])
}
