package match

import (
	"strconv"
	"strings"

	"minglebot/internal/database"
)

// errorSentinel marks an upstream failure reported inside the completion
// body rather than as a transport error.
const errorSentinel = "Error"

// matchLinePrefix marks response lines that name a suggested match.
const matchLinePrefix = "- User"

// parseMatches extracts candidate usernames from a completion response.
// Each line of the form "- User <N>: <reason>" resolves the 1-indexed N
// against the candidate list; lines without a parseable in-range number are
// skipped and counted. Repeated numbers are kept as-is. A response carrying
// the error sentinel yields no matches.
func parseMatches(response string, candidates []database.UserProfile) (matches []string, skipped int) {
	if strings.Contains(response, errorSentinel) {
		return nil, 0
	}

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, matchLinePrefix) {
			continue
		}

		colon := strings.Index(line, ":")
		if colon < 0 {
			skipped++
			continue
		}

		numStr := strings.TrimSpace(line[len(matchLinePrefix):colon])
		num, err := strconv.Atoi(numStr)
		if err != nil {
			skipped++
			continue
		}

		idx := num - 1
		if idx < 0 || idx >= len(candidates) {
			skipped++
			continue
		}

		matches = append(matches, candidates[idx].Username)
	}

	return matches, skipped
}
