package database

import (
	"sort"
	"strings"
	"time"
)

// UserProfile represents a registered user's interests and free-text
// description. Interests are stored comma-joined, sorted, and deduplicated;
// use InterestList and SetInterestList rather than touching the raw column
// value.
type UserProfile struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Username    string `db:"username"`
	Interests   string `db:"interests"`
	Description string `db:"description"`
}

// InterestList returns the interests as a slice, in stored (sorted) order.
func (p *UserProfile) InterestList() []string {
	if p.Interests == "" {
		return nil
	}
	parts := strings.Split(p.Interests, ",")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SetInterestList stores the given interests, trimming whitespace and
// dropping empties and duplicates. The stored order is sorted so prompts
// built from the profile are deterministic.
func (p *UserProfile) SetInterestList(interests []string) {
	seen := make(map[string]struct{}, len(interests))
	unique := make([]string, 0, len(interests))
	for _, interest := range interests {
		interest = strings.TrimSpace(interest)
		if interest == "" {
			continue
		}
		if _, ok := seen[interest]; ok {
			continue
		}
		seen[interest] = struct{}{}
		unique = append(unique, interest)
	}
	sort.Strings(unique)
	p.Interests = strings.Join(unique, ",")
}

// Event is a single recommended event as parsed from a completion response.
// Date and link are opaque strings; the bot never interprets them.
type Event struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	Username string `db:"username"`
	Name     string `db:"name"`
	Date     string `db:"date"`
	Link     string `db:"link"`
}

// RequestLog is one audit entry per gated command invocation. The rate
// limiter counts these rows over a sliding window, so CreatedAt doubles as
// the invocation timestamp.
type RequestLog struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	Username string `db:"username"`
	Command  string `db:"command"`
	Success  bool   `db:"success"`
}
