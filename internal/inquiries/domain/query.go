package domain

import "time"

// Query filters the admin listing. Zero From/To leave that side unbounded.
type Query struct {
	Search string
	From   time.Time
	To     time.Time
	Limit  int
}

// CreatedAtBounds returns the half-open createdAt interval
// [From 00:00Z, To+1day 00:00Z) in stored timestamp form. An empty string
// means no bound on that side.
func (q Query) CreatedAtBounds() (gte, lt string) {
	if !q.From.IsZero() {
		gte = FormatTimestamp(startOfDay(q.From))
	}
	if !q.To.IsZero() {
		lt = FormatTimestamp(startOfDay(q.To).AddDate(0, 0, 1))
	}
	return gte, lt
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
