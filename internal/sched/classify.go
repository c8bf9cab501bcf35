package sched

import (
	"slices"
	"time"

	"github.com/tomerlv/torbook/internal/domain"
)

// Bucket is the temporal urgency class of a meeting relative to "now". It is
// derived on every render and never persisted.
type Bucket int

const (
	BucketToday Bucket = iota
	BucketThisWeek
	BucketFuture
	BucketPast
)

func (b Bucket) String() string {
	switch b {
	case BucketToday:
		return "today"
	case BucketThisWeek:
		return "this-week"
	case BucketPast:
		return "past"
	default:
		return "future"
	}
}

// Classify buckets a meeting by day-granularity distance from now. Past
// meetings only surface in admin views.
func Classify(m domain.Meeting, now time.Time) Bucket {
	diffDays := domain.DaysBetween(domain.DateOf(now), m.Date)
	switch {
	case diffDays == 0:
		return BucketToday
	case diffDays < 0:
		return BucketPast
	case diffDays <= 7:
		return BucketThisWeek
	default:
		return BucketFuture
	}
}

// SortMeetings orders the list ascending by combined date-time instant.
// Identical instants should not occur given the overlap rule, but when they
// do the original order is kept.
func SortMeetings(meetings []domain.Meeting) {
	slices.SortStableFunc(meetings, func(a, b domain.Meeting) int {
		return a.StartAt().Compare(b.StartAt())
	})
}
