package sched

import (
	"testing"
	"time"

	"github.com/tomerlv/torbook/internal/domain"
)

func TestClassify(t *testing.T) {
	now := time.Date(2025, time.June, 1, 15, 30, 0, 0, time.Local)

	tests := []struct {
		date string
		want Bucket
	}{
		{"2025-06-01", BucketToday},
		{"2025-06-05", BucketThisWeek},
		{"2025-06-08", BucketThisWeek}, // seventh day still counts
		{"2025-06-09", BucketFuture},
		{"2025-06-20", BucketFuture},
		{"2025-05-28", BucketPast},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			date, err := domain.ParseDate(tt.date)
			if err != nil {
				t.Fatal(err)
			}
			m := domain.Meeting{Date: date, Time: domain.TimeOfDay{Hour: 10}, Duration: 30}
			if got := Classify(m, now); got != tt.want {
				t.Errorf("Classify(%s) = %s, want %s", tt.date, got, tt.want)
			}
		})
	}
}

func TestSortMeetingsByInstant(t *testing.T) {
	mk := func(id, date string, hour int) domain.Meeting {
		d, err := domain.ParseDate(date)
		if err != nil {
			t.Fatal(err)
		}
		return domain.Meeting{ID: domain.RealMeetingID(id), Date: d, Time: domain.TimeOfDay{Hour: hour}, Duration: 30}
	}

	meetings := []domain.Meeting{
		mk("x", "2025-01-10", 9),
		mk("y", "2025-01-05", 14),
		mk("z", "2025-01-10", 8),
	}
	SortMeetings(meetings)

	want := []string{"y", "z", "x"}
	for i, id := range want {
		if meetings[i].ID.String() != id {
			t.Fatalf("order[%d] = %q, want %q", i, meetings[i].ID.String(), id)
		}
	}
}

func TestSortMeetingsStableOnTies(t *testing.T) {
	mk := func(id string) domain.Meeting {
		return domain.Meeting{
			ID:       domain.RealMeetingID(id),
			Date:     domain.Date{Year: 2025, Month: time.January, Day: 10},
			Time:     domain.TimeOfDay{Hour: 9},
			Duration: 30,
		}
	}

	// Identical instants should not happen under the overlap rule, but they
	// must not crash or reorder.
	meetings := []domain.Meeting{mk("first"), mk("second"), mk("third")}
	SortMeetings(meetings)

	want := []string{"first", "second", "third"}
	for i, id := range want {
		if meetings[i].ID.String() != id {
			t.Fatalf("tie order[%d] = %q, want %q", i, meetings[i].ID.String(), id)
		}
	}
}
