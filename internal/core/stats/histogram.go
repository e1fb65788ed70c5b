// Package stats buckets record-creation timestamps into fixed-size activity
// histograms. All functions are pure: the same inputs always produce the
// same buckets.
package stats

import "time"

const week = 7 * 24 * time.Hour

// Buckets holds the three activity histograms for one record kind.
//
//   - Week counts every input by weekday (0=Sunday .. 6=Saturday),
//     regardless of when it was created.
//   - Month counts only records from the reference month, by week-of-month
//     (bucket 0 = first Monday-started week). A record landing past the
//     fifth bucket is dropped.
//   - Year counts only records from the reference year, by month
//     (0=January .. 11=December).
type Buckets struct {
	Week  [7]int  `json:"week"`
	Month [5]int  `json:"month"`
	Year  [12]int `json:"year"`
}

// StartOfWeek returns the Monday 00:00:00 of t's week, in t's location.
func StartOfWeek(t time.Time) time.Time {
	day := int(t.Weekday())
	if day == 0 {
		day = 7
	}
	if day != 1 {
		t = t.AddDate(0, 0, -(day - 1))
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekOfMonth returns the 1-indexed count of Monday-started weeks elapsed
// between the first day of t's month and t itself. The first of a month that
// falls mid-week belongs to week 1 together with the Monday before it.
func WeekOfMonth(t time.Time) int {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return int(StartOfWeek(t).Sub(StartOfWeek(firstOfMonth))/week) + 1
}

// Collect buckets the given creation timestamps relative to now.
func Collect(created []time.Time, now time.Time) Buckets {
	var b Buckets
	for _, ts := range created {
		if ts.Month() == now.Month() && ts.Year() == now.Year() {
			if w := WeekOfMonth(ts) - 1; w >= 0 && w < len(b.Month) {
				b.Month[w]++
			}
		}
		if ts.Year() == now.Year() {
			b.Year[int(ts.Month())-1]++
		}
		b.Week[int(ts.Weekday())]++
	}
	return b
}
