// Package batch splits a commit history into fixed-width time windows and
// summarizes the activity inside each window.
package batch

import (
	"cmp"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/huangsam/coredev/schema"
)

// daysPerFractionalMonth converts the fractional part of a month count.
const daysPerFractionalMonth = 30

// AddMonths adds a possibly fractional number of months to t. Whole months
// move the calendar month and clamp the day to the end of the target month;
// the fraction is added as a multiple of 30 days.
func AddMonths(t time.Time, months float64) time.Time {
	whole := math.Floor(months)
	frac := months - whole
	out := addCalendarMonths(t, int(whole))
	if frac > 0 {
		out = out.Add(time.Duration(frac * daysPerFractionalMonth * 24 * float64(time.Hour)))
	}
	return out
}

func addCalendarMonths(t time.Time, n int) time.Time {
	if n == 0 {
		return t
	}
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	hh, mm, ss := t.Clock()
	return time.Date(first.Year(), first.Month(), min(d, lastDay), hh, mm, ss, t.Nanosecond(), t.Location())
}

// Split sorts commits by time and cuts them into batches of the given width.
// Commits before start are dropped unless start is zero. The first batch
// opens at the first kept commit; a commit at or after the current batch end
// opens a new batch at its own timestamp. The input slice is not modified.
func Split(commits []schema.CommitRecord, months float64, start time.Time) []schema.Batch {
	sorted := make([]schema.CommitRecord, 0, len(commits))
	for _, c := range commits {
		if !start.IsZero() && c.CommittedAt.Before(start) {
			continue
		}
		sorted = append(sorted, c)
	}
	slices.SortStableFunc(sorted, func(a, b schema.CommitRecord) int {
		return a.CommittedAt.Compare(b.CommittedAt)
	})

	var batches []schema.Batch
	for _, c := range sorted {
		n := len(batches)
		if n > 0 && c.CommittedAt.Before(batches[n-1].End) {
			batches[n-1].Commits = append(batches[n-1].Commits, c)
			continue
		}
		batches = append(batches, schema.Batch{
			Index:   n,
			Start:   c.CommittedAt,
			End:     AddMonths(c.CommittedAt, months),
			Commits: []schema.CommitRecord{c},
		})
	}
	return batches
}

// Dates returns the start date of every batch.
func Dates(batches []schema.Batch) []time.Time {
	dates := make([]time.Time, len(batches))
	for i, b := range batches {
		dates[i] = b.Start
	}
	return dates
}

// Assign distributes dated items over batches. Batch i receives the items in
// [Start_i, Start_i+1); the last batch is open-ended and receives every item
// at or after its Start. Items before the first batch are dropped.
func Assign[T any](batches []schema.Batch, items []T, timeOf func(T) time.Time) [][]T {
	out := make([][]T, len(batches))
	if len(batches) == 0 {
		return out
	}
	for _, item := range items {
		ts := timeOf(item)
		if ts.Before(batches[0].Start) {
			continue
		}
		// first batch starting after ts, minus one
		i := sort.Search(len(batches), func(i int) bool {
			return batches[i].Start.After(ts)
		}) - 1
		out[i] = append(out[i], item)
	}
	return out
}

// DaysActive is the number of days from the batch start to its last commit,
// counting both ends. Empty batches have zero active days.
func DaysActive(b schema.Batch) int {
	if len(b.Commits) == 0 {
		return 0
	}
	latest := b.Commits[0].CommittedAt
	for _, c := range b.Commits[1:] {
		if c.CommittedAt.After(latest) {
			latest = c.CommittedAt
		}
	}
	return wholeDays(latest.Sub(b.Start)) + 1
}

// BusFactor is the smallest number of top committers whose commits cover at
// least half of all commits in the activity table.
func BusFactor(activity map[string]schema.AuthorActivity) int {
	counts := make([]int, 0, len(activity))
	total := 0
	for _, a := range activity {
		counts = append(counts, a.CommitCount)
		total += a.CommitCount
	}
	if total == 0 {
		return 0
	}
	slices.SortFunc(counts, func(a, b int) int { return cmp.Compare(b, a) })
	covered := 0
	for i, c := range counts {
		covered += c
		if 2*covered >= total {
			return i + 1
		}
	}
	return len(counts)
}

func wholeDays(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
