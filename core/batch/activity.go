package batch

import (
	"cmp"
	"slices"

	"github.com/huangsam/coredev/internal/contract"
	"github.com/huangsam/coredev/schema"
)

// Working hours used by the sponsorship heuristic, inclusive.
const (
	workdayStartHour = 9
	workdayEndHour   = 17
)

// isSponsoredCommit reports whether a commit was made during local working
// hours from a non-UTC timezone.
func isSponsoredCommit(c schema.CommitRecord) bool {
	_, offset := c.CommittedAt.Zone()
	hour := c.CommittedAt.Hour()
	return offset != 0 && hour >= workdayStartHour && hour <= workdayEndHour
}

// Activity builds the per-author activity table of a batch.
func Activity(b schema.Batch) map[string]schema.AuthorActivity {
	table := make(map[string]schema.AuthorActivity)
	for _, c := range b.Commits {
		a, ok := table[c.Author]
		if !ok {
			a = schema.AuthorActivity{Author: c.Author, Earliest: c.CommittedAt, Latest: c.CommittedAt}
		}
		a.CommitCount++
		if isSponsoredCommit(c) {
			a.SponsoredCommitCount++
		}
		if c.CommittedAt.Before(a.Earliest) {
			a.Earliest = c.CommittedAt
		}
		if c.CommittedAt.After(a.Latest) {
			a.Latest = c.CommittedAt
		}
		table[c.Author] = a
	}
	for author, a := range table {
		a.ActiveDays = wholeDays(a.Latest.Sub(a.Earliest)) + 1
		a.Sponsored = float64(a.SponsoredCommitCount)/float64(a.CommitCount) >= contract.SponsoredRatio
		a.Experienced = a.ActiveDays >= contract.ExperienceDays
		table[author] = a
	}
	return table
}

// SortedActivity returns the activity table ordered by author.
func SortedActivity(table map[string]schema.AuthorActivity) []schema.AuthorActivity {
	out := make([]schema.AuthorActivity, 0, len(table))
	for _, a := range table {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b schema.AuthorActivity) int { return cmp.Compare(a.Author, b.Author) })
	return out
}

// Timezones counts commits and distinct authors per UTC offset, ordered by offset.
func Timezones(b schema.Batch) []schema.TimezoneActivity {
	byOffset := map[int]*schema.TimezoneActivity{}
	seen := map[int]map[string]struct{}{}
	for _, c := range b.Commits {
		_, offset := c.CommittedAt.Zone()
		tz, ok := byOffset[offset]
		if !ok {
			tz = &schema.TimezoneActivity{Offset: offset}
			byOffset[offset] = tz
			seen[offset] = map[string]struct{}{}
		}
		tz.CommitCount++
		if _, dup := seen[offset][c.Author]; !dup {
			seen[offset][c.Author] = struct{}{}
			tz.Authors = append(tz.Authors, c.Author)
		}
	}
	out := make([]schema.TimezoneActivity, 0, len(byOffset))
	for _, tz := range byOffset {
		slices.Sort(tz.Authors)
		out = append(out, *tz)
	}
	slices.SortFunc(out, func(a, b schema.TimezoneActivity) int { return cmp.Compare(a.Offset, b.Offset) })
	return out
}
