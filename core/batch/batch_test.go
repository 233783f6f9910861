package batch

import (
	"testing"
	"time"

	"github.com/huangsam/coredev/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

func commitAt(author string, ts time.Time) schema.CommitRecord {
	return schema.CommitRecord{Hash: author + ts.String(), Author: author, CommittedAt: ts}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months float64
		want   time.Time
	}{
		{"zero", day0, 0, day0},
		{"one month", day0, 1, time.Date(2023, 2, 1, 12, 0, 0, 0, time.UTC)},
		{"clamped to month end", time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"backwards", time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC), -1, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"across year", time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC), 3, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
		{"fractional", day0, 1.5, time.Date(2023, 2, 16, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(AddMonths(tt.start, tt.months)), "got %v", AddMonths(tt.start, tt.months))
		})
	}
}

func TestSplit(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Split(nil, 3, time.Time{}))
	})

	t.Run("single large batch", func(t *testing.T) {
		commits := []schema.CommitRecord{
			commitAt("a", day0.AddDate(1, 0, 0)),
			commitAt("b", day0),
		}
		batches := Split(commits, 9999, time.Time{})
		require.Len(t, batches, 1)
		assert.Equal(t, day0, batches[0].Start)
		assert.Len(t, batches[0].Commits, 2)
		assert.Equal(t, "a", commits[0].Author, "input order must be preserved")
	})

	t.Run("boundary commit opens a new batch", func(t *testing.T) {
		commits := []schema.CommitRecord{
			commitAt("a", day0),
			commitAt("b", day0.AddDate(0, 1, 0).Add(-time.Second)),
			commitAt("c", day0.AddDate(0, 1, 0)),
			commitAt("d", day0.AddDate(0, 5, 0)),
		}
		batches := Split(commits, 1, time.Time{})
		require.Len(t, batches, 3)
		assert.Len(t, batches[0].Commits, 2)
		assert.Equal(t, day0.AddDate(0, 1, 0), batches[1].Start)
		assert.Equal(t, day0.AddDate(0, 5, 0), batches[2].Start)
		for i, b := range batches {
			assert.Equal(t, i, b.Index)
		}
	})

	t.Run("start date truncates", func(t *testing.T) {
		commits := []schema.CommitRecord{
			commitAt("a", day0),
			commitAt("b", day0.AddDate(0, 2, 0)),
		}
		batches := Split(commits, 1, day0.AddDate(0, 1, 0))
		require.Len(t, batches, 1)
		assert.Equal(t, "b", batches[0].Commits[0].Author)
	})
}

func TestSplit_Contiguity(t *testing.T) {
	var commits []schema.CommitRecord
	for i := range 40 {
		commits = append(commits, commitAt("a", day0.Add(time.Duration(i*i)*37*time.Hour)))
	}
	batches := Split(commits, 0.5, time.Time{})
	require.NotEmpty(t, batches)

	total := 0
	for i, b := range batches {
		total += len(b.Commits)
		if i > 0 {
			assert.True(t, b.Start.After(batches[i-1].Start), "starts must strictly increase")
		}
		for _, c := range b.Commits {
			assert.False(t, c.CommittedAt.Before(b.Start))
			if i+1 < len(batches) {
				assert.True(t, c.CommittedAt.Before(batches[i+1].Start))
			}
			assert.True(t, c.CommittedAt.Before(b.End))
		}
	}
	assert.Equal(t, len(commits), total, "every commit lands in exactly one batch")
}

func TestDates(t *testing.T) {
	batches := []schema.Batch{{Start: day0}, {Start: day0.AddDate(0, 1, 0)}}
	assert.Equal(t, []time.Time{day0, day0.AddDate(0, 1, 0)}, Dates(batches))
}

func TestAssign(t *testing.T) {
	batches := []schema.Batch{
		{Index: 0, Start: day0, End: day0.AddDate(0, 1, 0)},
		{Index: 1, Start: day0.AddDate(0, 3, 0), End: day0.AddDate(0, 4, 0)},
	}
	items := []time.Time{
		day0.Add(-time.Hour),   // before first batch
		day0,                   // batch 0
		day0.AddDate(0, 2, 0),  // gap, still batch 0
		day0.AddDate(0, 3, 0),  // batch 1
		day0.AddDate(0, 4, -1), // batch 1
		day0.AddDate(0, 4, 0),  // after last end, still batch 1
		day0.AddDate(0, 6, 0),  // after last end, still batch 1
	}
	got := Assign(batches, items, func(ts time.Time) time.Time { return ts })
	require.Len(t, got, 2)
	assert.Len(t, got[0], 2)
	assert.Len(t, got[1], 4)

	assert.Empty(t, Assign(nil, items, func(ts time.Time) time.Time { return ts }))
}

func TestAssign_LastBatchIsOpenEnded(t *testing.T) {
	jan := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)
	batches := Split([]schema.CommitRecord{commitAt("a", jan), commitAt("b", mar)}, 1, time.Time{})
	require.Len(t, batches, 2)

	items := []time.Time{
		jan.Add(time.Hour),
		mar.Add(time.Hour),
		time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC),
	}
	got := Assign(batches, items, func(ts time.Time) time.Time { return ts })
	require.Len(t, got, 2)
	assert.Equal(t, items[:1], got[0])
	assert.Equal(t, items[1:], got[1])
}

func TestDaysActive(t *testing.T) {
	assert.Equal(t, 0, DaysActive(schema.Batch{}))
	b := schema.Batch{
		Start:   day0,
		Commits: []schema.CommitRecord{commitAt("a", day0), commitAt("b", day0.AddDate(0, 0, 9))},
	}
	assert.Equal(t, 10, DaysActive(b))
}

func TestBusFactor(t *testing.T) {
	tests := []struct {
		name   string
		counts map[string]int
		want   int
	}{
		{"empty", map[string]int{}, 0},
		{"single author", map[string]int{"a": 5}, 1},
		{"dominant author", map[string]int{"a": 6, "b": 2, "c": 2}, 1},
		{"even split", map[string]int{"a": 3, "b": 3, "c": 3, "d": 3}, 2},
		{"long tail", map[string]int{"a": 4, "b": 3, "c": 2, "d": 1, "e": 1, "f": 1}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activity := map[string]schema.AuthorActivity{}
			for author, n := range tt.counts {
				activity[author] = schema.AuthorActivity{Author: author, CommitCount: n}
			}
			assert.Equal(t, tt.want, BusFactor(activity))
		})
	}
}
