package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommitRecordWithAuthor(t *testing.T) {
	original := CommitRecord{Hash: "abc", Author: "jdoe@corp.com"}
	rewritten := original.WithAuthor("jdoe")

	assert.Equal(t, "jdoe", rewritten.Author)
	assert.Equal(t, "jdoe@corp.com", original.Author, "original must not be mutated")
	assert.Equal(t, original.Hash, rewritten.Hash)
}

func TestAliasMapClone(t *testing.T) {
	m := AliasMap{"jdoe": {"a@x.com", "b@x.com"}}
	c := m.Clone()
	c["jdoe"][0] = "changed"

	assert.Equal(t, "a@x.com", m["jdoe"][0])
}

func TestParticipationDurationDays(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	closed := created.Add(36 * time.Hour)

	open := Participation{CreatedAt: created}
	_, ok := open.DurationDays()
	assert.False(t, ok)

	done := Participation{CreatedAt: created, ClosedAt: &closed}
	days, ok := done.DurationDays()
	assert.True(t, ok)
	assert.InDelta(t, 1.5, days, 1e-9)
}

func TestSignalMetricPrefix(t *testing.T) {
	tests := []struct {
		signal Signal
		want   string
	}{
		{CommitSignal, "commitCentrality"},
		{PRSignal, "prCentrality"},
		{IssueSignal, "issueCentrality"},
		{IssuePRSignal, "issuesAndPRsCentrality"},
		{CoreDevSignal, "coreDevCentrality"},
		{Signal("custom"), "customCentrality"},
	}
	for _, tt := range tests {
		t.Run(string(tt.signal), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.signal.MetricPrefix())
		})
	}
}

func TestBatchResultCoreDevelopers(t *testing.T) {
	r := BatchResult{Reports: map[Signal]CentralityReport{
		CommitSignal: {CoreDevelopers: []string{"a", "b"}},
	}}
	assert.Equal(t, []string{"a", "b"}, r.CoreDevelopers(CommitSignal))
	assert.Empty(t, r.CoreDevelopers(PRSignal))
}
