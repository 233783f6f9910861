package alias

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/huangsam/coredev/internal/contract"
	"github.com/huangsam/coredev/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func commitsBy(authors ...string) []schema.CommitRecord {
	base := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	commits := make([]schema.CommitRecord, len(authors))
	for i, a := range authors {
		commits[i] = schema.CommitRecord{
			Hash:        "sha-" + a,
			Author:      a,
			CommittedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return commits
}

func groupOf(m schema.AliasMap, id string) []string {
	for _, members := range m {
		if slices.Contains(members, id) {
			return members
		}
	}
	return nil
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "jdoe@corp.com", "jdoe@corp.com", 0},
		{"same local part", "jdoe@corp.com", "jdoe@home.org", 0},
		{"dotted", "jdoe@corp.com", "j.doe@corp.com", 0.2},
		{"no at sign", "alice", "alicia", 1 - 4.0/6.0},
		{"disjoint", "abc", "xyz", 1},
		{"both empty", "", "", 0},
		{"last at wins", "a@b@c.com", "a@b", 1 - 1.0/3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Distance(tt.a, tt.b), 1e-9)
			assert.InDelta(t, Distance(tt.b, tt.a), Distance(tt.a, tt.b), 1e-9)
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name        string
		authors     []string
		logins      map[string]string
		maxDistance float64
		want        schema.AliasMap
	}{
		{
			name:        "empty history",
			maxDistance: 0.75,
			want:        schema.AliasMap{},
		},
		{
			name:        "dotted email merged without logins",
			authors:     []string{"jdoe@corp.com", "j.doe@corp.com"},
			maxDistance: 2,
			want:        schema.AliasMap{"jdoe@corp.com": {"jdoe@corp.com", "j.doe@corp.com"}},
		},
		{
			name:        "grouped by login",
			authors:     []string{"a@work.com", "zz@home.org"},
			logins:      map[string]string{"a@work.com": "alice", "zz@home.org": "alice"},
			maxDistance: 0,
			want:        schema.AliasMap{"alice": {"a@work.com", "zz@home.org"}},
		},
		{
			name:        "login-less joins assigned identifier",
			authors:     []string{"alice@work.com", "alice@home.org"},
			logins:      map[string]string{"alice@work.com": "al"},
			maxDistance: 0,
			want:        schema.AliasMap{"al": {"alice@work.com", "alice@home.org"}},
		},
		{
			name:        "login-less joins alias key",
			authors:     []string{"rsmith@corp.com", "bobsmith@gmail.com"},
			logins:      map[string]string{"rsmith@corp.com": "bobsmith"},
			maxDistance: 0.2,
			want:        schema.AliasMap{"bobsmith": {"rsmith@corp.com", "bobsmith@gmail.com"}},
		},
		{
			name:        "assigned identifiers are tried before an identical alias key",
			authors:     []string{"alice@a.com", "x@y.com", "alice"},
			logins:      map[string]string{"alice@a.com": "zed", "x@y.com": "alice"},
			maxDistance: 0,
			want:        schema.AliasMap{"zed": {"alice@a.com", "alice"}, "alice": {"x@y.com"}},
		},
		{
			name:        "login-less identifier equal to an alias key joins it",
			authors:     []string{"x@y.com", "alice"},
			logins:      map[string]string{"x@y.com": "alice"},
			maxDistance: 0,
			want:        schema.AliasMap{"alice": {"x@y.com", "alice"}},
		},
		{
			name:        "unmatched identifiers become singletons",
			authors:     []string{"abc@x.io", "xyz@x.io", "abc@x.io"},
			maxDistance: 0.1,
			want:        schema.AliasMap{"abc@x.io": {"abc@x.io"}, "xyz@x.io": {"xyz@x.io"}},
		},
		{
			name:        "first match wins",
			authors:     []string{"sam@a.io", "sam@b.io", "sam@c.io"},
			maxDistance: 0,
			want:        schema.AliasMap{"sam@a.io": {"sam@a.io", "sam@b.io", "sam@c.io"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExtractor(tt.maxDistance)
			got := e.Extract(commitsBy(tt.authors...), tt.logins)
			assert.Equal(t, tt.want, got)
			assert.True(t, e.Computed())
		})
	}
}

func TestExtract_CoverageAndIdempotence(t *testing.T) {
	authors := []string{
		"jdoe@corp.com", "j.doe@corp.com", "alice@x.io", "Alice Doe",
		"bob@y.io", "robert@y.io", "bob@z.io", "carol",
	}
	logins := map[string]string{"bob@y.io": "bobby", "robert@y.io": "bobby"}
	e := NewExtractor(0.3)
	aliases := e.Extract(commitsBy(authors...), logins)

	counts := map[string]int{}
	for _, members := range aliases {
		for _, m := range members {
			counts[m]++
		}
	}
	for _, a := range authors {
		assert.Equal(t, 1, counts[a], "identifier %s must be in exactly one group", a)
		once := e.Resolve(a)
		assert.Equal(t, once, e.Resolve(once), "resolve must be idempotent for %s", a)
		assert.Contains(t, aliases[once], a)
	}
	assert.Equal(t, "unknown@nowhere", e.Resolve("unknown@nowhere"))
}

func TestExtract_MonotonicInDistance(t *testing.T) {
	authors := []string{"jdoe@corp.com", "j.doe@corp.com", "zed@corp.com", "zedd@home.org", "mallory@q.io"}
	commits := commitsBy(authors...)

	prev := map[string]int{}
	for _, d := range []float64{0, 0.1, 0.25, 0.5} {
		aliases := NewExtractor(d).Extract(commits, nil)
		for _, a := range authors {
			size := len(groupOf(aliases, a))
			assert.GreaterOrEqual(t, size, prev[a], "group of %s shrank at distance %v", a, d)
			prev[a] = size
		}
	}
	assert.Equal(t, 2, prev["jdoe@corp.com"])
	assert.Equal(t, 2, prev["zed@corp.com"])
	assert.Equal(t, 1, prev["mallory@q.io"])
}

func TestReplaceAliases(t *testing.T) {
	commits := commitsBy("jdoe@corp.com", "j.doe@corp.com", "other@corp.com")

	e := NewExtractor(0.25)
	_, err := e.ReplaceAliases(commits)
	require.ErrorIs(t, err, ErrAliasesNotComputed)

	e.Extract(commits, nil)
	seq, err := e.ReplaceAliases(commits)
	require.NoError(t, err)

	var authors []string
	for c := range seq {
		authors = append(authors, c.Author)
	}
	assert.Equal(t, []string{"jdoe@corp.com", "jdoe@corp.com", "other@corp.com"}, authors)
	assert.Equal(t, "j.doe@corp.com", commits[1].Author, "input commits must not be mutated")
}

func TestGroupsAndFile(t *testing.T) {
	e := NewExtractor(0.25)
	e.Extract(commitsBy("jdoe@corp.com", "j.doe@corp.com", "zed@x.io"), nil)
	groups := e.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "jdoe@corp.com", groups[0].Alias)
	assert.Equal(t, "zed@x.io", groups[1].Alias)

	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, WriteFile(path, groups))
	loaded, err := ReadFile(path)
	require.NoError(t, err)

	restored := FromGroups(loaded)
	assert.True(t, restored.Computed())
	assert.Equal(t, e.Aliases(), restored.Aliases())
	assert.Equal(t, "jdoe@corp.com", restored.Resolve("j.doe@corp.com"))

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolveLogins(t *testing.T) {
	ctx := context.Background()
	commits := commitsBy("a@x.io", "b@x.io", "a@x.io", "c@x.io")

	resolver := &contract.MockLoginResolver{}
	resolver.On("ResolveLogin", ctx, "sha-a@x.io").Return("Alice", nil).Once()
	resolver.On("ResolveLogin", ctx, "sha-b@x.io").Return("", errors.New("404")).Once()
	resolver.On("ResolveLogin", ctx, "sha-c@x.io").Return("", nil).Once()

	logins, err := ResolveLogins(ctx, commits, resolver)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a@x.io": "alice"}, logins)
	resolver.AssertExpectations(t)
}

func TestResolveLogins_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := &contract.MockLoginResolver{}
	_, err := ResolveLogins(ctx, commitsBy("a@x.io"), resolver)
	assert.ErrorIs(t, err, context.Canceled)
	resolver.AssertNotCalled(t, "ResolveLogin", mock.Anything, mock.Anything)
}

func TestResolveLogins_NilResolver(t *testing.T) {
	logins, err := ResolveLogins(context.Background(), commitsBy("a@x.io"), nil)
	require.NoError(t, err)
	assert.Empty(t, logins)
}
