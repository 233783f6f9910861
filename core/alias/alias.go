// Package alias merges the raw author identifiers of a history into
// canonical aliases using resolved logins and a string similarity fallback.
package alias

import (
	"errors"
	"iter"
	"slices"

	"github.com/huangsam/coredev/schema"
)

// ErrAliasesNotComputed is returned when aliases are used before Extract.
var ErrAliasesNotComputed = errors.New("aliases not yet computed: call Extract first")

// Extractor clusters raw identifiers into aliases. It is not safe for
// concurrent use while Extract runs; afterwards it is read-only.
type Extractor struct {
	maxDistance float64

	aliases  schema.AliasMap   // alias key -> raw identifiers
	keys     []string          // alias keys in creation order
	owner    map[string]string // raw identifier -> alias key
	assigned []string          // raw identifiers in assignment order
	computed bool
}

// NewExtractor returns an Extractor that treats two identifiers as the same
// person when their Distance is at most maxDistance.
func NewExtractor(maxDistance float64) *Extractor {
	e := &Extractor{maxDistance: maxDistance}
	e.reset()
	return e
}

func (e *Extractor) reset() {
	e.aliases = schema.AliasMap{}
	e.keys = nil
	e.owner = map[string]string{}
	e.assigned = nil
	e.computed = false
}

// Extract computes the alias map for the authors of commits. logins maps a
// raw identifier to its hosting-service login; identifiers without an entry
// are matched by similarity. Every raw identifier ends up in exactly one group.
func (e *Extractor) Extract(commits []schema.CommitRecord, logins map[string]string) schema.AliasMap {
	e.reset()

	ids := DistinctAuthors(commits)
	var loginless []string
	for _, id := range ids {
		if login := logins[id]; login != "" {
			e.add(login, id)
			continue
		}
		loginless = append(loginless, id)
	}

	for _, id := range loginless {
		if e.isAssigned(id) {
			continue
		}
		if key, ok := e.matchAssigned(id); ok {
			e.add(key, id)
			continue
		}
		if key, ok := e.matchKey(id); ok {
			e.add(key, id)
			continue
		}
		if other, ok := e.matchLoginless(id, loginless); ok {
			e.add(id, id)
			e.add(id, other)
		}
	}

	for _, id := range ids {
		if !e.isAssigned(id) {
			e.add(id, id)
		}
	}

	e.computed = true
	return e.Aliases()
}

// matchAssigned looks for a similar identifier that already has an alias.
func (e *Extractor) matchAssigned(id string) (string, bool) {
	for _, other := range e.assigned {
		if other != id && e.similar(id, other) {
			return e.owner[other], true
		}
	}
	return "", false
}

// matchKey looks for an alias key that is id itself or similar to it.
func (e *Extractor) matchKey(id string) (string, bool) {
	for _, key := range e.keys {
		if key == id || e.similar(id, key) {
			return key, true
		}
	}
	return "", false
}

// matchLoginless looks for another unassigned identifier to pair with.
func (e *Extractor) matchLoginless(id string, loginless []string) (string, bool) {
	for _, other := range loginless {
		if other == id || e.isAssigned(other) {
			continue
		}
		if e.similar(id, other) {
			return other, true
		}
	}
	return "", false
}

func (e *Extractor) similar(a, b string) bool {
	return Distance(a, b) <= e.maxDistance
}

func (e *Extractor) isAssigned(id string) bool {
	_, ok := e.owner[id]
	return ok
}

// add places id into the alias keyed by key, creating the alias if needed.
func (e *Extractor) add(key, id string) {
	if _, ok := e.aliases[key]; !ok {
		e.keys = append(e.keys, key)
		e.aliases[key] = nil
	}
	if e.isAssigned(id) {
		return
	}
	e.aliases[key] = append(e.aliases[key], id)
	e.owner[id] = key
	e.assigned = append(e.assigned, id)
}

// Resolve returns the canonical alias of id. Alias keys resolve to
// themselves and unknown identifiers are returned unchanged, so Resolve is
// idempotent.
func (e *Extractor) Resolve(id string) string {
	if _, ok := e.aliases[id]; ok {
		return id
	}
	if key, ok := e.owner[id]; ok {
		return key
	}
	return id
}

// ReplaceAliases returns a lazy sequence of commits whose Author is the
// canonical alias. The input slice is not modified.
func (e *Extractor) ReplaceAliases(commits []schema.CommitRecord) (iter.Seq[schema.CommitRecord], error) {
	if !e.computed {
		return nil, ErrAliasesNotComputed
	}
	return func(yield func(schema.CommitRecord) bool) {
		for _, c := range commits {
			if !yield(c.WithAuthor(e.Resolve(c.Author))) {
				return
			}
		}
	}, nil
}

// Aliases returns a copy of the alias map.
func (e *Extractor) Aliases() schema.AliasMap {
	return e.aliases.Clone()
}

// Groups returns the aliases in creation order.
func (e *Extractor) Groups() []schema.AliasGroup {
	groups := make([]schema.AliasGroup, 0, len(e.keys))
	for _, key := range e.keys {
		groups = append(groups, schema.AliasGroup{Alias: key, Members: slices.Clone(e.aliases[key])})
	}
	return groups
}

// Computed reports whether the alias map is available.
func (e *Extractor) Computed() bool {
	return e.computed
}

// FromGroups rebuilds a computed Extractor from previously extracted groups.
// A member listed twice stays with its first group.
func FromGroups(groups []schema.AliasGroup) *Extractor {
	e := NewExtractor(0)
	for _, g := range groups {
		if g.Alias == "" {
			continue
		}
		for _, m := range g.Members {
			e.add(g.Alias, m)
		}
	}
	e.computed = true
	return e
}

// DistinctAuthors returns the authors of commits in discovery order.
func DistinctAuthors(commits []schema.CommitRecord) []string {
	seen := make(map[string]struct{}, len(commits))
	var ids []string
	for _, c := range commits {
		if _, ok := seen[c.Author]; ok {
			continue
		}
		seen[c.Author] = struct{}{}
		ids = append(ids, c.Author)
	}
	return ids
}
