// Package schema has the models shared by every part of coredev.
package schema

import "time"

// CommitRecord is an immutable view of a single commit.
type CommitRecord struct {
	Hash        string    `json:"hash"`
	Author      string    `json:"author"` // identity key, rewritten by alias resolution
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CommittedAt time.Time `json:"committed_at"`
	Message     string    `json:"message,omitempty"`
}

// WithAuthor returns a copy of the commit attributed to author.
func (c CommitRecord) WithAuthor(author string) CommitRecord {
	c.Author = author
	return c
}

// AliasMap maps a canonical alias to the raw identifiers it subsumes.
type AliasMap map[string][]string

// Clone returns a deep copy of the alias map.
func (m AliasMap) Clone() AliasMap {
	out := make(AliasMap, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// AliasGroup is one canonical identity and its raw identifiers.
type AliasGroup struct {
	Alias   string   `json:"alias" yaml:"alias"`
	Members []string `json:"members" yaml:"members"`
}

// Participation is a pull request or issue reduced to its participants.
type Participation struct {
	Number       int        `json:"number"`
	CreatedAt    time.Time  `json:"created_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	Participants []string   `json:"participants"`
	CommentCount int        `json:"comment_count"`
	CommitCount  int        `json:"commit_count"`
}

// DurationDays returns the open duration in days, or false when still open.
func (p Participation) DurationDays() (float64, bool) {
	if p.ClosedAt == nil {
		return 0, false
	}
	return p.ClosedAt.Sub(p.CreatedAt).Hours() / 24, true
}

// Release is a published release.
type Release struct {
	Name      string    `json:"name"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// Tag is a git tag resolved to the date of the commit it points at.
type Tag struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}
