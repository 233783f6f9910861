package schema

import "time"

// Batch is the half-open window [Start, End) of commits analyzed together.
// The last batch of a run also holds every later commit.
type Batch struct {
	Index   int            `json:"index"`
	Start   time.Time      `json:"start"`
	End     time.Time      `json:"end"`
	Commits []CommitRecord `json:"-"`
}

// AuthorActivity summarizes one author's commits inside a batch.
type AuthorActivity struct {
	Author               string    `json:"author"`
	CommitCount          int       `json:"commit_count"`
	SponsoredCommitCount int       `json:"sponsored_commit_count"`
	Earliest             time.Time `json:"earliest"`
	Latest               time.Time `json:"latest"`
	ActiveDays           int       `json:"active_days"`
	Sponsored            bool      `json:"sponsored"`
	Experienced          bool      `json:"experienced"`
}

// TimezoneActivity counts commits and authors per UTC offset.
type TimezoneActivity struct {
	Offset      int      `json:"offset_seconds"`
	CommitCount int      `json:"commit_count"`
	Authors     []string `json:"authors"`
}
