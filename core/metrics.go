package core

import (
	"time"

	"github.com/huangsam/coredev/core/batch"
	"github.com/huangsam/coredev/schema"
	"gonum.org/v1/gonum/stat"
)

// mark is a release or tag together with the commits made since the previous one.
type mark struct {
	Name    string
	At      time.Time
	Commits int
}

// batchInputs holds the dated inputs that fall inside one batch.
type batchInputs struct {
	PRs      []schema.Participation
	Issues   []schema.Participation
	Releases []mark
	Tags     []mark
}

// countCommitsBetween sets the commit count of each mark to the commits made
// in [previous mark, mark). The first mark takes every earlier commit.
// Both times and marks must be sorted ascending.
func countCommitsBetween(times []time.Time, marks []mark) {
	j := 0
	for i := range marks {
		n := 0
		for j < len(times) && times[j].Before(marks[i].At) {
			n++
			j++
		}
		marks[i].Commits = n
	}
}

// batchMetrics builds the flat metric rows of one batch.
func batchMetrics(b schema.Batch, activity map[string]schema.AuthorActivity, timezones []schema.TimezoneActivity,
	in batchInputs, reports map[schema.Signal]schema.CentralityReport,
) []schema.Metric {
	sponsored, experienced := 0, 0
	for _, a := range activity {
		if a.Sponsored {
			sponsored++
		}
		if a.Experienced {
			experienced++
		}
	}
	daysActive := batch.DaysActive(b)

	fn := 0.0
	if daysActive > 0 {
		fn = float64(len(in.Tags)) / float64(daysActive) * 100
	}

	prComments, prCommits := 0, 0
	for _, pr := range in.PRs {
		prComments += pr.CommentCount
		prCommits += pr.CommitCount
	}
	issueComments := 0
	for _, issue := range in.Issues {
		issueComments += issue.CommentCount
	}

	metrics := []schema.Metric{
		{Name: "AuthorCount", Value: float64(len(activity))},
		{Name: "DaysActive", Value: float64(daysActive)},
		{Name: "CommitCount", Value: float64(len(b.Commits))},
		{Name: "SponsoredAuthorCount", Value: float64(sponsored)},
		{Name: "PercentageSponsoredAuthors", Value: ratio(sponsored, len(activity))},
		{Name: "ExperiencedAuthorCount", Value: float64(experienced)},
		{Name: "PercentageExperiencedAuthors", Value: ratio(experienced, len(activity))},
		{Name: "TimezoneCount", Value: float64(len(timezones))},
		{Name: "BusFactorNumber", Value: float64(batch.BusFactor(activity))},
		{Name: "NumberPRs", Value: float64(len(in.PRs))},
		{Name: "NumberIssues", Value: float64(len(in.Issues))},
		{Name: "NumberReleases", Value: float64(len(in.Releases))},
		{Name: "NumberTags", Value: float64(len(in.Tags))},
		{Name: "FN", Value: fn},
		{Name: "PRDuration", Value: mean(durations(in.PRs))},
		{Name: "IssueDuration", Value: mean(durations(in.Issues))},
		{Name: "PRCommentsCount", Value: float64(prComments)},
		{Name: "PRCommitsCount", Value: float64(prCommits)},
		{Name: "IssueCommentsCount", Value: float64(issueComments)},
	}

	for _, s := range schema.AllSignals {
		r, ok := reports[s]
		if !ok {
			continue
		}
		prefix := s.MetricPrefix()
		metrics = append(metrics,
			schema.Metric{Name: prefix + "_Density", Value: r.Density},
			schema.Metric{Name: prefix + "_Modularity", Value: r.Modularity},
			schema.Metric{Name: prefix + "_Community Count", Value: float64(len(r.Communities))},
			schema.Metric{Name: prefix + "_TFN", Value: float64(r.TFN)},
			schema.Metric{Name: prefix + "_TFC", Value: r.TFC},
			schema.Metric{Name: prefix + "_NumberHighCentralityAuthors", Value: float64(r.NumberHighCentrality)},
			schema.Metric{Name: prefix + "_PercentageHighCentralityAuthors", Value: r.PercentageHighCentrality},
		)
	}
	return metrics
}

// batchStats summarizes the distributions of one batch.
func batchStats(activity []schema.AuthorActivity, timezones []schema.TimezoneActivity,
	in batchInputs, reports map[schema.Signal]schema.CentralityReport,
) []schema.MetricStats {
	authorCommits := make([]float64, len(activity))
	for i, a := range activity {
		authorCommits[i] = float64(a.CommitCount)
	}
	tzCommits := make([]float64, len(timezones))
	tzAuthors := make([]float64, len(timezones))
	for i, tz := range timezones {
		tzCommits[i] = float64(tz.CommitCount)
		tzAuthors[i] = float64(len(tz.Authors))
	}

	stats := []schema.MetricStats{
		summarize("AuthorCommitCount", authorCommits),
		summarize("TimezoneCommitCount", tzCommits),
		summarize("TimezoneAuthorCount", tzAuthors),
		summarize("PRParticipantsCount", participantCounts(in.PRs)),
		summarize("IssueParticipantCount", participantCounts(in.Issues)),
		summarize("PRDuration", durations(in.PRs)),
		summarize("IssueDuration", durations(in.Issues)),
		summarize("PRCommentsCount", commentCounts(in.PRs)),
		summarize("IssueCommentsCount", commentCounts(in.Issues)),
		summarize("ReleaseCommitCount", markCommits(in.Releases)),
		summarize("TagCommitCount", markCommits(in.Tags)),
	}

	for _, s := range schema.AllSignals {
		r, ok := reports[s]
		if !ok {
			continue
		}
		closeness := make([]float64, len(r.Authors))
		betweenness := make([]float64, len(r.Authors))
		degree := make([]float64, len(r.Authors))
		for i, a := range r.Authors {
			closeness[i] = a.Closeness
			betweenness[i] = a.Betweenness
			degree[i] = a.Degree
		}
		prefix := s.MetricPrefix()
		stats = append(stats,
			summarize(prefix+"_Closeness", closeness),
			summarize(prefix+"_Betweenness", betweenness),
			summarize(prefix+"_Centrality", degree),
		)
	}
	return stats
}

// summarize returns count, mean and sample standard deviation of values.
// The deviation of fewer than two values is zero.
func summarize(name string, values []float64) schema.MetricStats {
	s := schema.MetricStats{Name: name, Count: len(values)}
	switch len(values) {
	case 0:
		return s
	case 1:
		s.Mean = values[0]
		return s
	}
	s.Mean, s.Stdev = stat.MeanStdDev(values, nil)
	return s
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// durations returns the open duration in days of every closed item.
func durations(items []schema.Participation) []float64 {
	var out []float64
	for _, p := range items {
		if d, ok := p.DurationDays(); ok {
			out = append(out, d)
		}
	}
	return out
}

func participantCounts(items []schema.Participation) []float64 {
	out := make([]float64, len(items))
	for i, p := range items {
		out[i] = float64(len(p.Participants))
	}
	return out
}

func commentCounts(items []schema.Participation) []float64 {
	out := make([]float64, len(items))
	for i, p := range items {
		out[i] = float64(p.CommentCount)
	}
	return out
}

func markCommits(marks []mark) []float64 {
	out := make([]float64, len(marks))
	for i, m := range marks {
		out[i] = float64(m.Commits)
	}
	return out
}
