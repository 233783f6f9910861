package schema

import "time"

// AuthorCentrality holds the per-author graph metrics of one report.
type AuthorCentrality struct {
	Author      string  `json:"author"`
	Closeness   float64 `json:"closeness"`
	Betweenness float64 `json:"betweenness"`
	Degree      float64 `json:"centrality"`
	Items       int     `json:"items"`
	Core        bool    `json:"core"`
}

// Community is a modularity community of the collaboration graph.
type Community struct {
	Index       int      `json:"index"`
	Members     []string `json:"members"`
	AuthorCount int      `json:"author_count"`
	ItemCount   int      `json:"item_count"`
}

// CentralityReport is the analysis of one (batch, signal) graph.
type CentralityReport struct {
	Signal                   Signal             `json:"signal"`
	BatchIndex               int                `json:"batch_index"`
	Authors                  []AuthorCentrality `json:"authors"`
	Density                  float64            `json:"density"`
	Modularity               float64            `json:"modularity"`
	Communities              []Community        `json:"communities"`
	CoreDevelopers           []string           `json:"core_developers"`
	NumberHighCentrality     int                `json:"number_high_centrality_authors"`
	PercentageHighCentrality float64            `json:"percentage_high_centrality_authors"`
	TotalAuthors             int                `json:"total_authors"`
	TFN                      int                `json:"tfn"`
	TFC                      float64            `json:"tfc"`
}

// Metric is a single named value emitted for a batch.
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// MetricStats summarizes a series of values.
type MetricStats struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Stdev float64 `json:"stdev"`
}

// BatchResult gathers everything computed for one batch.
type BatchResult struct {
	Batch     Batch                       `json:"batch"`
	Reports   map[Signal]CentralityReport `json:"reports"`
	Activity  []AuthorActivity            `json:"activity"`
	Timezones []TimezoneActivity          `json:"timezones"`
	Metrics   []Metric                    `json:"metrics"`
	Stats     []MetricStats               `json:"stats"`
}

// CoreDevelopers returns the core developers of the given signal.
func (r BatchResult) CoreDevelopers(s Signal) []string {
	return r.Reports[s].CoreDevelopers
}

// AnalysisResult is the outcome of a full run.
type AnalysisResult struct {
	RepoPath string        `json:"repo_path"`
	Aliases  []AliasGroup  `json:"aliases"`
	Batches  []BatchResult `json:"batches"`
	Duration time.Duration `json:"duration_ns"`
}
