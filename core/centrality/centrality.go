// Package centrality computes the per-author graph metrics, the community
// structure and the core developers of a collaboration graph.
package centrality

import (
	"context"

	"github.com/huangsam/coredev/core/graph"
	"github.com/huangsam/coredev/internal/contract"
	"github.com/huangsam/coredev/schema"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("coredev.centrality")

// Analyze computes the centrality report of g. Closeness, betweenness and
// community detection run concurrently; g must not be modified meanwhile.
// Degenerate graphs produce zero-valued reports. The only error is the
// cancellation of ctx.
func Analyze(ctx context.Context, g *graph.Graph, signal schema.Signal) (schema.CentralityReport, error) {
	ctx, span := tracer.Start(ctx, "centrality.Analyze", trace.WithAttributes(
		attribute.String("signal", string(signal)),
		attribute.Int("nodes", g.NodeCount()),
		attribute.Int("edges", g.EdgeCount()),
	))
	defer span.End()

	var (
		closeness   map[string]float64
		betweenness map[string]float64
		parts       [][]string
		q           float64
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := egCtx.Err(); err != nil {
			return err
		}
		closeness = closenessCentrality(g)
		return nil
	})
	eg.Go(func() error {
		if err := egCtx.Err(); err != nil {
			return err
		}
		betweenness = betweennessCentrality(g)
		return nil
	})
	eg.Go(func() error {
		if err := egCtx.Err(); err != nil {
			return err
		}
		parts = greedyModularity(g)
		q = modularity(g, parts)
		return nil
	})
	if err := eg.Wait(); err != nil {
		span.RecordError(err)
		return schema.CentralityReport{}, err
	}

	if g.EdgeCount() == 0 && g.NodeCount() > 0 {
		contract.Logger().WithFields(logrus.Fields{
			"signal":  signal,
			"authors": g.NodeCount(),
		}).Debug("Graph has no edges, no communities detected")
	}

	report := buildReport(g, signal, degreeCentrality(g), closeness, betweenness)
	report.Communities = communities(g, parts)
	report.Modularity = q
	span.SetAttributes(attribute.Int("core", report.NumberHighCentrality))
	return report, nil
}

// buildReport assembles author rows and the truck factor numbers.
func buildReport(g *graph.Graph, signal schema.Signal, degree, closeness, betweenness map[string]float64) schema.CentralityReport {
	report := schema.CentralityReport{
		Signal:         signal,
		Density:        density(g),
		Authors:        []schema.AuthorCentrality{},
		Communities:    []schema.Community{},
		CoreDevelopers: []string{},
	}

	coreItems, allItems := 0, 0
	for _, a := range g.Authors() {
		row := schema.AuthorCentrality{
			Author:      a,
			Closeness:   clamp01(closeness[a]),
			Betweenness: clamp01(betweenness[a]),
			Degree:      clamp01(degree[a]),
			Items:       g.Items(a),
		}
		row.Core = row.Degree > contract.HighCentralityThreshold
		allItems += row.Items
		if row.Core {
			coreItems += row.Items
			report.CoreDevelopers = append(report.CoreDevelopers, a)
		}
		report.Authors = append(report.Authors, row)
	}

	report.TotalAuthors = len(report.Authors)
	report.NumberHighCentrality = len(report.CoreDevelopers)
	report.TFN = report.TotalAuthors - report.NumberHighCentrality
	if report.TotalAuthors > 0 {
		report.PercentageHighCentrality = float64(report.NumberHighCentrality) / float64(report.TotalAuthors)
	}
	if allItems > 0 {
		report.TFC = float64(coreItems) / float64(allItems) * 100
	}
	return report
}
