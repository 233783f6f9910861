// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/coredev/internal/contract"
	"github.com/huangsam/coredev/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalysis prints core developer results using the configured output format.
func (ow *OutWriter) WriteAnalysis(result *schema.AnalysisResult, cfg *contract.Config) error {
	return WriteAnalysisResult(result, cfg)
}

// WriteAliases prints alias groups using the configured output format.
func (ow *OutWriter) WriteAliases(groups []schema.AliasGroup, cfg *contract.Config) error {
	return WriteAliases(groups, cfg)
}
