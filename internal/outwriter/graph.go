package outwriter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsam/coredev/core/graph"
	"github.com/huangsam/coredev/schema"
)

// GraphFileName is the file name of the graph of one batch and signal.
func GraphFileName(batchIndex int, signal schema.Signal, format schema.GraphFormat) string {
	return fmt.Sprintf("batch_%d_%s.%s", batchIndex, signal, format)
}

// WriteGraph exports g into dir and returns the path of the written file.
// The directory is created when missing.
func WriteGraph(dir string, format schema.GraphFormat, batchIndex int, signal schema.Signal, g *graph.Graph) (string, error) {
	if format == "" {
		format = schema.DOTFormat
	}
	name := fmt.Sprintf("batch_%d_%s", batchIndex, signal)

	var (
		data []byte
		err  error
	)
	switch format {
	case schema.DOTFormat:
		data, err = graph.MarshalDOT(g, name)
	case schema.GraphMLFormat:
		data, err = graph.MarshalGraphML(g, name)
	default:
		return "", fmt.Errorf("unsupported graph format: %s", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode graph %s: %w", name, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, GraphFileName(batchIndex, signal, format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
