package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one converted file in the output manifest.
type ManifestEntry struct {
	Input    string `json:"input"`
	Output   string `json:"output"`
	Vertices int    `json:"vertices"`
	Indices  int    `json:"indices"`
	Error    string `json:"error,omitempty"`
}

// WriteManifest writes manifest.json to the output directory.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Input:    r.Input,
			Output:   r.Output,
			Vertices: r.Vertices,
			Indices:  r.Indices,
			Error:    r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
