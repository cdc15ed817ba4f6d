// Package research turns search results handed over by the search
// collaborator into research text for the prompt templates.
package research

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SearchResult is a single result produced by the external search step.
type SearchResult struct {
	Title         string `json:"title" yaml:"title"`
	URL           string `json:"url" yaml:"url"`
	Snippet       string `json:"snippet" yaml:"snippet"`
	Content       string `json:"content,omitempty" yaml:"content,omitempty"`
	SearchKeyword string `json:"searchKeyword" yaml:"searchKeyword"`
}

// KeywordOf returns the first non-blank search keyword in results.
func KeywordOf(results []SearchResult) string {
	for _, r := range results {
		if kw := strings.TrimSpace(r.SearchKeyword); kw != "" {
			return kw
		}
	}
	return ""
}

// Equal reports whether two result sequences are identical, order included.
func Equal(a, b []SearchResult) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// LoadResults reads a results file written by the search collaborator.
// JSON is used for .json files and YAML for .yaml/.yml. The file may hold a
// bare list or an object with a "results" list.
func LoadResults(path string) ([]SearchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	case ".json", "":
		return decodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported results file extension %q", filepath.Ext(path))
	}
}

type envelope struct {
	Results []SearchResult `json:"results" yaml:"results"`
}

func decodeJSON(data []byte) ([]SearchResult, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("failed to parse results JSON: %w", err)
		}
		return env.Results, nil
	}

	var results []SearchResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse results JSON: %w", err)
	}
	return results, nil
}

func decodeYAML(data []byte) ([]SearchResult, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse results YAML: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.MappingNode {
		var env envelope
		if err := root.Decode(&env); err != nil {
			return nil, fmt.Errorf("failed to decode results YAML: %w", err)
		}
		return env.Results, nil
	}

	var results []SearchResult
	if err := root.Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode results YAML: %w", err)
	}
	return results, nil
}
