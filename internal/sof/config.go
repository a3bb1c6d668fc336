package sof

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed patterns.yml
var defaultPatterns []byte

//go:embed events.yml
var defaultOntology []byte

// LabelSet is an ordered mapping of a key to its synonyms, as read from YAML.
type LabelSet struct {
	Keys     []string
	Synonyms map[string][]string
}

// Get returns the synonyms for key.
func (l *LabelSet) Get(key string) []string {
	return l.Synonyms[key]
}

// Len returns the number of keys.
func (l *LabelSet) Len() int {
	return len(l.Keys)
}

// ParseLabelSet decodes a YAML mapping of key to list of strings, keeping
// the key order of the document.
func ParseLabelSet(data []byte) (*LabelSet, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("sof.ParseLabelSet: %w", err)
	}
	set := &LabelSet{Synonyms: map[string][]string{}}
	if len(root.Content) == 0 {
		return set, nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("sof.ParseLabelSet: expected a mapping, got %v", mapping.Tag)
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		var values []string
		if err := mapping.Content[i+1].Decode(&values); err != nil {
			return nil, fmt.Errorf("sof.ParseLabelSet: key %s: %w", key, err)
		}
		if _, seen := set.Synonyms[key]; !seen {
			set.Keys = append(set.Keys, key)
		}
		set.Synonyms[key] = values
	}
	return set, nil
}

// LoadLabelSet reads a label set from path, or parses fallback when path is empty.
func LoadLabelSet(path string, fallback []byte) (*LabelSet, error) {
	if path == "" {
		return ParseLabelSet(fallback)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sof.LoadLabelSet: %w", err)
	}
	return ParseLabelSet(data)
}

// LoadPatterns loads business field label synonyms. An empty path uses the
// built-in set.
func LoadPatterns(path string) (*LabelSet, error) {
	return LoadLabelSet(path, defaultPatterns)
}

// LoadOntology loads the event ontology. An empty path uses the built-in set.
func LoadOntology(path string) (*LabelSet, error) {
	return LoadLabelSet(path, defaultOntology)
}
