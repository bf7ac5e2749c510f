package scraper

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var sourcesYAML []byte

// DefaultSources returns the built-in source list in scrape order.
func DefaultSources() ([]Source, error) {
	return ParseSources(sourcesYAML)
}

// ParseSources decodes a YAML list of sources and validates each one.
func ParseSources(data []byte) ([]Source, error) {
	var sources []Source
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("unmarshalling sources: %w", err)
	}
	for _, s := range sources {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return sources, nil
}
