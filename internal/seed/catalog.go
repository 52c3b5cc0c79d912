// Package seed loads categories and demo content for development databases.
package seed

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CategoryEntry is one category in a catalog file.
type CategoryEntry struct {
	Name   string `yaml:"name"`
	Active *bool  `yaml:"active"`
}

// IsActive defaults to true when the file leaves it out.
func (c CategoryEntry) IsActive() bool {
	return c.Active == nil || *c.Active
}

// Catalog is the YAML document read by the seed command.
type Catalog struct {
	Categories []CategoryEntry `yaml:"categories"`
}

// DefaultCatalog is used when no catalog file is given.
var DefaultCatalog = Catalog{
	Categories: []CategoryEntry{
		{Name: "Technology"},
		{Name: "Travel"},
		{Name: "Food"},
		{Name: "Lifestyle"},
		{Name: "Health"},
		{Name: "Business"},
		{Name: "Education"},
		{Name: "Entertainment"},
	},
}

// LoadCatalog reads and validates a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(raw)
}

// ParseCatalog decodes a catalog document. Names are trimmed and must be unique.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Categories) == 0 {
		return nil, errors.New("catalog has no categories")
	}

	seen := make(map[string]struct{}, len(c.Categories))
	for i := range c.Categories {
		name := strings.TrimSpace(c.Categories[i].Name)
		if name == "" {
			return nil, fmt.Errorf("category %d has no name", i+1)
		}
		if len(name) > 100 {
			return nil, fmt.Errorf("category %q is longer than 100 characters", name)
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("category %q is listed twice", name)
		}
		seen[key] = struct{}{}
		c.Categories[i].Name = name
	}
	return &c, nil
}
