// Package catalog supplies the category set used by the bill form and the
// per-category breakdown. The catalog is external configuration: a YAML file
// of ordered {id, label} entries, with an embedded default set.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_categories.yaml
var defaultYAML []byte

// Category is one selectable expense category. ID is what bills reference;
// Label is display-only.
type Category struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// Catalog is an ordered, immutable category set.
type Catalog struct {
	categories []Category
	byID       map[string]Category
}

// PrimaryCount is how many categories the form shows before the
// "more categories" toggle.
const PrimaryCount = 5

// Load reads a catalog from a YAML file. An empty path loads the embedded
// defaults.
func Load(path string) (*Catalog, error) {
	data := defaultYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog file: %w", err)
		}
		data = b
	}
	return Parse(data)
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("catalog has no categories")
	}

	byID := make(map[string]Category, len(doc.Categories))
	for i, c := range doc.Categories {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog entry %d has an empty id", i)
		}
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("duplicate category id %q", id)
		}
		if strings.TrimSpace(c.Label) == "" {
			doc.Categories[i].Label = id
		}
		byID[id] = doc.Categories[i]
	}
	return &Catalog{categories: doc.Categories, byID: byID}, nil
}

// All returns the categories in catalog order.
func (c *Catalog) All() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Primary returns the first PrimaryCount categories; the rest hide behind
// the "more" toggle.
func (c *Catalog) Primary() []Category {
	n := PrimaryCount
	if n > len(c.categories) {
		n = len(c.categories)
	}
	out := make([]Category, n)
	copy(out, c.categories[:n])
	return out
}

// Lookup resolves an id, reporting whether the catalog contains it.
func (c *Catalog) Lookup(id string) (Category, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

// Label returns the display name for an id, falling back to the id itself for
// records whose category has since been removed from the catalog.
func (c *Catalog) Label(id string) string {
	if cat, ok := c.byID[id]; ok {
		return cat.Label
	}
	return id
}

// Len returns the number of categories.
func (c *Catalog) Len() int { return len(c.categories) }
