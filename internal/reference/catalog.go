// Package reference provides the canonical description of each category,
// used as the comparison text when no job description is supplied.
package reference

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

//go:embed descriptions.yaml
var defaultDescriptions []byte

// DefaultFallback is returned for categories without a reference description.
const DefaultFallback = "No sample description available for this category."

type catalogFile struct {
	Fallback   string `yaml:"fallback"`
	Categories []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"categories"`
}

// Catalog maps categories to reference descriptions. It is read-only after load.
type Catalog struct {
	order        []domain.Category
	descriptions map[domain.Category]string
	fallback     string
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultDescriptions))
}

// LoadFile reads a catalog from a YAML file. An empty path returns the built-in catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference catalog: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Load parses a YAML catalog.
func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode reference catalog: %w", err)
	}

	c := &Catalog{
		descriptions: make(map[domain.Category]string, len(file.Categories)),
		fallback:     file.Fallback,
	}
	if c.fallback == "" {
		c.fallback = DefaultFallback
	}
	for i, entry := range file.Categories {
		name := domain.Category(strings.TrimSpace(entry.Name))
		desc := strings.TrimSpace(entry.Description)
		if name == "" || desc == "" {
			return nil, fmt.Errorf("reference catalog entry %d: name and description are required", i)
		}
		if _, dup := c.descriptions[name]; dup {
			return nil, fmt.Errorf("reference catalog: duplicate category %q", name)
		}
		c.descriptions[name] = desc
		c.order = append(c.order, name)
	}
	return c, nil
}

// Lookup returns the reference description of category.
func (c *Catalog) Lookup(category domain.Category) (string, bool) {
	d, ok := c.descriptions[category]
	return d, ok
}

// Describe returns the reference description of category, or the fallback text.
func (c *Catalog) Describe(category domain.Category) string {
	if d, ok := c.descriptions[category]; ok {
		return d
	}
	return c.fallback
}

// Categories returns the catalog categories in file order.
func (c *Catalog) Categories() []domain.Category {
	out := make([]domain.Category, len(c.order))
	copy(out, c.order)
	return out
}
