// Package seed loads catalogue files and writes them to the store.
package seed

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	"bolpur-mart/internal/model"
	"bolpur-mart/internal/timeslot"

	"gopkg.in/yaml.v3"
)

// Catalog is the content of one seed file.
type Catalog struct {
	Categories []model.Category      `yaml:"categories"`
	Products   []model.Product       `yaml:"products"`
	TimeRules  model.TimeRulesConfig `yaml:"timeRules"`
}

// Parse decodes a YAML catalogue. Gzipped input is detected by its magic bytes.
func Parse(r io.Reader) (*Catalog, error) {
	br := bufio.NewReader(r)

	var src io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	var c Catalog
	if err := yaml.NewDecoder(src).Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return &c, nil
}

// Validate checks ids and fills in category names on product references.
func (c *Catalog) Validate() error {
	names := make(map[string]string, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.ID == "" {
			return fmt.Errorf("category %q has no id", cat.Name)
		}
		if _, dup := names[cat.ID]; dup {
			return fmt.Errorf("duplicate category id %q", cat.ID)
		}
		names[cat.ID] = cat.Name
	}

	seen := make(map[string]struct{}, len(c.Products))
	for i := range c.Products {
		p := &c.Products[i]
		if p.ID == "" {
			return fmt.Errorf("product %q has no id", p.Name)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate product id %q", p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.Price < 0 {
			return fmt.Errorf("product %q has a negative price", p.ID)
		}
		for j, ref := range p.Categories {
			name, ok := names[ref.ID]
			if !ok {
				return fmt.Errorf("product %q references unknown category %q", p.ID, ref.ID)
			}
			if ref.Name == "" {
				p.Categories[j].Name = name
			}
		}
	}

	if len(c.TimeRules) > 0 {
		if err := timeslot.ValidateConfig(c.TimeRules); err != nil {
			return fmt.Errorf("invalid time rules: %w", err)
		}
	}
	return nil
}

// Merge folds catalogs together in order. Entries with the same id are
// replaced by the later catalog; time rules are replaced wholesale.
func Merge(catalogs ...*Catalog) *Catalog {
	out := &Catalog{}
	catIdx := map[string]int{}
	prodIdx := map[string]int{}

	for _, c := range catalogs {
		if c == nil {
			continue
		}
		for _, cat := range c.Categories {
			if i, ok := catIdx[cat.ID]; ok {
				out.Categories[i] = cat
				continue
			}
			catIdx[cat.ID] = len(out.Categories)
			out.Categories = append(out.Categories, cat)
		}
		for _, p := range c.Products {
			if i, ok := prodIdx[p.ID]; ok {
				out.Products[i] = p
				continue
			}
			prodIdx[p.ID] = len(out.Products)
			out.Products = append(out.Products, p)
		}
		if len(c.TimeRules) > 0 {
			out.TimeRules = c.TimeRules
		}
	}
	return out
}
