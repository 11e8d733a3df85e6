// Package catalog loads and stores the category list the extractor resolves
// against.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

// ErrInvalidCatalog is returned when a catalog fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the on-disk category list.
type Catalog struct {
	Categories []common.Category `yaml:"categories"`
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save validates c and writes it as YAML.
func Save(path string, c *Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}

// Validate checks that ids are present and unique and that every direction
// is known.
func (c *Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Categories))
	for i, cat := range c.Categories {
		id := strings.TrimSpace(cat.ID)
		if id == "" {
			return fmt.Errorf("%w: category %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, id)
		}
		seen[id] = struct{}{}
		if _, err := common.ParseDirection(string(cat.Direction)); err != nil {
			return fmt.Errorf("%w: category %q: %w", ErrInvalidCatalog, id, err)
		}
	}
	return nil
}

// ByDirection returns the categories of one direction in catalog order.
func (c *Catalog) ByDirection(dir common.Direction) []common.Category {
	var out []common.Category
	for _, cat := range c.Categories {
		if cat.Direction == dir {
			out = append(out, cat)
		}
	}
	return out
}

// Find returns the category with the given id.
func (c *Catalog) Find(id string) (common.Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return common.Category{}, false
}

// Default returns the built-in catalog with Egyptian Arabic display names.
func Default() *Catalog {
	expense := func(id, name string) common.Category {
		return common.Category{ID: id, CanonicalName: id, LocalizedName: name, Direction: common.DirectionExpense}
	}
	income := func(id, name string) common.Category {
		return common.Category{ID: id, CanonicalName: id, LocalizedName: name, Direction: common.DirectionIncome}
	}

	return &Catalog{Categories: []common.Category{
		expense("food", "أكل وشرب"),
		expense("transport", "مواصلات"),
		expense("shopping", "مشتريات"),
		expense("bills", "فواتير"),
		expense("housing", "سكن"),
		expense("health", "صحة"),
		expense("education", "تعليم"),
		expense("entertainment", "خروج وترفيه"),
		expense("gifts", "هدايا"),
		expense("charity", "صدقات"),
		expense(common.FallbackExpenseCategoryID, "مصاريف تانية"),
		income("salary", "مرتب"),
		income("freelance", "شغل حر"),
		income("business", "بيزنس"),
		income("investment", "استثمار"),
		income("rental", "إيجار"),
		income("refund", "فلوس راجعة"),
		income(common.FallbackIncomeCategoryID, "دخل تاني"),
	}}
}
