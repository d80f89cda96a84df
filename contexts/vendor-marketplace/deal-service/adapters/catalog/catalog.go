package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"vendorhub/contexts/vendor-marketplace/deal-service/ports"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Static implements ports.Catalog from a YAML document.
type Static struct {
	categories      []ports.Category
	plans           []ports.PricingPlan
	translations    map[string]string
	fallbackMessage string
}

type document struct {
	Categories      []ports.Category    `yaml:"categories"`
	PricingPlans    []ports.PricingPlan `yaml:"pricing_plans"`
	FallbackMessage string              `yaml:"fallback_message"`
	Translations    map[string]string   `yaml:"translations"`
}

// Default loads the catalog embedded in the binary.
func Default() (*Static, error) {
	return Parse(defaultCatalog)
}

// MustDefault is Default for wiring code where the embedded file is trusted.
func MustDefault() *Static {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(raw []byte) (*Static, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(doc.Categories))
	for _, category := range doc.Categories {
		if strings.TrimSpace(category.Slug) == "" {
			return nil, fmt.Errorf("catalog category %q has empty slug", category.Label)
		}
		if _, dup := seen[category.Slug]; dup {
			return nil, fmt.Errorf("catalog category %q declared twice", category.Slug)
		}
		seen[category.Slug] = struct{}{}
	}

	translations := make(map[string]string, len(doc.Translations))
	for key, value := range doc.Translations {
		translations[normalizeKey(key)] = value
	}
	return &Static{
		categories:      doc.Categories,
		plans:           doc.PricingPlans,
		translations:    translations,
		fallbackMessage: doc.FallbackMessage,
	}, nil
}

func (c *Static) Categories() []ports.Category {
	return append([]ports.Category(nil), c.categories...)
}

func (c *Static) PricingPlans() []ports.PricingPlan {
	return append([]ports.PricingPlan(nil), c.plans...)
}

func (c *Static) HasCategory(slug string) bool {
	for _, category := range c.categories {
		if category.Slug == slug {
			return true
		}
	}
	return false
}

func (c *Static) Translate(codeOrMessage string) string {
	if text, ok := c.translations[normalizeKey(codeOrMessage)]; ok {
		return text
	}
	return c.fallbackMessage
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
