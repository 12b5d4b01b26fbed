package transform

import (
	"sort"
	"strings"

	"github.com/rgehrsitz/irgo/internal/compare"
	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ProfileTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates the common what-if templates for a profile
func CreateBuiltInTemplates(p domain.Profile) *TemplateRegistry {
	registry := NewTemplateRegistry()

	if pair, err := compare.Pair(p); err == nil {
		other := pair.Expense
		if p.Person.Regime == pair.Expense {
			other = pair.Flat
		}
		registry.Register(Template{
			Name:        "switch_regime",
			Description: "Declare under the other regime of the same activity family",
			Transforms:  []ProfileTransform{&SetRegime{Regime: other}},
		})
	}

	registry.Register(Template{
		Name:        "revenue_up_10pct",
		Description: "Gross revenue 10% higher",
		Transforms:  []ProfileTransform{&ScaleRevenue{Factor: decimal.RequireFromString("1.1")}},
	})
	registry.Register(Template{
		Name:        "revenue_down_10pct",
		Description: "Gross revenue 10% lower",
		Transforms:  []ProfileTransform{&ScaleRevenue{Factor: decimal.RequireFromString("0.9")}},
	})
	registry.Register(Template{
		Name:        "extra_half_part",
		Description: "One more half part, e.g. a first or second dependent child",
		Transforms:  []ProfileTransform{&SetParts{Parts: p.Person.Parts.Add(decimal.RequireFromString("0.5"))}},
	})
	registry.Register(Template{
		Name:        "no_retirement",
		Description: "No retirement-savings contribution",
		Transforms:  []ProfileTransform{&SetRetirementContribution{Amount: decimal.Zero}},
	})

	return registry
}
