package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/irgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry creates transforms from string parameters, for CLI use.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ProfileTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("set_regime", createSetRegime)
	registry.Register("set_expenses", decimalFactory("set_expenses", "amount", func(d decimal.Decimal) ProfileTransform {
		return &SetExpenses{Amount: d}
	}))
	registry.Register("scale_revenue", decimalFactory("scale_revenue", "factor", func(d decimal.Decimal) ProfileTransform {
		return &ScaleRevenue{Factor: d}
	}))
	registry.Register("set_retirement", decimalFactory("set_retirement", "amount", func(d decimal.Decimal) ProfileTransform {
		return &SetRetirementContribution{Amount: d}
	}))
	registry.Register("add_donations", decimalFactory("add_donations", "amount", func(d decimal.Decimal) ProfileTransform {
		return &AddDonations{Amount: d}
	}))
	registry.Register("set_parts", decimalFactory("set_parts", "parts", func(d decimal.Decimal) ProfileTransform {
		return &SetParts{Parts: d}
	}))

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ProfileTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}
	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "set_expenses:amount=12000"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ProfileTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func createSetRegime(params map[string]string) (ProfileTransform, error) {
	label, ok := params["regime"]
	if !ok {
		return nil, fmt.Errorf("set_regime requires 'regime' parameter")
	}
	regime, err := domain.ParseRegime(label)
	if err != nil {
		return nil, err
	}
	return &SetRegime{Regime: regime}, nil
}

// decimalFactory builds a factory for transforms taking one decimal parameter.
func decimalFactory(name, param string, build func(decimal.Decimal) ProfileTransform) TransformFactory {
	return func(params map[string]string) (ProfileTransform, error) {
		raw, ok := params[param]
		if !ok {
			return nil, fmt.Errorf("%s requires '%s' parameter", name, param)
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", param, err)
		}
		return build(d), nil
	}
}
