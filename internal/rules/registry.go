package rules

import (
	"strconv"
	"sync"

	"github.com/rgehrsitz/irgo/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Registry loads rule tables on first use and keeps one instance per year for
// its lifetime. Reads after the first load take only a read lock; concurrent
// first loads of the same year share a single read of the source.
type Registry struct {
	source Source

	mu     sync.RWMutex
	tables map[int]*domain.RuleTable
	group  singleflight.Group
}

// NewRegistry creates a registry backed by source.
func NewRegistry(source Source) *Registry {
	return &Registry{
		source: source,
		tables: make(map[int]*domain.RuleTable),
	}
}

// NewDefaultRegistry creates a registry over the embedded rule files.
func NewDefaultRegistry() *Registry {
	return NewRegistry(NewEmbeddedSource())
}

// Load returns the rule table for year. Failures are not cached.
func (r *Registry) Load(year int) (*domain.RuleTable, error) {
	if t, ok := r.cached(year); ok {
		return t, nil
	}

	v, err, _ := r.group.Do(strconv.Itoa(year), func() (any, error) {
		if t, ok := r.cached(year); ok {
			return t, nil
		}
		data, err := r.source.Open(year)
		if err != nil {
			return nil, err
		}
		t, err := Parse(year, data)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.tables[year] = t
		r.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.RuleTable), nil
}

// Years lists the fiscal years available from the source.
func (r *Registry) Years() ([]int, error) {
	return r.source.Years()
}

func (r *Registry) cached(year int) (*domain.RuleTable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[year]
	return t, ok
}
