package requirements

import (
	"sync"

	"degree-planner/internal/catalog"
	"degree-planner/internal/domain"
)

// Cache memoizes normalized requirements per major. It is safe for concurrent
// use; callers must treat the returned slices as read-only.
type Cache struct {
	cat *catalog.Catalog

	mu      sync.Mutex
	byMajor map[string][]domain.Requirement
}

func NewCache(cat *catalog.Catalog) *Cache {
	return &Cache{cat: cat, byMajor: map[string][]domain.Requirement{}}
}

// Get resolves the major and returns its requirements, normalizing the roadmap
// on first use.
func (c *Cache) Get(major string) ([]domain.Requirement, catalog.Major, error) {
	m, err := c.cat.ResolveMajor(major)
	if err != nil {
		return nil, catalog.Major{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if reqs, ok := c.byMajor[m.Slug]; ok {
		return reqs, m, nil
	}
	entries, m, err := c.cat.Roadmap(m.Name)
	if err != nil {
		return nil, m, err
	}
	reqs := Normalize(entries)
	c.byMajor[m.Slug] = reqs
	return reqs, m, nil
}

// Len reports how many majors are cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byMajor)
}
