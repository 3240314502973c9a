package server

import (
	"context"
	"sync"

	"github.com/joppa/joppa/internal/db"
)

// cacheKeyDefaultCompany is the key for the single-tenant default company.
const cacheKeyDefaultCompany = "default"

// companyCache is a keyed in-process cache for company rows. Writes to the
// company profile must invalidate their key; reads outnumber writes heavily
// on the dashboard and public surfaces.
type companyCache struct {
	mu    sync.RWMutex
	byKey map[string]*db.Company
}

func newCompanyCache() *companyCache {
	return &companyCache{byKey: make(map[string]*db.Company)}
}

func (c *companyCache) get(key string) (*db.Company, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	company, ok := c.byKey[key]
	return company, ok
}

func (c *companyCache) set(key string, company *db.Company) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byKey[key] = company
}

func (c *companyCache) invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byKey, key)
}

// defaultCompany resolves the default company through the cache, creating the
// row on first use.
func (s *Server) defaultCompany(ctx context.Context) (*db.Company, error) {
	if company, ok := s.companies.get(cacheKeyDefaultCompany); ok {
		return company, nil
	}
	company, err := s.store.GetOrCreateDefaultCompany(ctx)
	if err != nil {
		return nil, err
	}
	s.companies.set(cacheKeyDefaultCompany, company)
	return company, nil
}
