// Package registry provides concrete company-registry clients behind the
// validation engine's CompanyRegistry port: a deterministic mock for tests
// and demos, an HTTP client for the real service, and a Redis read-through
// cache decorator.
package registry

import (
	"context"
	"time"

	"github.com/petersg83/trackdechets/internal/bsda/validation/ports"
)

// MockClient serves deterministic company data with a configurable latency
// to mimic real-world calls. Tests seed it with the companies they need.
type MockClient struct {
	Latency   time.Duration
	Companies map[string]*ports.CompanyInfo
}

func NewMockClient(companies ...*ports.CompanyInfo) *MockClient {
	m := &MockClient{Companies: make(map[string]*ports.CompanyInfo)}
	for _, c := range companies {
		m.Add(c)
	}
	return m
}

func (m *MockClient) Add(c *ports.CompanyInfo) {
	m.Companies[c.OrgID] = c
}

func (m *MockClient) Lookup(_ context.Context, orgID string) (*ports.CompanyInfo, error) {
	time.Sleep(m.Latency)
	company, ok := m.Companies[orgID]
	if !ok {
		return nil, ports.ErrCompanyNotFound
	}
	return company, nil
}
