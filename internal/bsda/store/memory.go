// Package store provides PreviousBsdaFinder implementations: an in-memory
// one for tests and a Postgres one for production.
package store

import (
	"context"
	"sync"

	"github.com/petersg83/trackdechets/internal/bsda/validation/ports"
	"github.com/petersg83/trackdechets/pkg/domain"
)

// MemoryFinder keeps previous-bordereau projections in a map. Safe for
// concurrent use.
type MemoryFinder struct {
	mu    sync.RWMutex
	bsdas map[domain.BsdaID]ports.PreviousBsda
}

func NewMemoryFinder(bsdas ...ports.PreviousBsda) *MemoryFinder {
	f := &MemoryFinder{bsdas: make(map[domain.BsdaID]ports.PreviousBsda)}
	for _, b := range bsdas {
		f.bsdas[b.ID] = b
	}
	return f
}

func (f *MemoryFinder) Put(b ports.PreviousBsda) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bsdas[b.ID] = b
}

// FindByIDs returns the known projections among ids. Unknown ids are simply
// absent from the result, like rows missing from a table.
func (f *MemoryFinder) FindByIDs(_ context.Context, ids []domain.BsdaID) ([]ports.PreviousBsda, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []ports.PreviousBsda
	for _, id := range ids {
		if b, ok := f.bsdas[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}
