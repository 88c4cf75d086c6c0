package validation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/petersg83/trackdechets/internal/bsda"
	"github.com/petersg83/trackdechets/internal/bsda/validation/ports"
	strutil "github.com/petersg83/trackdechets/pkg/platform/strings"
)

// gathered holds the immutable external data the async rule group and the
// completion transformers consume. A missing map entry means the identifier
// did not resolve; transport failures abort the gather instead.
type gathered struct {
	companies map[string]*ports.CompanyInfo
	previous  []ports.PreviousBsda
}

func (g *gathered) company(orgID string) *ports.CompanyInfo {
	if orgID == "" {
		return nil
	}
	return g.companies[orgID]
}

// orgIDs lists every company identifier referenced on the document, deduped,
// in role order.
func orgIDs(b *bsda.Bsda) []string {
	var ids []string
	add := func(f *string) {
		if f != nil {
			ids = append(ids, *f)
		}
	}
	add(b.EmitterCompanySiret)
	for i := range b.Transporters {
		add(b.Transporters[i].TransporterCompanySiret)
		add(b.Transporters[i].TransporterCompanyVatNumber)
	}
	add(b.WorkerCompanySiret)
	add(b.BrokerCompanySiret)
	add(b.DestinationCompanySiret)
	for i := range b.Intermediaries {
		add(b.Intermediaries[i].Siret)
	}
	return strutil.DedupeAndTrim(ids)
}

// gather fans out the registry and prior-document lookups concurrently. The
// lookups are independent of one another, so they run in parallel and are
// awaited jointly; the first transport failure cancels the rest and fails the
// parse.
func (v *Validator) gather(ctx context.Context, b *bsda.Bsda, vctx Context) (*gathered, error) {
	g, ctx := errgroup.WithContext(ctx)

	out := &gathered{companies: make(map[string]*ports.CompanyInfo)}
	var mu sync.Mutex

	for _, orgID := range orgIDs(b) {
		g.Go(func() error {
			start := time.Now()
			info, err := v.registry.Lookup(ctx, orgID)
			v.metrics.ObserveLookupLatency("company", time.Since(start))

			if err != nil {
				if errors.Is(err, ports.ErrCompanyNotFound) {
					// Turned into a role-specific issue by the async rules.
					return nil
				}
				return fmt.Errorf("lookup company %s: %w", orgID, err)
			}
			mu.Lock()
			out.companies[orgID] = info
			mu.Unlock()
			return nil
		})
	}

	if vctx.EnablePreviousBsdasChecks && len(b.Grouping) > 0 {
		g.Go(func() error {
			start := time.Now()
			previous, err := v.previous.FindByIDs(ctx, b.Grouping)
			v.metrics.ObserveLookupLatency("previous_bsdas", time.Since(start))

			if err != nil {
				return fmt.Errorf("load grouped bordereaux: %w", err)
			}
			mu.Lock()
			out.previous = previous
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
