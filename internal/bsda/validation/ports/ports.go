// Package ports defines the collaborator contracts the validation engine
// depends on. The engine only ever sees these interfaces, so the async rule
// group and the completion transformers are testable with substitute
// implementations.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/petersg83/trackdechets/pkg/domain"
)

// ErrCompanyNotFound means the identifier does not resolve to a registered
// company. It is distinct from a transport failure: not-found turns into a
// validation issue, any other lookup error fails the whole parse.
var ErrCompanyNotFound = errors.New("company not registered")

type CompanyProfile string

const (
	ProfileProducer       CompanyProfile = "PRODUCER"
	ProfileTransporter    CompanyProfile = "TRANSPORTER"
	ProfileWorker         CompanyProfile = "WORKER"
	ProfileBroker         CompanyProfile = "BROKER"
	ProfileWasteProcessor CompanyProfile = "WASTEPROCESSOR"
	ProfileCollector      CompanyProfile = "COLLECTOR"
)

// CompanyInfo is the registry's view of a company: authoritative name and
// address, the profiles it registered for, and its on-file transporter
// receipt when it has one.
type CompanyInfo struct {
	OrgID     string
	Siret     string
	VatNumber string
	Name      string
	Address   string
	Contact   string
	Profiles  []CompanyProfile

	TransporterReceipt *TransporterReceipt
}

// HasProfile reports whether the company registered for the given profile.
func (c *CompanyInfo) HasProfile(p CompanyProfile) bool {
	for _, profile := range c.Profiles {
		if profile == p {
			return true
		}
	}
	return false
}

// TransporterReceipt is the récépissé a transporter keeps on file in its
// registry account.
type TransporterReceipt struct {
	ReceiptNumber string
	Department    string
	ValidityLimit time.Time
}

// CompanyRegistry resolves a SIRET or VAT number to registry metadata.
type CompanyRegistry interface {
	Lookup(ctx context.Context, orgID string) (*CompanyInfo, error)
}

// PreviousBsda is the projection of a prior bordereau needed by the
// grouping-consistency rules.
type PreviousBsda struct {
	ID                       domain.BsdaID
	WasteCode                string
	Status                   string
	DestinationOperationCode string
	DestinationCompanySiret  string
}

// PreviousBsdaFinder loads the bordereaux referenced as grouped into (or
// forwarded by) the one being validated.
type PreviousBsdaFinder interface {
	FindByIDs(ctx context.Context, ids []domain.BsdaID) ([]PreviousBsda, error)
}
