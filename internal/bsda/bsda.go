// Package bsda holds the domain model of the BSDA, the bordereau tracking
// amiante (asbestos) waste from its producer to its final treatment facility.
// The model mirrors the persisted record: one flat document plus an ordered
// list of transporters, with one signature slot per lifecycle stage.
package bsda

import (
	"time"

	"github.com/petersg83/trackdechets/pkg/domain"
)

type BsdaType string

const (
	TypeCollection2710  BsdaType = "COLLECTION_2710"
	TypeOtherCollection BsdaType = "OTHER_COLLECTIONS"
	TypeGathering       BsdaType = "GATHERING"
	TypeReshipment      BsdaType = "RESHIPMENT"
)

func (t BsdaType) Valid() bool {
	switch t {
	case TypeCollection2710, TypeOtherCollection, TypeGathering, TypeReshipment:
		return true
	}
	return false
}

type BsdaStatus string

const (
	StatusInitial          BsdaStatus = "INITIAL"
	StatusSignedByProducer BsdaStatus = "SIGNED_BY_PRODUCER"
	StatusSignedByWorker   BsdaStatus = "SIGNED_BY_WORKER"
	StatusSent             BsdaStatus = "SENT"
	StatusProcessed        BsdaStatus = "PROCESSED"
	StatusRefused          BsdaStatus = "REFUSED"
	StatusAwaitingChild    BsdaStatus = "AWAITING_CHILD"
	StatusCanceled         BsdaStatus = "CANCELED"
)

// Terminal reports whether no further signature may be applied.
func (s BsdaStatus) Terminal() bool {
	switch s {
	case StatusProcessed, StatusRefused, StatusCanceled:
		return true
	}
	return false
}

type TransportMode string

const (
	TransportModeRoad  TransportMode = "ROAD"
	TransportModeRail  TransportMode = "RAIL"
	TransportModeAir   TransportMode = "AIR"
	TransportModeRiver TransportMode = "RIVER"
	TransportModeSea   TransportMode = "SEA"
)

func (m TransportMode) Valid() bool {
	switch m {
	case TransportModeRoad, TransportModeRail, TransportModeAir, TransportModeRiver, TransportModeSea:
		return true
	}
	return false
}

type OperationMode string

const (
	OperationModeReutilisation           OperationMode = "REUTILISATION"
	OperationModeRecyclage               OperationMode = "RECYCLAGE"
	OperationModeValorisationEnergetique OperationMode = "VALORISATION_ENERGETIQUE"
	OperationModeElimination             OperationMode = "ELIMINATION"
)

func (m OperationMode) Valid() bool {
	switch m {
	case OperationModeReutilisation, OperationModeRecyclage, OperationModeValorisationEnergetique, OperationModeElimination:
		return true
	}
	return false
}

// Bsda is the full document as stored. Pointer fields are nullable columns.
// Field names line up with the public field paths used in error messages and
// in the sealed-field table (lowerCamel of the Go name).
type Bsda struct {
	ID     domain.BsdaID
	Type   BsdaType
	Status BsdaStatus

	// Waste description
	WasteCode         *string
	WasteMaterialName *string
	WasteSealNumbers  []string
	WasteWeightValue  *float64

	// Emitter
	EmitterIsPrivateIndividual     *bool
	EmitterCompanyName             *string
	EmitterCompanySiret            *string
	EmitterCompanyAddress          *string
	EmitterCompanyContact          *string
	EmitterCompanyPhone            *string
	EmitterCompanyMail             *string
	EmitterCustomInfo              *string
	EmitterPickupSiteName          *string
	EmitterPickupSiteAddress       *string
	EmitterPickupSiteCity          *string
	EmitterPickupSitePostalCode    *string
	EmitterPickupSiteInfos         *string
	EmitterEmissionSignatureAuthor *string
	EmitterEmissionSignatureDate   *time.Time

	// Worker (entreprise de travaux)
	WorkerIsDisabled                       bool
	WorkerCompanyName                      *string
	WorkerCompanySiret                     *string
	WorkerCompanyAddress                   *string
	WorkerCompanyContact                   *string
	WorkerCompanyPhone                     *string
	WorkerCompanyMail                      *string
	WorkerCertificationHasSubSectionFour   bool
	WorkerCertificationHasSubSectionThree  bool
	WorkerCertificationCertificationNumber *string
	WorkerCertificationValidityLimit       *time.Time
	WorkerCertificationOrganisation        *string
	WorkerWorkHasEmitterPaperSignature     *bool
	WorkerWorkSignatureAuthor              *string
	WorkerWorkSignatureDate                *time.Time

	// Broker (courtier)
	BrokerCompanyName            *string
	BrokerCompanySiret           *string
	BrokerCompanyAddress         *string
	BrokerCompanyContact         *string
	BrokerCompanyPhone           *string
	BrokerCompanyMail            *string
	BrokerRecepisseNumber        *string
	BrokerRecepisseDepartment    *string
	BrokerRecepisseValidityLimit *time.Time

	// Destination
	DestinationCompanyName              *string
	DestinationCompanySiret             *string
	DestinationCompanyAddress           *string
	DestinationCompanyContact           *string
	DestinationCompanyPhone             *string
	DestinationCompanyMail              *string
	DestinationCap                      *string
	DestinationCustomInfo               *string
	DestinationPlannedOperationCode     *string
	DestinationReceptionDate            *time.Time
	DestinationReceptionWeight          *float64
	DestinationReceptionRefusalReason   *string
	DestinationOperationCode            *string
	DestinationOperationMode            *OperationMode
	DestinationOperationDescription     *string
	DestinationOperationDate            *time.Time
	DestinationOperationSignatureAuthor *string
	DestinationOperationSignatureDate   *time.Time

	Transporters []Transporter

	// Grouping references prior bordereaux consolidated into this one
	// (GATHERING type), Forwarding a single reshipped one (RESHIPMENT type).
	Grouping   []domain.BsdaID
	Forwarding *domain.BsdaID

	Intermediaries []IntermediaryCompany
}

// Transporter is one entry of the ordered transporter list. Number is 1-based
// and gapless from the caller's point of view.
type Transporter struct {
	ID     string
	Number int

	TransporterCompanyName      *string
	TransporterCompanySiret     *string
	TransporterCompanyVatNumber *string
	TransporterCompanyAddress   *string
	TransporterCompanyContact   *string
	TransporterCompanyPhone     *string
	TransporterCompanyMail      *string
	TransporterCustomInfo       *string

	TransporterRecepisseIsExempted    *bool
	TransporterRecepisseNumber        *string
	TransporterRecepisseDepartment    *string
	TransporterRecepisseValidityLimit *time.Time

	TransporterTransportMode        *TransportMode
	TransporterTransportPlates      []string
	TransporterTransportTakenOverAt *time.Time

	TransporterTransportSignatureAuthor *string
	TransporterTransportSignatureDate   *time.Time
}

// Signed reports whether this transporter has applied its transport signature.
func (t *Transporter) Signed() bool {
	return t.TransporterTransportSignatureDate != nil
}

// Foreign reports whether the transporter is identified by a VAT number
// rather than a SIRET.
func (t *Transporter) Foreign() bool {
	return (t.TransporterCompanySiret == nil || *t.TransporterCompanySiret == "") &&
		t.TransporterCompanyVatNumber != nil && *t.TransporterCompanyVatNumber != ""
}

// OrgID returns the identifier used for registry lookups, SIRET first.
func (t *Transporter) OrgID() string {
	if t.TransporterCompanySiret != nil && *t.TransporterCompanySiret != "" {
		return *t.TransporterCompanySiret
	}
	if t.TransporterCompanyVatNumber != nil {
		return *t.TransporterCompanyVatNumber
	}
	return ""
}

// IntermediaryCompany is an intermédiaire listed on the bordereau. Unlike the
// other roles it has no signature of its own.
type IntermediaryCompany struct {
	Siret   *string
	Name    *string
	Address *string
	Contact *string
	Phone   *string
	Mail    *string
}
