package validation_test

import (
	"fmt"
	"time"

	"github.com/petersg83/trackdechets/internal/bsda"
	"github.com/petersg83/trackdechets/internal/bsda/store"
	"github.com/petersg83/trackdechets/internal/bsda/validation/ports"
	"github.com/petersg83/trackdechets/internal/registry"
	"github.com/petersg83/trackdechets/pkg/domain"
)

// Luhn-valid SIRET fixtures, one per role.
const (
	emitterSiret      = "11111111111110"
	transporterSiret  = "22222222222220"
	workerSiret       = "33333333333330"
	destinationSiret  = "44444444444440"
	brokerSiret       = "55555555555553"
	transporter2Siret = "66666666666663"
	producerSiret     = "77777777777773"
	// Valid but deliberately absent from the mock registry.
	unknownSiret = "85001946400021"

	foreignVat = "BE0541696005"
)

func ptr[T any](v T) *T { return &v }

// validBsda returns a fully populated OTHER_COLLECTIONS document that parses
// cleanly at every lifecycle stage.
func validBsda() bsda.Bsda {
	return bsda.Bsda{
		ID:     domain.NewBsdaID(),
		Type:   bsda.TypeOtherCollection,
		Status: bsda.StatusInitial,

		WasteCode:         ptr("06 07 01*"),
		WasteMaterialName: ptr("Amiante"),
		WasteSealNumbers:  []string{"SCELLE-001"},
		WasteWeightValue:  ptr(1.2),

		EmitterCompanyName:    ptr("Émetteur SA"),
		EmitterCompanySiret:   ptr(emitterSiret),
		EmitterCompanyAddress: ptr("1 rue de l'Émetteur"),
		EmitterCompanyContact: ptr("Jean Émetteur"),
		EmitterCompanyPhone:   ptr("01 00 00 00 01"),
		EmitterCompanyMail:    ptr("emitter@example.test"),

		WorkerCompanyName:    ptr("Travaux SARL"),
		WorkerCompanySiret:   ptr(workerSiret),
		WorkerCompanyAddress: ptr("2 rue des Travaux"),
		WorkerCompanyContact: ptr("Paul Travaux"),
		WorkerCompanyPhone:   ptr("01 00 00 00 02"),
		WorkerCompanyMail:    ptr("worker@example.test"),

		DestinationCompanyName:          ptr("Exutoire SA"),
		DestinationCompanySiret:         ptr(destinationSiret),
		DestinationCompanyAddress:       ptr("3 rue de l'Exutoire"),
		DestinationCompanyContact:       ptr("Marie Exutoire"),
		DestinationCompanyPhone:         ptr("01 00 00 00 03"),
		DestinationCompanyMail:          ptr("destination@example.test"),
		DestinationCap:                  ptr("CAP-1"),
		DestinationPlannedOperationCode: ptr("D 5"),
		DestinationOperationCode:        ptr("D 5"),
		DestinationOperationMode:        ptr(bsda.OperationModeElimination),

		Transporters: []bsda.Transporter{validTransporter(1)},
	}
}

func validTransporter(number int) bsda.Transporter {
	validityLimit := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	return bsda.Transporter{
		ID:     fmt.Sprintf("transporter-%d", number),
		Number: number,

		TransporterCompanyName:    ptr("Transporteur SAS"),
		TransporterCompanySiret:   ptr(transporterSiret),
		TransporterCompanyAddress: ptr("4 rue du Transport"),
		TransporterCompanyContact: ptr("Luc Transport"),
		TransporterCompanyPhone:   ptr("01 00 00 00 04"),
		TransporterCompanyMail:    ptr("transporter@example.test"),

		TransporterRecepisseIsExempted:    ptr(false),
		TransporterRecepisseNumber:        ptr("RECEPISSE-01"),
		TransporterRecepisseDepartment:    ptr("75"),
		TransporterRecepisseValidityLimit: &validityLimit,

		TransporterTransportMode:   ptr(bsda.TransportModeRoad),
		TransporterTransportPlates: []string{"AD-008-TS"},
	}
}

func company(orgID string, profiles ...ports.CompanyProfile) *ports.CompanyInfo {
	return &ports.CompanyInfo{
		OrgID:    orgID,
		Siret:    orgID,
		Name:     "Entreprise " + orgID,
		Address:  "Adresse " + orgID,
		Profiles: profiles,
	}
}

// defaultRegistry seeds the mock client with every fixture company carrying
// the profile its role requires.
func defaultRegistry() *registry.MockClient {
	transporter := company(transporterSiret, ports.ProfileTransporter)
	transporter.TransporterReceipt = &ports.TransporterReceipt{
		ReceiptNumber: "RECEPISSE-01",
		Department:    "75",
		ValidityLimit: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	transporter2 := company(transporter2Siret, ports.ProfileTransporter)

	return registry.NewMockClient(
		company(emitterSiret, ports.ProfileProducer),
		transporter,
		transporter2,
		company(workerSiret, ports.ProfileWorker),
		company(destinationSiret, ports.ProfileWasteProcessor),
		company(brokerSiret, ports.ProfileBroker),
		company(producerSiret, ports.ProfileProducer),
	)
}

func emptyFinder() *store.MemoryFinder {
	return store.NewMemoryFinder()
}
