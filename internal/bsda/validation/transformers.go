package validation

import (
	"github.com/petersg83/trackdechets/internal/bsda"
)

// Completion transformers: pure, idempotent derivations applied before the
// business rules run. They are gated by the context flag and never touch a
// field already sealed by a signature present on the document.

// applySyncTransformers runs the transformers that need no external data.
func applySyncTransformers(b *bsda.Bsda) {
	clearWorkerCertification(b)
}

// clearWorkerCertification forces the worker certification sub-section to its
// zero state when the worker section is disabled, regardless of what the
// caller supplied.
func clearWorkerCertification(b *bsda.Bsda) {
	if !b.WorkerIsDisabled {
		return
	}
	b.WorkerCertificationHasSubSectionFour = false
	b.WorkerCertificationHasSubSectionThree = false
	b.WorkerCertificationCertificationNumber = nil
	b.WorkerCertificationValidityLimit = nil
	b.WorkerCertificationOrganisation = nil
}

// applyAsyncTransformers runs the registry-backed transformers against the
// gathered data.
func applyAsyncTransformers(b *bsda.Bsda, data *gathered) {
	completeRecepisse(b, data)
	sirenify(b, data)
}

// completeRecepisse overwrites each transporter's récépissé fields with the
// receipt its company keeps on file in the registry. When the company has no
// on-file receipt, a submitted récépissé is cleared rather than left standing
// uncontradicted. Exempted transporters keep their fields and foreign ones
// never carry a récépissé. Signed transporters are sealed.
func completeRecepisse(b *bsda.Bsda, data *gathered) {
	for i := range b.Transporters {
		t := &b.Transporters[i]
		if t.Signed() {
			continue
		}
		if t.TransporterRecepisseIsExempted != nil && *t.TransporterRecepisseIsExempted {
			continue
		}
		if t.Foreign() {
			t.TransporterRecepisseNumber = nil
			t.TransporterRecepisseDepartment = nil
			t.TransporterRecepisseValidityLimit = nil
			continue
		}
		company := data.company(t.OrgID())
		if company == nil {
			continue
		}
		if receipt := company.TransporterReceipt; receipt != nil {
			number, department, limit := receipt.ReceiptNumber, receipt.Department, receipt.ValidityLimit
			t.TransporterRecepisseNumber = &number
			t.TransporterRecepisseDepartment = &department
			t.TransporterRecepisseValidityLimit = &limit
		} else {
			t.TransporterRecepisseNumber = nil
			t.TransporterRecepisseDepartment = nil
			t.TransporterRecepisseValidityLimit = nil
		}
	}
}

// sirenify overwrites every company-bearing role's name and address with the
// registry's authoritative values, except for roles whose name field is
// already sealed by a signature present on the document.
func sirenify(b *bsda.Bsda, data *gathered) {
	sirenifyRole(b, data, b.EmitterCompanySiret, "emitterCompanyName", &b.EmitterCompanyName, &b.EmitterCompanyAddress)
	sirenifyRole(b, data, b.WorkerCompanySiret, "workerCompanyName", &b.WorkerCompanyName, &b.WorkerCompanyAddress)
	sirenifyRole(b, data, b.BrokerCompanySiret, "brokerCompanyName", &b.BrokerCompanyName, &b.BrokerCompanyAddress)
	sirenifyRole(b, data, b.DestinationCompanySiret, "destinationCompanyName", &b.DestinationCompanyName, &b.DestinationCompanyAddress)

	for i := range b.Transporters {
		t := &b.Transporters[i]
		if t.Signed() {
			continue
		}
		if company := data.company(t.OrgID()); company != nil {
			name, address := company.Name, company.Address
			t.TransporterCompanyName = &name
			t.TransporterCompanyAddress = &address
		}
	}

	// Intermediaries carry no signature of their own: the registry stays
	// authoritative for their display data for the whole lifecycle.
	for i := range b.Intermediaries {
		inter := &b.Intermediaries[i]
		if inter.Siret == nil {
			continue
		}
		if company := data.company(*inter.Siret); company != nil {
			name, address := company.Name, company.Address
			inter.Name = &name
			inter.Address = &address
		}
	}
}

func sirenifyRole(b *bsda.Bsda, data *gathered, siret *string, sealKey string, name, address **string) {
	if siret == nil || fieldSealed(sealKey, b, nil) {
		return
	}
	company := data.company(*siret)
	if company == nil {
		return
	}
	n, a := company.Name, company.Address
	*name = &n
	*address = &a
}
