package validation

import (
	"strings"

	"github.com/petersg83/trackdechets/internal/bsda"
)

// normalize coerces loosely-typed input into the canonical in-memory shape:
// strings are trimmed, blank strings become nil, blank plate entries are
// dropped. Normalization runs before any check so rules and the merge
// algorithm only ever compare canonical values.
func normalize(b *bsda.Bsda) {
	for _, f := range stringFields(b) {
		normalizeString(f)
	}
	b.WasteSealNumbers = normalizeSlice(b.WasteSealNumbers)
	for i := range b.Transporters {
		normalizeTransporter(&b.Transporters[i])
	}
	for i := range b.Intermediaries {
		inter := &b.Intermediaries[i]
		for _, f := range []**string{&inter.Siret, &inter.Name, &inter.Address, &inter.Contact, &inter.Phone, &inter.Mail} {
			normalizeString(f)
		}
	}
}

func normalizeTransporter(t *bsda.Transporter) {
	for _, f := range []**string{
		&t.TransporterCompanyName, &t.TransporterCompanySiret, &t.TransporterCompanyVatNumber,
		&t.TransporterCompanyAddress, &t.TransporterCompanyContact, &t.TransporterCompanyPhone,
		&t.TransporterCompanyMail, &t.TransporterCustomInfo,
		&t.TransporterRecepisseNumber, &t.TransporterRecepisseDepartment,
	} {
		normalizeString(f)
	}
	t.TransporterTransportPlates = normalizeSlice(t.TransporterTransportPlates)
}

// normalizeString trims and drops empty values in place through the field's
// address.
func normalizeString(f **string) {
	if f == nil || *f == nil {
		return
	}
	trimmed := strings.TrimSpace(**f)
	if trimmed == "" {
		*f = nil
		return
	}
	*f = &trimmed
}

func normalizeSlice(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func stringFields(b *bsda.Bsda) []**string {
	return []**string{
		&b.WasteCode, &b.WasteMaterialName,
		&b.EmitterCompanyName, &b.EmitterCompanySiret, &b.EmitterCompanyAddress,
		&b.EmitterCompanyContact, &b.EmitterCompanyPhone, &b.EmitterCompanyMail,
		&b.EmitterCustomInfo, &b.EmitterPickupSiteName, &b.EmitterPickupSiteAddress,
		&b.EmitterPickupSiteCity, &b.EmitterPickupSitePostalCode, &b.EmitterPickupSiteInfos,
		&b.WorkerCompanyName, &b.WorkerCompanySiret, &b.WorkerCompanyAddress,
		&b.WorkerCompanyContact, &b.WorkerCompanyPhone, &b.WorkerCompanyMail,
		&b.WorkerCertificationCertificationNumber, &b.WorkerCertificationOrganisation,
		&b.BrokerCompanyName, &b.BrokerCompanySiret, &b.BrokerCompanyAddress,
		&b.BrokerCompanyContact, &b.BrokerCompanyPhone, &b.BrokerCompanyMail,
		&b.BrokerRecepisseNumber, &b.BrokerRecepisseDepartment,
		&b.DestinationCompanyName, &b.DestinationCompanySiret, &b.DestinationCompanyAddress,
		&b.DestinationCompanyContact, &b.DestinationCompanyPhone, &b.DestinationCompanyMail,
		&b.DestinationCap, &b.DestinationCustomInfo, &b.DestinationPlannedOperationCode,
		&b.DestinationReceptionRefusalReason, &b.DestinationOperationCode,
		&b.DestinationOperationDescription,
	}
}

// checkShape verifies every field against its primitive constraints,
// independent of any other field. Every violation is collected; the caller
// flushes them into a single ShapeError.
func checkShape(b *bsda.Bsda, c *collector) {
	if b.Type != "" && !b.Type.Valid() {
		c.addf("type", "%s n'est pas un type de bordereau valide", b.Type)
	}
	if b.WasteWeightValue != nil && *b.WasteWeightValue < 0 {
		c.add("wasteWeightValue", "Le poids doit être supérieur ou égal à 0")
	}
	if b.DestinationReceptionWeight != nil && *b.DestinationReceptionWeight < 0 {
		c.add("destinationReceptionWeight", "Le poids doit être supérieur ou égal à 0")
	}
	if b.DestinationOperationCode != nil && !knownOperationCode(*b.DestinationOperationCode) {
		c.add("destinationOperationCode", "Cette opération d'élimination / valorisation n'existe pas.")
	}
	if b.DestinationOperationMode != nil && !b.DestinationOperationMode.Valid() {
		c.addf("destinationOperationMode", "%s n'est pas un mode de traitement valide", *b.DestinationOperationMode)
	}
	for i := range b.Transporters {
		t := &b.Transporters[i]
		path := transporterPath(t.Number)
		if t.TransporterTransportMode != nil && !t.TransporterTransportMode.Valid() {
			c.addf(path+".transporterTransportMode", "%s n'est pas un mode de transport valide", *t.TransporterTransportMode)
		}
		if len(t.TransporterTransportPlates) > 2 {
			c.add(path+".transporterTransportPlates", "Un maximum de 2 plaques d'immatriculation est accepté")
		}
	}
}
