package validation

import (
	"fmt"

	"github.com/petersg83/trackdechets/internal/bsda"
	"github.com/petersg83/trackdechets/pkg/domain"
)

// Synchronous business rules: cross-field refinements over the normalized
// document plus context. Every applicable rule runs, each failure contributes
// one issue; nothing short-circuits.

func transporterPath(number int) string {
	return fmt.Sprintf("transporters[%d]", number)
}

func checkRules(b *bsda.Bsda, vctx Context, c *collector) {
	checkTypeExclusions(b, c)
	checkCompanyIdentifiers(b, c)
	checkTransporters(b, vctx, c)
	checkOperation(b, vctx, c)
	checkGrouping(b, c)
}

// checkTypeExclusions enforces the sections a document subtype forbids.
// Déchetterie collections (2710) have neither transporter nor worker.
func checkTypeExclusions(b *bsda.Bsda, c *collector) {
	if b.Type != bsda.TypeCollection2710 {
		return
	}
	for i := range b.Transporters {
		t := &b.Transporters[i]
		if t.OrgID() != "" || t.TransporterCompanyName != nil {
			c.add("transporters", "Impossible de saisir un transporteur pour un bordereau de collecte en déchetterie.")
			break
		}
	}
	if b.WorkerCompanySiret != nil || b.WorkerCompanyName != nil {
		c.add("workerCompanySiret", "Impossible de saisir une entreprise de travaux pour un bordereau de collecte en déchetterie.")
	}
}

func checkCompanyIdentifiers(b *bsda.Bsda, c *collector) {
	checkSiret(c, "emitterCompanySiret", b.EmitterCompanySiret)
	checkSiret(c, "workerCompanySiret", b.WorkerCompanySiret)
	checkSiret(c, "brokerCompanySiret", b.BrokerCompanySiret)
	checkSiret(c, "destinationCompanySiret", b.DestinationCompanySiret)
	for i := range b.Intermediaries {
		checkSiret(c, fmt.Sprintf("intermediaries[%d].siret", i), b.Intermediaries[i].Siret)
	}
	for i := range b.Transporters {
		t := &b.Transporters[i]
		path := transporterPath(t.Number)
		checkSiret(c, path+".transporterCompanySiret", t.TransporterCompanySiret)
		checkVat(c, path+".transporterCompanyVatNumber", t.TransporterCompanyVatNumber)
	}
}

func checkSiret(c *collector, path string, siret *string) {
	if siret == nil {
		return
	}
	if !domain.IsSiret(*siret) {
		c.addf(path, "%s n'est pas un numéro de SIRET valide", *siret)
	}
}

func checkVat(c *collector, path string, vat *string) {
	if vat == nil {
		return
	}
	if domain.IsFRVat(*vat) {
		c.add(path, "Impossible d'utiliser le numéro de TVA pour un établissement français, veuillez renseigner son SIRET uniquement")
		return
	}
	if !domain.IsVatNumber(*vat) {
		c.addf(path, "%s n'est pas un numéro de TVA intracommunautaire valide", *vat)
	}
}

// checkTransporters holds the transport-stage conditional requirements:
// plates for road transport, récépissé for French non-exempted transporters.
// Both only bite once the signature being applied is at or past TRANSPORT.
func checkTransporters(b *bsda.Bsda, vctx Context, c *collector) {
	if !vctx.CurrentSignatureType.AtOrAfter(bsda.SignatureTransport) {
		return
	}
	for i := range b.Transporters {
		t := &b.Transporters[i]
		path := transporterPath(t.Number)

		road := t.TransporterTransportMode != nil && *t.TransporterTransportMode == bsda.TransportModeRoad
		if road && len(t.TransporterTransportPlates) == 0 {
			c.add(path+".transporterTransportPlates", "L'immatriculation du transporteur est obligatoire.")
		}

		// Récépissé: required for French-registered road transporters unless
		// explicitly exempted. The exemption flag alone waives the
		// requirement; whether the transporter is also the emitter does not
		// enter into it. Foreign transporters never carry one.
		exempted := t.TransporterRecepisseIsExempted != nil && *t.TransporterRecepisseIsExempted
		if road && !exempted && !t.Foreign() && t.TransporterCompanySiret != nil {
			if t.TransporterRecepisseNumber == nil {
				c.addf(path+".transporterRecepisseNumber",
					"Le numéro de récépissé du transporteur n° %d est obligatoire. L'établissement doit renseigner son récépissé dans Trackdéchets", t.Number)
			}
			if t.TransporterRecepisseDepartment == nil {
				c.addf(path+".transporterRecepisseDepartment",
					"Le département de récépissé du transporteur n° %d est obligatoire. L'établissement doit renseigner son récépissé dans Trackdéchets", t.Number)
			}
			if t.TransporterRecepisseValidityLimit == nil {
				c.addf(path+".transporterRecepisseValidityLimit",
					"La date de validité du récépissé du transporteur n° %d est obligatoire. L'établissement doit renseigner son récépissé dans Trackdéchets", t.Number)
			}
		}
	}
}

// checkOperation validates the treatment operation code / mode pair against
// the static compatibility table. A missing mode is tolerated before the
// OPERATION stage, mandatory from it on when the code has associated modes.
func checkOperation(b *bsda.Bsda, vctx Context, c *collector) {
	if b.DestinationOperationCode == nil || !knownOperationCode(*b.DestinationOperationCode) {
		return
	}
	code := *b.DestinationOperationCode
	modes := operationModes[code]

	if b.DestinationOperationMode == nil {
		if len(modes) > 0 && vctx.CurrentSignatureType.AtOrAfter(bsda.SignatureOperation) {
			c.add("destinationOperationMode", "Le mode de traitement est obligatoire.")
		}
		return
	}
	if !compatibleOperationMode(code, *b.DestinationOperationMode) {
		c.add("destinationOperationMode", "Le mode de traitement n'est pas compatible avec l'opération de traitement choisie")
	}
}

// checkGrouping: only a GATHERING bordereau may reference grouped ones.
// Cross-document consistency needs the finder and lives in the async group.
func checkGrouping(b *bsda.Bsda, c *collector) {
	if len(b.Grouping) > 0 && b.Type != bsda.TypeGathering {
		c.add("grouping", "Seul un bordereau de groupement peut regrouper d'autres bordereaux.")
	}
	if b.Forwarding != nil && b.Type != bsda.TypeReshipment {
		c.add("forwarding", "Seul un bordereau de réexpédition peut réexpédier un autre bordereau.")
	}
}
