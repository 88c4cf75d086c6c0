package validation

import (
	"fmt"

	"github.com/petersg83/trackdechets/internal/bsda"
	"github.com/petersg83/trackdechets/internal/bsda/validation/ports"
	"github.com/petersg83/trackdechets/pkg/domain"
)

// Asynchronous business rules: they consume the gathered registry and
// prior-document data. Like the sync group, every applicable rule reports.

const profileFixHint = " Cette entreprise ne peut donc pas être visée sur le bordereau." +
	" Veuillez vous rapprocher de l'administrateur de cette entreprise pour" +
	" qu'il modifie le profil de l'établissement depuis l'interface Trackdéchets Mon Compte > Établissements"

func checkAsyncRules(b *bsda.Bsda, vctx Context, data *gathered, c *collector) {
	checkEmitterRegistered(b, data, c)
	checkTransporterProfiles(b, data, c)
	checkWorkerProfile(b, data, c)
	checkBrokerProfile(b, data, c)
	checkDestinationProfile(b, data, c)
	checkIntermediariesRegistered(b, data, c)
	if vctx.EnablePreviousBsdasChecks {
		checkPreviousBsdas(b, data, c)
	}
}

func notRegisteredSiret(siret string) string {
	return fmt.Sprintf("L'établissement avec le SIRET %s n'est pas inscrit sur Trackdéchets", siret)
}

func checkEmitterRegistered(b *bsda.Bsda, data *gathered, c *collector) {
	if b.EmitterCompanySiret == nil {
		return
	}
	if data.company(*b.EmitterCompanySiret) == nil {
		c.add("emitterCompanySiret", notRegisteredSiret(*b.EmitterCompanySiret))
	}
}

func checkTransporterProfiles(b *bsda.Bsda, data *gathered, c *collector) {
	for i := range b.Transporters {
		t := &b.Transporters[i]
		orgID := t.OrgID()
		if orgID == "" {
			continue
		}
		path := transporterPath(t.Number)

		company := data.company(orgID)
		if company == nil {
			if t.Foreign() {
				c.addf(path, "Le transporteur avec le n°de TVA %s n'est pas inscrit sur Trackdéchets", orgID)
			} else {
				c.add(path, notRegisteredSiret(orgID))
			}
			continue
		}
		if !company.HasProfile(ports.ProfileTransporter) {
			idKind := "SIRET"
			if t.Foreign() {
				idKind = "numéro de TVA"
			}
			c.addf(path,
				"Le transporteur saisi sur le bordereau (%s: %s) n'est pas inscrit sur Trackdéchets en tant qu'entreprise de transport.%s",
				idKind, orgID, profileFixHint)
		}
	}
}

func checkWorkerProfile(b *bsda.Bsda, data *gathered, c *collector) {
	if b.WorkerCompanySiret == nil {
		return
	}
	company := data.company(*b.WorkerCompanySiret)
	if company == nil {
		c.add("workerCompanySiret", notRegisteredSiret(*b.WorkerCompanySiret))
		return
	}
	if !company.HasProfile(ports.ProfileWorker) {
		c.addf("workerCompanySiret",
			"L'entreprise de travaux saisie sur le bordereau (SIRET: %s) n'est pas inscrite sur Trackdéchets avec le profil entreprise de travaux.%s",
			*b.WorkerCompanySiret, profileFixHint)
	}
}

func checkBrokerProfile(b *bsda.Bsda, data *gathered, c *collector) {
	if b.BrokerCompanySiret == nil {
		return
	}
	company := data.company(*b.BrokerCompanySiret)
	if company == nil {
		c.add("brokerCompanySiret", notRegisteredSiret(*b.BrokerCompanySiret))
		return
	}
	if !company.HasProfile(ports.ProfileBroker) {
		c.addf("brokerCompanySiret",
			"Le courtier saisi sur le bordereau (SIRET: %s) n'est pas inscrit sur Trackdéchets avec le profil courtier.%s",
			*b.BrokerCompanySiret, profileFixHint)
	}
}

func checkDestinationProfile(b *bsda.Bsda, data *gathered, c *collector) {
	if b.DestinationCompanySiret == nil {
		return
	}
	siret := *b.DestinationCompanySiret
	company := data.company(siret)
	if company == nil {
		c.add("destinationCompanySiret", notRegisteredSiret(siret))
		return
	}
	if !company.HasProfile(ports.ProfileWasteProcessor) && !company.HasProfile(ports.ProfileCollector) {
		c.addf("destinationCompanySiret",
			"L'installation de destination ou d’entreposage ou de reconditionnement avec le SIRET \"%s\" n'est pas inscrite"+
				" sur Trackdéchets en tant qu'installation de traitement ou de tri transit regroupement. Cette installation ne peut donc"+
				" pas être visée sur le bordereau. Veuillez vous rapprocher de l'administrateur de cette installation pour qu'il"+
				" modifie le profil de l'établissement depuis l'interface Trackdéchets Mon Compte > Établissements",
			siret)
	}
}

func checkIntermediariesRegistered(b *bsda.Bsda, data *gathered, c *collector) {
	for i := range b.Intermediaries {
		siret := b.Intermediaries[i].Siret
		if siret == nil {
			continue
		}
		if data.company(*siret) == nil {
			c.add(fmt.Sprintf("intermediaries[%d].siret", i), notRegisteredSiret(*siret))
		}
	}
}

// checkPreviousBsdas enforces grouping consistency: every grouped reference
// must resolve, carry the same waste code, be awaiting grouping, and have
// been treated on the emitter of the grouping bordereau. One issue per
// offending reference.
func checkPreviousBsdas(b *bsda.Bsda, data *gathered, c *collector) {
	found := make(map[domain.BsdaID]bool, len(data.previous))
	for _, prev := range data.previous {
		found[prev.ID] = true
	}
	for _, id := range b.Grouping {
		if !found[id] {
			c.addf("grouping", "Le bordereau %s n'existe pas.", id)
		}
	}

	for _, prev := range data.previous {
		if b.WasteCode != nil && prev.WasteCode != *b.WasteCode {
			c.add("grouping", "Tous les bordereaux groupés doivent avoir le même code déchet que le bordereau de groupement.")
		}
		if prev.Status != string(bsda.StatusAwaitingChild) {
			c.addf("grouping", "Le bordereau %s n'est pas dans un statut lui permettant d'être regroupé.", prev.ID)
		}
		if b.EmitterCompanySiret != nil && prev.DestinationCompanySiret != "" &&
			prev.DestinationCompanySiret != *b.EmitterCompanySiret {
			c.addf("grouping", "Le bordereau %s n'a pas été traité sur l'établissement émetteur du bordereau de groupement.", prev.ID)
		}
	}
}
