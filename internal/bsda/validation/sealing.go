package validation

import (
	"fmt"

	"github.com/petersg83/trackdechets/internal/bsda"
)

// Sealed-field policy: a static table from field name to the signature event
// that freezes it. Read-only configuration, never mutated at runtime.
//
// A few fields carry an emitter exception: the emission signature freezes
// them for third parties but the emitter itself may still correct them until
// the next signature. That mirrors who legally owns the data at each stage.

type sealRule struct {
	// sealedBy is the document-level signature that freezes the field.
	// Transporter fields use the owning transporter's own signature instead
	// and are looked up through transporterSeals.
	sealedBy bsda.SignatureType

	// unlessEmitter keeps the field editable by members of the emitter
	// company after sealedBy is reached, until the following stage.
	unlessEmitter bool

	// label is the user-facing designation used in violation messages.
	// Fields without one fall back to "Le champ <name>".
	label string
}

var documentSeals = map[string]sealRule{
	// The subtype drives which exclusion and grouping rules apply, so it is
	// frozen with the rest of the emitter's data.
	"type": {sealedBy: bsda.SignatureEmission, label: "Le type de bordereau"},

	// Waste description
	"wasteCode":         {sealedBy: bsda.SignatureEmission, label: "Le code déchet"},
	"wasteMaterialName": {sealedBy: bsda.SignatureEmission},
	"wasteSealNumbers":  {sealedBy: bsda.SignatureWork},
	"wasteWeightValue":  {sealedBy: bsda.SignatureWork},

	// Emitter
	"emitterIsPrivateIndividual":  {sealedBy: bsda.SignatureEmission},
	"emitterCompanyName":          {sealedBy: bsda.SignatureEmission, label: "Le nom de l'entreprise émettrice"},
	"emitterCompanySiret":         {sealedBy: bsda.SignatureEmission, label: "Le SIRET de l'entreprise émettrice"},
	"emitterCompanyAddress":       {sealedBy: bsda.SignatureEmission},
	"emitterCompanyContact":       {sealedBy: bsda.SignatureEmission, unlessEmitter: true},
	"emitterCompanyPhone":         {sealedBy: bsda.SignatureEmission, unlessEmitter: true},
	"emitterCompanyMail":          {sealedBy: bsda.SignatureEmission, unlessEmitter: true},
	"emitterCustomInfo":           {sealedBy: bsda.SignatureEmission, unlessEmitter: true},
	"emitterPickupSiteName":       {sealedBy: bsda.SignatureEmission},
	"emitterPickupSiteAddress":    {sealedBy: bsda.SignatureEmission},
	"emitterPickupSiteCity":       {sealedBy: bsda.SignatureEmission},
	"emitterPickupSitePostalCode": {sealedBy: bsda.SignatureEmission},
	"emitterPickupSiteInfos":      {sealedBy: bsda.SignatureEmission},

	// Worker: the emitter may still (re)designate the worker after signing.
	"workerIsDisabled":                       {sealedBy: bsda.SignatureEmission, unlessEmitter: true},
	"workerCompanyName":                      {sealedBy: bsda.SignatureEmission, unlessEmitter: true},
	"workerCompanySiret":                     {sealedBy: bsda.SignatureEmission, unlessEmitter: true},
	"workerCompanyAddress":                   {sealedBy: bsda.SignatureEmission, unlessEmitter: true},
	"workerCompanyContact":                   {sealedBy: bsda.SignatureWork},
	"workerCompanyPhone":                     {sealedBy: bsda.SignatureWork},
	"workerCompanyMail":                      {sealedBy: bsda.SignatureWork},
	"workerCertificationHasSubSectionFour":   {sealedBy: bsda.SignatureWork},
	"workerCertificationHasSubSectionThree":  {sealedBy: bsda.SignatureWork},
	"workerCertificationCertificationNumber": {sealedBy: bsda.SignatureWork},
	"workerCertificationValidityLimit":       {sealedBy: bsda.SignatureWork},
	"workerCertificationOrganisation":        {sealedBy: bsda.SignatureWork},
	"workerWorkHasEmitterPaperSignature":     {sealedBy: bsda.SignatureWork},

	// Broker data stays editable until the final operation signature.
	"brokerCompanyName":            {sealedBy: bsda.SignatureOperation},
	"brokerCompanySiret":           {sealedBy: bsda.SignatureOperation},
	"brokerCompanyAddress":         {sealedBy: bsda.SignatureOperation},
	"brokerCompanyContact":         {sealedBy: bsda.SignatureOperation},
	"brokerCompanyPhone":           {sealedBy: bsda.SignatureOperation},
	"brokerCompanyMail":            {sealedBy: bsda.SignatureOperation},
	"brokerRecepisseNumber":        {sealedBy: bsda.SignatureOperation},
	"brokerRecepisseDepartment":    {sealedBy: bsda.SignatureOperation},
	"brokerRecepisseValidityLimit": {sealedBy: bsda.SignatureOperation},

	// Destination: the facility itself is fixed at emission, its contact
	// details follow the operation.
	"destinationCompanyName":            {sealedBy: bsda.SignatureEmission},
	"destinationCompanySiret":           {sealedBy: bsda.SignatureEmission},
	"destinationCompanyAddress":         {sealedBy: bsda.SignatureEmission},
	"destinationCompanyContact":         {sealedBy: bsda.SignatureOperation},
	"destinationCompanyPhone":           {sealedBy: bsda.SignatureOperation},
	"destinationCompanyMail":            {sealedBy: bsda.SignatureOperation},
	"destinationCap":                    {sealedBy: bsda.SignatureEmission},
	"destinationCustomInfo":             {sealedBy: bsda.SignatureOperation},
	"destinationPlannedOperationCode":   {sealedBy: bsda.SignatureEmission},
	"destinationReceptionDate":          {sealedBy: bsda.SignatureOperation},
	"destinationReceptionWeight":        {sealedBy: bsda.SignatureOperation, label: "Le poids du déchet"},
	"destinationReceptionRefusalReason": {sealedBy: bsda.SignatureOperation},
	"destinationOperationCode":          {sealedBy: bsda.SignatureOperation},
	"destinationOperationMode":          {sealedBy: bsda.SignatureOperation},
	"destinationOperationDescription":   {sealedBy: bsda.SignatureOperation},
	"destinationOperationDate":          {sealedBy: bsda.SignatureOperation},

	"grouping":   {sealedBy: bsda.SignatureEmission},
	"forwarding": {sealedBy: bsda.SignatureEmission},

	"intermediaries": {sealedBy: bsda.SignatureEmission},
}

// transporterSeals covers the fields of one transporter, frozen by that
// transporter's own transport signature.
var transporterSeals = map[string]sealRule{
	"transporterCompanyName":            {},
	"transporterCompanySiret":           {},
	"transporterCompanyVatNumber":       {},
	"transporterCompanyAddress":         {},
	"transporterCompanyContact":         {},
	"transporterCompanyPhone":           {},
	"transporterCompanyMail":            {},
	"transporterCustomInfo":             {},
	"transporterRecepisseIsExempted":    {},
	"transporterRecepisseNumber":        {},
	"transporterRecepisseDepartment":    {},
	"transporterRecepisseValidityLimit": {},
	"transporterTransportMode":          {},
	"transporterTransportPlates":        {label: "L'immatriculation du transporteur"},
	"transporterTransportTakenOverAt":   {},
}

// sealed reports whether the document-level field is frozen on b, given the
// acting user.
func fieldSealed(name string, b *bsda.Bsda, user *User) bool {
	rule, ok := documentSeals[name]
	if !ok {
		return false
	}
	if !b.SignaturesReached()[rule.sealedBy] {
		return false
	}
	if rule.unlessEmitter && b.EmitterCompanySiret != nil && user.MemberOf(*b.EmitterCompanySiret) {
		// The emitter exception lapses once the next stage has signed.
		next := nextReached(b, rule.sealedBy)
		return next
	}
	return true
}

// nextReached reports whether any signature strictly after sig is present.
func nextReached(b *bsda.Bsda, sig bsda.SignatureType) bool {
	reached := b.SignaturesReached()
	for s, ok := range reached {
		if ok && s.Order() > sig.Order() {
			return true
		}
	}
	return false
}

// sealedViolation builds the user-facing violation description for a
// document-level field.
func sealedViolation(name string) string {
	label := documentSeals[name].label
	if label == "" {
		label = "Le champ " + name
	}
	return label + " a été vérouillé via signature et ne peut pas être modifié."
}

// transporterSealedViolation does the same for a transporter field, naming
// the transporter by number.
func transporterSealedViolation(name string, number int) string {
	label := transporterSeals[name].label
	if label == "" {
		label = "Le champ " + name
	}
	return fmt.Sprintf("%s n°%d a été vérouillé via signature et ne peut pas être modifié.", label, number)
}
