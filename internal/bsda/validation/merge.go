package validation

import (
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/petersg83/trackdechets/internal/bsda"
	"github.com/petersg83/trackdechets/pkg/domain"
)

// Input is a partial update: nil pointers and nil slices mean "field not
// provided". Setting a string field to "" clears it; null and empty string
// are interchangeable for sealing purposes. Field names mirror bsda.Bsda so
// the merge can pair them up mechanically.
type Input struct {
	Type *bsda.BsdaType

	WasteCode         *string
	WasteMaterialName *string
	WasteSealNumbers  []string
	WasteWeightValue  *float64

	EmitterIsPrivateIndividual  *bool
	EmitterCompanyName          *string
	EmitterCompanySiret         *string
	EmitterCompanyAddress       *string
	EmitterCompanyContact       *string
	EmitterCompanyPhone         *string
	EmitterCompanyMail          *string
	EmitterCustomInfo           *string
	EmitterPickupSiteName       *string
	EmitterPickupSiteAddress    *string
	EmitterPickupSiteCity       *string
	EmitterPickupSitePostalCode *string
	EmitterPickupSiteInfos      *string

	WorkerIsDisabled                       *bool
	WorkerCompanyName                      *string
	WorkerCompanySiret                     *string
	WorkerCompanyAddress                   *string
	WorkerCompanyContact                   *string
	WorkerCompanyPhone                     *string
	WorkerCompanyMail                      *string
	WorkerCertificationHasSubSectionFour   *bool
	WorkerCertificationHasSubSectionThree  *bool
	WorkerCertificationCertificationNumber *string
	WorkerCertificationValidityLimit       *time.Time
	WorkerCertificationOrganisation        *string
	WorkerWorkHasEmitterPaperSignature     *bool

	BrokerCompanyName            *string
	BrokerCompanySiret           *string
	BrokerCompanyAddress         *string
	BrokerCompanyContact         *string
	BrokerCompanyPhone           *string
	BrokerCompanyMail            *string
	BrokerRecepisseNumber        *string
	BrokerRecepisseDepartment    *string
	BrokerRecepisseValidityLimit *time.Time

	DestinationCompanyName            *string
	DestinationCompanySiret           *string
	DestinationCompanyAddress         *string
	DestinationCompanyContact         *string
	DestinationCompanyPhone           *string
	DestinationCompanyMail            *string
	DestinationCap                    *string
	DestinationCustomInfo             *string
	DestinationPlannedOperationCode   *string
	DestinationReceptionDate          *time.Time
	DestinationReceptionWeight        *float64
	DestinationReceptionRefusalReason *string
	DestinationOperationCode          *string
	DestinationOperationMode          *bsda.OperationMode
	DestinationOperationDescription   *string
	DestinationOperationDate          *time.Time

	Transporters []TransporterInput

	Grouping   []domain.BsdaID
	Forwarding *domain.BsdaID

	Intermediaries []bsda.IntermediaryCompany
}

// TransporterInput updates one entry of the transporter list. Number
// references an existing transporter; zero means a new one, appended in
// place. The full desired ordered list must be submitted when Transporters
// is set.
type TransporterInput struct {
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

	TransporterTransportMode        *bsda.TransportMode
	TransporterTransportPlates      []string
	TransporterTransportTakenOverAt *time.Time
}

// MergeResult is the outcome of the merge entry point: the merged document
// and the literal list of field names the update actually changed.
// Idempotent re-submissions contribute nothing to UpdatedFields.
type MergeResult struct {
	Bsda          bsda.Bsda
	UpdatedFields []string
}

// mergeInput applies the partial input onto the persisted document,
// enforcing the sealed-field policy. All-or-nothing: any violation fails the
// whole merge with a single aggregated SealedFieldError.
func mergeInput(persisted bsda.Bsda, input Input, user *User) (bsda.Bsda, []string, error) {
	merged := persisted
	merged.Transporters = slices.Clone(persisted.Transporters)
	merged.Grouping = slices.Clone(persisted.Grouping)
	merged.Intermediaries = slices.Clone(persisted.Intermediaries)
	merged.WasteSealNumbers = slices.Clone(persisted.WasteSealNumbers)

	var updated []string
	var violations []string

	iv := reflect.ValueOf(input)
	it := iv.Type()
	mv := reflect.ValueOf(&merged).Elem()

	for i := 0; i < it.NumField(); i++ {
		f := it.Field(i)
		if f.Name == "Transporters" || f.Name == "Intermediaries" {
			continue
		}
		fv := iv.Field(i)
		if fv.IsNil() {
			continue
		}

		name := fieldName(f.Name)
		target := mv.FieldByName(f.Name)

		newV := fv
		if fv.Kind() == reflect.Pointer && target.Kind() != reflect.Pointer {
			newV = fv.Elem()
		}

		if semanticallyEqual(target, newV) {
			continue
		}
		if fieldSealed(name, &persisted, user) {
			violations = append(violations, sealedViolation(name))
			continue
		}
		target.Set(newV)
		updated = append(updated, name)
	}

	if input.Transporters != nil {
		transporters, changed, tViolations, err := mergeTransporters(persisted.Transporters, input.Transporters)
		if err != nil {
			return bsda.Bsda{}, nil, err
		}
		violations = append(violations, tViolations...)
		if changed {
			merged.Transporters = transporters
			updated = append(updated, "transporters")
		}
	}

	if input.Intermediaries != nil && !reflect.DeepEqual(normalizedIntermediaries(input.Intermediaries), normalizedIntermediaries(persisted.Intermediaries)) {
		if fieldSealed("intermediaries", &persisted, user) {
			violations = append(violations, sealedViolation("intermediaries"))
		} else {
			merged.Intermediaries = slices.Clone(input.Intermediaries)
			updated = append(updated, "intermediaries")
		}
	}

	if len(violations) > 0 {
		return bsda.Bsda{}, nil, &SealedFieldError{Violations: violations}
	}
	return merged, updated, nil
}

// mergeTransporters applies the list semantics: a transporter that already
// signed cannot be removed, reordered or edited; a new transporter may always
// be appended; an unsigned transporter's data may be replaced freely.
func mergeTransporters(persisted []bsda.Transporter, inputs []TransporterInput) ([]bsda.Transporter, bool, []string, error) {
	byNumber := make(map[int]int, len(persisted))
	for i := range persisted {
		byNumber[persisted[i].Number] = i
	}

	var violations []string
	changed := false
	result := make([]bsda.Transporter, 0, len(inputs))

	for pos, in := range inputs {
		var t bsda.Transporter
		if in.Number > 0 {
			idx, ok := byNumber[in.Number]
			if !ok {
				return nil, false, nil, fmt.Errorf("le transporteur n°%d n'existe pas sur ce bordereau", in.Number)
			}
			t = persisted[idx]
			if t.Signed() && idx != pos {
				violations = append(violations, fmt.Sprintf(
					"Le transporteur n°%d a déjà signé le bordereau, il ne peut pas être déplacé ou supprimé.", t.Number))
			} else if idx != pos {
				changed = true
			}
		} else {
			t = bsda.Transporter{ID: uuid.NewString()}
			changed = true
		}

		fieldChanged, fieldViolations := applyTransporterInput(&t, in, max(in.Number, pos+1))
		changed = changed || fieldChanged
		violations = append(violations, fieldViolations...)

		t.Number = pos + 1
		result = append(result, t)
	}

	// A signed transporter missing from the submitted list is a removal.
	kept := make(map[int]bool, len(inputs))
	for _, in := range inputs {
		if in.Number > 0 {
			kept[in.Number] = true
		}
	}
	for i := range persisted {
		if persisted[i].Signed() && !kept[persisted[i].Number] {
			violations = append(violations, fmt.Sprintf(
				"Le transporteur n°%d a déjà signé le bordereau, il ne peut pas être déplacé ou supprimé.", persisted[i].Number))
		} else if !kept[persisted[i].Number] {
			changed = true
		}
	}

	return result, changed, violations, nil
}

func applyTransporterInput(t *bsda.Transporter, in TransporterInput, number int) (bool, []string) {
	changed := false
	var violations []string

	iv := reflect.ValueOf(in)
	it := iv.Type()
	tv := reflect.ValueOf(t).Elem()

	for i := 0; i < it.NumField(); i++ {
		f := it.Field(i)
		if f.Name == "Number" {
			continue
		}
		fv := iv.Field(i)
		if fv.IsNil() {
			continue
		}

		name := fieldName(f.Name)
		target := tv.FieldByName(f.Name)

		if semanticallyEqual(target, fv) {
			continue
		}
		if t.Signed() {
			violations = append(violations, transporterSealedViolation(name, number))
			continue
		}
		target.Set(fv)
		changed = true
	}
	return changed, violations
}

func normalizedIntermediaries(list []bsda.IntermediaryCompany) []bsda.IntermediaryCompany {
	if len(list) == 0 {
		return nil
	}
	return list
}

// fieldName converts a Go field name to its public lowerCamel path.
func fieldName(goName string) string {
	return string(goName[0]|0x20) + goName[1:]
}

// semanticallyEqual compares a persisted value and an input value, treating
// nil pointers, empty strings and empty slices as the same "empty" value, and
// comparing times by instant.
func semanticallyEqual(a, b reflect.Value) bool {
	ea, eb := semanticallyEmpty(a), semanticallyEmpty(b)
	if ea || eb {
		return ea && eb
	}
	for a.Kind() == reflect.Pointer {
		a = a.Elem()
	}
	for b.Kind() == reflect.Pointer {
		b = b.Elem()
	}
	if at, ok := a.Interface().(time.Time); ok {
		bt, ok := b.Interface().(time.Time)
		return ok && at.Equal(bt)
	}
	return reflect.DeepEqual(a.Interface(), b.Interface())
}

func semanticallyEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		return v.IsNil() || semanticallyEmpty(v.Elem())
	case reflect.String:
		return v.String() == ""
	case reflect.Slice:
		return v.Len() == 0
	}
	return false
}
