package validation

import "github.com/petersg83/trackdechets/internal/bsda"

// operationModes maps each treatment operation code accepted on a BSDA to its
// permitted treatment modes. Codes mapping to an empty set (transit, grouping
// and storage operations) accept only an absent mode.
var operationModes = map[string][]bsda.OperationMode{
	"R 5":  {bsda.OperationModeReutilisation, bsda.OperationModeRecyclage},
	"R 12": {},
	"R 13": {},
	"D 5":  {bsda.OperationModeElimination},
	"D 9":  {bsda.OperationModeElimination},
	"D 13": {},
	"D 14": {},
	"D 15": {},
}

// knownOperationCode reports whether the code is accepted on a BSDA at all.
func knownOperationCode(code string) bool {
	_, ok := operationModes[code]
	return ok
}

// compatibleOperationMode reports whether mode is permitted for code. An
// absent mode is handled by the caller, stage-dependently.
func compatibleOperationMode(code string, mode bsda.OperationMode) bool {
	for _, m := range operationModes[code] {
		if m == mode {
			return true
		}
	}
	return false
}
