package domain

import (
	"regexp"
	"strings"
)

// Company identifiers. A French company is identified by its SIRET, a foreign
// one by an intra-community VAT number. The two are mutually exclusive: a
// French VAT number is never accepted as a company identifier.

var vatNumberRe = regexp.MustCompile(`^[A-Z]{2}[0-9A-Z]{2,12}$`)

// IsSiret reports whether s is a well-formed SIRET: 14 digits passing the
// Luhn checksum. Établissements of La Poste (SIREN 356000000) use a different
// rule, the sum of digits must be a multiple of 5.
func IsSiret(s string) bool {
	if len(s) != 14 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	if strings.HasPrefix(s, "356000000") {
		sum := 0
		for _, r := range s {
			sum += int(r - '0')
		}
		return sum%5 == 0
	}
	return luhnValid(s)
}

// IsVatNumber reports whether s is a syntactically plausible intra-community
// VAT number (country prefix + 2 to 12 alphanumerics).
func IsVatNumber(s string) bool {
	return vatNumberRe.MatchString(s)
}

// IsFRVat reports whether s is a French VAT number. French companies must be
// referenced by SIRET, so a FR VAT number is rejected wherever a foreign
// identifier is expected.
func IsFRVat(s string) bool {
	return IsVatNumber(s) && strings.HasPrefix(s, "FR")
}

// IsForeignVat reports whether s is a valid non-French VAT number.
func IsForeignVat(s string) bool {
	return IsVatNumber(s) && !strings.HasPrefix(s, "FR")
}

func luhnValid(s string) bool {
	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		d := int(s[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
