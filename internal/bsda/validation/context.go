package validation

import "github.com/petersg83/trackdechets/internal/bsda"

// User is the acting user, reduced to what sealing exceptions need: the
// companies it belongs to.
type User struct {
	ID             string
	CompanySirets  []string
	CompanyVatNums []string
}

// MemberOf reports whether the user belongs to the company identified by
// orgID.
func (u *User) MemberOf(orgID string) bool {
	if u == nil || orgID == "" {
		return false
	}
	for _, s := range u.CompanySirets {
		if s == orgID {
			return true
		}
	}
	for _, v := range u.CompanyVatNums {
		if v == orgID {
			return true
		}
	}
	return false
}

// Context carries the ephemeral validation options. It is never persisted.
type Context struct {
	// EnableCompletionTransformers runs the registry-backed transformers
	// (récépissé completion, sirenify). Disabled when re-validating already
	// persisted data for read purposes.
	EnableCompletionTransformers bool

	// EnablePreviousBsdasChecks loads grouped/forwarded bordereaux and runs
	// the consistency rules over them.
	EnablePreviousBsdasChecks bool

	// CurrentSignatureType is the signature being applied, or the zero value
	// for a consultation parse. Stage-dependent rules compare against it.
	CurrentSignatureType bsda.SignatureType

	// User is the acting user. It only relaxes seals that carry an explicit
	// emitter exception, it never bypasses sealing in general.
	User *User
}
