package domain

import "github.com/google/uuid"

// BsdaID identifies a bordereau. Readable ids ("BSDA-...") come from the
// persistence layer; tests and the demo CLI generate opaque ones.
type BsdaID string

func NewBsdaID() BsdaID {
	return BsdaID("BSDA-" + uuid.NewString())
}

func (id BsdaID) String() string { return string(id) }
