package bsda

// SignatureType is the ordered lifecycle stage at which a party signs.
// The order is total: EMISSION < WORK < TRANSPORT < OPERATION. A document's
// status and the sealed-field computation both derive from which signature
// timestamps are present, never from ad hoc date comparisons.
type SignatureType string

const (
	SignatureEmission  SignatureType = "EMISSION"
	SignatureWork      SignatureType = "WORK"
	SignatureTransport SignatureType = "TRANSPORT"
	SignatureOperation SignatureType = "OPERATION"
)

var signatureOrder = map[SignatureType]int{
	SignatureEmission:  1,
	SignatureWork:      2,
	SignatureTransport: 3,
	SignatureOperation: 4,
}

// Order returns the position of the signature in the lifecycle, 0 for the
// zero value (no signature being applied).
func (s SignatureType) Order() int {
	return signatureOrder[s]
}

// AtOrAfter reports whether s is at or past the other stage. The zero value
// is before every stage.
func (s SignatureType) AtOrAfter(other SignatureType) bool {
	return s.Order() >= other.Order()
}

// SignaturesReached returns the set of document-level signatures whose
// timestamp is present. TRANSPORT is reached as soon as the first transporter
// has signed; per-transporter seals are evaluated with Transporter.Signed.
func (b *Bsda) SignaturesReached() map[SignatureType]bool {
	reached := make(map[SignatureType]bool, 4)
	if b.EmitterEmissionSignatureDate != nil {
		reached[SignatureEmission] = true
	}
	if b.WorkerWorkSignatureDate != nil {
		reached[SignatureWork] = true
	}
	for i := range b.Transporters {
		if b.Transporters[i].Signed() {
			reached[SignatureTransport] = true
			break
		}
	}
	if b.DestinationOperationSignatureDate != nil {
		reached[SignatureOperation] = true
	}
	return reached
}

// CurrentStatus derives the lifecycle status from the signature timestamps,
// the highest stage whose signature is present. Type variants without a
// worker (COLLECTION_2710, GATHERING, RESHIPMENT) skip SIGNED_BY_WORKER.
// Terminal statuses and AWAITING_CHILD never regress.
func (b *Bsda) CurrentStatus() BsdaStatus {
	if b.Status.Terminal() || b.Status == StatusAwaitingChild {
		return b.Status
	}
	reached := b.SignaturesReached()
	switch {
	case reached[SignatureOperation]:
		return StatusProcessed
	case reached[SignatureTransport]:
		return StatusSent
	case reached[SignatureWork]:
		return StatusSignedByWorker
	case reached[SignatureEmission]:
		return StatusSignedByProducer
	default:
		return StatusInitial
	}
}

// WorkerEnabled reports whether the document type carries a worker section at
// all. COLLECTION_2710 collections, gatherings and reshipments have none.
func (b *Bsda) WorkerEnabled() bool {
	if b.WorkerIsDisabled {
		return false
	}
	return b.Type == TypeOtherCollection
}
