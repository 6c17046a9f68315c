package codec

// EntryCeiling is the per-entry capacity of the storage medium in bytes.
// The medium enforces it, not the engine: a write above the ceiling is
// silently truncated or rejected by the store, so the estimator's job is to
// make that risk visible before it happens.
const EntryCeiling = 4096

// Band classifies how close a prospective write sits to the ceiling.
type Band int

const (
	// BandNominal means comfortable headroom (< 75% of the ceiling).
	BandNominal Band = iota
	// BandElevated means the entry uses 75% or more of the ceiling.
	BandElevated
	// BandNear means the entry uses 90% or more of the ceiling.
	BandNear
	// BandOver means the encoded entry exceeds the ceiling and the write
	// will likely lose data.
	BandOver
)

func (b Band) String() string {
	switch b {
	case BandOver:
		return "over"
	case BandNear:
		return "near"
	case BandElevated:
		return "elevated"
	default:
		return "nominal"
	}
}

// Usage is the estimator's verdict for one prospective write.
type Usage struct {
	// Bytes is the encoded transport size the write would occupy.
	Bytes int
	// Band places Bytes relative to EntryCeiling.
	Band Band
}

// Estimate predicts the serialized size of rec before it is committed.
// Advisory only: it never blocks the write.
func Estimate(rec Record) Usage {
	return UsageOf(len(Marshal(rec)))
}

// UsageOf bands an already-encoded size against the ceiling.
func UsageOf(n int) Usage {
	u := Usage{Bytes: n}
	switch {
	case n > EntryCeiling:
		u.Band = BandOver
	case n*10 >= EntryCeiling*9:
		u.Band = BandNear
	case n*4 >= EntryCeiling*3:
		u.Band = BandElevated
	default:
		u.Band = BandNominal
	}
	return u
}
