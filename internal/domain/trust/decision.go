package trust

import "sort"

// Level is the authoritative outcome of a trust evaluation. The host must
// refuse untrusted plugins and obtain explicit user confirmation for
// requires-approval ones.
type Level string

// Decision levels.
const (
	LevelTrusted          Level = "trusted"
	LevelUntrusted        Level = "untrusted"
	LevelRequiresApproval Level = "requires-approval"
)

// Reason is a diagnostic signal attached to a decision. Reasons explain the
// outcome; Level alone is authoritative.
type Reason string

// Decision reasons.
const (
	ReasonAllowListed         Reason = "allow-listed"
	ReasonChecksumMismatch    Reason = "checksum-mismatch"
	ReasonRevoked             Reason = "revoked"
	ReasonSigned              Reason = "signed"
	ReasonSignatureUnknownKey Reason = "signature-unknown-key"
	ReasonSignatureExpired    Reason = "signature-expired"
	ReasonSignatureInvalid    Reason = "signature-invalid"
)

// ReasonSet is an unordered set of decision reasons.
type ReasonSet map[Reason]struct{}

// NewReasonSet builds a set from the given reasons.
func NewReasonSet(reasons ...Reason) ReasonSet {
	set := make(ReasonSet, len(reasons))
	for _, r := range reasons {
		set[r] = struct{}{}
	}
	return set
}

// Has reports whether the set contains a reason.
func (s ReasonSet) Has(r Reason) bool {
	_, ok := s[r]
	return ok
}

// List returns the reasons in lexical order.
func (s ReasonSet) List() []Reason {
	result := make([]Reason, 0, len(s))
	for r := range s {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Decision is the result of evaluating a plugin manifest.
type Decision struct {
	Level   Level
	Reasons ReasonSet
}

func newDecision(level Level, reasons ...Reason) Decision {
	return Decision{Level: level, Reasons: NewReasonSet(reasons...)}
}
