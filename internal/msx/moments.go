package msx

// MomentID is the numeric code identifying a physical quantity. The codes
// are assigned by the recording radar processor; _V suffixes denote the
// vertical-channel variant of a moment.
type MomentID uint32

const (
	MomentIDZ      MomentID = 0x01 // reflectivity, horizontal
	MomentIDZV     MomentID = 0x02 // reflectivity, vertical
	MomentIDV      MomentID = 0x03 // mean radial velocity
	MomentIDVV     MomentID = 0x04
	MomentIDVPPP   MomentID = 0x05 // velocity, pulse-pair processed
	MomentIDVPPPV  MomentID = 0x06
	MomentIDW      MomentID = 0x07 // spectrum width
	MomentIDWV     MomentID = 0x08
	MomentIDPHIDP  MomentID = 0x09 // differential phase
	MomentIDPHIDPF MomentID = 0x0A // differential phase, filtered
	MomentIDZDR    MomentID = 0x0B // differential reflectivity
	MomentIDRHOHV  MomentID = 0x0C // co-polar correlation
)

// NormRule selects which sweep-level normalization constant applies when a
// moment is stored normalized to [0,1].
type NormRule int

const (
	NormRuleNone     NormRule = iota
	NormRuleVelocity          // multiply by the Nyquist velocity
	NormRuleWidth             // multiply by the Nyquist width
	NormRulePhidp             // multiply by the differential-phase span
)

// normRules centralizes the physical-quantity-to-formula mapping so callers
// dispatch on a table instead of per-call id chains.
var normRules = map[MomentID]NormRule{
	MomentIDV:      NormRuleVelocity,
	MomentIDVV:     NormRuleVelocity,
	MomentIDVPPP:   NormRuleVelocity,
	MomentIDVPPPV:  NormRuleVelocity,
	MomentIDW:      NormRuleWidth,
	MomentIDWV:     NormRuleWidth,
	MomentIDPHIDP:  NormRulePhidp,
	MomentIDPHIDPF: NormRulePhidp,
}

// NormRuleFor returns the normalization rule for a moment id
// (NormRuleNone when the id has no sweep-level constant).
func NormRuleFor(id MomentID) NormRule {
	return normRules[id]
}
