package msx

import (
	"math"
	"strconv"
	"strings"
)

// PolMode is the transmit polarization mode a sweep was recorded in.
type PolMode int

const (
	PolModeUndefined PolMode = iota
	PolModeH                 // horizontal only
	PolModeV                 // vertical only
	PolModeHV                // alternating H/V
	PolModeHHV               // H with interleaved V
	PolModeSimHV             // simultaneous H+V
)

func (m PolMode) String() string {
	switch m {
	case PolModeH:
		return "H"
	case PolModeV:
		return "V"
	case PolModeHV:
		return "HV"
	case PolModeHHV:
		return "HHV"
	case PolModeSimHV:
		return "SIM_HV"
	}
	return "UNDEFINED"
}

// parsePolMode accepts both the symbolic and the numeric spellings seen in
// recorded metadata.
func parsePolMode(code string) PolMode {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "H", "0":
		return PolModeH
	case "V", "1":
		return PolModeV
	case "HV", "2":
		return PolModeHV
	case "HHV", "3":
		return PolModeHHV
	case "SIM_HV", "SIMHV", "4":
		return PolModeSimHV
	}
	return PolModeUndefined
}

// phidpPhaseDeg is the full differential-phase span used to denormalize
// PHIDP moments.
const phidpPhaseDeg = 180.0

// PolarSweepInfo derives the acquisition parameters a consumer needs to
// interpret a sweep's normalized moments: polarization mode, the PRF pair,
// and the Nyquist constants. Parameters come from the sweep's embedded XML
// metadata when present, falling back to the first ray's header otherwise.
type PolarSweepInfo struct {
	sweep      *PolarSweep
	valid      bool
	polMode    PolMode
	waveLength float64
	basePRF    float64
	dprf       int
}

// NewPolarSweepInfo extracts the acquisition parameters from a loaded sweep.
// The result is always usable; Valid reports whether enough information was
// found for the Nyquist constants to be meaningful.
func NewPolarSweepInfo(sweep *PolarSweep) *PolarSweepInfo {
	info := &PolarSweepInfo{
		sweep:      sweep,
		waveLength: float64(sweep.Header.WaveLength),
	}

	if md := sweep.Header.MetaData; md != "" {
		if m, err := ParseSweepMetadata(md); err == nil {
			info.polMode = parsePolMode(m.RSP.Pol)
			if v, err := strconv.ParseFloat(strings.TrimSpace(m.RSP.PRF), 64); err == nil && v > 0 {
				info.basePRF = v
			}
			if n, err := strconv.Atoi(strings.TrimSpace(m.RSP.DPRF)); err == nil && n > 0 {
				info.dprf = n
			}
		}
	}

	// Fall back to the per-ray acquisition fields when the metadata is
	// absent or incomplete.
	if info.basePRF == 0 && len(sweep.Rays) > 0 {
		rayHdr := sweep.Rays[0].Header
		info.basePRF = float64(rayHdr.PRF)
		if info.dprf == 0 && len(rayHdr.BatchesInfo) > 0 {
			info.dprf = int(rayHdr.BatchesInfo[0].DPRF)
		}
	}

	info.valid = info.basePRF > 0 &&
		!math.IsNaN(info.waveLength) && info.waveLength > 0
	return info
}

// Valid reports whether a base PRF and wavelength could be determined.
func (info *PolarSweepInfo) Valid() bool { return info.valid }

// PolMode returns the transmit polarization mode.
func (info *PolarSweepInfo) PolMode() PolMode { return info.polMode }

// WaveLength returns the radar wavelength in meters.
func (info *PolarSweepInfo) WaveLength() float64 { return info.waveLength }

// DPRF returns the dual-PRF ratio n (n:n+1 staggering), or 0 when the sweep
// ran a single PRF.
func (info *PolarSweepInfo) DPRF() int { return info.dprf }

// BasePRF returns the recorded base PRF.
func (info *PolarSweepInfo) BasePRF() float64 { return info.basePRF }

// HighPRF returns the higher PRF of the pair, which is the recorded base PRF.
func (info *PolarSweepInfo) HighPRF() float64 { return info.basePRF }

// LowPRF returns the lower PRF of the n:n+1 pair. With no dual-PRF
// staggering it equals the base PRF.
func (info *PolarSweepInfo) LowPRF() float64 {
	if info.dprf < 2 {
		return info.basePRF
	}
	n := float64(info.dprf)
	return info.basePRF * n / (n + 1)
}

// nyquistFactor is lambda*prf/4 expressed with the wavelength in mm and the
// extra /10 unit folding of the recording processor; alternating-polarization
// modes halve the effective PRF per channel.
func (info *PolarSweepInfo) nyquistFactor() float64 {
	if info.polMode == PolModeHV {
		return 0.00125
	}
	return 0.0025
}

// VelocityNyquist returns the unambiguous-velocity constant in m/s. Dual-PRF
// staggering extends it by the ratio n.
func (info *PolarSweepInfo) VelocityNyquist() float64 {
	dprfOr1 := 1.0
	if info.dprf >= 2 {
		dprfOr1 = float64(info.dprf)
	}
	return info.waveLength * info.basePRF * dprfOr1 * info.nyquistFactor()
}

// WidthNyquist returns the spectrum-width constant in m/s. Width is never
// dual-PRF extended.
func (info *PolarSweepInfo) WidthNyquist() float64 {
	return info.waveLength * info.basePRF * info.nyquistFactor()
}

// PhidpPhase returns the differential-phase span in degrees.
func (info *PolarSweepInfo) PhidpPhase() float64 { return phidpPhaseDeg }

// IsVelocityNormalized reports whether the sweep's velocity moments are
// stored normalized to [0,1] and need the Nyquist multiplier.
func (info *PolarSweepInfo) IsVelocityNormalized() bool {
	return info.ruleNormalized(NormRuleVelocity)
}

// IsWidthNormalized reports the same for spectrum-width moments.
func (info *PolarSweepInfo) IsWidthNormalized() bool {
	return info.ruleNormalized(NormRuleWidth)
}

// IsPhidpNormalized reports the same for differential-phase moments.
func (info *PolarSweepInfo) IsPhidpNormalized() bool {
	return info.ruleNormalized(NormRulePhidp)
}

func (info *PolarSweepInfo) ruleNormalized(rule NormRule) bool {
	for _, mi := range info.sweep.Header.MomentsInfo {
		if NormRuleFor(mi.MomentID) == rule {
			return mi.IsNormalized()
		}
	}
	return false
}

// NyquistMultiplier returns the denormalization constant for a moment id:
// the value a normalized gate must be scaled by, or 1 when the moment is not
// stored normalized (or has no sweep-level constant).
func (info *PolarSweepInfo) NyquistMultiplier(id MomentID) float64 {
	mi := info.sweep.Header.MomentInfoByID(id)
	if mi == nil || !mi.IsNormalized() {
		return 1
	}
	switch NormRuleFor(id) {
	case NormRuleVelocity:
		return info.VelocityNyquist()
	case NormRuleWidth:
		return info.WidthNyquist()
	case NormRulePhidp:
		return info.PhidpPhase()
	}
	return 1
}
