package polar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/meteoradar/msxkit/internal/msx"
)

// NumAzimuths is the fixed row count of every PPI matrix: one row per
// integer azimuth degree.
const NumAzimuths = 360

// PpiData is the 360 x numGates matrix of physical values for one moment of
// one sweep. The matrix owns its buffer; it stays valid independently of the
// source sweep.
type PpiData struct {
	data     *mat.Dense
	numGates int
	momID    msx.MomentID
	norm     bool
	mult     float64
}

// NewPpiData returns an empty PPI sized for numGates gates, all cells NaN.
// numGates 0 defers allocation to the first Transform call.
func NewPpiData(numGates int) *PpiData {
	p := &PpiData{numGates: numGates, mult: math.NaN()}
	if numGates > 0 {
		p.data = nanMatrix(NumAzimuths, numGates)
	}
	return p
}

func nanMatrix(rows, cols int) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	raw := m.RawMatrix().Data
	for i := range raw {
		raw[i] = math.NaN()
	}
	return m
}

// NumGates returns the matrix column count.
func (p *PpiData) NumGates() int { return p.numGates }

// NumRays returns the matrix row count (always 360 once built).
func (p *PpiData) NumRays() int {
	if p.data == nil {
		return 0
	}
	return NumAzimuths
}

// MomentID returns the moment selected by the last Transform.
func (p *PpiData) MomentID() msx.MomentID { return p.momID }

// Normalized reports whether the transformed moment was stored normalized
// and had the multiplier applied.
func (p *PpiData) Normalized() bool { return p.norm }

// Multiplier returns the denormalization constant applied to a normalized
// moment, NaN otherwise.
func (p *PpiData) Multiplier() float64 { return p.mult }

// Data returns the underlying dense matrix.
func (p *PpiData) Data() *mat.Dense { return p.data }

// GetRay returns one azimuth row of the matrix, backed by the matrix buffer.
func (p *PpiData) GetRay(index int) []float64 {
	return p.data.RawRowView(index)
}

// TransformByName builds the PPI for the moment with the given name.
func (p *PpiData) TransformByName(sweep *msx.PolarSweep, name string) error {
	mi := sweep.Header.MomentInfoByName(name)
	if mi == nil {
		return fmt.Errorf("%w: name %q", msx.ErrUnknownMoment, name)
	}
	return p.transform(sweep, mi)
}

// TransformByID builds the PPI for the moment with the given id.
func (p *PpiData) TransformByID(sweep *msx.PolarSweep, id msx.MomentID) error {
	mi := sweep.Header.MomentInfoByID(id)
	if mi == nil {
		return fmt.Errorf("%w: id 0x%X", msx.ErrUnknownMoment, uint32(id))
	}
	return p.transform(sweep, mi)
}

// transform fills the azimuth matrix: each ray's decoded gates are written
// into every integer azimuth bin the ray covers. Rays are rounded onto
// [start,stop] bins with seam handling; the last bin of a range yields to a
// bin already filled by an earlier ray so adjacent rays do not overwrite
// each other's edges.
func (p *PpiData) transform(sweep *msx.PolarSweep, mi *msx.MomentInfo) error {
	if len(sweep.Rays) == 0 {
		return fmt.Errorf("%w: sweep has no rays", msx.ErrUnknownMoment)
	}
	p.momID = mi.MomentID

	first := sweep.Rays[0].MomentByID(p.momID)
	if first == nil {
		return fmt.Errorf("%w: id 0x%X has no payload", msx.ErrUnknownMoment, uint32(p.momID))
	}
	p.numGates = first.NumGates()

	info := msx.NewPolarSweepInfo(sweep)
	p.norm = detectNorm(info, mi)
	if p.norm {
		p.mult = detectMult(info, mi)
	} else {
		p.mult = math.NaN()
	}

	p.data = nanMatrix(NumAzimuths, p.numGates)

	// Per-bin fill counts, so a later ray's trailing edge does not
	// overwrite a bin an earlier ray already owns.
	var filled [NumAzimuths]int

	row := make([]float64, p.numGates)
	for _, ray := range sweep.Rays {
		mom := ray.MomentByID(p.momID)
		if mom == nil {
			continue
		}

		azStart := int(0.5 + ray.StartAzDeg())
		azStop := int(0.5 + ray.EndAzDeg())
		if azStop < azStart {
			if azStop < azStart-10 {
				// Ray crosses the 0/360 seam.
				azStop += 360
			} else {
				// Reversed-rotation anomaly: swap.
				azStart, azStop = azStop, azStart
			}
		} else if azStart < azStop && azStop > 355 && azStart < 5 {
			// Straddles the seam the other way around.
			azStart, azStop = azStop, azStart+360
		}

		n := p.numGates
		if mom.NumGates() < n {
			n = mom.NumGates()
		}
		for k := 0; k < n; k++ {
			v := mom.RealValue(mi, k)
			if p.norm {
				v *= p.mult
			}
			row[k] = v
		}

		for j := azStart; j <= azStop; j++ {
			az := j
			if az > 359 {
				az -= 360
			} else if az < 0 {
				az += 360
			}
			if j == azStop && filled[az] != 0 {
				continue
			}
			filled[az]++
			copy(p.data.RawRowView(az)[:n], row[:n])
		}
	}
	return nil
}

func detectNorm(info *msx.PolarSweepInfo, mi *msx.MomentInfo) bool {
	switch msx.NormRuleFor(mi.MomentID) {
	case msx.NormRuleWidth:
		return info.IsWidthNormalized()
	case msx.NormRuleVelocity:
		return info.IsVelocityNormalized()
	case msx.NormRulePhidp:
		return info.IsPhidpNormalized()
	}
	return false
}

func detectMult(info *msx.PolarSweepInfo, mi *msx.MomentInfo) float64 {
	switch msx.NormRuleFor(mi.MomentID) {
	case msx.NormRuleWidth:
		return info.WidthNyquist()
	case msx.NormRuleVelocity:
		return info.VelocityNyquist()
	case msx.NormRulePhidp:
		return info.PhidpPhase()
	}
	return 1
}
