package polar

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Raster describes the destination grid of a polar-to-rect resampling:
// pixel counts per axis and the km-per-pixel resolution.
type Raster struct {
	XSize int
	YSize int
	XRes  float64
	YRes  float64
}

// DefaultRaster returns the canonical square raster for a PPI: 2 x numGates
// pixels per side at gate-width resolution, so the full sweep radius fits.
func DefaultRaster(numGates int, gateWidth float64) Raster {
	side := 2 * numGates
	return Raster{XSize: side, YSize: side, XRes: gateWidth, YRes: gateWidth}
}

const degPerRad = 180.0 / math.Pi

// Polar2Rect inverse-maps every raster pixel onto the PPI: pixel offsets
// from the raster center give a radial distance (nearest gate) and an
// azimuth (north-referenced, clockwise) picking the matrix cell to copy.
// Pixels beyond the last gate stay NaN.
func (p *PpiData) Polar2Rect(rs Raster, gateWidth float64) *mat.Dense {
	out := nanMatrix(rs.YSize, rs.XSize)

	radarX0 := float64(rs.XSize-1) * 0.5
	radarY0 := float64(rs.YSize-1) * 0.5

	for j := 0; j < rs.YSize; j++ {
		y := (float64(j) - radarY0) * rs.YRes
		dst := out.RawRowView(j)
		for i := 0; i < rs.XSize; i++ {
			x := (float64(i) - radarX0) * rs.XRes
			r := math.Sqrt(x*x + y*y)
			irng := int(r/gateWidth + 0.5)
			if irng >= p.numGates {
				continue
			}
			iaz := 180 - int(math.Atan2(x, y)*degPerRad)
			if iaz < 0 || iaz >= NumAzimuths {
				continue
			}
			dst[i] = p.data.At(iaz, irng)
		}
	}
	return out
}

// Polar2RectVectorized is the row-at-a-time form of Polar2Rect, built on
// gonum slice primitives. Each per-element operation matches the per-pixel
// form exactly, so the two produce bitwise-identical output (including NaN
// placement); that equivalence is relied on by callers that switch between
// them.
func (p *PpiData) Polar2RectVectorized(rs Raster, gateWidth float64) *mat.Dense {
	out := nanMatrix(rs.YSize, rs.XSize)

	radarX0 := float64(rs.XSize-1) * 0.5
	radarY0 := float64(rs.YSize-1) * 0.5

	// Scaled x offsets are shared by every row.
	xs := make([]float64, rs.XSize)
	for i := range xs {
		xs[i] = float64(i)
	}
	floats.AddConst(-radarX0, xs)
	floats.Scale(rs.XRes, xs)

	x2 := make([]float64, rs.XSize)
	copy(x2, xs)
	floats.Mul(x2, xs) // x*x

	r2 := make([]float64, rs.XSize)
	for j := 0; j < rs.YSize; j++ {
		y := (float64(j) - radarY0) * rs.YRes

		copy(r2, x2)
		floats.AddConst(y*y, r2) // x*x + y*y

		dst := out.RawRowView(j)
		for i := 0; i < rs.XSize; i++ {
			r := math.Sqrt(r2[i])
			irng := int(r/gateWidth + 0.5)
			if irng >= p.numGates {
				continue
			}
			iaz := 180 - int(math.Atan2(xs[i], y)*degPerRad)
			if iaz < 0 || iaz >= NumAzimuths {
				continue
			}
			dst[i] = p.data.At(iaz, irng)
		}
	}
	return out
}
