package polar

import (
	"math"
	"testing"

	"github.com/meteoradar/msxkit/internal/msx"
)

// gradientSweep builds a full-coverage sweep whose gate values encode
// (azimuth quadrant, gate) so resampled pixels are traceable.
func gradientSweep(numGates int) *msx.PolarSweep {
	gatesFor := func(base float64) []float64 {
		g := make([]float64, numGates)
		for i := range g {
			g[i] = base + float64(i)
		}
		return g
	}
	return makeSweep([]*msx.MomentInfo{zInfo},
		makeRay(0, 89, msx.MomentIDZ, gatesFor(10)),
		makeRay(90, 179, msx.MomentIDZ, gatesFor(60)),
		makeRay(180, 269, msx.MomentIDZ, gatesFor(110)),
		makeRay(270, 359, msx.MomentIDZ, gatesFor(160)),
	)
}

func TestDefaultRaster(t *testing.T) {
	rs := DefaultRaster(100, 0.5)
	if rs.XSize != 200 || rs.YSize != 200 {
		t.Errorf("size = %dx%d, want 200x200", rs.XSize, rs.YSize)
	}
	if rs.XRes != 0.5 || rs.YRes != 0.5 {
		t.Errorf("res = %vx%v, want 0.5x0.5", rs.XRes, rs.YRes)
	}
}

func TestPolar2RectScalarVectorizedBitwiseEqual(t *testing.T) {
	const numGates = 25
	const gateWidth = 0.5

	p := NewPpiData(0)
	if err := p.TransformByID(gradientSweep(numGates), msx.MomentIDZ); err != nil {
		t.Fatalf("TransformByID: %v", err)
	}

	rasters := []Raster{
		DefaultRaster(numGates, gateWidth),
		{XSize: 33, YSize: 47, XRes: 0.4, YRes: 0.7}, // non-square, anisotropic
		{XSize: 1, YSize: 1, XRes: 1, YRes: 1},
	}

	for _, rs := range rasters {
		scalar := p.Polar2Rect(rs, gateWidth)
		vector := p.Polar2RectVectorized(rs, gateWidth)

		for j := 0; j < rs.YSize; j++ {
			for i := 0; i < rs.XSize; i++ {
				a, b := scalar.At(j, i), vector.At(j, i)
				if math.Float64bits(a) != math.Float64bits(b) {
					t.Fatalf("raster %dx%d pixel (%d,%d): scalar %v (%#x) != vectorized %v (%#x)",
						rs.XSize, rs.YSize, j, i,
						a, math.Float64bits(a), b, math.Float64bits(b))
				}
			}
		}
	}
}

func TestPolar2RectGeometry(t *testing.T) {
	const numGates = 25
	const gateWidth = 0.5

	p := NewPpiData(0)
	if err := p.TransformByID(gradientSweep(numGates), msx.MomentIDZ); err != nil {
		t.Fatalf("TransformByID: %v", err)
	}

	rs := DefaultRaster(numGates, gateWidth)
	out := p.Polar2Rect(rs, gateWidth)

	// Corners lie beyond the sweep radius and stay NaN.
	for _, px := range [][2]int{{0, 0}, {0, rs.XSize - 1}, {rs.YSize - 1, 0}, {rs.YSize - 1, rs.XSize - 1}} {
		if v := out.At(px[0], px[1]); !math.IsNaN(v) {
			t.Errorf("corner (%d,%d) = %v, want NaN", px[0], px[1], v)
		}
	}

	// Every non-NaN pixel must be a value that exists in the PPI.
	valid := make(map[float64]bool)
	for az := 0; az < NumAzimuths; az++ {
		row := p.GetRay(az)
		for _, v := range row {
			if !math.IsNaN(v) {
				valid[v] = true
			}
		}
	}
	seen := 0
	for j := 0; j < rs.YSize; j++ {
		for i := 0; i < rs.XSize; i++ {
			v := out.At(j, i)
			if math.IsNaN(v) {
				continue
			}
			seen++
			if !valid[v] {
				t.Fatalf("pixel (%d,%d) = %v not present in the source PPI", j, i, v)
			}
		}
	}
	if seen == 0 {
		t.Fatal("resampled raster is entirely NaN")
	}
}
