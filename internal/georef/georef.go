// Package georef computes per-gate beam geometry: the mid-beam height and
// the ground (horizon) distance of every range gate of a ray, using the
// standard 4/3-Earth-radius refraction model.
package georef

import (
	"math"
	"sort"
)

const (
	// ERadius is the 4/3-refraction-corrected Earth radius in metres.
	ERadius = 6371000.0 * 4.0 / 3.0

	// EarthRadius is ERadius in km, the unit the geometry works in.
	EarthRadius = ERadius * 0.001

	earthRadius2 = EarthRadius * EarthRadius
)

// Gate is the derived geometry of one range gate.
type Gate struct {
	Index           int
	MidHeight       float64 // km above sea level at mid-gate
	HorizonDistance float64 // km along the ground
}

// Reference holds the per-gate geometry of one ray, ordered by gate index.
// Horizon distances are monotonically non-decreasing for any elevation in
// (-90, 90), which the nearest lookup relies on.
type Reference struct {
	gates     []Gate
	elevation float64
	gateWidth float64
}

// Build computes the geometry for numGates gates. elevationDeg is the beam
// elevation in degrees (values above 180 are the wrapped encoding of
// negative elevations and are normalized by subtracting 360); gateWidth and
// radarHeight are in km.
func Build(numGates int, elevationDeg, gateWidth, radarHeight float64) *Reference {
	if elevationDeg > 180 {
		elevationDeg -= 360
	}

	ref := &Reference{
		gates:     make([]Gate, numGates),
		elevation: elevationDeg,
		gateWidth: gateWidth,
	}

	elevRad := elevationDeg * math.Pi / 180
	sinElev := math.Sin(elevRad)
	cosElev := math.Cos(elevRad)
	for i := 0; i < numGates; i++ {
		gateRange := (float64(i) + 0.5) * gateWidth
		height := radarHeight +
			math.Sqrt(earthRadius2+gateRange*gateRange+2*EarthRadius*gateRange*sinElev) -
			EarthRadius
		horizon := EarthRadius * math.Asin(gateRange*cosElev/(EarthRadius+height))
		ref.gates[i] = Gate{Index: i, MidHeight: height, HorizonDistance: horizon}
	}
	return ref
}

// Elevation returns the normalized beam elevation in degrees.
func (r *Reference) Elevation() float64 { return r.elevation }

// GateWidth returns the gate width in km.
func (r *Reference) GateWidth() float64 { return r.gateWidth }

// Gates returns the per-gate geometry in gate order.
func (r *Reference) Gates() []Gate { return r.gates }

// Gate returns the geometry of one gate.
func (r *Reference) Gate(index int) Gate { return r.gates[index] }

// ClosestToHorizonDistance returns the gate whose horizon distance is
// nearest to the given ground distance, by binary search over the monotonic
// distance sequence and picking the nearer of the two bracketing gates.
// The second return is false when the reference has no gates.
func (r *Reference) ClosestToHorizonDistance(distance float64) (Gate, bool) {
	if len(r.gates) == 0 {
		return Gate{}, false
	}

	idx := sort.Search(len(r.gates), func(i int) bool {
		return r.gates[i].HorizonDistance >= distance
	})

	switch {
	case idx <= 0:
		return r.gates[0], true
	case idx >= len(r.gates):
		return r.gates[len(r.gates)-1], true
	}

	cur := math.Abs(distance - r.gates[idx].HorizonDistance)
	prev := math.Abs(distance - r.gates[idx-1].HorizonDistance)
	if prev < cur {
		return r.gates[idx-1], true
	}
	return r.gates[idx], true
}
