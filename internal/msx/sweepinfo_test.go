package msx

import (
	"bytes"
	"math"
	"testing"
)

func TestParseSweepMetadata(t *testing.T) {
	const wrapped = `<sweep>
	  <SWEEP_DATA>
	    <SERVO><cmd mode="ppi" elevation="1.5" az_rate="18"/></SERVO>
	    <RSP><cmd prf="600" dprf="3" pol="SIM_HV" rng="0.5"/></RSP>
	    <TX><cmd BT="1" POT="250"/></TX>
	  </SWEEP_DATA>
	</sweep>`

	md, err := ParseSweepMetadata(wrapped)
	if err != nil {
		t.Fatalf("ParseSweepMetadata: %v", err)
	}
	if md.RSP.PRF != "600" || md.RSP.DPRF != "3" || md.RSP.Pol != "SIM_HV" {
		t.Errorf("RSP cmd = %+v, want prf=600 dprf=3 pol=SIM_HV", md.RSP)
	}
	if md.Servo.Mode != "ppi" || md.Servo.Elevation != "1.5" {
		t.Errorf("SERVO cmd = %+v", md.Servo)
	}
	if md.TX.POT != "250" {
		t.Errorf("TX cmd = %+v", md.TX)
	}

	// SWEEP_DATA as the document root.
	md, err = ParseSweepMetadata(`<SWEEP_DATA><RSP><cmd prf="900" pol="H"/></RSP></SWEEP_DATA>`)
	if err != nil {
		t.Fatalf("ParseSweepMetadata(root): %v", err)
	}
	if md.RSP.PRF != "900" || md.RSP.Pol != "H" {
		t.Errorf("RSP cmd = %+v, want prf=900 pol=H", md.RSP)
	}

	if _, err := ParseSweepMetadata(`<other><stuff/></other>`); err == nil {
		t.Error("ParseSweepMetadata should fail without a SWEEP_DATA element")
	}
}

func TestParsePolMode(t *testing.T) {
	tests := []struct {
		code string
		want PolMode
	}{
		{"H", PolModeH},
		{"0", PolModeH},
		{"v", PolModeV},
		{"HV", PolModeHV},
		{"2", PolModeHV},
		{"HHV", PolModeHHV},
		{"SIM_HV", PolModeSimHV},
		{"4", PolModeSimHV},
		{"", PolModeUndefined},
		{"bogus", PolModeUndefined},
	}
	for _, tt := range tests {
		if got := parsePolMode(tt.code); got != tt.want {
			t.Errorf("parsePolMode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestPolarSweepInfoFromMetadata(t *testing.T) {
	sweep, err := LoadReader(bytes.NewReader(buildTestFile()))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}

	info := NewPolarSweepInfo(sweep)
	if !info.Valid() {
		t.Fatal("Valid() = false")
	}
	if info.PolMode() != PolModeSimHV {
		t.Errorf("PolMode = %v, want SIM_HV", info.PolMode())
	}
	if info.HighPRF() != 600 || info.DPRF() != 3 {
		t.Errorf("HighPRF/DPRF = %v/%v, want 600/3", info.HighPRF(), info.DPRF())
	}
	if got, want := info.LowPRF(), 600.0*3/4; math.Abs(got-want) > 1e-9 {
		t.Errorf("LowPRF = %v, want %v", got, want)
	}

	wl := float64(float32(0.05))
	if got, want := info.VelocityNyquist(), wl*600*3*0.0025; math.Abs(got-want) > 1e-12 {
		t.Errorf("VelocityNyquist = %v, want %v", got, want)
	}
	if got, want := info.WidthNyquist(), wl*600*0.0025; math.Abs(got-want) > 1e-12 {
		t.Errorf("WidthNyquist = %v, want %v", got, want)
	}
	if info.PhidpPhase() != 180 {
		t.Errorf("PhidpPhase = %v, want 180", info.PhidpPhase())
	}

	// The test sweep stores V normalized and has no width/phidp moments.
	if !info.IsVelocityNormalized() {
		t.Error("IsVelocityNormalized = false, want true")
	}
	if info.IsWidthNormalized() || info.IsPhidpNormalized() {
		t.Error("width/phidp normalization should be false without those moments")
	}

	if got, want := info.NyquistMultiplier(MomentIDV), info.VelocityNyquist(); got != want {
		t.Errorf("NyquistMultiplier(V) = %v, want %v", got, want)
	}
	if got := info.NyquistMultiplier(MomentIDZ); got != 1 {
		t.Errorf("NyquistMultiplier(Z) = %v, want 1", got)
	}
}

func TestPolarSweepInfoFallbackToRayHeader(t *testing.T) {
	sweep, err := LoadReader(bytes.NewReader(buildTestFile()))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	sweep.Header.MetaData = "" // force the fallback path

	info := NewPolarSweepInfo(sweep)
	if !info.Valid() {
		t.Fatal("Valid() = false")
	}
	if info.HighPRF() != 600 {
		t.Errorf("HighPRF = %v, want 600 from the first ray header", info.HighPRF())
	}
	if info.DPRF() != 3 {
		t.Errorf("DPRF = %v, want 3 from the first batch info", info.DPRF())
	}
	if info.PolMode() != PolModeUndefined {
		t.Errorf("PolMode = %v, want UNDEFINED without metadata", info.PolMode())
	}
	// No dual-pol metadata: the single-channel factor applies.
	wl := float64(float32(0.05))
	if got, want := info.VelocityNyquist(), wl*600*3*0.0025; math.Abs(got-want) > 1e-12 {
		t.Errorf("VelocityNyquist = %v, want %v", got, want)
	}
}

func TestPolarSweepInfoInvalidWithoutPRF(t *testing.T) {
	sweep := &PolarSweep{Header: &SweepHeader{WaveLength: 0.05}}
	if NewPolarSweepInfo(sweep).Valid() {
		t.Error("Valid() = true for a sweep with no rays and no metadata")
	}
}
