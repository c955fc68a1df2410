package msx

import (
	"math"
	"testing"
)

func TestRealValueLinear(t *testing.T) {
	mi := &MomentInfo{
		DataFormat: DataFormatFixed8Bit,
		ScaleType:  ScaleTypeLinear,
		FactorA:    0.5,
		FactorB:    -10,
	}

	if v := mi.RealValue(40); v != 10.0 {
		t.Errorf("RealValue(40) = %v, want 10.0", v)
	}
	if v := mi.RealValue(0); !math.IsNaN(v) {
		t.Errorf("RealValue(0) = %v, want NaN (no-data sentinel)", v)
	}
}

func TestRealValueLog(t *testing.T) {
	mi := &MomentInfo{
		DataFormat: DataFormatFixed8Bit,
		ScaleType:  ScaleTypeLog,
		FactorA:    0.1,
		FactorB:    50,
		FactorC:    1.0,
	}

	// dn=1 makes the exponent zero: A + C*10^0.
	if v := mi.RealValue(1); math.Abs(v-1.1) > 1e-12 {
		t.Errorf("RealValue(1) = %v, want 1.1", v)
	}
	want := 0.1 + math.Pow(10, (1-101.0)/50)
	if v := mi.RealValue(101); math.Abs(v-want) > 1e-12 {
		t.Errorf("RealValue(101) = %v, want %v", v, want)
	}
}

func TestRealValueFloatPassthrough(t *testing.T) {
	mi := &MomentInfo{DataFormat: DataFormatFloat32Bit, ScaleType: ScaleTypeLinear}
	if v := mi.RealValue(-3.25); v != -3.25 {
		t.Errorf("RealValue(-3.25) = %v, want verbatim passthrough", v)
	}
	if v := mi.RealValue(0); v != 0 {
		t.Errorf("RealValue(0) = %v, float moments have no sentinel", v)
	}
}

func TestIsNormalized(t *testing.T) {
	tests := []struct {
		name string
		mi   MomentInfo
		want bool
	}{
		{
			name: "normalized 8-bit velocity",
			mi: MomentInfo{
				DataFormat: DataFormatFixed8Bit,
				ScaleType:  ScaleTypeLinear,
				FactorA:    2.0 / 254.0,
				FactorB:    -256.0 / 254.0,
			},
			want: true,
		},
		{
			name: "physical-scale reflectivity",
			mi: MomentInfo{
				DataFormat: DataFormatFixed8Bit,
				ScaleType:  ScaleTypeLinear,
				FactorA:    0.5,
				FactorB:    -32,
			},
			want: false,
		},
		{
			name: "normalized 16-bit",
			mi: MomentInfo{
				DataFormat: DataFormatFixed16Bit,
				ScaleType:  ScaleTypeLinear,
				FactorA:    2.0 / 65534.0,
				FactorB:    -65536.0 / 65534.0,
			},
			want: true,
		},
		{
			name: "float moment never normalized",
			mi: MomentInfo{
				DataFormat: DataFormatFloat32Bit,
				ScaleType:  ScaleTypeLinear,
				FactorA:    1,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mi.IsNormalized(); got != tt.want {
				t.Errorf("IsNormalized() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAngleDecoding(t *testing.T) {
	packed := packAngle(32768, 1024)
	if got, want := azimuthDeg(packed), 32768*angleConvDeg; got != want {
		t.Errorf("azimuthDeg = %v, want %v", got, want)
	}
	if got, want := elevationDeg(packed), 1024*angleConvDeg; got != want {
		t.Errorf("elevationDeg = %v, want %v", got, want)
	}

	// A high word of all ones marks a missing elevation.
	if got := elevationDeg(packAngle(100, 0xFFFF)); got != 0 {
		t.Errorf("elevationDeg(el=0xFFFF) = %v, want 0", got)
	}
}

func TestNormRuleFor(t *testing.T) {
	if NormRuleFor(MomentIDV) != NormRuleVelocity {
		t.Error("V should use the velocity rule")
	}
	if NormRuleFor(MomentIDWV) != NormRuleWidth {
		t.Error("W_V should use the width rule")
	}
	if NormRuleFor(MomentIDPHIDPF) != NormRulePhidp {
		t.Error("PHIDP_F should use the phidp rule")
	}
	if NormRuleFor(MomentIDZ) != NormRuleNone {
		t.Error("Z has no normalization rule")
	}
}
