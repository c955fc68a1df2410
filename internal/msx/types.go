package msx

import "math"

// DataFormat tags how a moment's gate samples are stored on disk.
type DataFormat uint8

const (
	DataFormatFixed8Bit  DataFormat = 1 // one byte per gate
	DataFormatFloat32Bit DataFormat = 2 // four-byte IEEE float per gate
	DataFormatFixed16Bit DataFormat = 3 // two bytes per gate
)

// BytesPerSample returns the on-disk element width, or 0 for an
// unrecognized format code.
func (f DataFormat) BytesPerSample() int {
	switch f {
	case DataFormatFixed8Bit:
		return 1
	case DataFormatFloat32Bit:
		return 4
	case DataFormatFixed16Bit:
		return 2
	}
	return 0
}

// ScaleType selects the digital-number to physical-value formula.
type ScaleType uint8

const (
	ScaleTypeLinear ScaleType = 1
	ScaleTypeLog    ScaleType = 2
)

// SweepHeader is the fixed leading record of an MSx file plus its trailing
// variable-length metadata string (usually embedded XML).
type SweepHeader struct {
	FileID        string
	Version       uint8
	Length        uint32
	RadarName     string
	ScanName      string
	RadarLat      float32
	RadarLon      float32
	RadarHeight   float32
	SequenceSweep uint8
	CurrentSweep  uint8
	TotalSweep    uint8
	AntMode       uint8
	Priority      uint8
	Quality       uint8
	RepeatTime    uint16
	NumMoments    uint16
	GateWidth     float32
	WaveLength    float32
	PulseWidth    float32
	StartRange    float32
	MetaDataSize  uint32
	MetaData      string

	// MomentsInfo has exactly NumMoments entries after a successful load,
	// in file order; ray moment payloads follow the same order.
	MomentsInfo []*MomentInfo
}

// MomentInfoByName returns the MomentInfo whose name matches, or nil.
func (h *SweepHeader) MomentInfoByName(name string) *MomentInfo {
	for _, mi := range h.MomentsInfo {
		if mi.Name == name {
			return mi
		}
	}
	return nil
}

// MomentInfoByID returns the MomentInfo with the given moment id, or nil.
func (h *SweepHeader) MomentInfoByID(id MomentID) *MomentInfo {
	for _, mi := range h.MomentsInfo {
		if mi.MomentID == id {
			return mi
		}
	}
	return nil
}

// MomentInfo describes one recorded physical quantity: its storage format
// and the scale factors that map digital numbers to physical values.
type MomentInfo struct {
	MomentID   MomentID
	DataFormat DataFormat
	NumBytes   uint8
	Normalized bool
	Name       string
	Unit       string
	FactorA    float32
	FactorB    float32
	FactorC    float32
	ScaleType  ScaleType
}

// RealValue converts a raw digital number to a physical value. Float-format
// moments store the physical value verbatim; for the fixed formats a dn of
// exactly 0 is the no-data sentinel and decodes to NaN.
func (mi *MomentInfo) RealValue(dn float64) float64 {
	if mi.DataFormat == DataFormatFloat32Bit {
		return dn
	}
	if dn == 0 {
		return math.NaN()
	}
	switch mi.ScaleType {
	case ScaleTypeLinear:
		return float64(mi.FactorA)*dn + float64(mi.FactorB)
	case ScaleTypeLog:
		return float64(mi.FactorA) + float64(mi.FactorC)*math.Pow(10, (1-dn)/float64(mi.FactorB))
	}
	return math.NaN()
}

// MaxDigitalNumber returns the largest representable dn for the fixed
// formats and NaN for float moments (which have no dn range).
func (mi *MomentInfo) MaxDigitalNumber() float64 {
	switch mi.DataFormat {
	case DataFormatFixed8Bit:
		return 0xFF
	case DataFormatFixed16Bit:
		return 0xFFFF
	}
	return math.NaN()
}

// IsNormalized reports whether the moment's value range is normalized to
// [0,1]: the maximum representable dn must decode to within 1.0 of 1.0.
// Detection is impossible for float moments, which report false.
func (mi *MomentInfo) IsNormalized() bool {
	if mi.DataFormat == DataFormatFloat32Bit {
		return false
	}
	v := mi.RealValue(mi.MaxDigitalNumber())
	return !math.IsNaN(v) && math.Abs(v-1.0) <= 1.0
}

// angleConvDeg converts a 16-bit binary angle to degrees.
const angleConvDeg = 360.0 / 65535.0

// azimuthDeg decodes the low 16 bits of a packed ray angle.
func azimuthDeg(packed uint32) float64 {
	return float64(packed&0xFFFF) * angleConvDeg
}

// elevationDeg decodes the high 16 bits of a packed ray angle. A high word
// of 0xFFFF means "no elevation" and decodes to 0.
func elevationDeg(packed uint32) float64 {
	hi := packed >> 16
	if hi == 0xFFFF {
		return 0
	}
	return float64(hi) * angleConvDeg
}

// RayHeader is the fixed leading record of each ray, plus its batch list
// and variable-length metadata.
type RayHeader struct {
	Length       uint32
	StartAngle   uint32 // packed: low 16 bits azimuth, high 16 bits elevation
	EndAngle     uint32
	Sequence     uint16
	NumPulses    uint16
	DataBytes    uint32
	PRF          float32
	DateTime     uint64
	DataFlags    uint32
	MetaDataSize uint32
	NumBatches   uint16
	BatchesInfo  []*BatchInfo
	MetaData     string
}

// BatchInfo describes one pulse batch inside a ray.
type BatchInfo struct {
	Length     uint32
	StartRange float32
	PRF        float32
	NumPulses  uint16
	DPRF       uint16
	AngPerc    float32
}

// Ray is one pulse-train's worth of returns: a header plus one moment
// payload per MomentInfo, in sweep-header order.
type Ray struct {
	Header  *RayHeader
	Moments []*Moment
}

func (r *Ray) StartAzDeg() float64 { return azimuthDeg(r.Header.StartAngle) }

func (r *Ray) EndAzDeg() float64 { return azimuthDeg(r.Header.EndAngle) }

func (r *Ray) StartElDeg() float64 { return elevationDeg(r.Header.StartAngle) }

func (r *Ray) EndElDeg() float64 { return elevationDeg(r.Header.EndAngle) }

// MomentByID returns the ray's payload for the given moment id, or nil.
func (r *Ray) MomentByID(id MomentID) *Moment {
	for _, m := range r.Moments {
		if m.Header.MomentID == id {
			return m
		}
	}
	return nil
}

// DataMomentHeader prefixes each per-ray moment payload.
type DataMomentHeader struct {
	MomentID MomentID
	DataSize uint32
}

// Moment is one ray's sample array for one physical quantity. Gates holds
// the raw digital numbers (or the stored floats for float-format moments).
type Moment struct {
	Header DataMomentHeader
	Gates  []float64
}

// NumGates returns the gate count of the payload.
func (m *Moment) NumGates() int { return len(m.Gates) }

// RealValue decodes the gate at index through the moment's scale formula.
func (m *Moment) RealValue(mi *MomentInfo, index int) float64 {
	return mi.RealValue(m.Gates[index])
}

// PolarSweep is the in-memory object graph of one MSx file: fully populated
// by Load in a single pass and read-only afterwards.
type PolarSweep struct {
	Header *SweepHeader
	Rays   []*Ray
}
