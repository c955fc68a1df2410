package msx

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// v1Serializer decodes the legacy MSx layout: same common prefix, but the
// sweep header carries 8-byte name fields and predates the pulsewidth and
// startrange floats. Moment-info and ray records match v2.
type v1Serializer struct{}

// sweepHeaderV1Size is the fixed part of the v1 sweep header:
//
//	offset  width  field
//	0       4      fileid ("EDPF")
//	4       1      version
//	5       3      spare
//	8       4      length (u32)
//	12      8      radarname (NUL-padded)
//	20      8      scanname (NUL-padded)
//	28      4      radarlat (f32)
//	32      4      radarlon (f32)
//	36      4      radarheight (f32)
//	40      1      sequencesweep
//	41      1      currentsweep
//	42      1      totalsweep
//	43      1      antmode
//	44      1      priority
//	45      1      quality
//	46      2      spare
//	48      2      repeattime (u16)
//	50      2      nummoments (u16)
//	52      4      gatewidth (f32)
//	56      4      wavelength (f32)
//	60      4      metadatasize (u32)
const sweepHeaderV1Size = 64

func (v1Serializer) readSweepHeader(r io.Reader) (*SweepHeader, error) {
	b, err := readBlock(r, sweepHeaderV1Size)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: missing sweep header", ErrUnexpectedEndOfStream)
		}
		return nil, err
	}

	hdr := &SweepHeader{
		FileID:        string(b[0:4]),
		Version:       b[4],
		Length:        binary.LittleEndian.Uint32(b[8:12]),
		RadarName:     stringify(b[12:20]),
		ScanName:      stringify(b[20:28]),
		RadarLat:      float32At(b, 28),
		RadarLon:      float32At(b, 32),
		RadarHeight:   float32At(b, 36),
		SequenceSweep: b[40],
		CurrentSweep:  b[41],
		TotalSweep:    b[42],
		AntMode:       b[43],
		Priority:      b[44],
		Quality:       b[45],
		RepeatTime:    binary.LittleEndian.Uint16(b[48:50]),
		NumMoments:    binary.LittleEndian.Uint16(b[50:52]),
		GateWidth:     float32At(b, 52),
		WaveLength:    float32At(b, 56),
		// v1 predates pulse metadata.
		PulseWidth:   float32(math.NaN()),
		StartRange:   float32(math.NaN()),
		MetaDataSize: binary.LittleEndian.Uint32(b[60:64]),
	}

	if err := readMomentsInfo(r, hdr); err != nil {
		return nil, err
	}
	if err := readSweepMetadata(r, hdr); err != nil {
		return nil, err
	}
	return hdr, nil
}

func (v1Serializer) readRayHeader(r io.Reader) (*RayHeader, error) {
	return readRayHeaderCommon(r)
}
