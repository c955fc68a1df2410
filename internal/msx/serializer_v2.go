package msx

import (
	"encoding/binary"
	"fmt"
	"io"
)

// v2Serializer decodes the current MSx layout. All fields little-endian.
type v2Serializer struct{}

// sweepHeaderV2Size is the fixed part of the v2 sweep header:
//
//	offset  width  field
//	0       4      fileid ("EDPF")
//	4       1      version
//	5       3      spare
//	8       4      length (u32)
//	12      16     radarname (NUL-padded)
//	28      16     scanname (NUL-padded)
//	44      4      radarlat (f32)
//	48      4      radarlon (f32)
//	52      4      radarheight (f32)
//	56      1      sequencesweep
//	57      1      currentsweep
//	58      1      totalsweep
//	59      1      antmode
//	60      1      priority
//	61      1      quality
//	62      2      spare
//	64      2      repeattime (u16)
//	66      2      nummoments (u16)
//	68      4      gatewidth (f32)
//	72      4      wavelength (f32)
//	76      4      pulsewidth (f32)
//	80      4      startrange (f32)
//	84      4      metadatasize (u32)
const sweepHeaderV2Size = 88

func (v2Serializer) readSweepHeader(r io.Reader) (*SweepHeader, error) {
	b, err := readBlock(r, sweepHeaderV2Size)
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
		RadarName:     stringify(b[12:28]),
		ScanName:      stringify(b[28:44]),
		RadarLat:      float32At(b, 44),
		RadarLon:      float32At(b, 48),
		RadarHeight:   float32At(b, 52),
		SequenceSweep: b[56],
		CurrentSweep:  b[57],
		TotalSweep:    b[58],
		AntMode:       b[59],
		Priority:      b[60],
		Quality:       b[61],
		RepeatTime:    binary.LittleEndian.Uint16(b[64:66]),
		NumMoments:    binary.LittleEndian.Uint16(b[66:68]),
		GateWidth:     float32At(b, 68),
		WaveLength:    float32At(b, 72),
		PulseWidth:    float32At(b, 76),
		StartRange:    float32At(b, 80),
		MetaDataSize:  binary.LittleEndian.Uint32(b[84:88]),
	}

	if err := readMomentsInfo(r, hdr); err != nil {
		return nil, err
	}
	if err := readSweepMetadata(r, hdr); err != nil {
		return nil, err
	}
	return hdr, nil
}

// rayHeaderSize is the fixed part of a ray header (identical in v1 and v2):
//
//	offset  width  field
//	0       4      length (u32)
//	4       4      startangle (packed az+el, u32)
//	8       4      endangle (u32)
//	12      2      sequence (u16)
//	14      2      numpulses (u16)
//	16      4      databytes (u32)
//	20      4      prf (f32)
//	24      8      datetime (u64)
//	32      4      dataflags (u32)
//	36      4      metadatasize (u32)
//	40      2      numbatches (u16)
//	42      6      spare
const rayHeaderSize = 48

func (v2Serializer) readRayHeader(r io.Reader) (*RayHeader, error) {
	return readRayHeaderCommon(r)
}

// readRayHeaderCommon decodes the shared ray-header layout. io.EOF at the
// record boundary is passed through untouched: it is the read loop's
// ordinary termination signal.
func readRayHeaderCommon(r io.Reader) (*RayHeader, error) {
	b, err := readBlock(r, rayHeaderSize)
	if err != nil {
		return nil, err
	}

	hdr := &RayHeader{
		Length:       binary.LittleEndian.Uint32(b[0:4]),
		StartAngle:   binary.LittleEndian.Uint32(b[4:8]),
		EndAngle:     binary.LittleEndian.Uint32(b[8:12]),
		Sequence:     binary.LittleEndian.Uint16(b[12:14]),
		NumPulses:    binary.LittleEndian.Uint16(b[14:16]),
		DataBytes:    binary.LittleEndian.Uint32(b[16:20]),
		PRF:          float32At(b, 20),
		DateTime:     binary.LittleEndian.Uint64(b[24:32]),
		DataFlags:    binary.LittleEndian.Uint32(b[32:36]),
		MetaDataSize: binary.LittleEndian.Uint32(b[36:40]),
		NumBatches:   binary.LittleEndian.Uint16(b[40:42]),
	}

	if err := readBatchesAndMetadata(r, hdr); err != nil {
		return nil, err
	}
	return hdr, nil
}
