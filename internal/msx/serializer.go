package msx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// serializer is the version-specific part of the decoder: the sweep and ray
// header layouts differ between v1 and v2, everything after them is shared.
type serializer interface {
	readSweepHeader(r io.Reader) (*SweepHeader, error)
	readRayHeader(r io.Reader) (*RayHeader, error)
}

// readBlock reads exactly n bytes. A stream that ends mid-block maps to
// ErrUnexpectedEndOfStream; a stream that ends cleanly at the block
// boundary (zero bytes read) surfaces as io.EOF so the ray loop can tell
// ordinary termination from a truncated record.
func readBlock(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: short read (%v)", ErrUnexpectedEndOfStream, err)
	}
	return buf, nil
}

// stringify decodes a fixed-width NUL-padded field.
func stringify(b []byte) string {
	return strings.TrimRight(string(b), "\x00")
}

func float32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

// loadSweep drives the read loop:
//
//	sweep header -> { ray header -> (moment header + gates) x N } until EOF
//
// Running out of bytes between ray records is the ordinary termination
// condition. A truncated ray record is discarded and terminates the loop
// with the rays already parsed; only a bad data-format code aborts the load.
func loadSweep(r io.Reader, s serializer) (*PolarSweep, error) {
	hdr, err := s.readSweepHeader(r)
	if err != nil {
		if err == io.EOF {
			err = fmt.Errorf("%w: empty stream", ErrUnexpectedEndOfStream)
		}
		return nil, err
	}

	sweep := &PolarSweep{Header: hdr}
	for {
		ray, err := readRay(r, s, hdr)
		if err == io.EOF {
			break
		}
		if errors.Is(err, ErrUnexpectedEndOfStream) {
			// Partial trailing ray: discard it, keep what we have.
			break
		}
		if err != nil {
			return nil, err
		}
		sweep.Rays = append(sweep.Rays, ray)
	}
	return sweep, nil
}

func readRay(r io.Reader, s serializer, hdr *SweepHeader) (*Ray, error) {
	rayHdr, err := s.readRayHeader(r)
	if err != nil {
		return nil, err
	}

	ray := &Ray{Header: rayHdr, Moments: make([]*Moment, 0, hdr.NumMoments)}
	for i := 0; i < int(hdr.NumMoments); i++ {
		momHdr, err := readMomentHeader(r)
		if err != nil {
			return nil, err
		}
		gates, err := readMomentGates(r, momHdr, hdr.MomentsInfo[i].DataFormat)
		if err != nil {
			return nil, err
		}
		ray.Moments = append(ray.Moments, &Moment{Header: *momHdr, Gates: gates})
	}
	return ray, nil
}

// momentHeaderSize is the fixed per-moment prefix: momentid u32, datasize u32.
const momentHeaderSize = 8

func readMomentHeader(r io.Reader) (*DataMomentHeader, error) {
	b, err := readBlock(r, momentHeaderSize)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: missing moment header", ErrUnexpectedEndOfStream)
		}
		return nil, err
	}
	return &DataMomentHeader{
		MomentID: MomentID(binary.LittleEndian.Uint32(b[0:4])),
		DataSize: binary.LittleEndian.Uint32(b[4:8]),
	}, nil
}

// readMomentGates unpacks the run of same-width samples that follows a
// moment header. The element width comes from the moment's data format;
// datasize is truncated to a whole number of elements.
func readMomentGates(r io.Reader, momHdr *DataMomentHeader, format DataFormat) ([]float64, error) {
	width := format.BytesPerSample()
	if width == 0 {
		return nil, fmt.Errorf("%w: format code %d for moment %d",
			ErrUnrecognizedDataFormat, format, momHdr.MomentID)
	}
	numEle := int(momHdr.DataSize) / width

	b, err := readBlock(r, numEle*width)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: missing gate data", ErrUnexpectedEndOfStream)
		}
		return nil, err
	}

	gates := make([]float64, numEle)
	switch format {
	case DataFormatFixed8Bit:
		for i := 0; i < numEle; i++ {
			gates[i] = float64(b[i])
		}
	case DataFormatFixed16Bit:
		for i := 0; i < numEle; i++ {
			gates[i] = float64(binary.LittleEndian.Uint16(b[i*2:]))
		}
	case DataFormatFloat32Bit:
		for i := 0; i < numEle; i++ {
			gates[i] = float64(float32At(b, i*4))
		}
	}
	return gates, nil
}

// batchInfoSize is one batch-info record: length u32, startrange f32,
// prf f32, numpulses u16, dprf u16, angperc f32.
const batchInfoSize = 20

// readBatchesAndMetadata finishes a ray header: the batch-info records and
// the trailing variable-length metadata block. Shared by both layouts.
func readBatchesAndMetadata(r io.Reader, rayHdr *RayHeader) error {
	for i := 0; i < int(rayHdr.NumBatches); i++ {
		b, err := readBlock(r, batchInfoSize)
		if err != nil {
			if err == io.EOF {
				return fmt.Errorf("%w: missing batch info", ErrUnexpectedEndOfStream)
			}
			return err
		}
		rayHdr.BatchesInfo = append(rayHdr.BatchesInfo, &BatchInfo{
			Length:     binary.LittleEndian.Uint32(b[0:4]),
			StartRange: float32At(b, 4),
			PRF:        float32At(b, 8),
			NumPulses:  binary.LittleEndian.Uint16(b[12:14]),
			DPRF:       binary.LittleEndian.Uint16(b[14:16]),
			AngPerc:    float32At(b, 16),
		})
	}

	if rayHdr.MetaDataSize > 0 {
		b, err := readBlock(r, int(rayHdr.MetaDataSize))
		if err != nil {
			if err == io.EOF {
				return fmt.Errorf("%w: missing ray metadata", ErrUnexpectedEndOfStream)
			}
			return err
		}
		rayHdr.MetaData = stringify(b)
	}
	return nil
}

// momentInfoSize is one moment-info record: momentid u32, dataformat u8,
// numbytes u8, flags u8, spare u8, name 12s, unit 12s, factors f32 x3,
// scaletype u8, spare x3.
const momentInfoSize = 48

// readMomentsInfo reads the NumMoments moment-info records that follow the
// fixed sweep header. Identical layout in v1 and v2.
func readMomentsInfo(r io.Reader, hdr *SweepHeader) error {
	for i := 0; i < int(hdr.NumMoments); i++ {
		b, err := readBlock(r, momentInfoSize)
		if err != nil {
			if err == io.EOF {
				return fmt.Errorf("%w: missing moment info", ErrUnexpectedEndOfStream)
			}
			return err
		}
		hdr.MomentsInfo = append(hdr.MomentsInfo, &MomentInfo{
			MomentID:   MomentID(binary.LittleEndian.Uint32(b[0:4])),
			DataFormat: DataFormat(b[4]),
			NumBytes:   b[5],
			Normalized: b[6]&0x01 == 1,
			Name:       stringify(b[8:20]),
			Unit:       stringify(b[20:32]),
			FactorA:    float32At(b, 32),
			FactorB:    float32At(b, 36),
			FactorC:    float32At(b, 40),
			ScaleType:  ScaleType(b[44]),
		})
	}
	return nil
}

// readSweepMetadata reads the trailing metadata string of the sweep header.
func readSweepMetadata(r io.Reader, hdr *SweepHeader) error {
	if hdr.MetaDataSize == 0 {
		return nil
	}
	b, err := readBlock(r, int(hdr.MetaDataSize))
	if err != nil {
		if err == io.EOF {
			return fmt.Errorf("%w: missing sweep metadata", ErrUnexpectedEndOfStream)
		}
		return err
	}
	hdr.MetaData = stringify(b)
	return nil
}
