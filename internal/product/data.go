package product

import "fmt"

// DataType tags the logical shape of a product's sample payload.
type DataType int

const (
	DataTypeUnknown DataType = iota
	DataTypePolar
	DataTypeRect
	DataTypeVertLevels
)

func (t DataType) String() string {
	switch t {
	case DataTypePolar:
		return "POLAR"
	case DataTypeRect:
		return "RECT"
	case DataTypeVertLevels:
		return "VERT_LEVELS"
	}
	return "UNKNOWN"
}

// Table is one named fixed-size binary side table.
type Table struct {
	Name string
	Data []byte
}

// Data is a product's sample payload viewed as a row-major 2D byte matrix.
type Data interface {
	NumRows() int
	NumCols() int

	// Bytes returns the flat row-major buffer, len == NumRows()*NumCols().
	Bytes() []byte
}

// PolarData is a rays x gates payload.
type PolarData struct {
	numRays  int
	numGates int
	buf      []byte
}

// NewPolarData wraps a flat buffer as a polar payload. The buffer length
// must equal numRays*numGates exactly.
func NewPolarData(numRays, numGates int, buf []byte) (*PolarData, error) {
	if len(buf) != numRays*numGates {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d polar",
			ErrShapeMismatch, len(buf), numRays, numGates)
	}
	return &PolarData{numRays: numRays, numGates: numGates, buf: buf}, nil
}

func (d *PolarData) NumRays() int { return d.numRays }

func (d *PolarData) NumGates() int { return d.numGates }

func (d *PolarData) NumRows() int { return d.numRays }

func (d *PolarData) NumCols() int { return d.numGates }

func (d *PolarData) Bytes() []byte { return d.buf }

// At returns the sample for one ray/gate cell.
func (d *PolarData) At(ray, gate int) byte {
	return d.buf[ray*d.numGates+gate]
}

// RectData is a Cartesian raster payload with per-axis resolution.
type RectData struct {
	xSize int
	ySize int
	xRes  float64
	yRes  float64
	buf   []byte
}

// NewRectData wraps a flat buffer as a rect payload (ySize rows of xSize
// columns). The buffer length must equal xSize*ySize exactly.
func NewRectData(xSize, ySize int, xRes, yRes float64, buf []byte) (*RectData, error) {
	if len(buf) != xSize*ySize {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d rect",
			ErrShapeMismatch, len(buf), xSize, ySize)
	}
	return &RectData{xSize: xSize, ySize: ySize, xRes: xRes, yRes: yRes, buf: buf}, nil
}

func (d *RectData) XSize() int { return d.xSize }

func (d *RectData) YSize() int { return d.ySize }

func (d *RectData) XRes() float64 { return d.xRes }

func (d *RectData) YRes() float64 { return d.yRes }

func (d *RectData) NumRows() int { return d.ySize }

func (d *RectData) NumCols() int { return d.xSize }

func (d *RectData) Bytes() []byte { return d.buf }

// At returns the sample at one raster cell.
func (d *RectData) At(row, col int) byte {
	return d.buf[row*d.xSize+col]
}

// VertLevelsData is a vertical-profile payload (VAD/VVP/VPR). The on-disk
// products historically declare rows = float32-count-per-level and
// cols = level count but store everything as one flat run, so the matrix
// view is a single row spanning the whole buffer. Files on disk depend on
// this layout; it is preserved, not corrected.
type VertLevelsData struct {
	numFloats32 int
	numLevels   int
	buf         []byte
}

// NewVertLevelsData wraps a flat buffer as a vertical-levels payload. The
// buffer length must equal numFloats32*4*numLevels exactly.
func NewVertLevelsData(numFloats32, numLevels int, buf []byte) (*VertLevelsData, error) {
	if len(buf) != numFloats32*4*numLevels {
		return nil, fmt.Errorf("%w: %d bytes for %d floats x %d levels",
			ErrShapeMismatch, len(buf), numFloats32, numLevels)
	}
	return &VertLevelsData{numFloats32: numFloats32, numLevels: numLevels, buf: buf}, nil
}

func (d *VertLevelsData) NumFloats32() int { return d.numFloats32 }

func (d *VertLevelsData) NumLevels() int { return d.numLevels }

func (d *VertLevelsData) NumRows() int { return 1 }

func (d *VertLevelsData) NumCols() int { return len(d.buf) }

func (d *VertLevelsData) Bytes() []byte { return d.buf }
