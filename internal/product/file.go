package product

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/meteoradar/msxkit/internal/lzw"
)

// endHeaderLine terminates the text header.
const endHeaderLine = "end_header"

// HeaderEntry is one key=value line of the text header. Keys are the
// deduplicated (possibly numeric-suffixed) spellings.
type HeaderEntry struct {
	Key   string
	Value string
}

// File is one loaded (or under-construction) product file: the ordered
// header entries, the side tables, and the shaped sample payload.
type File struct {
	dataType DataType
	data     Data
	fileName string
	header   []HeaderEntry
	tables   []*Table
}

// New returns an empty product file ready for AddHeaderInfo/AddTable/SetData.
func New() *File {
	return &File{}
}

// DataType returns the inferred payload shape tag.
func (f *File) DataType() DataType { return f.dataType }

// Data returns the shaped payload (nil when the shape could not be inferred).
func (f *File) Data() Data { return f.data }

// SetData replaces the payload and its shape tag.
func (f *File) SetData(t DataType, d Data) {
	f.dataType = t
	f.data = d
}

// FileName returns the path of the last Load or Save.
func (f *File) FileName() string { return f.fileName }

// HeaderInfo returns the header entries in file order.
func (f *File) HeaderInfo() []HeaderEntry { return f.header }

// Tables returns the side tables in file order.
func (f *File) Tables() []*Table { return f.tables }

// GetTable returns the first table with the given name, or nil.
func (f *File) GetTable(name string) *Table {
	for _, t := range f.tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// AddTable appends a new empty table and returns it for the caller to fill.
func (f *File) AddTable(name string) *Table {
	t := &Table{Name: name}
	f.tables = append(f.tables, t)
	return t
}

// AddHeaderInfo appends a header entry. Unlike the load path, an explicit
// add of an existing key is rejected rather than suffixed.
func (f *File) AddHeaderInfo(key, value string) error {
	if _, ok := f.FindHeaderInfoValue(key); ok {
		return fmt.Errorf("%w: %q", ErrHeaderKeyDuplicateConflict, key)
	}
	f.header = append(f.header, HeaderEntry{Key: key, Value: value})
	return nil
}

// FindHeaderInfoValue returns the value of the first entry with the given
// (already-suffixed) key.
func (f *File) FindHeaderInfoValue(key string) (string, bool) {
	for _, e := range f.header {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// setHeaderInfo updates the first entry with the given key in place.
func (f *File) setHeaderInfo(key, value string) bool {
	for i := range f.header {
		if f.header[i].Key == key {
			f.header[i].Value = value
			return true
		}
	}
	return false
}

// FindHeaderParamValue resolves the param_name/param_value suffix pairs:
// the value whose paired param_name entry matches name, scanning param_num
// pairs in order.
func (f *File) FindHeaderParamValue(name string) (string, bool) {
	numParams, err := f.intValue("param_num")
	if err != nil {
		return "", false
	}
	for i := 1; i <= numParams; i++ {
		if v, ok := f.FindHeaderInfoValue(suffixedKey("param_name", i)); ok && v == name {
			return f.FindHeaderInfoValue(suffixedKey("param_value", i))
		}
	}
	return "", false
}

// suffixedKey builds the synthetic spelling of the i-th repeated key:
// the bare key for the first occurrence, key2, key3, ... afterwards.
func suffixedKey(key string, i int) string {
	if i == 1 {
		return key
	}
	return key + strconv.Itoa(i)
}

// validKeyName finds the first unused suffixed spelling for a key read from
// a file, preserving the order of repeated keys.
func (f *File) validKeyName(key string) string {
	for i := 1; ; i++ {
		candidate := suffixedKey(key, i)
		if _, ok := f.FindHeaderInfoValue(candidate); !ok {
			return candidate
		}
	}
}

// normalizeKeyForSave folds the synthetic suffixed spellings back to their
// canonical prefix on output; order alone identifies repeated keys on disk.
func normalizeKeyForSave(key string) string {
	for _, canonical := range []string{"table_name", "table_size", "param_name", "param_value"} {
		if strings.HasPrefix(key, canonical) {
			return canonical
		}
	}
	return key
}

func (f *File) intValue(key string) (int, error) {
	v, ok := f.FindHeaderInfoValue(key)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrHeaderKeyMissing, key)
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer: %q", ErrHeaderKeyMissing, key, v)
	}
	return n, nil
}

// sizeValue parses a byte-count header value. Negative counts are rejected
// here, before any buffer is sized from them.
func (f *File) sizeValue(key string) (int, error) {
	n, err := f.intValue(key)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %q is negative: %d", ErrHeaderKeyMissing, key, n)
	}
	return n, nil
}

func (f *File) floatValue(key string) (float64, error) {
	v, ok := f.FindHeaderInfoValue(key)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrHeaderKeyMissing, key)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number: %q", ErrHeaderKeyMissing, key, v)
	}
	return x, nil
}

// Load reads a product file from disk.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := LoadReader(fh)
	if err != nil {
		return nil, err
	}
	f.fileName = path
	return f, nil
}

// LoadReader decodes a product stream: header lines to end_header, the
// declared side tables, then the (possibly compressed) payload. See Load.
func LoadReader(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)
	f := New()

	if err := f.readHeader(br); err != nil {
		return nil, err
	}
	f.inferDataType()
	if err := f.readTables(br); err != nil {
		return nil, err
	}
	buf, err := f.readPayload(br)
	if err != nil {
		return nil, err
	}
	if err := f.shapePayload(buf); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) readHeader(br *bufio.Reader) error {
	for {
		line, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return fmt.Errorf("product: reading text header: %w", io.ErrUnexpectedEOF)
		}
		line = strings.TrimRight(line, "\r\n ")
		if line == endHeaderLine {
			return nil
		}
		if idx := strings.IndexByte(line, '='); idx != -1 {
			key := f.validKeyName(line[:idx])
			f.header = append(f.header, HeaderEntry{Key: key, Value: line[idx+1:]})
		}
		if err == io.EOF {
			return fmt.Errorf("product: text header has no %s line: %w",
				endHeaderLine, io.ErrUnexpectedEOF)
		}
	}
}

// inferDataType classifies the product from the pid and format tags. The
// vertical-profile products (VAD/VVP/VPR) are recognized first, by pid
// prefix or format string; everything else falls to rect or polar.
func (f *File) inferDataType() {
	pid, _ := f.FindHeaderInfoValue("pid")
	format, _ := f.FindHeaderInfoValue("format")

	switch {
	case strings.HasPrefix(pid, "VA") || format == "VADSTR",
		strings.HasPrefix(pid, "VV") || format == "VVPSTR",
		strings.HasPrefix(pid, "ZZ"):
		f.dataType = DataTypeVertLevels
	case format == "RECT" || format == "STORM":
		f.dataType = DataTypeRect
	case format == "POLAR":
		f.dataType = DataTypePolar
	default:
		f.dataType = DataTypeUnknown
	}
}

func (f *File) readTables(br *bufio.Reader) error {
	numTables, err := f.intValue("table_num")
	if err != nil {
		return err
	}
	for i := 1; i <= numTables; i++ {
		name, ok := f.FindHeaderInfoValue(suffixedKey("table_name", i))
		if !ok {
			return fmt.Errorf("%w: %q", ErrHeaderKeyMissing, suffixedKey("table_name", i))
		}
		size, err := f.sizeValue(suffixedKey("table_size", i))
		if err != nil {
			return err
		}
		data := make([]byte, size)
		if _, err := io.ReadFull(br, data); err != nil {
			return fmt.Errorf("product: reading table %q: %w", name, err)
		}
		f.tables = append(f.tables, &Table{Name: name, Data: data})
	}
	return nil
}

// readPayload reads the sample buffer, expanding it through the LZW codec
// when the header declares a compressed size that differs from the raw one.
func (f *File) readPayload(br *bufio.Reader) ([]byte, error) {
	zipSize, err := f.sizeValue("compressed_bytes")
	if err != nil {
		return nil, err
	}
	unzipSize, err := f.sizeValue("uncompressed_bytes")
	if err != nil {
		return nil, err
	}

	if zipSize != 0 && zipSize != unzipSize {
		raw := make([]byte, zipSize)
		if _, err := io.ReadFull(br, raw); err != nil {
			return nil, fmt.Errorf("product: reading compressed payload: %w", err)
		}
		buf, err := lzw.Decompress(raw)
		if err != nil {
			return nil, fmt.Errorf("product: payload: %w", err)
		}
		if len(buf) != unzipSize {
			return nil, fmt.Errorf("%w: got %d bytes, header declares %d",
				ErrDecompressionSizeMismatch, len(buf), unzipSize)
		}
		return buf, nil
	}

	size := zipSize
	if size == 0 {
		size = unzipSize
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(br, buf); err != nil {
		return nil, fmt.Errorf("product: reading payload: %w", err)
	}
	return buf, nil
}

// shapePayload reshapes the flat buffer per the inferred data type. An
// unknown type keeps the file loadable with a nil payload.
func (f *File) shapePayload(buf []byte) error {
	switch f.dataType {
	case DataTypePolar:
		numRays, err := f.intValue("row")
		if err != nil {
			return err
		}
		numGates, err := f.intValue("column")
		if err != nil {
			return err
		}
		f.data, err = NewPolarData(numRays, numGates, buf)
		return err

	case DataTypeRect:
		x, err := f.intValue("column")
		if err != nil {
			return err
		}
		y, err := f.intValue("row")
		if err != nil {
			return err
		}
		xres, err := f.floatValue("rect_xres")
		if err != nil {
			return err
		}
		yres, err := f.floatValue("rect_yres")
		if err != nil {
			return err
		}
		f.data, err = NewRectData(x, y, xres, yres, buf)
		return err

	case DataTypeVertLevels:
		numFloats32, err := f.intValue("row")
		if err != nil {
			return err
		}
		numLevels, err := f.intValue("column")
		if err != nil {
			return err
		}
		f.data, err = NewVertLevelsData(numFloats32, numLevels, buf)
		return err
	}
	return nil
}

// Save writes the product to disk, recomputing the compressed_bytes and
// uncompressed_bytes header values. With compress set the payload is LZW
// packed; a compressed result that is empty or larger than the raw payload
// fails with ErrCompressionFailure.
func (f *File) Save(path string, compress bool) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.SaveWriter(fh, compress); err != nil {
		fh.Close()
		return err
	}
	f.fileName = path
	return fh.Close()
}

// SaveWriter encodes the product to a stream. See Save.
func (f *File) SaveWriter(w io.Writer, compress bool) error {
	if f.data == nil {
		return fmt.Errorf("product: no payload to save")
	}
	if _, ok := f.FindHeaderInfoValue("compressed_bytes"); !ok {
		return fmt.Errorf("%w: compressed_bytes", ErrHeaderKeyMissing)
	}
	if _, ok := f.FindHeaderInfoValue("uncompressed_bytes"); !ok {
		return fmt.Errorf("%w: uncompressed_bytes", ErrHeaderKeyMissing)
	}

	rawSize := f.data.NumRows() * f.data.NumCols()
	var zipBuf []byte
	if compress {
		zipBuf = lzw.Compress(f.data.Bytes())
		if len(zipBuf) == 0 || len(zipBuf) > rawSize {
			return fmt.Errorf("%w: %d compressed bytes for %d raw",
				ErrCompressionFailure, len(zipBuf), rawSize)
		}
		f.setHeaderInfo("compressed_bytes", strconv.Itoa(len(zipBuf)))
	} else {
		f.setHeaderInfo("compressed_bytes", "0")
	}
	f.setHeaderInfo("uncompressed_bytes", strconv.Itoa(rawSize))

	bw := bufio.NewWriter(w)
	for _, e := range f.header {
		if _, err := fmt.Fprintf(bw, "%s=%s\n", normalizeKeyForSave(e.Key), e.Value); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(bw, endHeaderLine); err != nil {
		return err
	}
	for _, t := range f.tables {
		if _, err := bw.Write(t.Data); err != nil {
			return err
		}
	}
	if compress {
		if _, err := bw.Write(zipBuf); err != nil {
			return err
		}
	} else {
		if _, err := bw.Write(f.data.Bytes()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
