package product

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meteoradar/msxkit/internal/lzw"
)

// buildPolarProduct assembles an on-disk polar product: duplicate
// table_name/table_size and param_name/param_value keys, two side tables,
// and a 4x3 payload, compressed when requested.
func buildPolarProduct(t *testing.T, compress bool) ([]byte, []byte) {
	t.Helper()

	payload := []byte{0, 0, 0, 1, 1, 1, 2, 2, 2, 3, 3, 3}
	zipped := lzw.Compress(payload)
	require.Less(t, len(zipped), len(payload), "test payload must be compressible")

	zipSize := 0
	if compress {
		zipSize = len(zipped)
	}

	var buf bytes.Buffer
	lines := []string{
		"pid=PZC",
		"format=POLAR",
		"radar=TESTRAD",
		"table_num=2",
		"table_name=PM",
		"table_size=4",
		"table_name=MH",
		"table_size=8",
		"row=4",
		"column=3",
		fmt.Sprintf("compressed_bytes=%d", zipSize),
		"uncompressed_bytes=12",
		"param_num=2",
		"param_name=RADAR",
		"param_value=A",
		"param_name=QUAL",
		"param_value=7",
	}
	buf.WriteString(strings.Join(lines, "\n"))
	buf.WriteString("\nend_header\n")
	buf.Write([]byte{0xA0, 0xA1, 0xA2, 0xA3})                         // table PM
	buf.Write([]byte{0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7}) // table MH
	if compress {
		buf.Write(zipped)
	} else {
		buf.Write(payload)
	}
	return buf.Bytes(), payload
}

func TestLoadPolarCompressed(t *testing.T) {
	raw, payload := buildPolarProduct(t, true)

	f, err := LoadReader(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, DataTypePolar, f.DataType())

	// Duplicate keys got suffixed in order of appearance.
	v, ok := f.FindHeaderInfoValue("table_name")
	require.True(t, ok)
	assert.Equal(t, "PM", v)
	v, ok = f.FindHeaderInfoValue("table_name2")
	require.True(t, ok)
	assert.Equal(t, "MH", v)

	require.Len(t, f.Tables(), 2)
	assert.Equal(t, []byte{0xA0, 0xA1, 0xA2, 0xA3}, f.GetTable("PM").Data)
	assert.Equal(t, 8, len(f.GetTable("MH").Data))
	assert.Nil(t, f.GetTable("XX"))

	pd, ok := f.Data().(*PolarData)
	require.True(t, ok)
	assert.Equal(t, 4, pd.NumRows())
	assert.Equal(t, 3, pd.NumCols())
	assert.Equal(t, payload, pd.Bytes())
	assert.Equal(t, byte(2), pd.At(2, 1))

	// param_name/param_value pairs resolve through the suffix scheme.
	v, ok = f.FindHeaderParamValue("QUAL")
	require.True(t, ok)
	assert.Equal(t, "7", v)
	_, ok = f.FindHeaderParamValue("MISSING")
	assert.False(t, ok)
}

func TestLoadUncompressedPayload(t *testing.T) {
	raw, payload := buildPolarProduct(t, false)

	f, err := LoadReader(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, payload, f.Data().Bytes())
}

func TestLoadRect(t *testing.T) {
	payload := make([]byte, 6)
	var buf bytes.Buffer
	buf.WriteString("pid=RZC\nformat=RECT\ntable_num=0\n")
	buf.WriteString("row=2\ncolumn=3\nrect_xres=1.5\nrect_yres=2.5\n")
	buf.WriteString("compressed_bytes=0\nuncompressed_bytes=6\nend_header\n")
	buf.Write(payload)

	f, err := LoadReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, DataTypeRect, f.DataType())

	rd, ok := f.Data().(*RectData)
	require.True(t, ok)
	assert.Equal(t, 3, rd.XSize())
	assert.Equal(t, 2, rd.YSize())
	assert.Equal(t, 1.5, rd.XRes())
	assert.Equal(t, 2.5, rd.YRes())
	assert.Equal(t, 2, rd.NumRows())
	assert.Equal(t, 3, rd.NumCols())
}

func TestLoadVertLevels(t *testing.T) {
	// pid starting VA marks a vertical profile regardless of format.
	payload := make([]byte, 2*4*3)
	var buf bytes.Buffer
	buf.WriteString("pid=VAD85\nformat=VADSTR\ntable_num=0\n")
	buf.WriteString("row=2\ncolumn=3\n")
	buf.WriteString(fmt.Sprintf("compressed_bytes=0\nuncompressed_bytes=%d\n", len(payload)))
	buf.WriteString("end_header\n")
	buf.Write(payload)

	f, err := LoadReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, DataTypeVertLevels, f.DataType())

	vd, ok := f.Data().(*VertLevelsData)
	require.True(t, ok)
	assert.Equal(t, 2, vd.NumFloats32())
	assert.Equal(t, 3, vd.NumLevels())
	// Historical flat representation: one row spanning the whole buffer.
	assert.Equal(t, 1, vd.NumRows())
	assert.Equal(t, len(payload), vd.NumCols())
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing end_header", func(t *testing.T) {
		_, err := LoadReader(strings.NewReader("pid=PZC\nformat=POLAR\n"))
		require.Error(t, err)
	})

	t.Run("missing table_num", func(t *testing.T) {
		_, err := LoadReader(strings.NewReader("pid=PZC\nformat=POLAR\nend_header\n"))
		require.ErrorIs(t, err, ErrHeaderKeyMissing)
	})

	t.Run("negative table_size", func(t *testing.T) {
		var buf bytes.Buffer
		buf.WriteString("pid=PZC\nformat=POLAR\ntable_num=1\n")
		buf.WriteString("table_name=PM\ntable_size=-4\n")
		buf.WriteString("compressed_bytes=0\nuncompressed_bytes=4\nend_header\n")
		buf.Write(make([]byte, 4))
		_, err := LoadReader(bytes.NewReader(buf.Bytes()))
		require.ErrorIs(t, err, ErrHeaderKeyMissing)
	})

	t.Run("negative compressed_bytes", func(t *testing.T) {
		var buf bytes.Buffer
		buf.WriteString("pid=PZC\nformat=POLAR\ntable_num=0\nrow=1\ncolumn=4\n")
		buf.WriteString("compressed_bytes=-7\nuncompressed_bytes=4\nend_header\n")
		buf.Write(make([]byte, 4))
		_, err := LoadReader(bytes.NewReader(buf.Bytes()))
		require.ErrorIs(t, err, ErrHeaderKeyMissing)
	})

	t.Run("negative uncompressed_bytes", func(t *testing.T) {
		var buf bytes.Buffer
		buf.WriteString("pid=PZC\nformat=POLAR\ntable_num=0\nrow=1\ncolumn=4\n")
		buf.WriteString("compressed_bytes=0\nuncompressed_bytes=-4\nend_header\n")
		buf.Write(make([]byte, 4))
		_, err := LoadReader(bytes.NewReader(buf.Bytes()))
		require.ErrorIs(t, err, ErrHeaderKeyMissing)
	})

	t.Run("decompression size mismatch", func(t *testing.T) {
		payload := []byte{0, 0, 0, 1, 1, 1, 2, 2, 2, 3, 3, 3}
		zipped := lzw.Compress(payload)
		var buf bytes.Buffer
		buf.WriteString("pid=PZC\nformat=POLAR\ntable_num=0\nrow=4\ncolumn=3\n")
		// Declared uncompressed size disagrees with the actual expansion.
		buf.WriteString(fmt.Sprintf("compressed_bytes=%d\nuncompressed_bytes=99\n", len(zipped)))
		buf.WriteString("end_header\n")
		buf.Write(zipped)
		_, err := LoadReader(bytes.NewReader(buf.Bytes()))
		require.ErrorIs(t, err, ErrDecompressionSizeMismatch)
	})

	t.Run("shape mismatch", func(t *testing.T) {
		var buf bytes.Buffer
		buf.WriteString("pid=PZC\nformat=POLAR\ntable_num=0\nrow=5\ncolumn=3\n")
		buf.WriteString("compressed_bytes=0\nuncompressed_bytes=12\nend_header\n")
		buf.Write(make([]byte, 12))
		_, err := LoadReader(bytes.NewReader(buf.Bytes()))
		require.ErrorIs(t, err, ErrShapeMismatch)
	})
}

func TestSaveReloadIdempotent(t *testing.T) {
	raw, _ := buildPolarProduct(t, true)
	f, err := LoadReader(bytes.NewReader(raw))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "product.pzc")
	require.NoError(t, f.Save(path, true))

	g, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, f.HeaderInfo(), g.HeaderInfo())
	assert.Equal(t, f.DataType(), g.DataType())
	assert.Equal(t, f.Data().Bytes(), g.Data().Bytes())
	require.Len(t, g.Tables(), 2)
	assert.Equal(t, f.GetTable("PM").Data, g.GetTable("PM").Data)
	assert.Equal(t, f.GetTable("MH").Data, g.GetTable("MH").Data)
}

func TestSaveUncompressed(t *testing.T) {
	raw, payload := buildPolarProduct(t, true)
	f, err := LoadReader(bytes.NewReader(raw))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, f.SaveWriter(&out, false))

	g, err := LoadReader(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	v, ok := g.FindHeaderInfoValue("compressed_bytes")
	require.True(t, ok)
	assert.Equal(t, "0", v)
	assert.Equal(t, payload, g.Data().Bytes())
}

func TestSaveCompressionFailure(t *testing.T) {
	// Eight incompressible bytes expand under LZW, which save must reject.
	f := New()
	require.NoError(t, f.AddHeaderInfo("pid", "PZC"))
	require.NoError(t, f.AddHeaderInfo("format", "POLAR"))
	require.NoError(t, f.AddHeaderInfo("table_num", "0"))
	require.NoError(t, f.AddHeaderInfo("compressed_bytes", "0"))
	require.NoError(t, f.AddHeaderInfo("uncompressed_bytes", "8"))

	pd, err := NewPolarData(2, 4, []byte{0x13, 0x7F, 0xC4, 0x02, 0x99, 0x5A, 0xE1, 0x3B})
	require.NoError(t, err)
	f.SetData(DataTypePolar, pd)

	var out bytes.Buffer
	require.ErrorIs(t, f.SaveWriter(&out, true), ErrCompressionFailure)
}

func TestAddHeaderInfoDuplicate(t *testing.T) {
	f := New()
	require.NoError(t, f.AddHeaderInfo("pid", "PZC"))
	require.ErrorIs(t, f.AddHeaderInfo("pid", "XXX"), ErrHeaderKeyDuplicateConflict)
}
