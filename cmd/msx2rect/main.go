// msx2rect runs the full pipeline: load an MSx sweep, build the PPI matrix
// of one moment, resample it onto a Cartesian raster, and save the result
// as a RECT product file with a linear byte quantization recorded in the
// header params.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/meteoradar/msxkit/internal/msx"
	"github.com/meteoradar/msxkit/internal/polar"
	"github.com/meteoradar/msxkit/internal/product"
)

func main() {
	configPath := flag.String("config", "", "TOML config file (default: ./msx2rect.toml if present)")
	moment := flag.String("moment", "", "Moment name to resample (overrides config)")
	pid := flag.String("pid", "", "Product id for the output header (overrides config)")
	xsize := flag.Int("xsize", 0, "Raster width in pixels (0 = 2 x gates)")
	ysize := flag.Int("ysize", 0, "Raster height in pixels (0 = 2 x gates)")
	xres := flag.Float64("xres", 0, "Raster x resolution in km (0 = gate width)")
	yres := flag.Float64("yres", 0, "Raster y resolution in km (0 = gate width)")
	scalar := flag.Bool("scalar", false, "Use the per-pixel resampler instead of the vectorized one")
	uncompressed := flag.Bool("uncompressed", false, "Save the payload uncompressed")
	out := flag.String("out", "", "Output product path (required)")
	flag.Parse()

	if flag.NArg() != 1 || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: msx2rect [flags] -out product.rzc sweep.msx")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("reading config: %v", err)
	}
	if *moment != "" {
		cfg.Moment = *moment
	}
	if *pid != "" {
		cfg.Pid = *pid
	}
	if *xsize != 0 {
		cfg.XSize = *xsize
	}
	if *ysize != 0 {
		cfg.YSize = *ysize
	}
	if *xres != 0 {
		cfg.XRes = *xres
	}
	if *yres != 0 {
		cfg.YRes = *yres
	}
	if *scalar {
		cfg.Vectorized = false
	}
	if *uncompressed {
		cfg.Compress = false
	}

	inPath := flag.Arg(0)
	sweep, err := msx.Load(inPath)
	if err != nil {
		log.Fatalf("loading %s: %v", inPath, err)
	}

	ppi := polar.NewPpiData(0)
	if err := ppi.TransformByName(sweep, cfg.Moment); err != nil {
		log.Fatalf("transforming moment %q: %v", cfg.Moment, err)
	}
	log.Printf("PPI %dx%d for moment %q (normalized=%v)",
		ppi.NumRays(), ppi.NumGates(), cfg.Moment, ppi.Normalized())

	gateWidth := float64(sweep.Header.GateWidth)
	rs := polar.DefaultRaster(ppi.NumGates(), gateWidth)
	if cfg.XSize > 0 {
		rs.XSize = cfg.XSize
	}
	if cfg.YSize > 0 {
		rs.YSize = cfg.YSize
	}
	if cfg.XRes > 0 {
		rs.XRes = cfg.XRes
	}
	if cfg.YRes > 0 {
		rs.YRes = cfg.YRes
	}

	var rect *mat.Dense
	if cfg.Vectorized {
		rect = ppi.Polar2RectVectorized(rs, gateWidth)
	} else {
		rect = ppi.Polar2Rect(rs, gateWidth)
	}

	buf, scaleA, scaleB := quantize(rect)
	f, err := buildProduct(sweep, cfg, rs, buf, scaleA, scaleB)
	if err != nil {
		log.Fatalf("assembling product: %v", err)
	}
	if err := f.Save(*out, cfg.Compress); err != nil {
		log.Fatalf("saving %s: %v", *out, err)
	}
	log.Printf("wrote %s (%dx%d, compress=%v)", *out, rs.XSize, rs.YSize, cfg.Compress)
}

// quantize maps the raster onto bytes with the product convention:
// dn 0 is no-data, dn 1..255 spans [min,max] linearly, so a reader
// reconstructs v = a*dn + b.
func quantize(m *mat.Dense) (buf []byte, a, b float64) {
	rows, cols := m.Dims()

	minV, maxV := math.Inf(1), math.Inf(-1)
	for j := 0; j < rows; j++ {
		for _, v := range m.RawRowView(j) {
			if math.IsNaN(v) {
				continue
			}
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}
	}
	if minV > maxV {
		// All NaN: every sample is the no-data sentinel.
		return make([]byte, rows*cols), 1, 0
	}

	a = (maxV - minV) / 254
	if a == 0 {
		a = 1
	}
	b = minV - a

	buf = make([]byte, rows*cols)
	for j := 0; j < rows; j++ {
		row := m.RawRowView(j)
		for i, v := range row {
			if math.IsNaN(v) {
				continue
			}
			dn := math.Round((v - b) / a)
			if dn < 1 {
				dn = 1
			} else if dn > 255 {
				dn = 255
			}
			buf[j*cols+i] = byte(dn)
		}
	}
	return buf, a, b
}

func buildProduct(sweep *msx.PolarSweep, cfg config, rs polar.Raster, buf []byte, scaleA, scaleB float64) (*product.File, error) {
	data, err := product.NewRectData(rs.XSize, rs.YSize, rs.XRes, rs.YRes, buf)
	if err != nil {
		return nil, err
	}

	f := product.New()
	entries := []struct{ k, v string }{
		{"pid", cfg.Pid},
		{"format", "RECT"},
		{"radar", sweep.Header.RadarName},
		{"moment", cfg.Moment},
		{"row", strconv.Itoa(rs.YSize)},
		{"column", strconv.Itoa(rs.XSize)},
		{"rect_xres", formatFloat(rs.XRes)},
		{"rect_yres", formatFloat(rs.YRes)},
		{"table_num", "0"},
		{"compressed_bytes", "0"},
		{"uncompressed_bytes", strconv.Itoa(len(buf))},
		{"param_num", "2"},
		{"param_name", "scale_a"},
		{"param_value", formatFloat(scaleA)},
		{"param_name2", "scale_b"},
		{"param_value2", formatFloat(scaleB)},
	}
	for _, e := range entries {
		if err := f.AddHeaderInfo(e.k, e.v); err != nil {
			return nil, err
		}
	}
	f.SetData(product.DataTypeRect, data)
	return f, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
