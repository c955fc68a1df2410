// msxdump prints the contents of MSx volume-sweep files: the sweep header,
// the moment table, and per-ray summaries with a short gate preview.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"github.com/meteoradar/msxkit/internal/msx"
)

func main() {
	maxRays := flag.Int("rays", 0, "Maximum rays to print per file (0 = all)")
	previewGates := flag.Int("gates", 8, "Gate values to preview per moment")
	momentName := flag.String("moment", "", "Only dump this moment (by name)")
	physical := flag.Bool("physical", false, "Preview decoded physical values instead of raw digital numbers")
	showMeta := flag.Bool("metadata", false, "Print the embedded sweep metadata string")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: msxdump [flags] file...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	for _, path := range flag.Args() {
		sweep, err := msx.Load(path)
		if err != nil {
			log.Fatalf("loading %s: %v", path, err)
		}
		dumpSweep(path, sweep, *maxRays, *previewGates, *momentName, *physical, *showMeta)
	}
}

func dumpSweep(path string, sweep *msx.PolarSweep, maxRays, previewGates int, momentName string, physical, showMeta bool) {
	hdr := sweep.Header
	fmt.Printf("=== %s ===\n", path)
	fmt.Printf("fileid=%s version=%d radar=%q scan=%q\n",
		hdr.FileID, hdr.Version, hdr.RadarName, hdr.ScanName)
	fmt.Printf("lat=%.5f lon=%.5f height=%.1f\n", hdr.RadarLat, hdr.RadarLon, hdr.RadarHeight)
	fmt.Printf("sweep %d/%d (seq %d) antmode=%d priority=%d quality=%d repeattime=%d\n",
		hdr.CurrentSweep, hdr.TotalSweep, hdr.SequenceSweep,
		hdr.AntMode, hdr.Priority, hdr.Quality, hdr.RepeatTime)
	fmt.Printf("gatewidth=%.3f wavelength=%.4f pulsewidth=%.3f startrange=%.3f\n",
		hdr.GateWidth, hdr.WaveLength, hdr.PulseWidth, hdr.StartRange)
	fmt.Printf("moments=%d rays=%d\n", hdr.NumMoments, len(sweep.Rays))

	for _, mi := range hdr.MomentsInfo {
		fmt.Printf("  moment 0x%02X %-12s unit=%-10s format=%d scale=%d A=%g B=%g C=%g normalized=%v\n",
			uint32(mi.MomentID), mi.Name, mi.Unit, mi.DataFormat, mi.ScaleType,
			mi.FactorA, mi.FactorB, mi.FactorC, mi.IsNormalized())
	}
	if showMeta && hdr.MetaData != "" {
		fmt.Printf("metadata: %s\n", hdr.MetaData)
	}

	n := len(sweep.Rays)
	if maxRays > 0 && maxRays < n {
		n = maxRays
	}
	for i := 0; i < n; i++ {
		ray := sweep.Rays[i]
		fmt.Printf("ray %3d az %7.3f..%7.3f el %6.3f prf=%.1f pulses=%d batches=%d\n",
			i, ray.StartAzDeg(), ray.EndAzDeg(), ray.StartElDeg(),
			ray.Header.PRF, ray.Header.NumPulses, len(ray.Header.BatchesInfo))
		for _, b := range ray.Header.BatchesInfo {
			fmt.Printf("      batch startrange=%.3f prf=%.1f pulses=%d dprf=%d angperc=%.2f\n",
				b.StartRange, b.PRF, b.NumPulses, b.DPRF, b.AngPerc)
		}
		for _, mom := range ray.Moments {
			mi := hdr.MomentInfoByID(mom.Header.MomentID)
			if mi == nil {
				continue
			}
			if momentName != "" && mi.Name != momentName {
				continue
			}
			fmt.Printf("      %-12s gates=%d %s\n", mi.Name, mom.NumGates(),
				gatePreview(mom, mi, previewGates, physical))
		}
	}
	if n < len(sweep.Rays) {
		fmt.Printf("... %d more rays\n", len(sweep.Rays)-n)
	}
}

func gatePreview(mom *msx.Moment, mi *msx.MomentInfo, count int, physical bool) string {
	if count > mom.NumGates() {
		count = mom.NumGates()
	}
	vals := make([]string, 0, count)
	for k := 0; k < count; k++ {
		if physical {
			v := mom.RealValue(mi, k)
			if math.IsNaN(v) {
				vals = append(vals, "-")
			} else {
				vals = append(vals, fmt.Sprintf("%.2f", v))
			}
		} else {
			vals = append(vals, fmt.Sprintf("%g", mom.Gates[k]))
		}
	}
	return "[" + strings.Join(vals, " ") + "]"
}
