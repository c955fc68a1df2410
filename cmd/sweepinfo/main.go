// sweepinfo prints the acquisition parameters derived from MSx sweep files:
// polarization mode, the PRF pair, and the Nyquist constants that govern
// normalized moment decoding.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/meteoradar/msxkit/internal/georef"
	"github.com/meteoradar/msxkit/internal/msx"
)

func main() {
	numGates := flag.Int("georef-gates", 0, "Also print beam geometry for this many gates of the first ray")
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: sweepinfo file...")
		os.Exit(2)
	}

	for _, path := range flag.Args() {
		sweep, err := msx.Load(path)
		if err != nil {
			log.Fatalf("loading %s: %v", path, err)
		}
		info := msx.NewPolarSweepInfo(sweep)

		fmt.Printf("=== %s ===\n", path)
		if !info.Valid() {
			fmt.Println("no usable PRF source (no metadata and no rays)")
			continue
		}
		fmt.Printf("pol mode:         %s\n", info.PolMode())
		fmt.Printf("wavelength:       %g\n", info.WaveLength())
		fmt.Printf("high prf:         %g\n", info.HighPRF())
		fmt.Printf("low prf:          %g\n", info.LowPRF())
		fmt.Printf("dprf ratio:       %d\n", info.DPRF())
		fmt.Printf("velocity nyquist: %g (normalized: %v)\n",
			info.VelocityNyquist(), info.IsVelocityNormalized())
		fmt.Printf("width nyquist:    %g (normalized: %v)\n",
			info.WidthNyquist(), info.IsWidthNormalized())
		fmt.Printf("phidp phase:      %g (normalized: %v)\n",
			info.PhidpPhase(), info.IsPhidpNormalized())

		if *numGates > 0 && len(sweep.Rays) > 0 {
			printGeometry(sweep, *numGates)
		}
	}
}

// printGeometry prints the 4/3-Earth beam geometry of the first ray.
func printGeometry(sweep *msx.PolarSweep, numGates int) {
	ray := sweep.Rays[0]
	ref := georef.Build(numGates, ray.StartElDeg(),
		float64(sweep.Header.GateWidth), float64(sweep.Header.RadarHeight)*0.001)

	fmt.Printf("beam geometry (elevation %.3f deg):\n", ref.Elevation())
	for _, g := range ref.Gates() {
		fmt.Printf("  gate %4d  height %8.3f km  horizon %8.3f km\n",
			g.Index, g.MidHeight, g.HorizonDistance)
	}
}
