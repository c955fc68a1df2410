// prodinfo inspects product files: header entries, side tables, and payload
// shape. With -out it rewrites the file, optionally toggling payload
// compression, which is useful for normalizing archives.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/meteoradar/msxkit/internal/product"
)

func main() {
	out := flag.String("out", "", "Rewrite the product to this path")
	compress := flag.Bool("compress", true, "Compress the payload when rewriting")
	showHeader := flag.Bool("header", true, "Print header entries")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: prodinfo [flags] file...")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *out != "" && flag.NArg() != 1 {
		log.Fatal("-out takes exactly one input file")
	}

	for _, path := range flag.Args() {
		f, err := product.Load(path)
		if err != nil {
			log.Fatalf("loading %s: %v", path, err)
		}

		fmt.Printf("=== %s ===\n", path)
		fmt.Printf("type: %s\n", f.DataType())
		if *showHeader {
			for _, e := range f.HeaderInfo() {
				fmt.Printf("  %s=%s\n", e.Key, e.Value)
			}
		}
		for _, tb := range f.Tables() {
			fmt.Printf("table %-12s %d bytes\n", tb.Name, len(tb.Data))
		}
		if d := f.Data(); d != nil {
			fmt.Printf("payload: %d x %d (%d bytes)\n",
				d.NumRows(), d.NumCols(), len(d.Bytes()))
		} else {
			fmt.Println("payload: unknown shape")
		}

		if *out != "" {
			if err := f.Save(*out, *compress); err != nil {
				log.Fatalf("saving %s: %v", *out, err)
			}
			log.Printf("wrote %s (compress=%v)", *out, *compress)
		}
	}
}
