// Command profile prints the elevation profile of a GeoJSON or GPX file
// without a database. Useful for checking a document before importing it.
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/samirrijal/trailview/internal/core/domain"
	"github.com/samirrijal/trailview/internal/core/profile"
	"github.com/samirrijal/trailview/internal/core/usecases"
	"github.com/samirrijal/trailview/internal/core/variants"
)

func main() {
	unitFlag := flag.StringP("unit", "u", "km", "distance unit: km or m")
	output := flag.StringP("output", "o", "csv", "output format: csv or json")
	format := flag.StringP("format", "f", "", "input format: geojson or gpx (sniffed when empty)")
	variantName := flag.StringP("variant", "v", "", "round values with a page variant's decimals")
	summary := flag.BoolP("summary", "s", false, "print the route summary (raw distance) instead of samples")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: profile [flags] <route.geojson|route.gpx|->")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	data, name, err := readInput(flag.Arg(0))
	if err != nil {
		log.Fatalf("read: %v", err)
	}

	unit, err := profile.ParseUnit(*unitFlag)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var variant *domain.Variant
	if *variantName != "" {
		v, err := variants.Lookup(*variantName)
		if err != nil {
			log.Fatalf("%v", err)
		}
		variant = &v
	}

	points, _, err := usecases.Decode(usecases.DetectFormat(*format, name, data), data)
	if err != nil {
		log.Fatalf("decode: %v", err)
	}
	p, err := profile.Build(points)
	if err != nil {
		log.Fatalf("profile: %v", err)
	}

	if *summary {
		sum, err := profile.Summarize(points, p)
		if err != nil {
			log.Fatalf("summary: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sum); err != nil {
			log.Fatalf("write: %v", err)
		}
		return
	}

	p = profile.Rescale(p, unit)
	switch *output {
	case "csv":
		err = writeCSV(os.Stdout, p, unit, variant)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(p)
	default:
		log.Fatalf("unknown output format: %s", *output)
	}
	if err != nil {
		log.Fatalf("write: %v", err)
	}
}

func readInput(arg string) ([]byte, string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		return data, "", err
	}
	data, err := os.ReadFile(arg)
	return data, arg, err
}

func writeCSV(w io.Writer, p domain.ElevationProfile, unit profile.Unit, v *domain.Variant) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"distance_" + string(unit), "elevation_m"}); err != nil {
		return err
	}
	for _, s := range p {
		d := fmt.Sprint(s.Distance)
		e := fmt.Sprint(s.Elevation)
		if v != nil {
			d = variants.FormatDistance(*v, s.Distance)
			e = variants.FormatElevation(*v, s.Elevation)
		}
		if err := cw.Write([]string{d, e}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
