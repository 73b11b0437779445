// Command gridtool inspects and samples gridded data files from the command
// line.
//
//	gridtool info -format flt path/to/grid
//	gridtool sample -format trmm -lat -29.5 -lon 30.25 path/to/3B42RT.bin.gz
//	gridtool subset -format flt -minx 0 -miny 0 -maxx 1000 -maxy 1000 path/to/grid
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	raster "github.com/hydrolab/go-raster"
	"github.com/hydrolab/go-raster/esrigrid"
	"github.com/hydrolab/go-raster/geotiff"
	"github.com/hydrolab/go-raster/trmm"
)

var log = logrus.New()

type command struct {
	name        string
	description string
	run         func(*flag.FlagSet, []string) error
}

var subCommands = []command{
	{"info", "Print grid geometry and statistics.", runInfo},
	{"sample", "Print the grid value at a point.", runSample},
	{"subset", "Print geometry and statistics of a sub-region.", runSubset},
}

func printUsage() {
	fmt.Printf("USAGE:\n    %s SUBCOMMAND [FLAGS] FILE\n\nSUBCOMMANDS:\n", os.Args[0])
	for _, cmd := range subCommands {
		fmt.Printf("%10s    %s\n", cmd.name, cmd.description)
	}
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	if os.Args[1] == "help" {
		printUsage()
		return
	}
	for _, cmd := range subCommands {
		if cmd.name != os.Args[1] {
			continue
		}
		set := flag.NewFlagSet(cmd.name, flag.ExitOnError)
		if err := cmd.run(set, os.Args[2:]); err != nil {
			log.Fatal(err)
		}
		return
	}
	printUsage()
	os.Exit(1)
}

// formatFlag declares the -format flag, defaulting to the GRIDTOOL_FORMAT
// environment variable.
func formatFlag(set *flag.FlagSet) *string {
	return set.String("format", os.Getenv("GRIDTOOL_FORMAT"), "grid format: flt, trmm or geotiff")
}

// openRaster reads the grid at path in the given format.
func openRaster(format, path string) (*raster.Raster, error) {
	fsys := os.DirFS(filepath.Dir(path))
	base := filepath.Base(path)
	switch format {
	case "flt":
		return esrigrid.Read(fsys, strings.TrimSuffix(base, filepath.Ext(base)))
	case "trmm":
		f, err := trmm.Open(fsys, base)
		if err != nil {
			return nil, err
		}
		return f.Precip()
	case "geotiff":
		return geotiff.Read(fsys, base)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// samplePoint returns the grid value at (lat, lon). TRMM files skip the full
// grid materialisation and index the packed counts directly.
func samplePoint(format, path string, lat, lon float64) (float64, error) {
	if format == "trmm" {
		f, err := trmm.Open(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		if err != nil {
			return 0, err
		}
		values, err := f.PointValues([]float64{lat}, []float64{lon})
		if err != nil {
			return 0, err
		}
		return values[0], nil
	}
	r, err := openRaster(format, path)
	if err != nil {
		return 0, err
	}
	return r.Sample([]float64{lon}, []float64{lat})[0], nil
}

func logGrid(r *raster.Raster) {
	stats := r.Stats()
	log.WithFields(logrus.Fields{
		"rows": r.Rows(),
		"cols": r.Cols(),
		"x0":   r.X0(),
		"y0":   r.Y0(),
		"dx":   r.Dx(),
		"dy":   r.Dy(),
	}).Info("grid geometry")
	log.WithFields(logrus.Fields{
		"valid": stats.N,
		"min":   stats.Min,
		"max":   stats.Max,
		"mean":  stats.Mean,
		"std":   stats.Std,
	}).Info("grid statistics")
}

func runInfo(set *flag.FlagSet, args []string) error {
	format := formatFlag(set)
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 1 {
		return errors.New("syntax: gridtool info -format FORMAT FILE")
	}
	r, err := openRaster(*format, set.Arg(0))
	if err != nil {
		return err
	}
	logGrid(r)
	return nil
}

func runSample(set *flag.FlagSet, args []string) error {
	format := formatFlag(set)
	lat := set.Float64("lat", 0, "latitude (or projected y) of the point")
	lon := set.Float64("lon", 0, "longitude (or projected x) of the point")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 1 {
		return errors.New("syntax: gridtool sample -format FORMAT -lat LAT -lon LON FILE")
	}
	value, err := samplePoint(*format, set.Arg(0), *lat, *lon)
	if err != nil {
		return err
	}
	if value == raster.NoData {
		log.WithFields(logrus.Fields{"lat": *lat, "lon": *lon}).Warn("no data at point")
	}
	fmt.Println(value)
	return nil
}

func runSubset(set *flag.FlagSet, args []string) error {
	format := formatFlag(set)
	minX := set.Float64("minx", 0, "minimum x of the sub-region")
	minY := set.Float64("miny", 0, "minimum y of the sub-region")
	maxX := set.Float64("maxx", 0, "maximum x of the sub-region")
	maxY := set.Float64("maxy", 0, "maximum y of the sub-region")
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() != 1 {
		return errors.New("syntax: gridtool subset -format FORMAT -minx X -miny Y -maxx X -maxy Y FILE")
	}
	r, err := openRaster(*format, set.Arg(0))
	if err != nil {
		return err
	}
	sub, err := r.Subset(*minX, *minY, *maxX, *maxY)
	if err != nil {
		return err
	}
	logGrid(sub)
	return nil
}
