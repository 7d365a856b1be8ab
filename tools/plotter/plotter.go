package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/codequality-tools/perfgate/pkg/metric"
)

func main() {
	var (
		inputFile  = flag.String("i", "data/out/perfgate_samples.csv", "Path to the samples CSV written by the harness")
		outputDir  = flag.String("o", "figs", "Path to the directory for output figures")
		debugLevel = flag.String("d", "info", "Debug level: info, debug")
	)
	flag.Parse()
	log.SetOutput(os.Stdout)

	switch *debugLevel {
	case "info":
		log.SetLevel(log.InfoLevel)
	case "debug":
		log.SetLevel(log.DebugLevel)
		log.Debug("Debug mode is enabled")
	}

	byVersion := parseSamples(*inputFile)
	plotFig(*outputDir, byVersion)
}

func parseSamples(inputFile string) map[string][]metric.ExecutionRecord {
	f, err := os.Open(inputFile)
	if err != nil {
		log.Fatal("Cannot open the samples file: ", err)
	}
	defer f.Close()

	var records []metric.ExecutionRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		log.Fatal("Cannot parse the samples file: ", err)
	}

	byVersion := make(map[string][]metric.ExecutionRecord)
	for _, record := range records {
		if !record.Success {
			log.Warn("Skipping failed iteration ", record.Iteration, " of ", record.Version)
			continue
		}
		byVersion[record.Version] = append(byVersion[record.Version], record)
	}

	for version, versionRecords := range byVersion {
		durations := make([]float64, 0, len(versionRecords))
		for _, record := range versionRecords {
			durations = append(durations, float64(record.Elapsed)/1000.0)
		}
		mean, std := stat.MeanStdDev(durations, nil)
		log.Infof("%s: %d iterations, mean %.1f ms, stddev %.1f ms", version, len(durations), mean, std)
	}

	return byVersion
}

func plotFig(outputDir string, byVersion map[string][]metric.ExecutionRecord) {
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		log.Info("Creating the output directory")
		if err := os.Mkdir(outputDir, os.ModePerm); err != nil {
			log.Fatal(err)
		}
	}

	p := plot.New()

	p.Title.Text = "Build duration per iteration"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Duration (ms)"
	p.Y.Min = 0

	var lines []interface{}
	for version, records := range byVersion {
		lines = append(lines, version, getXY(records))
	}

	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		log.Fatal(err)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, filepath.Join(outputDir, "durations.png")); err != nil {
		log.Fatal(err)
	}
}

func getXY(records []metric.ExecutionRecord) plotter.XYs {
	pts := make(plotter.XYs, len(records))
	for i, record := range records {
		pts[i].X = float64(record.Iteration)
		pts[i].Y = float64(record.Elapsed) / 1000.0
	}
	return pts
}
