package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go-frame-filters/internal/filter"
	"go-frame-filters/internal/frame"
	"go-frame-filters/internal/logger"
	"go-frame-filters/internal/storage"
	"go-frame-filters/internal/timing"

	"github.com/sirupsen/logrus"
)

func main() {
	runs := flag.Int("n", timing.DefaultRuns, "Repetitions per blur variant")
	outDir := flag.String("out", ".", "Directory for the blurred images")
	workers := flag.Int("workers", 0, "Goroutines per transform, 0 for one per CPU")
	border := flag.String("border", "zero", "Separable blur border: zero or copy")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <image>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	policy, err := filter.ParseBorderPolicy(*border)
	if err != nil {
		logger.WithError(err).Fatal("Invalid border policy")
	}

	img, err := storage.ReadImageFile(path)
	if err != nil {
		logger.WithError(err).WithField("path", path).Fatal("Unable to read image")
	}
	src := frame.FromImage(img)
	proc := filter.NewProcessor(filter.DefaultOptions().WithWorkers(*workers).WithBorder(policy))

	results, err := timing.CompareBlurs(proc, src, *runs)
	if err != nil {
		logger.WithError(err).Fatal("Timing failed")
	}

	for _, r := range results {
		fmt.Printf("Time per image (%s): %.4f seconds\n", r.Name, r.Mean().Seconds())

		data, err := frame.EncodeAs(r.Output, frame.FormatPNG)
		if err != nil {
			logger.WithError(err).Fatal("Failed to encode result")
		}
		outPath := filepath.Join(*outDir, r.Name+".png")
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			logger.WithError(err).WithField("path", outPath).Fatal("Failed to write result")
		}
		logger.WithFields(logrus.Fields{
			"variant": r.Name,
			"runs":    r.Runs,
			"mean_ms": r.Mean().Milliseconds(),
			"path":    outPath,
		}).Debug("Blur timed")
	}
	fmt.Println("Terminating")
}
