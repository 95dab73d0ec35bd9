package main

import (
	"flag"
	"io"
	"os"

	"go-frame-filters/internal/filter"
	"go-frame-filters/internal/frame"
	"go-frame-filters/internal/logger"
	"go-frame-filters/internal/storage"
	"go-frame-filters/internal/viewer"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

func main() {
	imagePath := flag.String("image", "", "Image to display (png, jpeg, gif, bmp, tiff, webp)")
	savePath := flag.String("save", viewer.DefaultSavePath, "File written by the save key")
	intensity := flag.Float64("intensity", filter.DefaultVignetteIntensity, "Vignette intensity")
	border := flag.String("border", "zero", "Separable blur border: zero or copy")
	logPath := flag.String("log", "", "Write logs to this file instead of discarding them")
	flag.Parse()

	if *imagePath == "" && flag.NArg() > 0 {
		*imagePath = flag.Arg(0)
	}
	if *imagePath == "" {
		logger.Error("Usage: filterview -image <file>")
		os.Exit(2)
	}

	policy, err := filter.ParseBorderPolicy(*border)
	if err != nil {
		logger.WithError(err).Fatal("Invalid border policy")
	}
	if err := filter.ValidateVignetteIntensity(*intensity); err != nil {
		logger.WithError(err).Fatal("Invalid intensity")
	}

	img, err := storage.ReadImageFile(*imagePath)
	if err != nil {
		logger.WithError(err).WithField("path", *imagePath).Fatal("Could not read the image")
	}
	src := frame.FromImage(img)

	// The terminal belongs to the UI from here on
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.WithError(err).Fatal("Could not open log file")
		}
		defer f.Close()
		logOut = f
	}
	logger.SetOutput(logOut)

	proc := filter.NewProcessor(filter.DefaultOptions().
		WithVignetteIntensity(*intensity).
		WithBorder(policy))

	logger.WithFields(logrus.Fields{
		"path": *imagePath,
		"rows": src.Rows,
		"cols": src.Cols,
	}).Info("Viewer started")

	if _, err := tea.NewProgram(viewer.New(src, proc, *savePath), tea.WithAltScreen()).Run(); err != nil {
		logger.SetOutput(os.Stderr)
		logger.WithError(err).Fatal("Viewer failed")
	}
}
