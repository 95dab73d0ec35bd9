//go:build gocv

// Command camview shows a camera stream with the selected transform applied.
// It needs OpenCV and is built with -tags gocv.
package main

import (
	"flag"
	"os"

	apperrors "go-frame-filters/internal/errors"
	"go-frame-filters/internal/filter"
	"go-frame-filters/internal/frame"
	"go-frame-filters/internal/logger"
	"go-frame-filters/internal/viewer"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

const windowName = "Video"

func main() {
	device := flag.Int("device", 0, "Camera device index")
	intensity := flag.Float64("intensity", filter.DefaultVignetteIntensity, "Vignette intensity")
	border := flag.String("border", "zero", "Separable blur border: zero or copy")
	savePath := flag.String("save", viewer.DefaultSavePath, "File written by the save key")
	flag.Parse()

	policy, err := filter.ParseBorderPolicy(*border)
	if err != nil {
		logger.WithError(err).Fatal("Invalid border policy")
	}
	proc := filter.NewProcessor(filter.DefaultOptions().WithVignetteIntensity(*intensity).WithBorder(policy))

	webcam, err := gocv.OpenVideoCapture(*device)
	if err != nil {
		logger.WithError(err).WithField("device", *device).Fatal("Unable to open video device")
	}
	defer webcam.Close()

	window := gocv.NewWindow(windowName)
	defer window.Close()

	img := gocv.NewMat()
	defer img.Close()

	mode := filter.ModeColor
	for {
		if ok := webcam.Read(&img); !ok || img.Empty() {
			logger.Warn("Frame is empty")
			break
		}

		src, err := matToFrame(img)
		if err != nil {
			logger.WithError(err).Error("Unsupported camera frame")
			break
		}
		out, err := proc.Apply(mode, src)
		if err != nil {
			logger.WithError(err).WithField("mode", mode.String()).Warn("Transform failed, showing source")
			out = src
		}

		if err := show(window, out); err != nil {
			logger.WithError(err).Error("Failed to display frame")
			break
		}

		key := window.WaitKey(10)
		if key < 0 {
			continue
		}
		if rune(key) == viewer.SaveKey {
			save(*savePath, out)
			continue
		}
		next, quit := filter.NextMode(mode, rune(key))
		if quit {
			break
		}
		if next != mode {
			logger.WithField("mode", next.String()).Info("Mode changed")
			mode = next
		}
	}
}

// matToFrame copies a camera Mat into a BGR frame. Four channel captures are
// converted first.
func matToFrame(m gocv.Mat) (*frame.Frame, error) {
	switch m.Channels() {
	case frame.Channels:
		return frame.FromBytes(m.Rows(), m.Cols(), frame.Channels, m.ToBytes())
	case 4:
		bgr := gocv.NewMat()
		defer bgr.Close()
		gocv.CvtColor(m, &bgr, gocv.ColorBGRAToBGR)
		return frame.FromBytes(bgr.Rows(), bgr.Cols(), frame.Channels, bgr.ToBytes())
	default:
		return nil, apperrors.NewUnsupportedChannelsError(m.Channels())
	}
}

func show(window *gocv.Window, f *frame.Frame) error {
	mat, err := gocv.NewMatFromBytes(f.Rows, f.Cols, gocv.MatTypeCV8UC3, f.Pix)
	if err != nil {
		return err
	}
	defer mat.Close()
	window.IMShow(mat)
	return nil
}

func save(path string, f *frame.Frame) {
	data, err := frame.EncodeAs(f, frame.FormatPNG)
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		logger.WithError(err).WithField("path", path).Error("Failed to save frame")
		return
	}
	logger.WithFields(logrus.Fields{"path": path}).Info("Frame saved")
}
