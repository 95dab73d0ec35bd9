package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	apperrors "go-frame-filters/internal/errors"
	"go-frame-filters/internal/filter"
	"go-frame-filters/internal/frame"
	"go-frame-filters/internal/observer"
	"go-frame-filters/internal/repository"
	"go-frame-filters/internal/worker"
	"go-frame-filters/pkg/models"
	"go-frame-filters/pkg/validation"
)

// Params are per-request overrides of the processor options
type Params struct {
	// Intensity replaces the configured vignette intensity when set
	Intensity *float64
	// Source is reported in events only
	Source string
}

// Metrics combines pool and transform counters
type Metrics struct {
	Pool       worker.Stats     `json:"pool"`
	Transforms observer.Metrics `json:"transforms"`
}

// FilterService runs transforms on frames supplied directly or loaded from
// the configured storage
type FilterService interface {
	// Transform applies mode to src on the worker pool
	Transform(ctx context.Context, mode filter.Mode, src *frame.Frame, params Params) (*frame.Frame, error)

	// TransformLocation loads req.URL, transforms it and stores the result
	// when req.Output is set
	TransformLocation(ctx context.Context, mode filter.Mode, req models.TransformURLRequest) (*models.TransformResponse, error)

	// Modes lists the selectable transforms
	Modes() []models.ModeInfo

	// Metrics returns a snapshot of service counters
	Metrics() Metrics
}

// LocationValidator checks a source or result location
type LocationValidator interface {
	ValidateLocation(location string) error
}

// Config holds the service settings
type Config struct {
	MaxFramePixels int64
}

type filterService struct {
	repo      repository.FrameRepository
	processor *filter.Processor
	pool      *worker.Pool
	validator LocationValidator
	publisher observer.Subject
	metrics   *observer.MetricsObserver
	cfg       Config
}

// NewFilterService creates a filter service. The pool must be started by the
// caller.
func NewFilterService(
	repo repository.FrameRepository,
	processor *filter.Processor,
	pool *worker.Pool,
	validator LocationValidator,
	publisher observer.Subject,
	metrics *observer.MetricsObserver,
	cfg Config,
) FilterService {
	return &filterService{
		repo:      repo,
		processor: processor,
		pool:      pool,
		validator: validator,
		publisher: publisher,
		metrics:   metrics,
		cfg:       cfg,
	}
}

// Transform validates src and runs the transform without waiting for a free
// worker: a saturated pool fails fast with an unavailable error.
func (s *filterService) Transform(ctx context.Context, mode filter.Mode, src *frame.Frame, params Params) (*frame.Frame, error) {
	if !mode.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown mode %d", int(mode)), nil)
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if s.cfg.MaxFramePixels > 0 && int64(src.Rows)*int64(src.Cols) > s.cfg.MaxFramePixels {
		return nil, apperrors.NewInvalidDimensionsError(
			fmt.Sprintf("frame %dx%d exceeds %d pixels", src.Rows, src.Cols, s.cfg.MaxFramePixels))
	}

	p := s.processor
	if params.Intensity != nil {
		if err := filter.ValidateVignetteIntensity(*params.Intensity); err != nil {
			return nil, err
		}
		p = filter.NewProcessor(p.Options().WithVignetteIntensity(*params.Intensity))
	}

	event := observer.TransformEvent{
		Mode:   mode.String(),
		Source: params.Source,
		Rows:   src.Rows,
		Cols:   src.Cols,
	}
	s.notify(ctx, observer.TransformStarted, event)
	started := time.Now()

	var out *frame.Frame
	var transformErr error
	err := s.pool.TryRun(ctx, func() {
		out, transformErr = p.Apply(mode, src)
	})
	if err == nil {
		err = transformErr
	}
	event.ProcessingTime = time.Since(started)

	if err != nil {
		err = classifyRunError(err)
		event.ErrorMessage = err.Error()
		s.notify(ctx, observer.TransformFailed, event)
		return nil, err
	}

	event.Success = true
	s.notify(ctx, observer.TransformCompleted, event)
	return out, nil
}

// TransformLocation loads, transforms and optionally stores a frame
func (s *filterService) TransformLocation(ctx context.Context, mode filter.Mode, req models.TransformURLRequest) (*models.TransformResponse, error) {
	if err := s.validator.ValidateLocation(req.URL); err != nil {
		return nil, err
	}
	format, err := frame.ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}
	output := strings.TrimSpace(req.Output)
	if output != "" {
		if err := validation.ValidateObjectName(output); err != nil {
			return nil, err
		}
		if path.Ext(output) == "" {
			output += format.Extension()
		}
	}

	started := time.Now()
	src, err := s.repo.LoadFrame(ctx, req.URL)
	if err != nil {
		s.notify(ctx, observer.TransformFailed, observer.TransformEvent{
			Mode:         mode.String(),
			Source:       req.URL,
			ErrorMessage: err.Error(),
		})
		return nil, err
	}
	s.notify(ctx, observer.FrameLoaded, observer.TransformEvent{
		Mode:    mode.String(),
		Source:  req.URL,
		Rows:    src.Rows,
		Cols:    src.Cols,
		Success: true,
	})

	out, err := s.Transform(ctx, mode, src, Params{Intensity: req.Intensity, Source: req.URL})
	if err != nil {
		return nil, err
	}

	resp := &models.TransformResponse{
		Mode:   mode.String(),
		Source: req.URL,
		Rows:   out.Rows,
		Cols:   out.Cols,
	}
	if stats, err := filter.FrameStats(out); err == nil {
		resp.Stats = &models.FrameStats{
			MeanB:      stats.MeanB,
			MeanG:      stats.MeanG,
			MeanR:      stats.MeanR,
			MeanLuma:   stats.MeanLuma,
			LumaStdDev: stats.LumaStdDev,
			Sharpness:  stats.Sharpness,
		}
	}

	if output != "" {
		stored, err := s.repo.SaveResult(ctx, output, out, format)
		if err != nil {
			s.notify(ctx, observer.TransformFailed, observer.TransformEvent{
				Mode:         mode.String(),
				Source:       req.URL,
				ErrorMessage: err.Error(),
			})
			return nil, err
		}
		s.notify(ctx, observer.ResultStored, observer.TransformEvent{
			Mode:     mode.String(),
			Source:   req.URL,
			Success:  true,
			Metadata: map[string]interface{}{"location": stored.Location, "bytes": stored.Size},
		})
		resp.ResultLocation = stored.Location
		resp.ResultType = stored.ContentType
		resp.ResultBytes = stored.Size
	}

	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
	resp.ProcessingTimeSec = time.Since(started).Seconds()
	return resp, nil
}

var modeDescriptions = map[filter.Mode]string{
	filter.ModeColor:           "unmodified copy of the source",
	filter.ModeSepia:           "sepia toning",
	filter.ModeVignette:        "sepia followed by a Gaussian vignette",
	filter.ModeGreyscale:       "standard luma greyscale",
	filter.ModeCustomGreyscale: "inverted weighted greyscale",
	filter.ModeBlur:            "separable 5x5 Gaussian blur",
	filter.ModeBlurNaive:       "direct 5x5 Gaussian blur",
}

// Modes lists every transform with its key binding
func (s *filterService) Modes() []models.ModeInfo {
	modes := filter.Modes()
	out := make([]models.ModeInfo, 0, len(modes))
	for _, m := range modes {
		info := models.ModeInfo{Name: m.String(), Description: modeDescriptions[m]}
		if k := m.Key(); k != 0 {
			info.Key = string(k)
		}
		out = append(out, info)
	}
	return out
}

// Metrics returns pool and transform counters
func (s *filterService) Metrics() Metrics {
	m := Metrics{Pool: s.pool.GetStats()}
	if s.metrics != nil {
		m.Transforms = s.metrics.GetMetrics()
	}
	return m
}

func (s *filterService) notify(ctx context.Context, eventType observer.EventType, event observer.TransformEvent) {
	if s.publisher == nil {
		return
	}
	event.EventType = eventType
	event.Timestamp = time.Now()
	s.publisher.NotifyObservers(ctx, event)
}

// classifyRunError maps pool and context failures onto application errors;
// errors from the filters are already typed.
func classifyRunError(err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, worker.ErrPoolFull):
		return apperrors.NewUnavailableError("all transform workers are busy", err)
	case errors.Is(err, worker.ErrPoolClosed):
		return apperrors.NewUnavailableError("service is shutting down", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.NewTimeoutError("transform did not finish in time", err)
	default:
		return apperrors.NewInternalError("transform failed", err)
	}
}
