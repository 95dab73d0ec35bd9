package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	apperrors "go-frame-filters/internal/errors"
	"go-frame-filters/internal/filter"
	"go-frame-filters/internal/frame"
	"go-frame-filters/internal/observer"
	"go-frame-filters/internal/repository"
	"go-frame-filters/internal/worker"
	"go-frame-filters/pkg/models"
	"go-frame-filters/pkg/validation"
)

type fakeRepository struct {
	frames map[string]*frame.Frame
	saved  map[string]*frame.Frame
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		frames: map[string]*frame.Frame{},
		saved:  map[string]*frame.Frame{},
	}
}

func (r *fakeRepository) LoadFrame(ctx context.Context, location string) (*frame.Frame, error) {
	f, ok := r.frames[location]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no frame at %s", location), nil)
	}
	return f, nil
}

func (r *fakeRepository) SaveResult(ctx context.Context, name string, f *frame.Frame, format frame.Format) (*repository.StoredResult, error) {
	r.saved[name] = f
	return &repository.StoredResult{Location: "mem://" + name, ContentType: format.ContentType(), Size: len(f.Pix)}, nil
}

func gradientFrame(rows, cols int) *frame.Frame {
	f := frame.New(rows, cols)
	for i := range f.Pix {
		f.Pix[i] = uint8((i * 13) % 256)
	}
	return f
}

type fixture struct {
	svc     FilterService
	repo    *fakeRepository
	pool    *worker.Pool
	metrics *observer.MetricsObserver
}

func newFixture(t *testing.T, workers int, maxPixels int64, start bool) *fixture {
	t.Helper()
	repo := newFakeRepository()
	pool := worker.NewPool(workers)
	if start {
		pool.Start()
	}
	metrics := observer.NewMetricsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(metrics)

	svc := NewFilterService(
		repo,
		filter.NewProcessor(filter.DefaultOptions().WithWorkers(1)),
		pool,
		validation.NewObjectValidator(),
		publisher,
		metrics,
		Config{MaxFramePixels: maxPixels},
	)
	t.Cleanup(pool.Close)
	return &fixture{svc: svc, repo: repo, pool: pool, metrics: metrics}
}

func TestTransform_MatchesFilters(t *testing.T) {
	fx := newFixture(t, 2, 0, true)
	src := gradientFrame(12, 9)

	tests := []struct {
		mode filter.Mode
		want func(*frame.Frame) (*frame.Frame, error)
	}{
		{filter.ModeSepia, filter.Sepia},
		{filter.ModeCustomGreyscale, filter.CustomGreyscale},
		{filter.ModeBlur, filter.Blur5x5Separable},
		{filter.ModeBlurNaive, filter.Blur5x5},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			got, err := fx.svc.Transform(context.Background(), tt.mode, src, Params{})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			want, _ := tt.want(src)
			if !bytes.Equal(got.Pix, want.Pix) {
				t.Errorf("Service output for %s differs from the filter", tt.mode)
			}
		})
	}

	if got := fx.metrics.GetMetrics().SuccessfulTransforms; got != int64(len(tests)) {
		t.Errorf("Expected %d successful transforms, got %d", len(tests), got)
	}
}

func TestTransform_IntensityOverride(t *testing.T) {
	fx := newFixture(t, 1, 0, true)
	src := frame.Solid(20, 20, 200, 200, 200)

	soft := 1.0
	got, err := fx.svc.Transform(context.Background(), filter.ModeVignette, src, Params{Intensity: &soft})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	sepia, _ := filter.Sepia(src)
	want, _ := filter.Vignette(sepia, soft)
	if !bytes.Equal(got.Pix, want.Pix) {
		t.Error("Expected the override intensity to be used")
	}

	bad := -1.0
	if _, err := fx.svc.Transform(context.Background(), filter.ModeSepia, src, Params{Intensity: &bad}); !apperrors.IsType(err, apperrors.ErrorTypeInvalidParameter) {
		t.Errorf("Expected invalid parameter error, got %v", err)
	}
}

func TestTransform_Errors(t *testing.T) {
	fx := newFixture(t, 1, 100, true)

	tests := []struct {
		name     string
		mode     filter.Mode
		src      *frame.Frame
		wantType apperrors.ErrorType
	}{
		{"unknown mode", filter.Mode(42), frame.New(5, 5), apperrors.ErrorTypeValidation},
		{"too many pixels", filter.ModeSepia, frame.New(11, 10), apperrors.ErrorTypeInvalidDimensions},
		{"too small to blur", filter.ModeBlurNaive, frame.New(4, 9), apperrors.ErrorTypeInvalidDimensions},
		{"wrong channel count", filter.ModeSepia, &frame.Frame{Rows: 2, Cols: 2, Pix: make([]uint8, 16)}, apperrors.ErrorTypeUnsupportedChannels},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.svc.Transform(context.Background(), tt.mode, tt.src, Params{})
			if !apperrors.IsType(err, tt.wantType) {
				t.Errorf("Expected %s, got %v", tt.wantType, err)
			}
		})
	}

	if got := fx.metrics.GetMetrics().FailedTransforms; got != 1 {
		t.Errorf("Expected only the transform that reached the pool to count as failed, got %d", got)
	}
}

func TestTransform_SaturatedPool(t *testing.T) {
	// Workers are not started, so the queue of two never drains
	fx := newFixture(t, 1, 0, false)
	fx.pool.TrySubmit(func() {})
	fx.pool.TrySubmit(func() {})

	_, err := fx.svc.Transform(context.Background(), filter.ModeSepia, frame.New(5, 5), Params{})
	if !apperrors.IsType(err, apperrors.ErrorTypeUnavailable) {
		t.Errorf("Expected unavailable error, got %v", err)
	}
	if apperrors.GetStatusCode(err) != 503 {
		t.Errorf("Expected 503, got %d", apperrors.GetStatusCode(err))
	}

	fx.pool.Start()
	fx.pool.Wait()
}

func TestTransformLocation(t *testing.T) {
	fx := newFixture(t, 2, 0, true)
	fx.repo.frames["inputs/cat.png"] = gradientFrame(10, 14)

	resp, err := fx.svc.TransformLocation(context.Background(), filter.ModeGreyscale, models.TransformURLRequest{
		URL:    "inputs/cat.png",
		Output: "outputs/cat",
		Format: "raw",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Mode != "greyscale" || resp.Rows != 10 || resp.Cols != 14 {
		t.Errorf("Unexpected response %+v", resp)
	}
	if resp.ResultLocation != "mem://outputs/cat.bgr.zst" || resp.ResultType != frame.ContentType {
		t.Errorf("Unexpected stored result %+v", resp)
	}
	if resp.Stats == nil || resp.Stats.MeanB != resp.Stats.MeanR || resp.Stats.MeanG != resp.Stats.MeanR {
		t.Errorf("Expected equal channel means for a greyscale result, got %+v", resp.Stats)
	}

	stored := fx.repo.saved["outputs/cat.bgr.zst"]
	want, _ := filter.Greyscale(fx.repo.frames["inputs/cat.png"])
	if stored == nil || !bytes.Equal(stored.Pix, want.Pix) {
		t.Error("Expected the greyscale result to be stored")
	}
	if got := fx.metrics.GetMetrics().StoredResults; got != 1 {
		t.Errorf("Expected one stored result, got %d", got)
	}
}

func TestTransformLocation_Errors(t *testing.T) {
	fx := newFixture(t, 1, 0, true)
	fx.repo.frames["cat.png"] = gradientFrame(6, 6)

	tests := []struct {
		name     string
		req      models.TransformURLRequest
		wantType apperrors.ErrorType
	}{
		{"empty url", models.TransformURLRequest{}, apperrors.ErrorTypeValidation},
		{"escaping url", models.TransformURLRequest{URL: "../cat.png"}, apperrors.ErrorTypeValidation},
		{"bad format", models.TransformURLRequest{URL: "cat.png", Format: "gif"}, apperrors.ErrorTypeValidation},
		{"escaping output", models.TransformURLRequest{URL: "cat.png", Output: "../out.png"}, apperrors.ErrorTypeValidation},
		{"missing", models.TransformURLRequest{URL: "dog.png"}, apperrors.ErrorTypeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.svc.TransformLocation(context.Background(), filter.ModeSepia, tt.req)
			if !apperrors.IsType(err, tt.wantType) {
				t.Errorf("Expected %s, got %v", tt.wantType, err)
			}
		})
	}

	resp, err := fx.svc.TransformLocation(context.Background(), filter.ModeSepia, models.TransformURLRequest{URL: "cat.png"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.ResultLocation != "" || len(fx.repo.saved) != 0 {
		t.Error("Expected nothing to be stored without an output name")
	}
}

func TestModes(t *testing.T) {
	fx := newFixture(t, 1, 0, true)
	modes := fx.svc.Modes()
	if len(modes) != len(filter.Modes()) {
		t.Fatalf("Expected %d modes, got %d", len(filter.Modes()), len(modes))
	}
	for _, m := range modes {
		if m.Description == "" {
			t.Errorf("Mode %s has no description", m.Name)
		}
	}
	if modes[0].Name != "color" || modes[0].Key != "" {
		t.Errorf("Expected color first without a key, got %+v", modes[0])
	}
	if modes[1].Name != "sepia" || modes[1].Key != "s" {
		t.Errorf("Expected sepia bound to s, got %+v", modes[1])
	}
}

func TestMetrics(t *testing.T) {
	fx := newFixture(t, 3, 0, true)
	if _, err := fx.svc.Transform(context.Background(), filter.ModeColor, frame.New(3, 3), Params{}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	m := fx.svc.Metrics()
	if m.Pool.Workers != 3 || m.Pool.TotalJobs != 1 {
		t.Errorf("Unexpected pool stats %+v", m.Pool)
	}
	if m.Transforms.TotalTransforms != 1 || m.Transforms.PixelsProcessed != 9 {
		t.Errorf("Unexpected transform metrics %+v", m.Transforms)
	}
}
