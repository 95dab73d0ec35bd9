package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// TransformEvent represents a transform lifecycle event
type TransformEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	Mode           string                 `json:"mode"`
	Source         string                 `json:"source,omitempty"`
	Rows           int                    `json:"rows,omitempty"`
	Cols           int                    `json:"cols,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of transform event
type EventType string

const (
	// TransformStarted when a frame is handed to the processor
	TransformStarted EventType = "transform_started"
	// TransformCompleted when a transform finishes successfully
	TransformCompleted EventType = "transform_completed"
	// TransformFailed when loading, transforming or storing fails
	TransformFailed EventType = "transform_failed"
	// FrameLoaded when a source frame was fetched from storage
	FrameLoaded EventType = "frame_loaded"
	// ResultStored when a result was written to storage
	ResultStored EventType = "result_stored"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event TransformEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event TransformEvent)
}

// LoggingObserver logs transform events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

// OnEvent handles transform events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event TransformEvent) {
	fields := logrus.Fields{
		"event_type":         event.EventType,
		"mode":               event.Mode,
		"processing_time_ms": event.ProcessingTime.Milliseconds(),
		"success":            event.Success,
	}
	if event.Source != "" {
		fields["source"] = event.Source
	}
	if event.Rows > 0 {
		fields["rows"] = event.Rows
		fields["cols"] = event.Cols
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case TransformStarted:
		entry.Debug("Transform started")
	case TransformCompleted:
		entry.Info("Transform completed")
	case TransformFailed:
		entry.Error("Transform failed")
	case FrameLoaded:
		entry.Debug("Frame loaded")
	case ResultStored:
		entry.Info("Result stored")
	default:
		entry.Info("Transform event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// ModeMetrics aggregates counters for one mode
type ModeMetrics struct {
	Completed         int64         `json:"completed"`
	Failed            int64         `json:"failed"`
	TotalProcessing   time.Duration `json:"total_processing_ns"`
	AverageProcessing time.Duration `json:"avg_processing_ns"`
}

// Metrics is a snapshot of MetricsObserver counters
type Metrics struct {
	TotalTransforms      int64                  `json:"total_transforms"`
	SuccessfulTransforms int64                  `json:"successful_transforms"`
	FailedTransforms     int64                  `json:"failed_transforms"`
	StoredResults        int64                  `json:"stored_results"`
	PixelsProcessed      int64                  `json:"pixels_processed"`
	AverageProcessing    time.Duration          `json:"avg_processing_ns"`
	ByMode               map[string]ModeMetrics `json:"by_mode"`
}

// MetricsObserver collects metrics from transform events
type MetricsObserver struct {
	mu              sync.RWMutex
	total           int64
	successful      int64
	failed          int64
	stored          int64
	pixels          int64
	totalProcessing time.Duration
	byMode          map[string]*ModeMetrics
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{byMode: make(map[string]*ModeMetrics)}
}

// OnEvent handles transform events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event TransformEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case TransformStarted:
		o.total++
	case TransformCompleted:
		o.successful++
		o.pixels += int64(event.Rows) * int64(event.Cols)
		o.totalProcessing += event.ProcessingTime
		m := o.mode(event.Mode)
		m.Completed++
		m.TotalProcessing += event.ProcessingTime
	case TransformFailed:
		o.failed++
		o.mode(event.Mode).Failed++
	case ResultStored:
		o.stored++
	}
}

func (o *MetricsObserver) mode(name string) *ModeMetrics {
	m, ok := o.byMode[name]
	if !ok {
		m = &ModeMetrics{}
		o.byMode[name] = m
	}
	return m
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() Metrics {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := Metrics{
		TotalTransforms:      o.total,
		SuccessfulTransforms: o.successful,
		FailedTransforms:     o.failed,
		StoredResults:        o.stored,
		PixelsProcessed:      o.pixels,
		ByMode:               make(map[string]ModeMetrics, len(o.byMode)),
	}
	if o.successful > 0 {
		out.AverageProcessing = o.totalProcessing / time.Duration(o.successful)
	}
	for name, m := range o.byMode {
		snapshot := *m
		if m.Completed > 0 {
			snapshot.AverageProcessing = m.TotalProcessing / time.Duration(m.Completed)
		}
		out.ByMode[name] = snapshot
	}
	return out
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{observers: make([]Observer, 0)}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers the event to every observer concurrently and
// returns once all of them have handled it. A panicking observer is logged
// and does not affect the others.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event TransformEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	var wg sync.WaitGroup
	for _, observer := range observers {
		wg.Add(1)
		go func(obs Observer) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
	wg.Wait()
}
