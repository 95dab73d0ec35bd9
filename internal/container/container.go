package container

import (
	"fmt"
	"net/http"

	"go-frame-filters/internal/config"
	"go-frame-filters/internal/factory"
	"go-frame-filters/internal/filter"
	"go-frame-filters/internal/logger"
	"go-frame-filters/internal/observer"
	"go-frame-filters/internal/repository"
	"go-frame-filters/internal/service"
	"go-frame-filters/internal/storage"
	"go-frame-filters/internal/transport"
	"go-frame-filters/internal/worker"
	"go-frame-filters/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	backend         storage.Backend
	processor       *filter.Processor
	pool            *worker.Pool
	publisher       *observer.EventPublisher
	metrics         *observer.MetricsObserver
	frameRepository repository.FrameRepository
	filterService   service.FilterService
	handler         http.Handler
}

// NewContainer builds the dependency graph and starts the worker pool
func NewContainer(cfg *config.Config) (*Container, error) {
	components := factory.NewComponentFactory(cfg)

	backend, err := components.StorageFactory.CreateStorage(factory.StorageType(cfg.StorageType))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}
	processor, err := components.ProcessorFactory.CreateProcessor()
	if err != nil {
		return nil, fmt.Errorf("failed to create processor: %w", err)
	}

	pool := worker.NewPool(cfg.MaxConcurrentTransforms)
	pool.Start()

	metrics := observer.NewMetricsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	var validator service.LocationValidator = validation.NewURLValidator()
	if factory.StorageType(cfg.StorageType) != factory.HTTPStorage {
		validator = validation.NewObjectValidator()
	}

	frameRepository := repository.NewStorageFrameRepository(backend, cfg.MaxFramePixels)
	filterService := service.NewFilterService(
		frameRepository,
		processor,
		pool,
		validator,
		publisher,
		metrics,
		service.Config{MaxFramePixels: cfg.MaxFramePixels},
	)
	handler := transport.NewHandler(filterService, cfg)

	return &Container{
		config:          cfg,
		backend:         backend,
		processor:       processor,
		pool:            pool,
		publisher:       publisher,
		metrics:         metrics,
		frameRepository: frameRepository,
		filterService:   filterService,
		handler:         handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the filter service
func (c *Container) Service() service.FilterService {
	return c.filterService
}

// Close drains the worker pool
func (c *Container) Close() {
	c.pool.Close()
	c.pool.Wait()
}
