package factory

import (
	"fmt"

	"go-frame-filters/internal/config"
	"go-frame-filters/internal/filter"
	"go-frame-filters/internal/storage"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage fetches source images over HTTP; it cannot store results
	HTTPStorage StorageType = "http"
	// AzureStorage reads and writes blobs in one container
	AzureStorage StorageType = "azure"
	// LocalStorage reads and writes below a directory
	LocalStorage StorageType = "local"
)

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.Backend, error)
}

// ProcessorFactory creates filter processors
type ProcessorFactory interface {
	CreateProcessor() (*filter.Processor, error)
}

type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a storage factory backed by cfg
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates a storage implementation based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.Backend, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(
			storage.WithTimeout(f.cfg.FetchTimeout),
			storage.WithMaxBytes(f.cfg.MaxRequestBodySize),
		), nil
	case AzureStorage:
		return storage.NewAzureStorage(f.cfg.AzureAccount, f.cfg.AzureKey, f.cfg.AzureContainer)
	case LocalStorage:
		return storage.NewLocalStorage(f.cfg.LocalStorageDir)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

type processorFactory struct {
	cfg *config.Config
}

// NewProcessorFactory creates a processor factory backed by cfg
func NewProcessorFactory(cfg *config.Config) ProcessorFactory {
	return &processorFactory{cfg: cfg}
}

// CreateProcessor builds a processor from the filter settings in the config
func (f *processorFactory) CreateProcessor() (*filter.Processor, error) {
	border, err := filter.ParseBorderPolicy(f.cfg.SeparableBorder)
	if err != nil {
		return nil, err
	}
	opts := filter.DefaultOptions().
		WithVignetteIntensity(f.cfg.VignetteIntensity).
		WithBorder(border).
		WithWorkers(f.cfg.Workers)
	return filter.NewProcessor(opts), nil
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	ProcessorFactory ProcessorFactory
	StorageFactory   StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		ProcessorFactory: NewProcessorFactory(cfg),
		StorageFactory:   NewStorageFactory(cfg),
	}
}
