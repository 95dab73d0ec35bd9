package factory

import (
	"testing"
	"time"

	"go-frame-filters/internal/config"
	"go-frame-filters/internal/filter"
	"go-frame-filters/internal/storage"
)

func TestCreateStorage(t *testing.T) {
	cfg := &config.Config{
		FetchTimeout:       time.Second,
		MaxRequestBodySize: 1 << 20,
		LocalStorageDir:    t.TempDir(),
		AzureAccount:       "acct",
		AzureKey:           "a2V5",
		AzureContainer:     "frames",
	}
	f := NewStorageFactory(cfg)

	httpBackend, err := f.CreateStorage(HTTPStorage)
	if err != nil {
		t.Fatalf("http: unexpected error: %v", err)
	}
	if _, ok := httpBackend.(*storage.HTTPImageFetcher); !ok {
		t.Errorf("Expected *storage.HTTPImageFetcher, got %T", httpBackend)
	}

	localBackend, err := f.CreateStorage(LocalStorage)
	if err != nil {
		t.Fatalf("local: unexpected error: %v", err)
	}
	if _, ok := localBackend.(*storage.LocalStorage); !ok {
		t.Errorf("Expected *storage.LocalStorage, got %T", localBackend)
	}

	azureBackend, err := f.CreateStorage(AzureStorage)
	if err != nil {
		t.Fatalf("azure: unexpected error: %v", err)
	}
	if _, ok := azureBackend.(*storage.AzureStorage); !ok {
		t.Errorf("Expected *storage.AzureStorage, got %T", azureBackend)
	}

	if _, err := f.CreateStorage(StorageType("s3")); err == nil {
		t.Error("Expected error for unsupported storage type")
	}
}

func TestCreateProcessor(t *testing.T) {
	cfg := &config.Config{VignetteIntensity: 0.7, SeparableBorder: "copy", Workers: 3}
	p, err := NewProcessorFactory(cfg).CreateProcessor()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	opts := p.Options()
	if opts.VignetteIntensity != 0.7 || opts.SeparableBorder != filter.BorderCopy || opts.Workers != 3 {
		t.Errorf("Unexpected options %+v", opts)
	}

	cfg.SeparableBorder = "wrap"
	if _, err := NewProcessorFactory(cfg).CreateProcessor(); err == nil {
		t.Error("Expected error for unknown border policy")
	}
}
