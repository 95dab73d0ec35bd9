package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"HOST", "PORT", "REQUEST_TIMEOUT", "STORAGE_TYPE", "VIGNETTE_INTENSITY", "WORKERS", "SEPARABLE_BORDER"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.ServerAddress() != "0.0.0.0:8080" {
		t.Errorf("Unexpected address %s", cfg.ServerAddress())
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected 30s request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.VignetteIntensity != 0.5 {
		t.Errorf("Expected vignette intensity 0.5, got %v", cfg.VignetteIntensity)
	}
	if cfg.StorageType != "http" {
		t.Errorf("Expected http storage by default, got %s", cfg.StorageType)
	}
	if cfg.SeparableBorder != "zero" {
		t.Errorf("Expected zero border by default, got %s", cfg.SeparableBorder)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", " 9090 ")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("VIGNETTE_INTENSITY", "0.8")
	t.Setenv("WORKERS", "2")
	t.Setenv("STORAGE_TYPE", "LOCAL")
	t.Setenv("LOCAL_STORAGE_DIR", "/tmp/frames")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.HasSuffix(cfg.ServerAddress(), ":9090") {
		t.Errorf("Expected port 9090, got %s", cfg.ServerAddress())
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("Expected 5s, got %s", cfg.RequestTimeout)
	}
	if cfg.VignetteIntensity != 0.8 || cfg.Workers != 2 {
		t.Errorf("Unexpected filter settings: %+v", cfg)
	}
	if cfg.StorageType != "local" {
		t.Errorf("Expected storage type to be lower-cased, got %s", cfg.StorageType)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		inErr string
	}{
		{"bad port", map[string]string{"PORT": "http"}, "PORT"},
		{"port out of range", map[string]string{"PORT": "70000"}, "PORT"},
		{"zero intensity", map[string]string{"VIGNETTE_INTENSITY": "0"}, "VIGNETTE_INTENSITY"},
		{"bad border", map[string]string{"SEPARABLE_BORDER": "reflect"}, "SEPARABLE_BORDER"},
		{"unknown storage", map[string]string{"STORAGE_TYPE": "s3"}, "STORAGE_TYPE"},
		{"azure without key", map[string]string{"STORAGE_TYPE": "azure", "AZURE_STORAGE_ACCOUNT": "acct", "AZURE_STORAGE_KEY": ""}, "AZURE_STORAGE_KEY"},
		{"negative workers", map[string]string{"WORKERS": "-1"}, "WORKERS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFromEnv()
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.inErr) {
				t.Errorf("Expected error mentioning %s, got %v", tt.inErr, err)
			}
		})
	}
}
