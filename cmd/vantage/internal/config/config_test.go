package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadAbsentFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if *cfg != *want {
		t.Errorf("Load on empty dir = %+v, want defaults %+v", cfg, want)
	}
	if cfg.Addr() != "localhost:8090" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}

func TestLoadFullFile(t *testing.T) {
	dir := writeConfig(t, `
server:
  host: 0.0.0.0
  port: 9000
viewport:
  minZoom: 0.5
  maxZoom: 4
  zoomStep: 0.25
  panEnabled: false
  animationMs: 150
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:9000" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
	if cfg.Viewport.MinZoom != 0.5 || cfg.Viewport.MaxZoom != 4 || cfg.Viewport.ZoomStep != 0.25 {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
	if cfg.Viewport.PanEnabled == nil || *cfg.Viewport.PanEnabled {
		t.Error("panEnabled: false not preserved")
	}
	if cfg.Viewport.ZoomEnabled != nil {
		t.Error("unset zoomEnabled should stay nil")
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	dir := writeConfig(t, "server:\n  port: 9000\n")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("host = %q, want default localhost", cfg.Server.Host)
	}
	if cfg.Viewport.MaxZoom != Default().Viewport.MaxZoom {
		t.Errorf("maxZoom = %g, want default", cfg.Viewport.MaxZoom)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := writeConfig(t, "server: [not a map\n")
	if _, err := Load(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadRejectsInvertedZoomRange(t *testing.T) {
	dir := writeConfig(t, "viewport:\n  minZoom: 4\n  maxZoom: 2\n")
	if _, err := Load(dir); err == nil {
		t.Fatal("expected maxZoom < minZoom error")
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	dir := writeConfig(t, "server:\n  port: 70000\n")
	if _, err := Load(dir); err == nil {
		t.Fatal("expected port validation error")
	}
}

func TestControllerMapping(t *testing.T) {
	enabled := false
	v := ViewportConfig{
		MinZoom:     0.5,
		MaxZoom:     4,
		ZoomStep:    0.25,
		ZoomEnabled: &enabled,
		AnimationMs: 150,
	}
	cfg := v.Controller()
	if cfg.MinZoom != 0.5 || cfg.MaxZoom != 4 || cfg.ZoomStep != 0.25 {
		t.Errorf("controller config = %+v", cfg)
	}
	if cfg.ZoomEnabled == nil || *cfg.ZoomEnabled {
		t.Error("zoomEnabled not carried over")
	}
	if cfg.PanEnabled != nil {
		t.Error("unset panEnabled should stay nil")
	}
	if cfg.AnimationDuration != 150*time.Millisecond {
		t.Errorf("AnimationDuration = %v", cfg.AnimationDuration)
	}
}
