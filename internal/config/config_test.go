package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "atlas.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Render.HighBelow != 0.6 || cfg.Render.LowAt != 1.4 {
		t.Fatalf("render defaults = %+v", cfg.Render)
	}
	if cfg.Ingest.Window.Std() != time.Second || !*cfg.Ingest.RemovalWins {
		t.Fatalf("ingest defaults = %+v", cfg.Ingest)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	dir := writeConfig(t, `
render:
  lowAt: 2.0
ingest:
  window: 250ms
  removalWins: false
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Render.LowAt != 2.0 {
		t.Fatalf("lowAt = %v", cfg.Render.LowAt)
	}
	if cfg.Render.HighBelow != 0.6 {
		t.Fatalf("highBelow default lost: %v", cfg.Render.HighBelow)
	}
	if cfg.Ingest.Window.Std() != 250*time.Millisecond {
		t.Fatalf("window = %v", cfg.Ingest.Window)
	}
	if *cfg.Ingest.RemovalWins {
		t.Fatal("explicit removalWins: false was overridden by the default")
	}
	if cfg.Analytics.Metric != "betweenness" {
		t.Fatalf("analytics defaults lost: %+v", cfg.Analytics)
	}
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
	dir := writeConfig(t, `
render:
  highBelow: 2.0
  lowAt: 1.0
`)
	if _, err := Load(dir); err == nil {
		t.Fatal("inverted thresholds accepted")
	}
}

func TestLoadRejectsUnknownMetric(t *testing.T) {
	dir := writeConfig(t, `
analytics:
  metric: pagerank
`)
	if _, err := Load(dir); err == nil {
		t.Fatal("unknown metric accepted")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Feed.Listen = "0.0.0.0:9999"
	if err := Save(cfg, dir); err != nil {
		t.Fatal(err)
	}
	got, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got.Feed.Listen != "0.0.0.0:9999" {
		t.Fatalf("listen = %q", got.Feed.Listen)
	}
}
