package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kingrea/report-engine/internal/content"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.TrimSpace(body)+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Version != 1 {
		t.Fatalf("expected default version 1, got %d", cfg.Version)
	}
	if cfg.DefaultProfile != "owner" {
		t.Fatalf("expected default profile owner, got %q", cfg.DefaultProfile)
	}
	if cfg.Injection.Flags().Mode() != "off" {
		t.Fatalf("expected injection off by default, got %s", cfg.Injection.Flags().Mode())
	}
	if cfg.Server.Address() != "127.0.0.1:8790" {
		t.Fatalf("unexpected address %s", cfg.Server.Address())
	}
}

func TestLoadParsesYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `
version: 1
default_profile: Investor
injection:
  executive_summary: true
  capex: true
server:
  host: 0.0.0.0
  port: 9001
photos:
  base_url: https://photos.example.com
estimation:
  default_tariff_cents: 42
  currency: AUD
metadata_path: meta/findings.yaml
telemetry_path: telemetry.log
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DefaultProfile != "investor" {
		t.Fatalf("expected normalized profile, got %q", cfg.DefaultProfile)
	}
	if cfg.Injection.Flags().Mode() != "partial" {
		t.Fatalf("expected partial injection, got %s", cfg.Injection.Flags().Mode())
	}
	if cfg.Server.Port != 9001 || cfg.Server.Host != "0.0.0.0" {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if want := filepath.Join(dir, "meta", "findings.yaml"); cfg.MetadataPath != want {
		t.Fatalf("expected metadata path %s, got %s", want, cfg.MetadataPath)
	}
	env := cfg.ModuleEnv()
	if env.DefaultTariffCents != 42 || env.Currency != "AUD" {
		t.Fatalf("estimation overrides not applied: %+v", env)
	}
	if env.NominalVoltage != 230 {
		t.Fatalf("expected default voltage to survive, got %v", env.NominalVoltage)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"profile":     "default_profile: landlord",
		"port":        "server:\n  port: 70000",
		"negative":    "estimation:\n  hours_per_month: -1",
		"utilization": "estimation:\n  utilization_low: 0.5\n  utilization_high: 0.2",
		"yaml":        "injection: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, body)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REPORT_ENGINE_INJECT_FINDINGS", "true")
	t.Setenv("REPORT_ENGINE_INJECT_CAPEX", "not-a-bool")
	t.Setenv("REPORT_ENGINE_HOST", "10.0.0.5")
	t.Setenv("REPORT_ENGINE_PORT", "9100")
	t.Setenv("REPORT_ENGINE_PHOTO_SECRET", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.Injection.Findings {
		t.Fatalf("expected findings flag from env")
	}
	if cfg.Injection.Capex {
		t.Fatalf("unparseable bool must leave flag unchanged")
	}
	if cfg.Server.Address() != "10.0.0.5:9100" {
		t.Fatalf("unexpected address %s", cfg.Server.Address())
	}
	if cfg.Photos.Secret != "s3cret" {
		t.Fatalf("expected secret from env")
	}
}

func TestLoadMetadataLayersOverBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "findings.yaml")
	writeFile(t, path, `
findings:
  - id: SAFETY_RCD_ABSENT
    title: No RCD fitted
    legacy_priority: high
  - id: CUSTOM_FINDING
    why_it_matters: Custom copy.
`)
	meta, err := LoadMetadata(path)
	if err != nil {
		t.Fatalf("LoadMetadata returned error: %v", err)
	}
	rcd := meta["SAFETY_RCD_ABSENT"]
	if rcd.Title != "No RCD fitted" {
		t.Fatalf("expected title override, got %q", rcd.Title)
	}
	if rcd.WhyItMatters == "" {
		t.Fatalf("expected built-in why_it_matters to survive")
	}
	if rcd.LegacyPriority != content.PriorityUrgent {
		t.Fatalf("expected legacy priority urgent, got %q", rcd.LegacyPriority)
	}
	if meta["CUSTOM_FINDING"].ID != "CUSTOM_FINDING" {
		t.Fatalf("expected custom entry to carry its id")
	}
	if len(meta) != len(builtinMeta)+1 {
		t.Fatalf("expected %d entries, got %d", len(builtinMeta)+1, len(meta))
	}
}

func TestLoadMetadataCollectsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "findings.yaml")
	writeFile(t, path, `
findings:
  - title: missing id
  - id: A
  - id: A
    legacy_priority: someday
`)
	_, err := LoadMetadata(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"id is required", "duplicate id A", "unknown legacy_priority"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestSnapshotPhotos(t *testing.T) {
	cfg := Default()
	if DefaultSnapshot().Photos().Signer != nil {
		t.Fatalf("signer must be nil without configuration")
	}
	cfg.Photos = PhotoConfig{BaseURL: "https://photos.example.com", Secret: "k"}
	snap := NewSnapshot(cfg, nil)
	if snap.Photos().Signer == nil {
		t.Fatalf("expected signer once base URL and secret are set")
	}
	if _, ok := snap.FindingMeta("LOAD_STRESS_TEST_RESULT"); !ok {
		t.Fatalf("expected built-in metadata")
	}
	ids := snap.FindingIDs()
	if len(ids) != len(builtinMeta) || ids[0] != "CIRCUIT_CONTRIBUTION_BREAKDOWN" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestFileProviderReusesMetadataUntilChanged(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, FileName)
	metaPath := filepath.Join(dir, "findings.yaml")
	writeFile(t, cfgPath, "metadata_path: findings.yaml")
	writeFile(t, metaPath, "findings:\n  - id: SAFETY_RCD_ABSENT\n    title: First")

	p, err := NewFileProvider(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := p.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if meta, _ := snap.FindingMeta("SAFETY_RCD_ABSENT"); meta.Title != "First" {
		t.Fatalf("unexpected title %q", meta.Title)
	}
	if p.cache.Len() != 1 {
		t.Fatalf("expected metadata to be cached")
	}

	writeFile(t, metaPath, "findings:\n  - id: SAFETY_RCD_ABSENT\n    title: Second title")
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(metaPath, future, future); err != nil {
		t.Fatal(err)
	}
	snap, err = p.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if meta, _ := snap.FindingMeta("SAFETY_RCD_ABSENT"); meta.Title != "Second title" {
		t.Fatalf("expected reload after change, got %q", meta.Title)
	}
	if p.Last() != snap {
		t.Fatalf("expected Last to return the latest snapshot")
	}
}

func TestStaticProvider(t *testing.T) {
	snap, err := NewStaticProvider(nil).Snapshot()
	if err != nil || snap == nil {
		t.Fatalf("expected default snapshot, got %v %v", snap, err)
	}
}
