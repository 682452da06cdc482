// Package config loads the engine configuration file and the finding
// metadata file, and hands the rest of the engine immutable snapshots of
// both.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/inject"
	"github.com/kingrea/report-engine/internal/module"
)

const (
	// FileName is the default engine configuration file name.
	FileName = "report-engine.yaml"

	// DefaultHost is the loopback interface used when no host is configured.
	DefaultHost = "127.0.0.1"
	// DefaultPort is the default TCP port for the report server.
	DefaultPort = 8790

	envPrefix = "REPORT_ENGINE_"
)

// InjectionConfig toggles merged content per slot group.
type InjectionConfig struct {
	ExecutiveSummary bool `yaml:"executive_summary"`
	WhatThisMeans    bool `yaml:"what_this_means"`
	Capex            bool `yaml:"capex"`
	Findings         bool `yaml:"findings"`
}

// Flags converts the section into resolver flags.
func (ic InjectionConfig) Flags() inject.Flags {
	return inject.Flags{
		ExecutiveSummary: ic.ExecutiveSummary,
		WhatThisMeans:    ic.WhatThisMeans,
		Capex:            ic.Capex,
		Findings:         ic.Findings,
	}
}

// ServerConfig captures the HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// PhotoConfig holds the photo link signing settings.
type PhotoConfig struct {
	BaseURL string `yaml:"base_url"`
	Secret  string `yaml:"secret"`
}

// EstimationConfig overrides the built-in estimation factors. Zero values
// keep the defaults.
type EstimationConfig struct {
	NominalVoltage     float64 `yaml:"nominal_voltage"`
	DefaultTariffCents float64 `yaml:"default_tariff_cents"`
	Currency           string  `yaml:"currency"`
	UtilizationLow     float64 `yaml:"utilization_low"`
	UtilizationHigh    float64 `yaml:"utilization_high"`
	HoursPerMonth      float64 `yaml:"hours_per_month"`
}

// EngineConfig mirrors report-engine.yaml.
type EngineConfig struct {
	Version        int              `yaml:"version"`
	DefaultProfile string           `yaml:"default_profile"`
	Injection      InjectionConfig  `yaml:"injection"`
	Server         ServerConfig     `yaml:"server"`
	Photos         PhotoConfig      `yaml:"photos"`
	Estimation     EstimationConfig `yaml:"estimation"`
	MetadataPath   string           `yaml:"metadata_path"`
	TelemetryPath  string           `yaml:"telemetry_path"`
}

// Default returns the configuration used when no file exists.
func Default() EngineConfig {
	cfg := EngineConfig{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the engine configuration at path. A missing file yields the
// defaults; environment overrides apply in both cases. Relative paths inside
// the file resolve against the file's directory.
func Load(path string) (EngineConfig, error) {
	cfg, err := parseFile(path)
	if err != nil {
		return EngineConfig{}, err
	}
	cfg.applyEnvOverrides()
	cfg.normalize(filepath.Dir(path))
	if err := cfg.validate(); err != nil {
		return EngineConfig{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func parseFile(path string) (EngineConfig, error) {
	var cfg EngineConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (ec *EngineConfig) applyDefaults() {
	if ec.Version == 0 {
		ec.Version = 1
	}
	if strings.TrimSpace(ec.DefaultProfile) == "" {
		ec.DefaultProfile = string(content.ProfileOwner)
	}
	if ec.Server.Host == "" {
		ec.Server.Host = DefaultHost
	}
	if ec.Server.Port == 0 {
		ec.Server.Port = DefaultPort
	}
}

func (ec *EngineConfig) applyEnvOverrides() {
	boolEnv := func(name string, target *bool) {
		if value := strings.TrimSpace(os.Getenv(envPrefix + name)); value != "" {
			if parsed, err := strconv.ParseBool(value); err == nil {
				*target = parsed
			}
		}
	}
	boolEnv("INJECT_EXECUTIVE_SUMMARY", &ec.Injection.ExecutiveSummary)
	boolEnv("INJECT_WHAT_THIS_MEANS", &ec.Injection.WhatThisMeans)
	boolEnv("INJECT_CAPEX", &ec.Injection.Capex)
	boolEnv("INJECT_FINDINGS", &ec.Injection.Findings)

	if host := strings.TrimSpace(os.Getenv(envPrefix + "HOST")); host != "" {
		ec.Server.Host = host
	}
	if port := strings.TrimSpace(os.Getenv(envPrefix + "PORT")); port != "" {
		if parsed, err := strconv.Atoi(port); err == nil && isValidPort(parsed) {
			ec.Server.Port = parsed
		}
	}
	if secret := os.Getenv(envPrefix + "PHOTO_SECRET"); secret != "" {
		ec.Photos.Secret = secret
	}
}

func (ec *EngineConfig) normalize(base string) {
	ec.DefaultProfile = strings.ToLower(strings.TrimSpace(ec.DefaultProfile))
	ec.Server.Host = strings.TrimSpace(ec.Server.Host)
	if ec.Server.Host == "" {
		ec.Server.Host = DefaultHost
	}
	ec.Photos.BaseURL = strings.TrimSpace(ec.Photos.BaseURL)
	ec.Estimation.Currency = strings.TrimSpace(ec.Estimation.Currency)
	ec.MetadataPath = resolvePath(base, ec.MetadataPath)
	ec.TelemetryPath = resolvePath(base, ec.TelemetryPath)
}

func (ec *EngineConfig) validate() error {
	if ec.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if _, err := content.ParseProfile(ec.DefaultProfile); err != nil {
		return fmt.Errorf("default_profile: %w", err)
	}
	if !isValidPort(ec.Server.Port) {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	est := ec.Estimation
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"nominal_voltage", est.NominalVoltage},
		{"default_tariff_cents", est.DefaultTariffCents},
		{"utilization_low", est.UtilizationLow},
		{"utilization_high", est.UtilizationHigh},
		{"hours_per_month", est.HoursPerMonth},
	} {
		if field.value < 0 {
			return fmt.Errorf("estimation.%s must not be negative", field.name)
		}
	}
	if est.UtilizationLow > 0 && est.UtilizationHigh > 0 && est.UtilizationLow > est.UtilizationHigh {
		return fmt.Errorf("estimation.utilization_low must not exceed utilization_high")
	}
	return nil
}

// ModuleEnv layers the estimation overrides over the built-in factors.
func (ec EngineConfig) ModuleEnv() module.Env {
	env := module.DefaultEnv()
	est := ec.Estimation
	if est.NominalVoltage > 0 {
		env.NominalVoltage = est.NominalVoltage
	}
	if est.DefaultTariffCents > 0 {
		env.DefaultTariffCents = est.DefaultTariffCents
	}
	if est.Currency != "" {
		env.Currency = est.Currency
	}
	if est.UtilizationLow > 0 {
		env.UtilizationLow = est.UtilizationLow
	}
	if est.UtilizationHigh > 0 {
		env.UtilizationHigh = est.UtilizationHigh
	}
	if est.HoursPerMonth > 0 {
		env.HoursPerMonth = est.HoursPerMonth
	}
	return env
}

// Address returns the server bind address in host:port form.
func (sc ServerConfig) Address() string {
	return net.JoinHostPort(sc.Host, strconv.Itoa(sc.Port))
}

func isValidPort(port int) bool {
	return port > 0 && port <= 65535
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}
