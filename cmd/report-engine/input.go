package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/report-engine/internal/config"
	"github.com/kingrea/report-engine/internal/engine"
	"github.com/kingrea/report-engine/internal/telemetry"
)

// loadSnapshot reads the engine config named by --config. A missing file
// yields the defaults.
func loadSnapshot() (*config.Snapshot, error) {
	provider, err := config.NewFileProvider(configPath, config.WithProviderLogger(logger))
	if err != nil {
		return nil, err
	}
	return provider.Snapshot()
}

// newEngine wires an engine over snap with the telemetry sink resolved from
// --telemetry or the config file.
func newEngine(snap *config.Snapshot, opts ...engine.Option) (*engine.Engine, error) {
	emitterOpts := []telemetry.EmitterOption{telemetry.WithLogger(logger)}
	path := telemetryPath
	if path == "" {
		path = snap.Engine.TelemetryPath
	}
	if path != "" {
		sink, err := telemetry.NewSink(path)
		if err != nil {
			return nil, err
		}
		emitterOpts = append(emitterOpts, telemetry.WithSink(sink))
	}
	base := []engine.Option{
		engine.WithLogger(logger),
		engine.WithEmitter(telemetry.NewEmitter(emitterOpts...)),
	}
	return engine.New(snap, append(base, opts...)...), nil
}

// readRequest decodes a request file. YAML is a superset of JSON, so both
// formats are accepted. Profile and module flags override the file.
func readRequest(path string) (engine.Request, error) {
	var req engine.Request
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read request %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("parse request %s: %w", path, err)
	}
	if profileFlag != "" {
		req.Plan.Profile = profileFlag
	}
	if len(moduleFlags) > 0 {
		req.Plan.Modules = append([]string(nil), moduleFlags...)
	}
	return req, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
