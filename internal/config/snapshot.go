package config

import (
	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/inject"
	"github.com/kingrea/report-engine/internal/module"
	"github.com/kingrea/report-engine/internal/render"
)

// Snapshot is one immutable view of the engine configuration and the finding
// metadata. It is safe for concurrent use.
type Snapshot struct {
	Engine EngineConfig
	meta   map[string]content.FindingMeta
}

// NewSnapshot pairs an engine config with resolved metadata. A nil map uses
// the built-in copy.
func NewSnapshot(cfg EngineConfig, meta map[string]content.FindingMeta) *Snapshot {
	if meta == nil {
		meta = BuiltinMeta()
	}
	return &Snapshot{Engine: cfg, meta: meta}
}

// DefaultSnapshot is the configuration used when nothing is on disk.
func DefaultSnapshot() *Snapshot {
	return NewSnapshot(Default(), nil)
}

// FindingMeta implements content.MetadataSource.
func (s *Snapshot) FindingMeta(id string) (content.FindingMeta, bool) {
	if s == nil {
		return content.FindingMeta{}, false
	}
	meta, ok := s.meta[id]
	return meta, ok
}

// FindingIDs lists every finding id with metadata, sorted.
func (s *Snapshot) FindingIDs() []string {
	if s == nil {
		return nil
	}
	return sortedIDs(s.meta)
}

// ModuleEnv is the compute environment for this snapshot.
func (s *Snapshot) ModuleEnv() module.Env {
	if s == nil {
		return module.DefaultEnv()
	}
	return s.Engine.ModuleEnv()
}

// Flags returns the configured injection flags.
func (s *Snapshot) Flags() inject.Flags {
	if s == nil {
		return inject.Flags{}
	}
	return s.Engine.Injection.Flags()
}

// Photos returns the signing configuration for finding photo links. The
// signer is only set when both a base URL and a secret are configured.
func (s *Snapshot) Photos() inject.PhotoConfig {
	if s == nil {
		return inject.PhotoConfig{}
	}
	cfg := inject.PhotoConfig{BaseURL: s.Engine.Photos.BaseURL, Secret: s.Engine.Photos.Secret}
	if cfg.BaseURL != "" && cfg.Secret != "" {
		cfg.Signer = render.HMACSigner{}
	}
	return cfg
}
