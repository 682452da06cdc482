package server

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/kingrea/report-engine/internal/config"
)

const (
	// DefaultMaxBodyBytes limits request payloads to 4 MB; inspection
	// records with embedded photo lists get large.
	DefaultMaxBodyBytes int64 = 4 << 20
	// DefaultReadTimeout guards hung clients.
	DefaultReadTimeout = 15 * time.Second
	// DefaultWriteTimeout bounds handler writes.
	DefaultWriteTimeout = 30 * time.Second
	// DefaultIdleTimeout bounds keep-alive connections.
	DefaultIdleTimeout = 60 * time.Second
)

// Settings captures runtime configuration for the report server.
type Settings struct {
	Host         string
	Port         int
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SettingsFromConfig builds Settings from the engine config. Environment
// overrides were already applied when the config was loaded.
func SettingsFromConfig(cfg config.ServerConfig) Settings {
	settings := Settings{
		Host: cfg.Host,
		Port: cfg.Port,
	}
	settings.normalize()
	return settings
}

func (s *Settings) normalize() {
	if s == nil {
		return
	}
	s.Host = strings.TrimSpace(s.Host)
	if s.Host == "" {
		s.Host = config.DefaultHost
	}
	if s.Port < 0 || s.Port > 65535 {
		s.Port = config.DefaultPort
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
}

// Address returns the TCP bind address in host:port form. Port 0 asks the
// kernel for a free port.
func (s Settings) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// URL returns the HTTP base URL for the server.
func (s Settings) URL() string {
	return "http://" + s.Address()
}
