package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Sink appends tagged telemetry lines to a file.
type Sink struct {
	path string
	mu   sync.Mutex
}

// NewSink creates a sink writing to path, creating parent directories.
func NewSink(path string) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	return &Sink{path: path}, nil
}

// Path returns the file backing this sink.
func (s *Sink) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Append writes one line.
func (s *Sink) Append(line string) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("telemetry: open %s: %w", s.path, err)
	}
	defer file.Close()
	if _, err := file.WriteString(strings.TrimRight(line, "\n") + "\n"); err != nil {
		return fmt.Errorf("telemetry: write %s: %w", s.path, err)
	}
	return nil
}

// Records reads every record written to the sink so far.
func (s *Sink) Records() ([]Record, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return ReadFile(s.path)
}

// FormatLine renders rec as a tagged JSON line.
func FormatLine(rec Record) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("telemetry: encode: %w", err)
	}
	return Tag + " " + string(data), nil
}

// ParseLines reads records from r. Lines without the tag are ignored so a
// sink can be shared with other log output.
func ParseLines(r io.Reader) ([]Record, error) {
	var out []Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		idx := strings.Index(text, Tag)
		if idx < 0 {
			continue
		}
		payload := strings.TrimSpace(text[idx+len(Tag):])
		var rec Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return out, fmt.Errorf("telemetry: line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return out, fmt.Errorf("telemetry: scan: %w", err)
	}
	return out, nil
}

// ReadFile parses every record in the file at path.
func ReadFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	defer file.Close()
	return ParseLines(file)
}

// Emitter writes records to a sink and the structured log.
type Emitter struct {
	sink   *Sink
	logger *zap.Logger
}

// EmitterOption customizes an Emitter.
type EmitterOption func(*Emitter)

// WithSink sets the file sink. Without one, records only reach the log.
func WithSink(s *Sink) EmitterOption {
	return func(e *Emitter) {
		e.sink = s
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) EmitterOption {
	return func(e *Emitter) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEmitter prepares an emitter.
func NewEmitter(opts ...EmitterOption) *Emitter {
	e := &Emitter{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit records rec. A nil emitter discards it.
func (e *Emitter) Emit(rec Record) error {
	if e == nil {
		return nil
	}
	line, err := FormatLine(rec)
	if err != nil {
		return err
	}
	e.logger.Debug("report telemetry",
		zap.String("report_id", rec.ReportID),
		zap.String("profile", rec.Profile),
		zap.String("injection_mode", rec.InjectionMode),
		zap.Strings("fallback_reasons", rec.FallbackReasons),
	)
	return e.sink.Append(line)
}
