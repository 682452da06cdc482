package contracts

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Report captures validation results for one assembled report.
type Report struct {
	Path     string
	ReportID string
	Errors   []error
}

// IsValid reports whether the validation passed.
func (r *Report) IsValid() bool {
	return r != nil && len(r.Errors) == 0
}

// ViolationError is the fatal contract failure. It lists every rule the
// report broke.
type ViolationError struct {
	ReportID string
	Errors   []error
}

func (e *ViolationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		parts = append(parts, err.Error())
	}
	return fmt.Sprintf("contracts: report %s violates %d rule(s): %s", e.ReportID, len(e.Errors), strings.Join(parts, "; "))
}

// Unwrap exposes the individual violations to errors.Is and errors.As.
func (e *ViolationError) Unwrap() []error {
	return e.Errors
}

// Enforce returns a *ViolationError when slots break the contract.
func Enforce(slots map[string]string) error {
	errs := ValidateReport(slots)
	if len(errs) == 0 {
		return nil
	}
	return &ViolationError{ReportID: slots[SlotReportID], Errors: errs}
}

// ValidateReportFile reads a slot record (YAML or JSON) and validates it.
func ValidateReportFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report file: %w", err)
	}
	var slots map[string]string
	if err := yaml.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("parse report file: %w", err)
	}
	return &Report{
		Path:     path,
		ReportID: slots[SlotReportID],
		Errors:   ValidateReport(slots),
	}, nil
}
