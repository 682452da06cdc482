package module

import (
	"strings"
	"testing"

	"github.com/kingrea/report-engine/internal/content"
	"github.com/kingrea/report-engine/internal/signals"
)

type stubModule struct {
	Base
}

func newStub(id string) *stubModule {
	return &stubModule{Base: NewBase(Info{ID: id, Name: id, Version: "1.0.0"})}
}

func (s *stubModule) Compute(signals.Canonical, content.Profile, Env) content.ComputeOutput {
	return content.ComputeOutput{}
}

func TestRegistryKeepsRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{"safety", "capacity", "energy"} {
		if err := reg.Register(newStub(id)); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	got := strings.Join(reg.IDs(), ",")
	if got != "safety,capacity,energy" {
		t.Fatalf("unexpected order %s", got)
	}
}

func TestRegistryRejectsDuplicatesAndInvalidInfo(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(newStub("safety"))
	if err := reg.Register(newStub("safety")); err == nil {
		t.Fatalf("expected duplicate error")
	}
	bad := &stubModule{Base: NewBase(Info{ID: "broken"})}
	if err := reg.Register(bad); err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Fatalf("expected info validation error, got %v", err)
	}
}

func TestEmitterScopesKeysAndRowKeys(t *testing.T) {
	e := NewEmitter("safety")
	e.Summary("rcd", "Install RCDs", content.PriorityUrgent)
	e.Capex("rcd-installation", "Install RCD protection", content.PriorityUrgent, 800, 1500, "AUD")
	e.Finding(content.Finding{ID: "SAFETY_RCD_ABSENT", Title: "No RCD"})
	out := e.Output()
	if out.ExecutiveSummary[0].Key != "safety:rcd" {
		t.Fatalf("unexpected summary key %s", out.ExecutiveSummary[0].Key)
	}
	if out.CapexRows[0].RowKey != "capex:safety:rcd-installation" {
		t.Fatalf("unexpected row key %s", out.CapexRows[0].RowKey)
	}
	if mod, slug, ok := ParseRowKey(out.CapexRows[0].RowKey); !ok || mod != "safety" || slug != "rcd-installation" {
		t.Fatalf("row key did not parse: %s %s %v", mod, slug, ok)
	}
	f := out.Findings[0]
	if f.Key != "safety:SAFETY_RCD_ABSENT" || f.ModuleID != "safety" {
		t.Fatalf("finding not stamped: %+v", f)
	}
	if f.EvidenceRefs == nil || f.Photos == nil {
		t.Fatalf("finding slices should be non-nil for stable JSON")
	}
}

func TestParseRowKeyRejectsMalformed(t *testing.T) {
	for _, key := range []string{"capex:safety", "capex::x", "row:safety:x", "capex:safety:Bad Slug"} {
		if _, _, ok := ParseRowKey(key); ok {
			t.Fatalf("expected %q to be rejected", key)
		}
	}
}

func TestEmitterSupportTagsEntries(t *testing.T) {
	out := NewEmitter("capacity")
	out.Narrative("before", "Untied paragraph.")
	out.Support("LOAD_MONITORING_JUSTIFICATION", func() {
		out.Narrative("monitoring", "Tied paragraph.")
		out.Capex("load-monitoring", "Monitoring", content.PriorityPlan, 300, 600, "AUD")
	})
	out.Summary("after", "Untied line.", content.PriorityPlan)

	res := out.Output()
	if res.WhatThisMeans[0].FindingID != "" || res.ExecutiveSummary[0].FindingID != "" {
		t.Fatalf("entries outside Support must stay untied: %+v", res)
	}
	if res.WhatThisMeans[1].FindingID != "LOAD_MONITORING_JUSTIFICATION" || res.CapexRows[0].FindingID != "LOAD_MONITORING_JUSTIFICATION" {
		t.Fatalf("entries inside Support must carry the finding id: %+v", res)
	}
}
