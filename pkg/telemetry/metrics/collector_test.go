package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewCollectorAppliesDefaults(t *testing.T) {
	c := NewCollector(CollectorOptions{Enabled: true}, nil)
	if c.opts.Namespace != "iolimiter" {
		t.Errorf("Namespace = %q, want %q", c.opts.Namespace, "iolimiter")
	}
	if c.opts.Subsystem != "ratelimit" {
		t.Errorf("Subsystem = %q, want %q", c.opts.Subsystem, "ratelimit")
	}
}

func TestCollectorDisabledIsNoOp(t *testing.T) {
	c := NewCollector(CollectorOptions{Enabled: false}, nil)

	// None of these should panic or touch the registry.
	c.RecordDrain("ingest")
	c.RecordBytesGranted("ingest", "user", 1024)
	c.RecordRequest("ingest", "user", "write")
	c.RecordClientCall("ingest", 0)
	c.UpdateClientAvailable("ingest", 0, 4096)

	metrics, err := c.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range metrics {
		for _, m := range mf.Metric {
			if m.Counter != nil && m.Counter.GetValue() != 0 {
				t.Errorf("metric %s recorded despite collector being disabled", mf.GetName())
			}
		}
	}
}

func TestCollectorRecordsWhenEnabled(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(CollectorOptions{Enabled: true}, registry)

	c.RecordRequest("ingest", "user", "write")
	c.RecordBytesGranted("ingest", "user", 2048)
	c.RecordClientCall("ingest", 1)
	c.UpdateClientAvailable("ingest", 1, 8192)
	c.RecordDrain("ingest")

	mfs, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	found := map[string]bool{}
	for _, mf := range mfs {
		found[mf.GetName()] = true
	}

	for _, want := range []string{
		"iolimiter_ratelimit_requests_total",
		"iolimiter_ratelimit_bytes_granted_total",
		"iolimiter_ratelimit_client_calls_total",
		"iolimiter_ratelimit_client_available_bytes",
		"iolimiter_ratelimit_drains_total",
	} {
		if !found[want] {
			t.Errorf("expected metric family %q to be registered", want)
		}
	}
}

func TestCardinalityLimiterCapsUniqueLabelSets(t *testing.T) {
	cl := NewCardinalityLimiter(2)

	if !cl.Allow("a") || !cl.Allow("b") {
		t.Fatal("expected the first two distinct label sets to be allowed")
	}
	if cl.Allow("c") {
		t.Error("expected a third distinct label set to be rejected at cap 2")
	}
	if !cl.Allow("a") {
		t.Error("expected a previously-allowed label set to remain allowed")
	}
	if cl.Count() != 2 {
		t.Errorf("Count() = %d, want 2", cl.Count())
	}
}
