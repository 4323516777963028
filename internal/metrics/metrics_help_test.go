package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// Every exported metric must carry a usable help description; dashboards
// rely on it.
func TestMetricHelpDescriptions(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, nil)

	// Touch the labelled vectors so they show up in the gather output.
	m.HTTPRequestsTotal.WithLabelValues("GET", "/board", "200").Inc()
	m.HTTPRequestDuration.WithLabelValues("GET", "/board").Observe(0.01)
	m.DBQueryDuration.WithLabelValues("select", "cards").Observe(0.001)
	m.DBQueryErrors.WithLabelValues("select", "cards").Inc()
	m.ExternalAPIRequestDuration.WithLabelValues("/presign", "200").Observe(0.05)
	m.ExternalAPIRequestsTotal.WithLabelValues("/presign", "PUT", "200").Inc()
	m.ExternalAPIErrors.WithLabelValues("/presign", "timeout").Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	if len(metricFamilies) == 0 {
		t.Fatal("Expected registered metric families")
	}

	for _, mf := range metricFamilies {
		name := mf.GetName()
		help := mf.GetHelp()

		if help == "" {
			t.Errorf("Metric '%s' has an empty help description", name)
		}
		if len(strings.TrimSpace(help)) == 0 {
			t.Errorf("Metric '%s' has a help description with only whitespace", name)
		}
	}
}
