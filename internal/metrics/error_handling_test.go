package metrics

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// Recording a metric must never take the request down with it: errors are
// logged and the operation continues.
func TestMetricCollectionErrorHandling(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	tests := []struct {
		name      string
		operation func(*Metrics)
	}{
		{
			name: "RecordHTTPRequest should not panic",
			operation: func(m *Metrics) {
				m.RecordHTTPRequest("GET", "/test", 200, time.Second)
			},
		},
		{
			name: "RecordDBQuery should not panic",
			operation: func(m *Metrics) {
				m.RecordDBQuery("select", "test_table", time.Millisecond, nil)
			},
		},
		{
			name: "RecordExternalAPICall should not panic",
			operation: func(m *Metrics) {
				m.RecordExternalAPICall("/api/test", "GET", 200, time.Second, nil)
			},
		},
		{
			name: "IncrementCardCreated should not panic",
			operation: func(m *Metrics) {
				m.IncrementCardCreated()
			},
		},
		{
			name: "IncrementCommentCreated should not panic",
			operation: func(m *Metrics) {
				m.IncrementCommentCreated()
			},
		},
		{
			name: "IncrementSubTaskToggled should not panic",
			operation: func(m *Metrics) {
				m.IncrementSubTaskToggled()
			},
		},
		{
			name: "AddNotificationsSent should not panic",
			operation: func(m *Metrics) {
				m.AddNotificationsSent(3)
			},
		},
		{
			name: "SetCardsTotal should not panic",
			operation: func(m *Metrics) {
				m.SetCardsTotal(100)
			},
		},
		{
			name: "SetSubTasksTotal should not panic",
			operation: func(m *Metrics) {
				m.SetSubTasksTotal(50)
			},
		},
		{
			name: "UpdateDBStats should not panic",
			operation: func(m *Metrics) {
				stats := sql.DBStats{
					OpenConnections: 10,
					InUse:           5,
					Idle:            5,
				}
				m.UpdateDBStats(stats)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := prometheus.NewRegistry()
			m := NewWithRegistry(registry, logger)

			assert.NotPanics(t, func() {
				tt.operation(m)
			}, "Metric operation should not panic")
		})
	}
}

// TestMetricCollectionContinuesAfterError tests that request processing continues after metric errors
func TestMetricCollectionContinuesAfterError(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, logger)

	// Simulate multiple operations - all should succeed without panic
	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/api/board", 200, time.Millisecond*100)
		m.RecordHTTPRequest("POST", "/api/board", 201, time.Millisecond*150)
		m.RecordDBQuery("select", "cards", time.Millisecond*10, nil)
		m.RecordDBQuery("insert", "comments", time.Millisecond*20, errors.New("test error"))
		m.RecordExternalAPICall("/presign", "PUT", 200, time.Millisecond*50, nil)
		m.IncrementCardCreated()
		m.IncrementCommentCreated()
		m.SetCardsTotal(100)
		m.SetSubTasksTotal(50)
	}, "Multiple metric operations should not panic")
}

// TestSafeExecuteWithPanic tests that safeExecute properly handles panics
func TestSafeExecuteWithPanic(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, logger)

	assert.NotPanics(t, func() {
		m.safeExecute("test_panic", func() {
			panic("intentional panic for testing")
		})
	}, "safeExecute should catch panics")
}

// TestMetricsWithNilLogger tests that metrics work even without a logger
func TestMetricsWithNilLogger(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, nil)

	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/test", 200, time.Second)
		m.RecordDBQuery("select", "test", time.Millisecond, nil)
		m.IncrementCardCreated()
	}, "Metrics should work without a logger")
}

// TestCollectorPanicRecovery tests that the collector recovers from panics
func TestCollectorPanicRecovery(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, logger)

	collector := &BusinessMetricsCollector{
		db:      nil,
		metrics: m,
		logger:  logger,
	}

	assert.NotPanics(t, func() {
		collector.collect()
	}, "Collector should handle errors gracefully")
}
