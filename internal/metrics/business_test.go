package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestIncrementCardCreated(t *testing.T) {
	m := getTestMetrics()

	initialValue := getCounterValue(t, m.CardCreatedTotal)
	m.IncrementCardCreated()

	newValue := getCounterValue(t, m.CardCreatedTotal)
	if newValue <= initialValue {
		t.Errorf("Expected counter to increment, got %f -> %f", initialValue, newValue)
	}
}

func TestIncrementCommentCreated(t *testing.T) {
	m := getTestMetrics()

	initialValue := getCounterValue(t, m.CommentCreatedTotal)
	m.IncrementCommentCreated()

	newValue := getCounterValue(t, m.CommentCreatedTotal)
	if newValue <= initialValue {
		t.Errorf("Expected counter to increment, got %f -> %f", initialValue, newValue)
	}
}

func TestIncrementSubTaskToggled(t *testing.T) {
	m := getTestMetrics()

	initialValue := getCounterValue(t, m.SubTaskToggledTotal)
	m.IncrementSubTaskToggled()
	m.IncrementSubTaskToggled()

	newValue := getCounterValue(t, m.SubTaskToggledTotal)
	if newValue != initialValue+2 {
		t.Errorf("Expected counter to increment twice, got %f -> %f", initialValue, newValue)
	}
}

func TestAddNotificationsSent(t *testing.T) {
	m := getTestMetrics()

	initialValue := getCounterValue(t, m.NotificationsSentTotal)
	m.AddNotificationsSent(3)

	newValue := getCounterValue(t, m.NotificationsSentTotal)
	if newValue != initialValue+3 {
		t.Errorf("Expected counter to grow by 3, got %f -> %f", initialValue, newValue)
	}
}

func TestSetCardsTotal(t *testing.T) {
	m := getTestMetrics()

	tests := []struct {
		name  string
		count int64
	}{
		{"zero cards", 0},
		{"one card", 1},
		{"multiple cards", 42},
		{"large number", 1000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.SetCardsTotal(tt.count)
			value := getGaugeValue(t, m.CardsTotal)
			if value != float64(tt.count) {
				t.Errorf("Expected gauge value %d, got %f", tt.count, value)
			}
		})
	}
}

func TestSetSubTasksTotal(t *testing.T) {
	m := getTestMetrics()

	tests := []struct {
		name  string
		count int64
	}{
		{"zero sub-tasks", 0},
		{"one sub-task", 1},
		{"multiple sub-tasks", 100},
		{"large number", 5000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.SetSubTasksTotal(tt.count)
			value := getGaugeValue(t, m.SubTasksTotal)
			if value != float64(tt.count) {
				t.Errorf("Expected gauge value %d, got %f", tt.count, value)
			}
		})
	}
}

func TestBusinessMetricsIntegration(t *testing.T) {
	m := getTestMetrics()

	m.SetCardsTotal(10)
	m.SetSubTasksTotal(50)

	if getGaugeValue(t, m.CardsTotal) != 10 {
		t.Error("Expected CardsTotal to be 10")
	}
	if getGaugeValue(t, m.SubTasksTotal) != 50 {
		t.Error("Expected SubTasksTotal to be 50")
	}

	initialCardCreated := getCounterValue(t, m.CardCreatedTotal)
	initialCommentCreated := getCounterValue(t, m.CommentCreatedTotal)

	m.IncrementCardCreated()
	m.IncrementCommentCreated()
	m.IncrementCommentCreated()

	if getCounterValue(t, m.CardCreatedTotal) <= initialCardCreated {
		t.Error("Expected CardCreatedTotal to increment")
	}
	if getCounterValue(t, m.CommentCreatedTotal) <= initialCommentCreated {
		t.Error("Expected CommentCreatedTotal to increment")
	}

	m.SetCardsTotal(11)
	m.SetSubTasksTotal(52)

	if getGaugeValue(t, m.CardsTotal) != 11 {
		t.Error("Expected CardsTotal to be 11")
	}
	if getGaugeValue(t, m.SubTasksTotal) != 52 {
		t.Error("Expected SubTasksTotal to be 52")
	}
}

// Helper function to get counter value
func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("Failed to write counter metric: %v", err)
	}
	return metric.Counter.GetValue()
}

// Helper function to get gauge value
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := gauge.Write(metric); err != nil {
		t.Fatalf("Failed to write gauge metric: %v", err)
	}
	return metric.Gauge.GetValue()
}
