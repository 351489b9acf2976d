package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewCartMetrics(t *testing.T) {
	metrics := NewCartMetrics()

	if metrics == nil {
		t.Fatal("NewCartMetrics should not return nil")
	}

	if metrics.cartOperations == nil {
		t.Error("cartOperations counter vec should not be nil")
	}

	if metrics.ordersCreated == nil {
		t.Error("ordersCreated counter should not be nil")
	}

	if metrics.checkoutsFailed == nil {
		t.Error("checkoutsFailed counter should not be nil")
	}

	if metrics.checkoutDuration == nil {
		t.Error("checkoutDuration histogram should not be nil")
	}

	if metrics.timelineEvents == nil {
		t.Error("timelineEvents counter should not be nil")
	}

	if metrics.activeCarts == nil {
		t.Error("activeCarts gauge should not be nil")
	}

	// Повторное создание переиспользует уже зарегистрированные коллекторы
	// вместо паники на default registry.
	again := NewCartMetrics()
	if again == nil {
		t.Fatal("repeated NewCartMetrics should not return nil")
	}
}

func TestRecordCartOperation(t *testing.T) {
	metrics := newCartMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordCartOperation("add")
	metrics.RecordCartOperation("add")
	metrics.RecordCartOperation("remove")

	metric := &dto.Metric{}
	if err := metrics.cartOperations.WithLabelValues("add").Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected add counter 2.0, got %f", metric.Counter.GetValue())
	}

	metric = &dto.Metric{}
	if err := metrics.cartOperations.WithLabelValues("remove").Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1.0 {
		t.Errorf("expected remove counter 1.0, got %f", metric.Counter.GetValue())
	}
}

func TestRecordCheckoutCounters(t *testing.T) {
	metrics := newCartMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordOrderCreated()
	metrics.RecordOrderCreated()
	metrics.RecordCheckoutFailed()

	metric := &dto.Metric{}
	if err := metrics.ordersCreated.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected orders created 2.0, got %f", metric.Counter.GetValue())
	}

	metric = &dto.Metric{}
	if err := metrics.checkoutsFailed.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1.0 {
		t.Errorf("expected failed checkouts 1.0, got %f", metric.Counter.GetValue())
	}
}

func TestRecordCheckoutDuration(t *testing.T) {
	metrics := newCartMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordCheckoutDuration(15 * time.Millisecond)
	metrics.RecordCheckoutDuration(30 * time.Millisecond)

	metric := &dto.Metric{}
	if err := metrics.checkoutDuration.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("expected 2 samples, got %d", metric.Histogram.GetSampleCount())
	}
}

func TestRecordTimelineEvent(t *testing.T) {
	metrics := newCartMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.RecordTimelineEvent()

	metric := &dto.Metric{}
	if err := metrics.timelineEvents.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1.0 {
		t.Errorf("expected timeline events 1.0, got %f", metric.Counter.GetValue())
	}
}

func TestSetActiveCarts(t *testing.T) {
	metrics := newCartMetricsWithRegisterer(prometheus.NewRegistry())

	metrics.SetActiveCarts(7)

	metric := &dto.Metric{}
	if err := metrics.activeCarts.Write(metric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	if metric.Gauge.GetValue() != 7.0 {
		t.Errorf("expected active carts 7.0, got %f", metric.Gauge.GetValue())
	}
}
