package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
)

func TestRecordAIRequest(t *testing.T) {
	aiRequestsTotal.Reset()

	RecordAIRequest("generate_roadmap", "success")

	metric := &dto.Metric{}
	if err := aiRequestsTotal.WithLabelValues("generate_roadmap", "success").Write(metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := metric.GetCounter().GetValue(); got != 1 {
		t.Errorf("counter = %v, want 1", got)
	}
}

func TestRecordCacheEvent(t *testing.T) {
	aiCacheEventsTotal.Reset()

	RecordCacheEvent("analyze_resume", "hit")
	RecordCacheEvent("analyze_resume", "hit")
	RecordCacheEvent("analyze_resume", "miss")

	metric := &dto.Metric{}
	if err := aiCacheEventsTotal.WithLabelValues("analyze_resume", "hit").Write(metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := metric.GetCounter().GetValue(); got != 2 {
		t.Errorf("hit counter = %v, want 2", got)
	}
}

func TestRecordStoreOperation(t *testing.T) {
	storeOperationsTotal.Reset()

	RecordStoreOperation("list", "success")
	RecordStoreOperation("get", "not_found")

	metric := &dto.Metric{}
	if err := storeOperationsTotal.WithLabelValues("get", "not_found").Write(metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := metric.GetCounter().GetValue(); got != 1 {
		t.Errorf("not_found counter = %v, want 1", got)
	}
}
