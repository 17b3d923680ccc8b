package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewOutboxEntryStoresEnvelope(t *testing.T) {
	evt := sampleEvent{
		BaseEvent: NewBaseEvent("sample.happened", "agg-7", "Sample", time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)),
		Amount:    "120.00",
	}

	entry, err := NewOutboxEntry(evt)
	if err != nil {
		t.Fatalf("NewOutboxEntry() error = %v", err)
	}
	if entry.ID != evt.EventID() || entry.AggregateID != "agg-7" || entry.EventType != "sample.happened" {
		t.Errorf("unexpected entry metadata: %+v", entry)
	}
	if entry.PublishedAt != nil {
		t.Error("expected new entry to be unpublished")
	}
	if !entry.CreatedAt.Equal(evt.OccurredAt()) {
		t.Errorf("expected CreatedAt %v, got %v", evt.OccurredAt(), entry.CreatedAt)
	}

	var env Envelope
	if err := json.Unmarshal(entry.Payload, &env); err != nil {
		t.Fatalf("expected envelope payload, got error: %v", err)
	}
	if env.EventID != evt.EventID() || env.AggregateType != "Sample" {
		t.Errorf("unexpected envelope: %+v", env)
	}
}
