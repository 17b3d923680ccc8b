package events

import (
	"encoding/json"
	"testing"
	"time"
)

type sampleEvent struct {
	BaseEvent
	Amount string `json:"amount"`
}

func TestNewBaseEvent(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("IST", 19800))
	event := NewBaseEvent("assessment.completed", "agg-123", "Assessment", at)

	if event.EventID() == "" {
		t.Error("expected non-empty event ID")
	}
	if event.EventType() != "assessment.completed" {
		t.Errorf("expected event type %q, got %q", "assessment.completed", event.EventType())
	}
	if event.AggregateID() != "agg-123" {
		t.Errorf("expected aggregate ID %q, got %q", "agg-123", event.AggregateID())
	}
	if event.AggregateType() != "Assessment" {
		t.Errorf("expected aggregate type %q, got %q", "Assessment", event.AggregateType())
	}
	if !event.OccurredAt().Equal(at) || event.OccurredAt().Location() != time.UTC {
		t.Errorf("expected occurredAt %v in UTC, got %v", at, event.OccurredAt())
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestMarshalWrapsPayloadInEnvelope(t *testing.T) {
	evt := sampleEvent{
		BaseEvent: NewBaseEvent("sample.happened", "agg-1", "Sample", time.Now()),
		Amount:    "100.00",
	}

	data, err := Marshal(evt)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("expected valid JSON envelope, got error: %v", err)
	}
	if env.EventID != evt.EventID() || env.EventType != "sample.happened" || env.AggregateID != "agg-1" {
		t.Errorf("unexpected envelope metadata: %+v", env)
	}

	var payload map[string]any
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("expected JSON payload, got error: %v", err)
	}
	if payload["amount"] != "100.00" {
		t.Errorf("expected payload amount 100.00, got %v", payload["amount"])
	}
}
