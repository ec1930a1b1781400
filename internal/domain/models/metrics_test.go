package models

import (
	"encoding/json"
	"testing"
)

func TestHistoricalRecordKeepsCustomFields(t *testing.T) {
	in := []byte(`{"date":"2024-01-15","pv":800,"uv":400,"orders":12.5,"note":"ignored"}`)

	var r HistoricalRecord
	if err := json.Unmarshal(in, &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Date != "2024-01-15" || r.PV != 800 || r.UV != 400 {
		t.Fatalf("unexpected record %+v", r)
	}
	if r.Field("orders") != 12.5 {
		t.Fatalf("expected orders=12.5, got %v", r.Field("orders"))
	}
	if r.Field("missing") != 0 {
		t.Fatalf("expected 0 for missing field, got %v", r.Field("missing"))
	}

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]interface{}
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal round trip: %v", err)
	}
	if back["orders"] != 12.5 {
		t.Fatalf("custom field lost in round trip: %v", back)
	}
	if _, ok := back["note"]; ok {
		t.Fatal("non-numeric field should be dropped")
	}
}
