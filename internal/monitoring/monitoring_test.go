package monitoring

import "testing"

func TestRecordEventAndSnapshot(t *testing.T) {
	s := NewService(Config{LogLevel: "warn"})

	s.RecordEvent("observations_ingested", map[string]string{"count": "3"})
	s.RecordEvent("observations_ingested", nil)
	s.RecordEvent("refresh_failed", map[string]string{"error": "timeout"})

	if got := s.Count("observations_ingested"); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}

	snap := s.Snapshot()
	if snap.Events["refresh_failed"] != 1 || len(snap.Events) != 2 {
		t.Errorf("unexpected events %v", snap.Events)
	}
	if snap.LastEvent["refresh_failed"].IsZero() {
		t.Error("last event time not recorded")
	}

	// the snapshot is a copy
	snap.Events["refresh_failed"] = 99
	if s.Count("refresh_failed") != 1 {
		t.Error("snapshot must not alias the counters")
	}
}

func TestFormatLabels(t *testing.T) {
	got := formatLabels(map[string]string{"b": "2", "a": "1"})
	if got != "a=1 b=2" {
		t.Errorf("formatLabels() = %q", got)
	}
}
