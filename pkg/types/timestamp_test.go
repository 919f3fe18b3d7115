package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampScanFormats(t *testing.T) {
	want := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	sources := []any{
		want,
		"2025-03-14 09:26:53+00:00",
		[]byte("2025-03-14T09:26:53Z"),
		"2025-03-14 09:26:53",
	}
	for _, src := range sources {
		var ts Timestamp
		if err := ts.Scan(src); err != nil {
			t.Fatalf("scan %v: %v", src, err)
		}
		if !ts.Equal(want) {
			t.Fatalf("scan %v: expected %s, got %s", src, want, ts.Time)
		}
	}

	var ts Timestamp
	if err := ts.Scan("yesterday"); err == nil {
		t.Fatal("expected parse error")
	}
	if err := ts.Scan(nil); err != nil || !ts.IsZero() {
		t.Fatalf("expected zero time for NULL, got %v (%v)", ts.Time, err)
	}
}

func TestTimestampMarshalsRFC3339(t *testing.T) {
	ts := NewTimestamp(time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600)))
	out, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2025-01-02T02:04:05Z"` {
		t.Fatalf("unexpected encoding %s", out)
	}
}
