package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
)

func TestTrackOnlinePlayers(t *testing.T) {
	online := 3
	gauge := TrackOnlinePlayers(func() int { return online })

	read := func() float64 {
		var m dto.Metric
		if err := gauge.Write(&m); err != nil {
			t.Fatalf("write metric: %v", err)
		}
		return m.GetGauge().GetValue()
	}

	if got := read(); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}

	online = 0
	if got := read(); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}
