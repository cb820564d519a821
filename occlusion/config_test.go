package occlusion

import (
	"math"
	"testing"
)

func TestClampTraceScale(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"unset", 0, 1},
		{"nan", math.NaN(), 1},
		{"below_min", 0.05, MinTraceScale},
		{"negative", -3, MinTraceScale},
		{"in_range", 0.5, 0.5},
		{"max", 10, MaxTraceScale},
		{"above_max", 12.5, MaxTraceScale},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ClampTraceScale(c.in); got != c.want {
				t.Fatalf("ClampTraceScale(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestConfigNormalized(t *testing.T) {
	cfg := Config{TraceScale: 20}.Normalized()
	if cfg.TraceScale != MaxTraceScale {
		t.Fatalf("expected clamped scale, got %v", cfg.TraceScale)
	}
	if cfg.DebugTraceFrames != DefaultDebugTraceFrames {
		t.Fatalf("expected default trace frames, got %d", cfg.DebugTraceFrames)
	}
	if cfg.FadeConfigured() {
		t.Fatalf("empty fade must not count as configured")
	}
}
