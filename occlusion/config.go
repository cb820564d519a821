package occlusion

import (
	"math"

	"github.com/milk9111/seethrough/ecs/component"
)

const (
	MinTraceScale = 0.1
	MaxTraceScale = 10.0

	// DefaultDebugTraceFrames keeps debug sweeps on screen for five seconds
	// at 60 ticks per second.
	DefaultDebugTraceFrames = 300
)

// Config is everything the tracker reads from the host's settings.
type Config struct {
	Enabled bool
	// Fade replaces every material slot of an occluding object. An unnamed
	// material counts as not configured and keeps the tracker idle.
	Fade component.Material
	// TraceScale is the share of the avatar capsule radius and half-height
	// used for the sweep. Small values may let the camera see through walls.
	TraceScale float64
	// DebugTraces asks the sweeper to persist its shapes for DebugTraceFrames.
	DebugTraces      bool
	DebugTraceFrames int
	// DebugLog enables per-object diagnostic lines.
	DebugLog bool
}

// DefaultConfig returns an enabled config with a full-size sweep, debug
// traces on and no fade material.
func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		TraceScale:       1.0,
		DebugTraces:      true,
		DebugTraceFrames: DefaultDebugTraceFrames,
	}
}

// FadeConfigured reports whether a fade material has been set.
func (c Config) FadeConfigured() bool {
	return c.Fade.Name != ""
}

// Normalized returns c with TraceScale clamped and DebugTraceFrames defaulted.
func (c Config) Normalized() Config {
	c.TraceScale = ClampTraceScale(c.TraceScale)
	if c.DebugTraceFrames <= 0 {
		c.DebugTraceFrames = DefaultDebugTraceFrames
	}
	return c
}

// ClampTraceScale limits s to [MinTraceScale, MaxTraceScale]. Zero and NaN
// fall back to 1.
func ClampTraceScale(s float64) float64 {
	if s == 0 || math.IsNaN(s) {
		return 1
	}
	return math.Max(MinTraceScale, math.Min(MaxTraceScale, s))
}
