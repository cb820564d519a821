package component

// TraceDebug is a persisted capsule sweep drawn by the debug overlay. It is
// paired with a TTL so it disappears after a number of ticks.
type TraceDebug struct {
	StartX, StartY float64
	EndX, EndY     float64
	Radius         float64
	HalfHeight     float64
	Hit            bool
	HitPoints      [][2]float64
}

var TraceDebugComponent = NewComponent[TraceDebug]()
