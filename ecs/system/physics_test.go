package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
	"github.com/milk9111/seethrough/occlusion"
	"github.com/stretchr/testify/require"
)

func sweepRequest(scale float64) occlusion.SweepRequest {
	return occlusion.SweepRequest{
		Start:      cp.Vector{X: 0, Y: 0},
		End:        cp.Vector{X: 200, Y: 0},
		Radius:     10 * scale,
		HalfHeight: 20 * scale,
	}
}

func TestSweepCapsuleTraceScale(t *testing.T) {
	// The box sits 30..40 below the sweep line, so only a capsule taller than
	// the default one reaches it.
	tests := []struct {
		name  string
		scale float64
		hit   bool
	}{
		{"half", 0.5, false},
		{"default", 1, false},
		{"double", 2, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			box := addBox(t, w, 100, 35, 20, 10, boxOpts{})
			ps := NewPhysicsSystem()
			ps.Update(w)

			hits := ps.SweepCapsule(sweepRequest(tc.scale))
			if !tc.hit {
				require.Empty(t, hits)
				return
			}
			require.Len(t, hits, 1)
			require.Equal(t, box, hits[0].Object)
		})
	}
}

func TestSweepCapsuleOrdersByFraction(t *testing.T) {
	w := ecs.NewWorld()
	far := addBox(t, w, 150, 0, 10, 10, boxOpts{})
	near := addBox(t, w, 50, 0, 10, 10, boxOpts{})
	ps := NewPhysicsSystem()
	ps.Update(w)

	hits := ps.SweepCapsule(sweepRequest(1))
	require.Len(t, hits, 2)
	require.Equal(t, near, hits[0].Object)
	require.Equal(t, far, hits[1].Object)
	require.Less(t, hits[0].Fraction, hits[1].Fraction)
}

func TestSweepCapsuleReportsEachObjectOnce(t *testing.T) {
	// A tall box is touched by every slice of the capsule.
	w := ecs.NewWorld()
	wall := addBox(t, w, 100, 0, 10, 200, boxOpts{})
	ps := NewPhysicsSystem()
	ps.Update(w)

	hits := ps.SweepCapsule(sweepRequest(2))
	require.Len(t, hits, 1)
	require.Equal(t, wall, hits[0].Object)
}

func TestSweepCapsuleIgnore(t *testing.T) {
	w := ecs.NewWorld()
	a := addBox(t, w, 50, 0, 10, 10, boxOpts{})
	b := addBox(t, w, 150, 0, 10, 10, boxOpts{})
	ps := NewPhysicsSystem()
	ps.Update(w)

	req := sweepRequest(1)
	req.Ignore = []ecs.Entity{a}
	hits := ps.SweepCapsule(req)
	require.Len(t, hits, 1)
	require.Equal(t, b, hits[0].Object)
}

func TestSweepCapsuleZeroLength(t *testing.T) {
	w := ecs.NewWorld()
	addBox(t, w, 0, 0, 10, 10, boxOpts{})
	ps := NewPhysicsSystem()
	ps.Update(w)

	req := sweepRequest(1)
	req.End = req.Start
	require.Empty(t, ps.SweepCapsule(req))
}

func TestSweepCapsuleSkipsCameraBlockers(t *testing.T) {
	w := ecs.NewWorld()
	addBox(t, w, 100, 0, 10, 10, boxOpts{category: component.CategoryCameraBlocker})
	ps := NewPhysicsSystem()
	ps.Update(w)

	require.Empty(t, ps.SweepCapsule(sweepRequest(1)))

	alpha, hit := ps.FirstHit(cp.Vector{}, cp.Vector{X: 200}, 0, component.CategoryCameraBlocker)
	require.True(t, hit)
	require.InDelta(t, 95.0/200.0, alpha, 1e-6)
}

func TestPhysicsTracksEntityChanges(t *testing.T) {
	w := ecs.NewWorld()
	box := addBox(t, w, 100, 0, 10, 10, boxOpts{})
	ps := NewPhysicsSystem()
	ps.Update(w)
	require.Len(t, ps.SweepCapsule(sweepRequest(1)), 1)

	// moved out of the way
	tr, _ := ecs.Get(w, box, component.TransformComponent.Kind())
	tr.Y = 500
	ps.Update(w)
	require.Empty(t, ps.SweepCapsule(sweepRequest(1)))

	tr.Y = 0
	ps.Update(w)
	require.Len(t, ps.SweepCapsule(sweepRequest(1)), 1)

	ecs.DestroyEntity(w, box)
	ps.Update(w)
	require.Empty(t, ps.SweepCapsule(sweepRequest(1)))
	require.Empty(t, ps.entities)
	require.Empty(t, ps.shapeToEntity)
}

func TestSweepCapsuleRecordsDebugTrace(t *testing.T) {
	w := ecs.NewWorld()
	addBox(t, w, 100, 0, 10, 10, boxOpts{})
	ps := NewPhysicsSystem()
	ps.Update(w)

	req := sweepRequest(1)
	req.Debug = true
	req.DebugFrames = 7
	hits := ps.SweepCapsule(req)
	require.Len(t, hits, 1)

	traces := w.Query(component.TraceDebugComponent.Kind())
	require.Len(t, traces, 1)
	trace, _ := ecs.Get(w, traces[0], component.TraceDebugComponent.Kind())
	require.True(t, trace.Hit)
	require.Len(t, trace.HitPoints, 1)
	require.Equal(t, 200.0, trace.EndX)
	ttl, ok := ecs.Get(w, traces[0], component.TTLComponent.Kind())
	require.True(t, ok)
	require.Equal(t, 7, ttl.Frames)
}

func TestCapsuleOffsets(t *testing.T) {
	tests := []struct {
		name   string
		core   float64
		radius float64
		want   []float64
	}{
		{"sphere", 0, 10, []float64{0}},
		{"spacing_by_radius", 10, 10, []float64{-10, 0, 10}},
		{"uneven", 5, 4, []float64{-5, -5 + 10.0/3, -5 + 20.0/3, 5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := capsuleOffsets(tc.core, tc.radius)
			require.Len(t, got, len(tc.want))
			for i := range tc.want {
				require.InDelta(t, tc.want[i], got[i], 1e-9)
			}
		})
	}

	t.Run("zero_radius_uses_densest_stack", func(t *testing.T) {
		got := capsuleOffsets(16, 0)
		require.Len(t, got, maxSweepSlices+1)
		for i := 1; i < len(got); i++ {
			require.InDelta(t, 1.0, got[i]-got[i-1], 1e-9)
		}
	})

	t.Run("capped", func(t *testing.T) {
		got := capsuleOffsets(1000, 1)
		require.Len(t, got, maxSweepSlices+1)
		require.InDelta(t, -1000, got[0], 1e-9)
		require.InDelta(t, 1000, got[len(got)-1], 1e-9)
	})
}
