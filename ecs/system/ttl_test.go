package system

import (
	"testing"

	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
)

func TestTTLSystem(t *testing.T) {
	tests := []struct {
		name       string
		frames     int
		aliveAfter []bool
	}{
		{"expired", 0, []bool{false}},
		{"one_frame", 1, []bool{false}},
		{"three_frames", 3, []bool{true, true, false}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := ecs.CreateEntity(w)
			if err := ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: tc.frames}); err != nil {
				t.Fatal(err)
			}

			s := NewTTLSystem()
			for i, want := range tc.aliveAfter {
				s.Update(w)
				if got := ecs.IsAlive(w, e); got != want {
					t.Fatalf("tick %d: alive=%v, want %v", i+1, got, want)
				}
			}
		})
	}
}
