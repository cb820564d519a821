package system

import (
	"math"

	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
)

// MovementSystem walks input-driven players around the scene. The avatar
// passes through level geometry; only the camera arm collides.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (m *MovementSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, e := range w.Query(component.PlayerComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind()) {
		player, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
		input, _ := ecs.Get(w, e, component.InputComponent.Kind())
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())

		dx, dy := input.MoveX, input.MoveY
		// keep diagonals from outrunning straight lines
		if l := math.Hypot(dx, dy); l > 1 {
			dx /= l
			dy /= l
		}
		t.X += dx * player.MoveSpeed
		t.Y += dy * player.MoveSpeed
	}
}
