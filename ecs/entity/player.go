package entity

import (
	"fmt"

	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
	"github.com/milk9111/seethrough/prefabs"
)

// NewPlayer creates the avatar: a movable capsule the camera follows.
func NewPlayer(w *ecs.World, spec prefabs.AvatarSpec) (ecs.Entity, error) {
	if !(spec.Radius > 0) || spec.HalfHeight < 0 {
		return 0, fmt.Errorf("player %q: %w", spec.Name, ErrInvalidCollider)
	}

	player := ecs.CreateEntity(w)
	if err := ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("player: add player tag: %w", err)
	}

	name := spec.Name
	if name == "" {
		name = "player"
	}
	if err := ecs.Add(w, player, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
		return 0, fmt.Errorf("player: add name: %w", err)
	}

	if err := ecs.Add(w, player, component.TransformComponent.Kind(), &component.Transform{X: spec.X, Y: spec.Y}); err != nil {
		return 0, fmt.Errorf("player: add transform: %w", err)
	}

	if err := ecs.Add(w, player, component.AvatarColliderComponent.Kind(), &component.AvatarCollider{
		Radius:     spec.Radius,
		HalfHeight: spec.HalfHeight,
		Scale:      spec.Scale,
	}); err != nil {
		return 0, fmt.Errorf("player: add collider: %w", err)
	}

	if err := ecs.Add(w, player, component.PlayerComponent.Kind(), &component.Player{MoveSpeed: spec.MoveSpeed}); err != nil {
		return 0, fmt.Errorf("player: add player: %w", err)
	}

	if err := ecs.Add(w, player, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, fmt.Errorf("player: add input: %w", err)
	}

	return player, nil
}
