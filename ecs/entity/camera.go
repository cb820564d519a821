package entity

import (
	"fmt"

	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
	"github.com/milk9111/seethrough/prefabs"
)

func NewCamera(w *ecs.World, spec prefabs.CameraSpec) (ecs.Entity, error) {
	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}

	if err := ecs.Add(w, camera, component.TransformComponent.Kind(), &component.Transform{}); err != nil {
		return 0, fmt.Errorf("camera: add transform: %w", err)
	}

	zoom := spec.Zoom
	if zoom == 0 {
		zoom = 1
	}
	if err := ecs.Add(w, camera, component.CameraRigComponent.Kind(), &component.CameraRig{
		TargetName:    spec.Target,
		OffsetX:       spec.OffsetX,
		OffsetY:       spec.OffsetY,
		Zoom:          zoom,
		ProbeRadius:   spec.ProbeRadius,
		CollisionTest: spec.CollisionTest,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera rig: %w", err)
	}

	return camera, nil
}
