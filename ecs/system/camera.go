package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/seethrough/common"
	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
)

// CameraSystem places the camera at the end of its spring arm. With collision
// testing on, the arm is shortened to stop in front of camera blockers and
// the rig is flagged as pulled for that tick. Ordinary level geometry does
// not stop the arm; the occlusion system fades it instead.
type CameraSystem struct {
	physics      *PhysicsSystem
	camEntity    ecs.Entity
	targetEntity ecs.Entity
}

func NewCameraSystem(physics *PhysicsSystem) *CameraSystem {
	return &CameraSystem{physics: physics}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if cs == nil || w == nil {
		return
	}

	if !w.IsAlive(cs.camEntity) {
		camEntity, ok := w.First(component.CameraRigComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = camEntity
		cs.targetEntity = 0
	}
	rig, ok := ecs.Get(w, cs.camEntity, component.CameraRigComponent.Kind())
	if !ok {
		return
	}

	if !w.IsAlive(cs.targetEntity) {
		cs.targetEntity = findEntityByNameOrTag(w, rig.TargetName)
	}
	target, ok := ecs.Get(w, cs.targetEntity, component.TransformComponent.Kind())
	if !ok {
		rig.Pulled = false
		return
	}

	from := cp.Vector{X: target.X, Y: target.Y}
	to := cp.Vector{X: target.X + rig.OffsetX, Y: target.Y + rig.OffsetY}
	rig.Pulled = false
	if rig.CollisionTest && cs.physics != nil {
		if alpha, hit := cs.physics.FirstHit(from, to, rig.ProbeRadius, component.CategoryCameraBlocker, cs.targetEntity); hit {
			to = cp.Vector{X: common.Lerp(from.X, to.X, alpha), Y: common.Lerp(from.Y, to.Y, alpha)}
			rig.Pulled = true
		}
	}

	camTransform, ok := ecs.Get(w, cs.camEntity, component.TransformComponent.Kind())
	if !ok {
		camTransform = &component.Transform{}
		if err := ecs.Add(w, cs.camEntity, component.TransformComponent.Kind(), camTransform); err != nil {
			panic("camera system: add transform: " + err.Error())
		}
	}
	camTransform.X = to.X
	camTransform.Y = to.Y
}

func findEntityByNameOrTag(w *ecs.World, name string) ecs.Entity {
	if name == "" || name == "player" {
		if e, ok := w.First(component.PlayerTagComponent.Kind()); ok {
			return e
		}
	}
	for _, e := range w.Query(component.NameComponent.Kind()) {
		if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok && n.Value == name {
			return e
		}
	}
	return 0
}
