package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
	"github.com/milk9111/seethrough/occlusion"
)

// OcclusionSystem runs the occlusion tracker against the ECS world once per
// tick. It resolves the camera rig and avatar, exposes mesh material slots to
// the tracker and turns state changes into world events.
type OcclusionSystem struct {
	tracker *occlusion.Tracker
	ignore  *ScriptIgnoreFilter
	world   *ecs.World

	camEntity    ecs.Entity
	avatarEntity ecs.Entity
}

// NewOcclusionSystem builds the system around a tracker that sweeps through
// physics. ignore may be nil.
func NewOcclusionSystem(cfg occlusion.Config, physics *PhysicsSystem, ignore *ScriptIgnoreFilter, opts ...occlusion.Option) *OcclusionSystem {
	s := &OcclusionSystem{ignore: ignore}
	base := []occlusion.Option{occlusion.WithListener(s)}
	if ignore != nil {
		base = append(base, occlusion.WithIgnoreFilter(ignore))
	}
	var sweeper occlusion.Sweeper
	if physics != nil {
		sweeper = physics
	}
	s.tracker = occlusion.NewTracker(cfg, sweeper, s, append(base, opts...)...)
	return s
}

func (s *OcclusionSystem) Tracker() *occlusion.Tracker {
	if s == nil {
		return nil
	}
	return s.tracker
}

// SetConfig applies a new configuration immediately.
func (s *OcclusionSystem) SetConfig(cfg occlusion.Config) {
	if s == nil {
		return
	}
	s.tracker.SetConfig(cfg)
}

// SetIgnoreFilter swaps the ignore script, for example after a hot reload.
func (s *OcclusionSystem) SetIgnoreFilter(f *ScriptIgnoreFilter) {
	if s == nil {
		return
	}
	s.ignore = f
	if f == nil {
		s.tracker.SetIgnoreFilter(nil)
		return
	}
	s.tracker.SetIgnoreFilter(f)
}

func (s *OcclusionSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	s.world = w

	if !w.IsAlive(s.camEntity) {
		s.camEntity, _ = w.First(component.CameraRigComponent.Kind())
	}
	if !w.IsAlive(s.avatarEntity) {
		s.avatarEntity, _ = w.First(component.AvatarColliderComponent.Kind())
	}

	var (
		camera occlusion.CameraRig
		avatar occlusion.AvatarCollider
	)
	if ecs.Has(w, s.camEntity, component.CameraRigComponent.Kind()) && ecs.Has(w, s.camEntity, component.TransformComponent.Kind()) {
		camera = rigView{w: w, e: s.camEntity}
	}
	if ecs.Has(w, s.avatarEntity, component.AvatarColliderComponent.Kind()) && ecs.Has(w, s.avatarEntity, component.TransformComponent.Kind()) {
		avatar = avatarView{w: w, e: s.avatarEntity}
	}
	s.tracker.Bind(camera, avatar)

	if s.ignore != nil {
		s.ignore.Refresh(w)
	}
	s.tracker.SyncOccludedObjects()
}

// IsValid implements occlusion.Surfaces.
func (s *OcclusionSystem) IsValid(e ecs.Entity) bool {
	return s.world.IsAlive(e)
}

// ResolveRenderable returns the linked mesh entity if the object has one,
// otherwise the object itself when it carries a mesh.
func (s *OcclusionSystem) ResolveRenderable(object ecs.Entity) (ecs.Entity, bool) {
	if link, ok := ecs.Get(s.world, object, component.MeshLinkComponent.Kind()); ok {
		mesh := ecs.Entity(link.Mesh)
		return mesh, ecs.Has(s.world, mesh, component.MeshRendererComponent.Kind())
	}
	if ecs.Has(s.world, object, component.MeshRendererComponent.Kind()) {
		return object, true
	}
	return 0, false
}

func (s *OcclusionSystem) NumMaterials(mesh ecs.Entity) int {
	mr, ok := ecs.Get(s.world, mesh, component.MeshRendererComponent.Kind())
	if !ok {
		return 0
	}
	return len(mr.Materials)
}

func (s *OcclusionSystem) Material(mesh ecs.Entity, slot int) (component.Material, bool) {
	mr, ok := ecs.Get(s.world, mesh, component.MeshRendererComponent.Kind())
	if !ok || slot < 0 || slot >= len(mr.Materials) {
		return component.Material{}, false
	}
	return mr.Materials[slot], true
}

func (s *OcclusionSystem) SetMaterial(mesh ecs.Entity, slot int, m component.Material) bool {
	mr, ok := ecs.Get(s.world, mesh, component.MeshRendererComponent.Kind())
	if !ok || slot < 0 || slot >= len(mr.Materials) {
		return false
	}
	mr.Materials[slot] = m
	return true
}

// Name labels tracker log lines with the entity's Name component.
func (s *OcclusionSystem) Name(e ecs.Entity) string {
	if n, ok := ecs.Get(s.world, e, component.NameComponent.Kind()); ok {
		return n.Value
	}
	return ""
}

func (s *OcclusionSystem) ObjectOccluded(e ecs.Entity) {
	s.world.Events().Push(ecs.Event{Type: ecs.OcclusionEventType, Data: ecs.OcclusionEvent{Entity: e, Kind: ecs.OcclusionEventOccluded}})
}

func (s *OcclusionSystem) ObjectRestored(e ecs.Entity) {
	s.world.Events().Push(ecs.Event{Type: ecs.OcclusionEventType, Data: ecs.OcclusionEvent{Entity: e, Kind: ecs.OcclusionEventRestored}})
}

type rigView struct {
	w *ecs.World
	e ecs.Entity
}

func (v rigView) CameraPosition() cp.Vector {
	t, _ := ecs.Get(v.w, v.e, component.TransformComponent.Kind())
	return cp.Vector{X: t.X, Y: t.Y}
}

func (v rigView) AvoidingCollision() bool {
	rig, _ := ecs.Get(v.w, v.e, component.CameraRigComponent.Kind())
	return rig.CollisionTest && rig.Pulled
}

type avatarView struct {
	w *ecs.World
	e ecs.Entity
}

func (v avatarView) Entity() ecs.Entity {
	return v.e
}

func (v avatarView) AvatarPosition() cp.Vector {
	t, _ := ecs.Get(v.w, v.e, component.TransformComponent.Kind())
	return cp.Vector{X: t.X, Y: t.Y}
}

func (v avatarView) CapsuleRadius() float64 {
	c, _ := ecs.Get(v.w, v.e, component.AvatarColliderComponent.Kind())
	return c.ScaledRadius()
}

func (v avatarView) CapsuleHalfHeight() float64 {
	c, _ := ecs.Get(v.w, v.e, component.AvatarColliderComponent.Kind())
	return c.ScaledHalfHeight()
}
