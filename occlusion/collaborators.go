package occlusion

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
)

// CameraRig is the camera the tracker looks through.
type CameraRig interface {
	CameraPosition() cp.Vector
	// AvoidingCollision reports that the rig pulled itself out of geometry
	// this tick, which already keeps the avatar visible.
	AvoidingCollision() bool
}

// AvatarCollider is the avatar's collision capsule.
type AvatarCollider interface {
	Entity() ecs.Entity
	AvatarPosition() cp.Vector
	CapsuleRadius() float64
	CapsuleHalfHeight() float64
}

// SweepRequest describes an upright capsule moved from Start to End against
// static world geometry.
type SweepRequest struct {
	Start      cp.Vector
	End        cp.Vector
	Radius     float64
	HalfHeight float64
	Ignore     []ecs.Entity
	// Debug asks the sweeper to keep the swept shape visible for DebugFrames.
	Debug       bool
	DebugFrames int
}

// Hit is one object touched by a sweep.
type Hit struct {
	Object ecs.Entity
	Point  cp.Vector
	// Fraction is the position along the sweep in [0, 1].
	Fraction float64
}

// Sweeper runs capsule sweeps. Hits are ordered by Fraction.
type Sweeper interface {
	SweepCapsule(req SweepRequest) []Hit
}

// Surfaces resolves and edits the material slots of world objects. Handles
// may die between ticks; IsValid must be checked before any other call.
type Surfaces interface {
	IsValid(e ecs.Entity) bool
	ResolveRenderable(object ecs.Entity) (ecs.Entity, bool)
	NumMaterials(mesh ecs.Entity) int
	Material(mesh ecs.Entity, slot int) (component.Material, bool)
	SetMaterial(mesh ecs.Entity, slot int, m component.Material) bool
}

// Namer is optionally implemented by Surfaces to label log lines.
type Namer interface {
	Name(e ecs.Entity) string
}

// IgnoreFilter lists objects the sweep must skip.
type IgnoreFilter interface {
	Ignored() []ecs.Entity
}

// Listener observes occlusion state changes.
type Listener interface {
	ObjectOccluded(e ecs.Entity)
	ObjectRestored(e ecs.Entity)
}

// Logger receives diagnostic lines. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}
