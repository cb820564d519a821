package system

import (
	"log"
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
	"github.com/milk9111/seethrough/occlusion"
)

const collisionTypeStatic cp.CollisionType = 1

// maxSweepSlices bounds the number of segment queries one capsule sweep may
// issue, however thin the capsule is relative to its height.
const maxSweepSlices = 32

// PhysicsSystem mirrors StaticBody entities into a Chipmunk space and answers
// sweeps against them.
type PhysicsSystem struct {
	space *cp.Space
	world *ecs.World

	entities      map[ecs.Entity]*staticInfo
	shapeToEntity map[*cp.Shape]ecs.Entity
}

type staticInfo struct {
	shape    *cp.Shape
	body     component.StaticBody
	x, y     float64
	category uint32
	mask     uint32
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		space:         cp.NewSpace(),
		entities:      make(map[ecs.Entity]*staticInfo),
		shapeToEntity: make(map[*cp.Shape]ecs.Entity),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.space = cp.NewSpace()
	}
	ps.world = w
	ps.cleanupEntities(w)
	ps.syncEntities(w)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ecs.ForEach2(w, component.StaticBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.StaticBody, t *component.Transform) {
		category, mask := collisionBits(w, e)
		info := ps.entities[e]
		if info != nil {
			if info.body == *body && info.x == t.X && info.y == t.Y && info.category == category && info.mask == mask {
				return
			}
			// Static shapes are never moved in place; rebuild instead.
			ps.removeShape(e, info)
		}

		shape := newStaticShape(ps.space.StaticBody, body, t)
		if shape == nil {
			log.Printf("PhysicsSystem: entity %s has an empty static body", e)
			return
		}
		shape.SetCollisionType(collisionTypeStatic)
		shape.SetFilter(cp.ShapeFilter{Group: 0, Categories: uint(category), Mask: uint(mask)})
		ps.space.AddShape(shape)

		ps.entities[e] = &staticInfo{shape: shape, body: *body, x: t.X, y: t.Y, category: category, mask: mask}
		ps.shapeToEntity[shape] = e
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.StaticBodyComponent.Kind()) {
			continue
		}
		ps.removeShape(e, info)
	}
}

func (ps *PhysicsSystem) removeShape(e ecs.Entity, info *staticInfo) {
	if info.shape != nil && ps.space != nil {
		ps.space.RemoveShape(info.shape)
		delete(ps.shapeToEntity, info.shape)
	}
	delete(ps.entities, e)
}

func newStaticShape(body *cp.Body, sb *component.StaticBody, t *component.Transform) *cp.Shape {
	if sb.Radius > 0 {
		return cp.NewCircle(body, sb.Radius, cp.Vector{X: t.X, Y: t.Y})
	}
	if sb.Width <= 0 || sb.Height <= 0 {
		return nil
	}
	bb := cp.BB{
		L: t.X - sb.Width/2,
		B: t.Y - sb.Height/2,
		R: t.X + sb.Width/2,
		T: t.Y + sb.Height/2,
	}
	return cp.NewBox2(body, bb, 0)
}

func collisionBits(w *ecs.World, e ecs.Entity) (uint32, uint32) {
	category := component.CategoryWorldStatic
	mask := ^uint32(0)
	if layer, ok := ecs.Get(w, e, component.CollisionLayerComponent.Kind()); ok {
		if layer.Category != 0 {
			category = layer.Category
		}
		if layer.Mask != 0 {
			mask = layer.Mask
		}
	}
	return category, mask
}

func staticQueryFilter(categories uint32) cp.ShapeFilter {
	return cp.ShapeFilter{Group: 0, Categories: ^uint(0), Mask: uint(categories)}
}

// SweepCapsule moves an upright capsule from req.Start to req.End and returns
// every world-static entity it touches, closest first. The capsule is swept as
// a stack of radius-r segment queries along its core, spaced no further apart
// than r so the swept area has no gaps.
func (ps *PhysicsSystem) SweepCapsule(req occlusion.SweepRequest) []occlusion.Hit {
	if ps == nil || ps.space == nil {
		return nil
	}
	if req.Start.Distance(req.End) == 0 {
		return nil
	}

	radius := math.Max(req.Radius, 0)
	core := math.Max(req.HalfHeight-radius, 0)

	ignored := make(map[ecs.Entity]struct{}, len(req.Ignore))
	for _, e := range req.Ignore {
		ignored[e] = struct{}{}
	}

	filter := staticQueryFilter(component.CategoryWorldStatic)
	best := make(map[ecs.Entity]occlusion.Hit)
	for _, dy := range capsuleOffsets(core, radius) {
		offset := cp.Vector{X: 0, Y: dy}
		ps.space.SegmentQuery(req.Start.Add(offset), req.End.Add(offset), radius, filter,
			func(shape *cp.Shape, point, normal cp.Vector, alpha float64, data interface{}) {
				e, ok := ps.shapeToEntity[shape]
				if !ok {
					return
				}
				if _, skip := ignored[e]; skip {
					return
				}
				if prev, seen := best[e]; seen && prev.Fraction <= alpha {
					return
				}
				best[e] = occlusion.Hit{Object: e, Point: point, Fraction: alpha}
			}, nil)
	}

	hits := make([]occlusion.Hit, 0, len(best))
	for _, hit := range best {
		hits = append(hits, hit)
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Fraction != hits[j].Fraction {
			return hits[i].Fraction < hits[j].Fraction
		}
		return hits[i].Object < hits[j].Object
	})

	if req.Debug {
		ps.recordTrace(req, hits)
	}
	return hits
}

func capsuleOffsets(core, radius float64) []float64 {
	if core <= 0 {
		return []float64{0}
	}
	// Zero-width segments only cover their own line, so a capsule without
	// a radius gets the densest stack allowed.
	slices := maxSweepSlices
	if radius > 0 {
		slices = min(max(int(math.Ceil(2*core/radius)), 1), maxSweepSlices)
	}
	out := make([]float64, 0, slices+1)
	for i := 0; i <= slices; i++ {
		out = append(out, -core+2*core*float64(i)/float64(slices))
	}
	return out
}

// FirstHit returns where a radius-r probe from start towards end first
// touches a shape in one of the given categories, as a fraction of the way.
func (ps *PhysicsSystem) FirstHit(start, end cp.Vector, radius float64, categories uint32, ignore ...ecs.Entity) (float64, bool) {
	if ps == nil || ps.space == nil || start.Distance(end) == 0 {
		return 0, false
	}
	closest := 1.0
	hit := false
	ps.space.SegmentQuery(start, end, math.Max(radius, 0), staticQueryFilter(categories),
		func(shape *cp.Shape, point, normal cp.Vector, alpha float64, data interface{}) {
			e, ok := ps.shapeToEntity[shape]
			if !ok {
				return
			}
			for _, skip := range ignore {
				if e == skip {
					return
				}
			}
			if alpha < closest || !hit {
				closest = alpha
				hit = true
			}
		}, nil)
	return closest, hit
}

func (ps *PhysicsSystem) recordTrace(req occlusion.SweepRequest, hits []occlusion.Hit) {
	if ps.world == nil {
		return
	}
	frames := req.DebugFrames
	if frames <= 0 {
		frames = occlusion.DefaultDebugTraceFrames
	}
	trace := &component.TraceDebug{
		StartX:     req.Start.X,
		StartY:     req.Start.Y,
		EndX:       req.End.X,
		EndY:       req.End.Y,
		Radius:     req.Radius,
		HalfHeight: req.HalfHeight,
		Hit:        len(hits) > 0,
	}
	for _, hit := range hits {
		trace.HitPoints = append(trace.HitPoints, [2]float64{hit.Point.X, hit.Point.Y})
	}

	e := ps.world.CreateEntity()
	if err := ecs.Add(ps.world, e, component.TraceDebugComponent.Kind(), trace); err != nil {
		log.Printf("PhysicsSystem: record trace: %v", err)
		return
	}
	_ = ecs.Add(ps.world, e, component.TTLComponent.Kind(), &component.TTL{Frames: frames})
}
