package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
	"golang.org/x/image/colornames"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// DrawTraceDebug draws every persisted occlusion sweep: the capsule at both
// ends, its swept outline and the contact points.
func DrawTraceDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	camEntity, _ := w.First(component.CameraRigComponent.Kind())
	view := newViewTransform(w, camEntity, screen)

	ecs.ForEach(w, component.TraceDebugComponent.Kind(), func(e ecs.Entity, tr *component.TraceDebug) {
		clr := color.Color(colornames.Lime)
		if tr.Hit {
			clr = colornames.Red
		}
		drawCapsule(screen, view, tr.StartX, tr.StartY, tr.Radius, tr.HalfHeight, clr, false)
		drawCapsule(screen, view, tr.EndX, tr.EndY, tr.Radius, tr.HalfHeight, clr, false)

		// Edges of the swept area at the top and bottom of the capsule.
		for _, dy := range []float64{-tr.HalfHeight, tr.HalfHeight} {
			x1, y1 := view.toScreen(tr.StartX, tr.StartY+dy)
			x2, y2 := view.toScreen(tr.EndX, tr.EndY+dy)
			vector.StrokeLine(screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, clr, true)
		}

		for _, p := range tr.HitPoints {
			x, y := view.toScreen(p[0], p[1])
			vector.FillRect(screen, float32(x-debugDotSize/2), float32(y-debugDotSize/2), debugDotSize, debugDotSize, colornames.Yellow, false)
		}
	})
}

// DrawOcclusionDebug prints the tracker state in the top-left corner.
func DrawOcclusionDebug(s *OcclusionSystem, screen *ebiten.Image) {
	if s == nil || screen == nil {
		return
	}
	t := s.Tracker()
	cfg := t.Config()
	text := fmt.Sprintf("Occlusion: %v\nTrace scale: %.2f\nTracked: %d\nOccluded: %d",
		cfg.Enabled, cfg.TraceScale, len(t.Tracked()), t.OccludedCount())
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

// DrawPhysicsDebug draws the Chipmunk shapes the sweeps run against.
func DrawPhysicsDebug(space *cp.Space, w *ecs.World, screen *ebiten.Image) {
	if space == nil || w == nil || screen == nil {
		return
	}
	camEntity, _ := w.First(component.CameraRigComponent.Kind())
	drawer := &physicsDebugDrawer{
		screen: screen,
		view:   newViewTransform(w, camEntity, screen),
	}
	cp.DrawSpace(space, drawer)
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	view   viewTransform
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	d.drawCircle(a, radius, outline)
	d.drawCircle(b, radius, outline)
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	half := size / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.view.toScreen(a.X, a.Y)
	x2, y2 := d.view.toScreen(b.X, b.Y)
	vector.StrokeLine(d.screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, toNRGBA(c), true)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
