package system

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
	"golang.org/x/image/colornames"
)

// RenderSystem draws static geometry with its current material slots and the
// avatar capsule, centred on the camera.
type RenderSystem struct {
	camEntity ecs.Entity
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	if !w.IsAlive(r.camEntity) {
		if camEntity, ok := w.First(component.CameraRigComponent.Kind()); ok {
			r.camEntity = camEntity
		}
	}
	view := newViewTransform(w, r.camEntity, screen)

	ecs.ForEach2(w, component.StaticBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.StaticBody, t *component.Transform) {
		materials := materialsFor(w, e)
		if len(materials) == 0 {
			materials = []component.Material{{Name: "default", Tint: color.RGBA{R: 128, G: 128, B: 128, A: 255}, Alpha: 1}}
		}
		if body.Radius > 0 {
			drawCircleSlots(screen, view, t.X, t.Y, body.Radius, materials)
			return
		}
		drawBoxSlots(screen, view, t.X, t.Y, body.Width, body.Height, materials)
	})

	ecs.ForEach2(w, component.AvatarColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.AvatarCollider, t *component.Transform) {
		drawCapsule(screen, view, t.X, t.Y, c.ScaledRadius(), c.ScaledHalfHeight(), colornames.Orange, true)
	})
}

// materialsFor returns the slots shown for a static object: its linked mesh
// when it has one, otherwise its own renderer.
func materialsFor(w *ecs.World, e ecs.Entity) []component.Material {
	if link, ok := ecs.Get(w, e, component.MeshLinkComponent.Kind()); ok {
		if mr, ok := ecs.Get(w, ecs.Entity(link.Mesh), component.MeshRendererComponent.Kind()); ok {
			return mr.Materials
		}
		return nil
	}
	if mr, ok := ecs.Get(w, e, component.MeshRendererComponent.Kind()); ok {
		return mr.Materials
	}
	return nil
}

// materialColor modulates the tint's alpha by the material alpha.
func materialColor(m component.Material) color.NRGBA {
	a := float64(m.Tint.A) * math.Max(0, math.Min(1, float64(m.Alpha)))
	return color.NRGBA{R: m.Tint.R, G: m.Tint.G, B: m.Tint.B, A: uint8(math.Round(a))}
}

// Boxes are split into one horizontal band per slot.
func drawBoxSlots(screen *ebiten.Image, view viewTransform, cx, cy, width, height float64, materials []component.Material) {
	x, y := view.toScreen(cx-width/2, cy-height/2)
	wdt := width * view.zoom
	hgt := height * view.zoom
	band := hgt / float64(len(materials))
	for i, m := range materials {
		vector.FillRect(screen, float32(x), float32(y+band*float64(i)), float32(wdt), float32(band), materialColor(m), false)
	}
	vector.StrokeRect(screen, float32(x), float32(y), float32(wdt), float32(hgt), 1, color.NRGBA{A: 160}, false)
}

// Circles are drawn as concentric rings, slot 0 outermost.
func drawCircleSlots(screen *ebiten.Image, view viewTransform, cx, cy, radius float64, materials []component.Material) {
	x, y := view.toScreen(cx, cy)
	r := radius * view.zoom
	step := r / float64(len(materials))
	for i, m := range materials {
		vector.FillCircle(screen, float32(x), float32(y), float32(r-step*float64(i)), materialColor(m), true)
	}
	vector.StrokeCircle(screen, float32(x), float32(y), float32(r), 1, color.NRGBA{A: 160}, true)
}

func drawCapsule(screen *ebiten.Image, view viewTransform, cx, cy, radius, halfHeight float64, clr color.Color, fill bool) {
	if radius <= 0 {
		return
	}
	core := math.Max(halfHeight-radius, 0)
	x, top := view.toScreen(cx, cy-core)
	_, bottom := view.toScreen(cx, cy+core)
	r := radius * view.zoom
	if fill {
		vector.FillRect(screen, float32(x-r), float32(top), float32(2*r), float32(bottom-top), clr, false)
		vector.FillCircle(screen, float32(x), float32(top), float32(r), clr, true)
		vector.FillCircle(screen, float32(x), float32(bottom), float32(r), clr, true)
		return
	}
	vector.StrokeLine(screen, float32(x-r), float32(top), float32(x-r), float32(bottom), 1, clr, true)
	vector.StrokeLine(screen, float32(x+r), float32(top), float32(x+r), float32(bottom), 1, clr, true)
	vector.StrokeCircle(screen, float32(x), float32(top), float32(r), 1, clr, true)
	vector.StrokeCircle(screen, float32(x), float32(bottom), float32(r), 1, clr, true)
}

type viewTransform struct {
	camX, camY float64
	zoom       float64
	halfW      float64
	halfH      float64
}

func newViewTransform(w *ecs.World, camEntity ecs.Entity, screen *ebiten.Image) viewTransform {
	v := viewTransform{zoom: 1}
	if screen != nil {
		b := screen.Bounds()
		v.halfW = float64(b.Dx()) / 2
		v.halfH = float64(b.Dy()) / 2
	}
	if t, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind()); ok {
		v.camX = t.X
		v.camY = t.Y
	}
	if rig, ok := ecs.Get(w, camEntity, component.CameraRigComponent.Kind()); ok && rig.Zoom > 0 {
		v.zoom = rig.Zoom
	}
	return v
}

func (v viewTransform) toScreen(x, y float64) (float64, float64) {
	return (x-v.camX)*v.zoom + v.halfW, (y-v.camY)*v.zoom + v.halfH
}
