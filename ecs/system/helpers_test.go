package system

import (
	"image/color"
	"testing"

	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
	"github.com/stretchr/testify/require"
)

var (
	red  = component.Material{Name: "red", Tint: color.RGBA{R: 255, A: 255}, Alpha: 1}
	blue = component.Material{Name: "blue", Tint: color.RGBA{B: 255, A: 255}, Alpha: 1}
	fade = component.Material{Name: "fade", Tint: color.RGBA{R: 200, G: 200, B: 255, A: 255}, Alpha: 0.3}
)

type boxOpts struct {
	name      string
	tags      []string
	category  uint32
	materials []component.Material
}

func addBox(t *testing.T, w *ecs.World, x, y, width, height float64, opts boxOpts) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}))
	require.NoError(t, ecs.Add(w, e, component.StaticBodyComponent.Kind(), &component.StaticBody{Width: width, Height: height}))
	if opts.name != "" {
		require.NoError(t, ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: opts.name}))
	}
	if len(opts.tags) > 0 {
		require.NoError(t, ecs.Add(w, e, component.TagsComponent.Kind(), &component.Tags{Values: opts.tags}))
	}
	if opts.category != 0 {
		require.NoError(t, ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{Category: opts.category}))
	}
	if len(opts.materials) > 0 {
		materials := append([]component.Material(nil), opts.materials...)
		require.NoError(t, ecs.Add(w, e, component.MeshRendererComponent.Kind(), &component.MeshRenderer{Materials: materials}))
	}
	return e
}

func addAvatar(t *testing.T, w *ecs.World, x, y, radius, halfHeight float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}))
	require.NoError(t, ecs.Add(w, e, component.AvatarColliderComponent.Kind(), &component.AvatarCollider{Radius: radius, HalfHeight: halfHeight}))
	return e
}

func addCamera(t *testing.T, w *ecs.World, rig component.CameraRig) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.CameraRigComponent.Kind(), &rig))
	return e
}

func materialsOf(t *testing.T, w *ecs.World, e ecs.Entity) []component.Material {
	t.Helper()
	mr, ok := ecs.Get(w, e, component.MeshRendererComponent.Kind())
	require.True(t, ok, "entity %s has no mesh renderer", e)
	return mr.Materials
}
