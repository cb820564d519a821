package entity

import (
	"errors"
	"testing"

	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
	"github.com/milk9111/seethrough/prefabs"
	"github.com/stretchr/testify/require"
)

func TestBuildBundledScene(t *testing.T) {
	spec, err := prefabs.LoadSceneSpec("")
	require.NoError(t, err)

	w := ecs.NewWorld()
	scene, err := BuildScene(w, spec)
	require.NoError(t, err)

	require.True(t, ecs.Has(w, scene.Player, component.AvatarColliderComponent.Kind()))
	require.True(t, ecs.Has(w, scene.Player, component.PlayerTagComponent.Kind()))
	require.True(t, ecs.Has(w, scene.Camera, component.CameraRigComponent.Kind()))
	require.Len(t, scene.Objects, len(spec.Objects))
	require.Len(t, w.Query(component.StaticBodyComponent.Kind()), len(spec.Objects))
}

func TestNewStaticObject(t *testing.T) {
	tests := []struct {
		name         string
		spec         prefabs.ObjectSpec
		separateMesh bool
		slots        int
		category     uint32
	}{
		{
			name:  "own_mesh",
			spec:  prefabs.ObjectSpec{Name: "wall", Width: 10, Height: 20, Materials: []prefabs.MaterialSpec{{Name: "a"}, {Name: "b"}}},
			slots: 2,
		},
		{
			name:         "separate_mesh",
			spec:         prefabs.ObjectSpec{Name: "hedge", Radius: 5, SeparateMesh: true, Materials: []prefabs.MaterialSpec{{Name: "leaves"}}},
			separateMesh: true,
			slots:        1,
		},
		{
			name:     "blocker_without_materials",
			spec:     prefabs.ObjectSpec{Name: "stop", Width: 5, Height: 5, Categories: []string{"camera_blocker"}},
			category: component.CategoryCameraBlocker,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			obj, mesh, err := NewStaticObject(w, tc.spec)
			require.NoError(t, err)

			name, ok := ecs.Get(w, obj, component.NameComponent.Kind())
			require.True(t, ok)
			require.Equal(t, tc.spec.Name, name.Value)

			body, ok := ecs.Get(w, obj, component.StaticBodyComponent.Kind())
			require.True(t, ok)
			require.Equal(t, tc.spec.Radius, body.Radius)

			layer, hasLayer := ecs.Get(w, obj, component.CollisionLayerComponent.Kind())
			if tc.category == 0 {
				require.False(t, hasLayer)
			} else {
				require.Equal(t, tc.category, layer.Category)
			}

			if tc.separateMesh {
				require.NotEqual(t, obj, mesh)
				link, ok := ecs.Get(w, obj, component.MeshLinkComponent.Kind())
				require.True(t, ok)
				require.Equal(t, uint64(mesh), link.Mesh)
			} else {
				require.Equal(t, obj, mesh)
			}

			mr, ok := ecs.Get(w, mesh, component.MeshRendererComponent.Kind())
			if tc.slots == 0 {
				require.False(t, ok)
				return
			}
			require.True(t, ok)
			require.Len(t, mr.Materials, tc.slots)
			require.Equal(t, float32(1), mr.Materials[0].Alpha)
		})
	}
}

func TestBuildSceneErrors(t *testing.T) {
	w := ecs.NewWorld()
	_, err := BuildScene(w, &prefabs.SceneSpec{Objects: []prefabs.ObjectSpec{{Name: "a"}, {Name: "a"}}})
	require.True(t, errors.Is(err, ErrDuplicateObject))

	_, err = BuildScene(w, &prefabs.SceneSpec{Objects: []prefabs.ObjectSpec{{Name: "b", Categories: []string{"lava"}}}})
	require.True(t, errors.Is(err, prefabs.ErrUnknownCategory))

	_, err = BuildScene(w, nil)
	require.Error(t, err)
}

func TestNewPlayerRejectsFlatCapsule(t *testing.T) {
	tests := []struct {
		name string
		spec prefabs.AvatarSpec
		ok   bool
	}{
		{"zero_radius", prefabs.AvatarSpec{HalfHeight: 40}, false},
		{"negative_radius", prefabs.AvatarSpec{Radius: -1, HalfHeight: 40}, false},
		{"negative_half_height", prefabs.AvatarSpec{Radius: 10, HalfHeight: -1}, false},
		{"sphere", prefabs.AvatarSpec{Radius: 10}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e, err := NewPlayer(w, tc.spec)
			if !tc.ok {
				require.ErrorIs(t, err, ErrInvalidCollider)
				require.Empty(t, w.Query(component.PlayerTagComponent.Kind()))
				return
			}
			require.NoError(t, err)
			require.True(t, ecs.IsAlive(w, e))
		})
	}
}
