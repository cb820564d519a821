package entity

import (
	"errors"
	"fmt"

	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
	"github.com/milk9111/seethrough/prefabs"
)

var (
	ErrDuplicateObject = errors.New("entity: duplicate object name")
	ErrInvalidCollider = errors.New("entity: avatar capsule needs a positive radius")
)

// Scene holds the handles of a built scene. Unnamed objects are created but
// not listed.
type Scene struct {
	Player  ecs.Entity
	Camera  ecs.Entity
	Objects map[string]ecs.Entity
	// Meshes maps object names to their separate mesh entity, if any.
	Meshes map[string]ecs.Entity
}

// BuildScene populates w from spec. On error the entities created so far are
// left in the world.
func BuildScene(w *ecs.World, spec *prefabs.SceneSpec) (*Scene, error) {
	if spec == nil {
		return nil, errors.New("entity: nil scene spec")
	}
	scene := &Scene{
		Objects: make(map[string]ecs.Entity, len(spec.Objects)),
		Meshes:  make(map[string]ecs.Entity),
	}

	for _, obj := range spec.Objects {
		if _, dup := scene.Objects[obj.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateObject, obj.Name)
		}
		e, mesh, err := NewStaticObject(w, obj)
		if err != nil {
			return nil, err
		}
		if obj.Name == "" {
			continue
		}
		scene.Objects[obj.Name] = e
		if mesh != e {
			scene.Meshes[obj.Name] = mesh
		}
	}

	player, err := NewPlayer(w, spec.Avatar)
	if err != nil {
		return nil, err
	}
	scene.Player = player

	camera, err := NewCamera(w, spec.Camera)
	if err != nil {
		return nil, err
	}
	scene.Camera = camera

	return scene, nil
}

// NewStaticObject creates a piece of static geometry and returns it with the
// entity that holds its materials, which is the object itself unless the
// spec asks for a separate mesh.
func NewStaticObject(w *ecs.World, spec prefabs.ObjectSpec) (ecs.Entity, ecs.Entity, error) {
	layer, err := spec.CollisionLayer()
	if err != nil {
		return 0, 0, fmt.Errorf("object %s: %w", spec.Name, err)
	}

	obj := ecs.CreateEntity(w)
	if spec.Name != "" {
		if err := ecs.Add(w, obj, component.NameComponent.Kind(), &component.Name{Value: spec.Name}); err != nil {
			return 0, 0, fmt.Errorf("object %s: add name: %w", spec.Name, err)
		}
	}
	if len(spec.Tags) > 0 {
		tags := &component.Tags{Values: append([]string(nil), spec.Tags...)}
		if err := ecs.Add(w, obj, component.TagsComponent.Kind(), tags); err != nil {
			return 0, 0, fmt.Errorf("object %s: add tags: %w", spec.Name, err)
		}
	}
	if err := ecs.Add(w, obj, component.TransformComponent.Kind(), &component.Transform{X: spec.X, Y: spec.Y}); err != nil {
		return 0, 0, fmt.Errorf("object %s: add transform: %w", spec.Name, err)
	}
	if err := ecs.Add(w, obj, component.StaticBodyComponent.Kind(), &component.StaticBody{
		Width:  spec.Width,
		Height: spec.Height,
		Radius: spec.Radius,
	}); err != nil {
		return 0, 0, fmt.Errorf("object %s: add static body: %w", spec.Name, err)
	}
	if layer.Category != 0 {
		if err := ecs.Add(w, obj, component.CollisionLayerComponent.Kind(), &layer); err != nil {
			return 0, 0, fmt.Errorf("object %s: add collision layer: %w", spec.Name, err)
		}
	}

	if len(spec.Materials) == 0 {
		return obj, obj, nil
	}

	materials := make([]component.Material, 0, len(spec.Materials))
	for _, m := range spec.Materials {
		materials = append(materials, m.Material())
	}

	mesh := obj
	if spec.SeparateMesh {
		mesh = ecs.CreateEntity(w)
		if err := ecs.Add(w, obj, component.MeshLinkComponent.Kind(), &component.MeshLink{Mesh: uint64(mesh)}); err != nil {
			return 0, 0, fmt.Errorf("object %s: add mesh link: %w", spec.Name, err)
		}
	}
	if err := ecs.Add(w, mesh, component.MeshRendererComponent.Kind(), &component.MeshRenderer{Materials: materials}); err != nil {
		return 0, 0, fmt.Errorf("object %s: add mesh renderer: %w", spec.Name, err)
	}
	return obj, mesh, nil
}
