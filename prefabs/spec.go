package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/seethrough/ecs/component"
	"github.com/milk9111/seethrough/occlusion"
	"gopkg.in/yaml.v3"
)

const (
	OcclusionFile = "occlusion.yaml"
	SceneFile     = "scene.yaml"
)

var ErrUnknownCategory = errors.New("prefabs: unknown collision category")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// OcclusionSpec is the on-disk form of occlusion.Config.
type OcclusionSpec struct {
	Enabled          *bool         `yaml:"enabled"`
	FadeMaterial     *MaterialSpec `yaml:"fade_material"`
	TraceScale       float64       `yaml:"trace_scale"`
	DebugTraces      *bool         `yaml:"debug_traces"`
	DebugTraceFrames int           `yaml:"debug_trace_frames"`
	DebugLog         bool          `yaml:"debug_log"`
	IgnoreScript     string        `yaml:"ignore_script"`
}

func LoadOcclusionSpec() (*OcclusionSpec, error) {
	spec, err := LoadSpec[OcclusionSpec](OcclusionFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Config converts the spec, starting from occlusion.DefaultConfig for
// anything left out.
func (s *OcclusionSpec) Config() occlusion.Config {
	cfg := occlusion.DefaultConfig()
	if s == nil {
		return cfg
	}
	if s.Enabled != nil {
		cfg.Enabled = *s.Enabled
	}
	if s.FadeMaterial != nil {
		cfg.Fade = s.FadeMaterial.Material()
	}
	if s.TraceScale != 0 {
		cfg.TraceScale = s.TraceScale
	}
	if s.DebugTraces != nil {
		cfg.DebugTraces = *s.DebugTraces
	}
	if s.DebugTraceFrames > 0 {
		cfg.DebugTraceFrames = s.DebugTraceFrames
	}
	cfg.DebugLog = s.DebugLog
	return cfg.Normalized()
}

type MaterialSpec struct {
	Name  string    `yaml:"name"`
	Color YAMLColor `yaml:"color"`
	// Alpha defaults to fully opaque.
	Alpha *float32 `yaml:"alpha"`
}

func (m MaterialSpec) Material() component.Material {
	alpha := float32(1)
	if m.Alpha != nil {
		alpha = *m.Alpha
	}
	tint := m.Color.RGBA
	if !m.Color.set {
		tint = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return component.Material{Name: m.Name, Tint: tint, Alpha: alpha}
}

type SceneSpec struct {
	Name    string       `yaml:"name"`
	Avatar  AvatarSpec   `yaml:"avatar"`
	Camera  CameraSpec   `yaml:"camera"`
	Objects []ObjectSpec `yaml:"objects"`
}

func LoadSceneSpec(filename string) (*SceneSpec, error) {
	if filename == "" {
		filename = SceneFile
	}
	spec, err := LoadSpec[SceneSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type AvatarSpec struct {
	Name       string  `yaml:"name"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Radius     float64 `yaml:"radius"`
	HalfHeight float64 `yaml:"half_height"`
	Scale      float64 `yaml:"scale"`
	MoveSpeed  float64 `yaml:"move_speed"`
}

type CameraSpec struct {
	Target        string  `yaml:"target"`
	OffsetX       float64 `yaml:"offset_x"`
	OffsetY       float64 `yaml:"offset_y"`
	Zoom          float64 `yaml:"zoom"`
	ProbeRadius   float64 `yaml:"probe_radius"`
	CollisionTest bool    `yaml:"collision_test"`
}

// ObjectSpec is one piece of static level geometry. A radius makes it a
// circle, otherwise it is a box.
type ObjectSpec struct {
	Name   string   `yaml:"name"`
	X      float64  `yaml:"x"`
	Y      float64  `yaml:"y"`
	Width  float64  `yaml:"width"`
	Height float64  `yaml:"height"`
	Radius float64  `yaml:"radius"`
	Tags   []string `yaml:"tags"`
	// Categories defaults to world_static.
	Categories []string       `yaml:"categories"`
	Materials  []MaterialSpec `yaml:"materials"`
	// SeparateMesh puts the materials on their own entity linked from the
	// object instead of on the object itself.
	SeparateMesh bool `yaml:"separate_mesh"`
}

// CollisionLayer resolves the category names into component bits.
func (o ObjectSpec) CollisionLayer() (component.CollisionLayer, error) {
	var layer component.CollisionLayer
	for _, name := range o.Categories {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "world_static":
			layer.Category |= component.CategoryWorldStatic
		case "camera_blocker":
			layer.Category |= component.CategoryCameraBlocker
		default:
			return layer, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
		}
	}
	return layer, nil
}

type YAMLColor struct {
	color.RGBA
	set bool
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.RGBA = color.RGBA{R: r, G: g, B: b, A: a}
	c.set = true
	return nil
}
