package prefabs

import (
	"errors"
	"image/color"
	"testing"

	"github.com/milk9111/seethrough/ecs/component"
	"github.com/milk9111/seethrough/occlusion"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBundledOcclusionSpec(t *testing.T) {
	spec, err := LoadOcclusionSpec()
	require.NoError(t, err)

	cfg := spec.Config()
	require.True(t, cfg.Enabled)
	require.True(t, cfg.FadeConfigured())
	require.Equal(t, "see_through", cfg.Fade.Name)
	require.Equal(t, 1.0, cfg.TraceScale)
	require.Equal(t, "occlusion_ignore.tengo", spec.IgnoreScript)

	_, err = LoadScript(spec.IgnoreScript)
	require.NoError(t, err)
}

func TestBundledSceneSpec(t *testing.T) {
	spec, err := LoadSceneSpec("")
	require.NoError(t, err)
	require.NotEmpty(t, spec.Objects)
	require.Positive(t, spec.Avatar.Radius)
	for _, obj := range spec.Objects {
		_, err := obj.CollisionLayer()
		require.NoError(t, err, obj.Name)
	}
}

func TestOcclusionSpecConfig(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want occlusion.Config
	}{
		{
			name: "empty_uses_defaults",
			yaml: `{}`,
			want: occlusion.DefaultConfig(),
		},
		{
			name: "full",
			yaml: `
enabled: false
trace_scale: 2.5
debug_traces: false
debug_trace_frames: 60
debug_log: true
fade_material:
  name: ghost
  color: "#102030"
  alpha: 0.25
`,
			want: occlusion.Config{
				Enabled:          false,
				Fade:             component.Material{Name: "ghost", Tint: color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, Alpha: 0.25},
				TraceScale:       2.5,
				DebugTraces:      false,
				DebugTraceFrames: 60,
				DebugLog:         true,
			},
		},
		{
			name: "scale_clamped",
			yaml: `trace_scale: 50`,
			want: func() occlusion.Config {
				c := occlusion.DefaultConfig()
				c.TraceScale = occlusion.MaxTraceScale
				return c
			}(),
		},
		{
			name: "material_defaults",
			yaml: `fade_material: {name: plain}`,
			want: func() occlusion.Config {
				c := occlusion.DefaultConfig()
				c.Fade = component.Material{Name: "plain", Tint: color.RGBA{R: 255, G: 255, B: 255, A: 255}, Alpha: 1}
				return c
			}(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var spec OcclusionSpec
			require.NoError(t, yaml.Unmarshal([]byte(tc.yaml), &spec))
			require.Equal(t, tc.want, spec.Config())
		})
	}
}

func TestYAMLColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: `"#ff8000"`, want: color.RGBA{R: 0xff, G: 0x80, A: 0xff}},
		{in: `"00000080"`, want: color.RGBA{A: 0x80}},
		{in: `"#fff"`, wantErr: true},
		{in: `"#gg0000"`, wantErr: true},
		{in: `[1, 2]`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			var c YAMLColor
			err := yaml.Unmarshal([]byte(tc.in), &c)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, c.RGBA)
		})
	}
}

func TestObjectCollisionLayer(t *testing.T) {
	layer, err := ObjectSpec{Categories: []string{"world_static", " Camera_Blocker "}}.CollisionLayer()
	require.NoError(t, err)
	require.Equal(t, component.CategoryWorldStatic|component.CategoryCameraBlocker, layer.Category)

	layer, err = ObjectSpec{}.CollisionLayer()
	require.NoError(t, err)
	require.Zero(t, layer.Category)

	_, err = ObjectSpec{Categories: []string{"water"}}.CollisionLayer()
	require.True(t, errors.Is(err, ErrUnknownCategory))
}

func TestCleanScriptPath(t *testing.T) {
	for _, in := range []string{"a.tengo", "scripts/a.tengo", "prefabs/a.tengo", "prefabs/scripts/a.tengo"} {
		require.Equal(t, "scripts/a.tengo", cleanScriptPath(in), in)
	}
}

func TestLoadMissingSpec(t *testing.T) {
	_, err := LoadSpec[SceneSpec]("nope.yaml")
	require.Error(t, err)
}
