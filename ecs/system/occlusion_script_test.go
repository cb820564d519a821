package system

import (
	"testing"

	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
	"github.com/stretchr/testify/require"
)

func TestBundledIgnoreScript(t *testing.T) {
	filter, err := LoadScriptIgnoreFilter("occlusion_ignore.tengo")
	require.NoError(t, err)

	tests := []struct {
		name    string
		object  string
		tags    []string
		ignored bool
	}{
		{"plain_wall", "wall", []string{"stone"}, false},
		{"untagged", "pillar", nil, false},
		{"trigger_tag", "wall", []string{"stone", "trigger"}, true},
		{"exempt_tag", "pillar", []string{"see_through_exempt"}, true},
		{"volume_prefix", "volume_spawn", nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := filter.Evaluate(tc.object, tc.tags)
			require.NoError(t, err)
			require.Equal(t, tc.ignored, got)
		})
	}
}

func TestScriptIgnoreFilterCompileError(t *testing.T) {
	_, err := NewScriptIgnoreFilter("broken", []byte(`ignore := func(obj) {`))
	require.Error(t, err)

	_, err = LoadScriptIgnoreFilter("does_not_exist.tengo")
	require.Error(t, err)
}

func TestScriptIgnoreFilterRefresh(t *testing.T) {
	filter, err := NewScriptIgnoreFilter("test", []byte(`
ignore := func(obj) {
	for _, tag in obj.tags {
		if tag == "glass" { return true }
	}
	return false
}
`))
	require.NoError(t, err)

	w := ecs.NewWorld()
	window := addBox(t, w, 0, 0, 10, 10, boxOpts{name: "window", tags: []string{"glass"}})
	addBox(t, w, 20, 0, 10, 10, boxOpts{name: "wall", tags: []string{"stone"}})

	filter.Refresh(w)
	require.Equal(t, []ecs.Entity{window}, filter.Ignored())

	// Returned slices are copies.
	got := filter.Ignored()
	got[0] = 0
	require.Equal(t, []ecs.Entity{window}, filter.Ignored())

	ecs.DestroyEntity(w, window)
	filter.Refresh(w)
	require.Empty(t, filter.Ignored())
	require.Len(t, filter.decisions, 1)
}

func TestScriptIgnoreFilterReevaluatesRetaggedObjects(t *testing.T) {
	filter, err := NewScriptIgnoreFilter("test", []byte(`
ignore := func(obj) {
	if obj.name == "ghost" { return true }
	for _, tag in obj.tags {
		if tag == "glass" { return true }
	}
	return false
}
`))
	require.NoError(t, err)

	w := ecs.NewWorld()
	wall := addBox(t, w, 0, 0, 10, 10, boxOpts{name: "wall", tags: []string{"stone"}})
	filter.Refresh(w)
	require.Empty(t, filter.Ignored())

	tags, ok := ecs.Get(w, wall, component.TagsComponent.Kind())
	require.True(t, ok)
	tags.Values = []string{"glass"}
	filter.Refresh(w)
	require.Equal(t, []ecs.Entity{wall}, filter.Ignored())

	tags.Values = []string{"stone"}
	filter.Refresh(w)
	require.Empty(t, filter.Ignored())

	name, ok := ecs.Get(w, wall, component.NameComponent.Kind())
	require.True(t, ok)
	name.Value = "ghost"
	filter.Refresh(w)
	require.Equal(t, []ecs.Entity{wall}, filter.Ignored())
}

func TestScriptIgnoreFilterRuntimeErrorKeepsObject(t *testing.T) {
	filter, err := NewScriptIgnoreFilter("test", []byte(`
ignore := func(obj) {
	if obj.name == "boom" { return obj.missing() }
	return false
}
`))
	require.NoError(t, err)

	_, err = filter.Evaluate("boom", nil)
	require.Error(t, err)

	w := ecs.NewWorld()
	addBox(t, w, 0, 0, 10, 10, boxOpts{name: "boom"})
	filter.Refresh(w)
	require.Empty(t, filter.Ignored())
}
