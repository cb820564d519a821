package system

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
	"github.com/milk9111/seethrough/prefabs"
)

const ignoreDispatchScript = `
__ignored = ignore(__object)
`

// ScriptIgnoreFilter asks a tengo script whether the camera sweep should pass
// through a static object. The script defines ignore(obj) where obj carries
// the object's name and tags. Answers are cached per entity until its name or
// tags change.
type ScriptIgnoreFilter struct {
	name     string
	compiled *tengo.Compiled

	decisions map[ecs.Entity]ignoreDecision
	ignored   []ecs.Entity
}

type ignoreDecision struct {
	key    string
	ignore bool
}

func NewScriptIgnoreFilter(name string, src []byte) (*ScriptIgnoreFilter, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + ignoreDispatchScript))
	_ = script.Add("__object", map[string]any{})
	_ = script.Add("__ignored", false)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("ignore script %s: %w", name, err)
	}
	return &ScriptIgnoreFilter{
		name:      name,
		compiled:  compiled,
		decisions: make(map[ecs.Entity]ignoreDecision),
	}, nil
}

// LoadScriptIgnoreFilter compiles a script from the prefabs scripts folder.
func LoadScriptIgnoreFilter(name string) (*ScriptIgnoreFilter, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("ignore script %s: %w", name, err)
	}
	return NewScriptIgnoreFilter(name, src)
}

func (f *ScriptIgnoreFilter) Name() string {
	if f == nil {
		return ""
	}
	return f.name
}

// Evaluate runs ignore(obj) for one object description.
func (f *ScriptIgnoreFilter) Evaluate(name string, tags []string) (bool, error) {
	values := make([]any, 0, len(tags))
	for _, tag := range tags {
		values = append(values, tag)
	}
	if err := f.compiled.Set("__object", map[string]any{
		"name": name,
		"tags": values,
	}); err != nil {
		return false, err
	}
	if err := f.compiled.Set("__ignored", false); err != nil {
		return false, err
	}
	if err := f.compiled.Run(); err != nil {
		return false, err
	}
	return f.compiled.Get("__ignored").Bool(), nil
}

// Refresh evaluates static objects that are new or were renamed or retagged,
// and forgets dead ones.
func (f *ScriptIgnoreFilter) Refresh(w *ecs.World) {
	if f == nil || w == nil {
		return
	}
	for e := range f.decisions {
		if !w.IsAlive(e) || !ecs.Has(w, e, component.StaticBodyComponent.Kind()) {
			delete(f.decisions, e)
		}
	}

	for _, e := range w.Query(component.StaticBodyComponent.Kind()) {
		var (
			name string
			tags []string
		)
		if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok {
			name = n.Value
		}
		if t, ok := ecs.Get(w, e, component.TagsComponent.Kind()); ok {
			tags = t.Values
		}
		key := name + "\x00" + strings.Join(tags, "\x00")
		if d, ok := f.decisions[e]; ok && d.key == key {
			continue
		}
		ignore, err := f.Evaluate(name, tags)
		if err != nil {
			log.Printf("ScriptIgnoreFilter: %s on %s: %v", f.name, e, err)
		}
		f.decisions[e] = ignoreDecision{key: key, ignore: ignore}
	}

	f.ignored = f.ignored[:0]
	for e, d := range f.decisions {
		if d.ignore {
			f.ignored = append(f.ignored, e)
		}
	}
	slices.Sort(f.ignored)
}

// Ignored implements occlusion.IgnoreFilter.
func (f *ScriptIgnoreFilter) Ignored() []ecs.Entity {
	if f == nil {
		return nil
	}
	return slices.Clone(f.ignored)
}
