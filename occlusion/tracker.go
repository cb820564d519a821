package occlusion

import (
	"errors"
	"log"
	"slices"

	"github.com/milk9111/seethrough/ecs"
	"github.com/milk9111/seethrough/ecs/component"
)

var (
	ErrInvalidObject   = errors.New("occlusion: object is not alive")
	ErrNoRenderable    = errors.New("occlusion: object has no renderable")
	ErrNoMaterialSlots = errors.New("occlusion: renderable has no material slots")
)

// TrackedObject is one object that has been hit by a sweep this session.
type TrackedObject struct {
	Object     ecs.Entity
	Renderable ecs.Entity
	// Saved holds the pre-fade material of every slot, in slot order.
	Saved    []component.Material
	Occluded bool
}

// Tracker fades the objects standing between the camera and the avatar and
// restores them once they stop blocking. It is not safe for concurrent use;
// call SyncOccludedObjects once per tick from the game loop.
type Tracker struct {
	cfg      Config
	sweeper  Sweeper
	surfaces Surfaces
	camera   CameraRig
	avatar   AvatarCollider
	ignore   IgnoreFilter
	listener Listener
	logger   Logger

	tracked map[ecs.Entity]*TrackedObject
}

type Option func(*Tracker)

func WithLogger(l Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

func WithIgnoreFilter(f IgnoreFilter) Option {
	return func(t *Tracker) { t.ignore = f }
}

func WithListener(l Listener) Option {
	return func(t *Tracker) { t.listener = l }
}

func NewTracker(cfg Config, sweeper Sweeper, surfaces Surfaces, opts ...Option) *Tracker {
	t := &Tracker{
		cfg:      cfg.Normalized(),
		sweeper:  sweeper,
		surfaces: surfaces,
		logger:   log.Default(),
		tracked:  make(map[ecs.Entity]*TrackedObject),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Bind sets the camera and avatar the tracker works with. Either may be nil,
// which keeps the tracker idle.
func (t *Tracker) Bind(camera CameraRig, avatar AvatarCollider) {
	t.camera = camera
	t.avatar = avatar
}

func (t *Tracker) Unbind() {
	t.camera = nil
	t.avatar = nil
}

// SetIgnoreFilter replaces the filter consulted before every sweep.
func (t *Tracker) SetIgnoreFilter(f IgnoreFilter) {
	t.ignore = f
}

func (t *Tracker) Config() Config {
	return t.cfg
}

// SetConfig swaps the configuration. Disabling occlusion or clearing the fade
// material restores every faded object; a new fade material is applied to
// the objects that are currently faded.
func (t *Tracker) SetConfig(cfg Config) {
	prev := t.cfg
	t.cfg = cfg.Normalized()

	if !t.cfg.Enabled || !t.cfg.FadeConfigured() {
		t.ForceShowAll()
		return
	}
	if prev.Fade == t.cfg.Fade {
		return
	}
	for _, e := range t.keys() {
		if entry := t.tracked[e]; entry.Occluded && t.surfaces.IsValid(entry.Renderable) {
			t.applyFade(entry)
		}
	}
}

// ShouldCheckOcclusion reports whether a sync would do anything.
func (t *Tracker) ShouldCheckOcclusion() bool {
	return t.cfg.Enabled && t.cfg.FadeConfigured() &&
		t.camera != nil && t.avatar != nil &&
		t.sweeper != nil && t.surfaces != nil
}

// SyncOccludedObjects sweeps from the camera to the avatar and reconciles the
// faded set with what the sweep hit.
func (t *Tracker) SyncOccludedObjects() {
	if !t.ShouldCheckOcclusion() {
		return
	}

	// The rig already moved in front of the geometry, so nothing between it
	// and the avatar is blocking.
	if t.camera.AvoidingCollision() {
		t.ForceShowAll()
		return
	}

	hits := t.sweeper.SweepCapsule(SweepRequest{
		Start:       t.camera.CameraPosition(),
		End:         t.avatar.AvatarPosition(),
		Radius:      t.avatar.CapsuleRadius() * t.cfg.TraceScale,
		HalfHeight:  t.avatar.CapsuleHalfHeight() * t.cfg.TraceScale,
		Ignore:      t.ignored(),
		Debug:       t.cfg.DebugTraces,
		DebugFrames: t.cfg.DebugTraceFrames,
	})
	if len(hits) == 0 {
		t.ForceShowAll()
		return
	}

	justOccluded := make(map[ecs.Entity]struct{}, len(hits))
	for _, hit := range hits {
		if _, seen := justOccluded[hit.Object]; seen {
			continue
		}
		justOccluded[hit.Object] = struct{}{}
		if _, err := t.HideOccludedObject(hit.Object); err != nil {
			t.logger.Printf("occlusion: skipping %s: %v", t.name(hit.Object), err)
		}
	}

	for _, e := range t.keys() {
		entry, ok := t.tracked[e]
		if !ok || !entry.Occluded {
			continue
		}
		if _, hit := justOccluded[e]; hit {
			continue
		}
		t.debugf("occlusion: %s was occluded, but it's not occluded anymore with the new hits", t.name(e))
		t.ShowOccludedObject(entry)
	}
}

// HideOccludedObject fades e. It returns false without touching anything when
// e is already faded. The saved materials of a known object are reused, so
// they always describe the object before its first fade, unless its
// renderable died or was replaced; then the entry is captured again.
func (t *Tracker) HideOccludedObject(e ecs.Entity) (bool, error) {
	existing, ok := t.tracked[e]
	if ok && t.current(existing) {
		if existing.Occluded {
			t.debugf("occlusion: %s was already occluded, ignoring", t.name(e))
			return false, nil
		}
		existing.Occluded = true
		t.applyFade(existing)
		t.debugf("occlusion: %s exists, but was not occluded, occluding it now", t.name(e))
		t.notify(e, true)
		return true, nil
	}
	if ok {
		t.drop(existing)
	}

	if !t.surfaces.IsValid(e) {
		return false, ErrInvalidObject
	}
	mesh, found := t.surfaces.ResolveRenderable(e)
	if !found || !t.surfaces.IsValid(mesh) {
		return false, ErrNoRenderable
	}
	saved, err := t.capture(mesh)
	if err != nil {
		return false, err
	}

	entry := &TrackedObject{
		Object:     e,
		Renderable: mesh,
		Saved:      saved,
		Occluded:   true,
	}
	t.tracked[e] = entry
	t.applyFade(entry)
	t.debugf("occlusion: %s was not tracked, creating and occluding it now", t.name(e))
	t.notify(e, true)
	return true, nil
}

// ShowOccludedObject restores the saved materials of entry. Entries whose
// object died are dropped from tracking.
func (t *Tracker) ShowOccludedObject(entry *TrackedObject) {
	if entry == nil {
		return
	}
	if !t.surfaces.IsValid(entry.Object) {
		delete(t.tracked, entry.Object)
	}

	entry.Occluded = false
	if t.surfaces.IsValid(entry.Renderable) && t.occludedSharing(entry) == nil {
		for slot, m := range entry.Saved {
			t.surfaces.SetMaterial(entry.Renderable, slot, m)
		}
	}
	t.notify(entry.Object, false)
}

// ForceShowAll restores every faded object.
func (t *Tracker) ForceShowAll() {
	for _, e := range t.keys() {
		entry, ok := t.tracked[e]
		if !ok || !entry.Occluded {
			continue
		}
		t.ShowOccludedObject(entry)
		t.debugf("occlusion: %s was occluded, force to show again", t.name(e))
	}
}

// Entry returns the live tracking entry for e, or nil.
func (t *Tracker) Entry(e ecs.Entity) *TrackedObject {
	return t.tracked[e]
}

// Tracked returns a copy of every entry ordered by handle.
func (t *Tracker) Tracked() []TrackedObject {
	out := make([]TrackedObject, 0, len(t.tracked))
	for _, e := range t.keys() {
		entry := *t.tracked[e]
		entry.Saved = slices.Clone(entry.Saved)
		out = append(out, entry)
	}
	return out
}

// OccludedCount returns how many objects are currently faded.
func (t *Tracker) OccludedCount() int {
	n := 0
	for _, entry := range t.tracked {
		if entry.Occluded {
			n++
		}
	}
	return n
}

func (t *Tracker) capture(mesh ecs.Entity) ([]component.Material, error) {
	// A mesh shared with an object that is already faded shows the fade
	// material, so its real materials come from that object's entry.
	if other := t.occludedSharing(&TrackedObject{Renderable: mesh}); other != nil {
		return slices.Clone(other.Saved), nil
	}

	n := t.surfaces.NumMaterials(mesh)
	if n <= 0 {
		return nil, ErrNoMaterialSlots
	}
	saved := make([]component.Material, 0, n)
	for slot := 0; slot < n; slot++ {
		m, ok := t.surfaces.Material(mesh, slot)
		if !ok {
			return nil, ErrNoMaterialSlots
		}
		saved = append(saved, m)
	}
	return saved, nil
}

// current reports whether entry still describes the object's live renderable.
func (t *Tracker) current(entry *TrackedObject) bool {
	if !t.surfaces.IsValid(entry.Object) || !t.surfaces.IsValid(entry.Renderable) {
		return false
	}
	mesh, found := t.surfaces.ResolveRenderable(entry.Object)
	return found && mesh == entry.Renderable
}

// drop forgets a stale entry. A renderable that is still alive but no longer
// linked gets its saved materials back first.
func (t *Tracker) drop(entry *TrackedObject) {
	delete(t.tracked, entry.Object)
	if entry.Occluded && t.surfaces.IsValid(entry.Renderable) && t.occludedSharing(entry) == nil {
		for slot, m := range entry.Saved {
			t.surfaces.SetMaterial(entry.Renderable, slot, m)
		}
	}
	if entry.Occluded {
		entry.Occluded = false
		t.notify(entry.Object, false)
	}
	t.debugf("occlusion: %s renderable changed, capturing it again", t.name(entry.Object))
}

func (t *Tracker) applyFade(entry *TrackedObject) {
	n := t.surfaces.NumMaterials(entry.Renderable)
	for slot := 0; slot < n; slot++ {
		t.surfaces.SetMaterial(entry.Renderable, slot, t.cfg.Fade)
	}
}

// occludedSharing returns another faded entry using the same renderable.
func (t *Tracker) occludedSharing(entry *TrackedObject) *TrackedObject {
	for _, other := range t.tracked {
		if other != entry && other.Occluded && other.Object != entry.Object && other.Renderable == entry.Renderable {
			return other
		}
	}
	return nil
}

func (t *Tracker) ignored() []ecs.Entity {
	var out []ecs.Entity
	if t.ignore != nil {
		out = append(out, t.ignore.Ignored()...)
	}
	if self := t.avatar.Entity(); self.Valid() {
		out = append(out, self)
	}
	return out
}

func (t *Tracker) keys() []ecs.Entity {
	keys := make([]ecs.Entity, 0, len(t.tracked))
	for e := range t.tracked {
		keys = append(keys, e)
	}
	slices.Sort(keys)
	return keys
}

func (t *Tracker) notify(e ecs.Entity, occluded bool) {
	if t.listener == nil {
		return
	}
	if occluded {
		t.listener.ObjectOccluded(e)
		return
	}
	t.listener.ObjectRestored(e)
}

func (t *Tracker) name(e ecs.Entity) string {
	if n, ok := t.surfaces.(Namer); ok {
		if name := n.Name(e); name != "" {
			return name
		}
	}
	return "entity " + e.String()
}

func (t *Tracker) debugf(format string, args ...any) {
	if t.cfg.DebugLog {
		t.logger.Printf(format, args...)
	}
}
