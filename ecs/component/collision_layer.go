package component

// Collision categories used by shape filters.
const (
	CategoryWorldStatic uint32 = 1 << iota
	CategoryCameraBlocker
)

// CollisionLayer allows entities to declare a collision category and mask
// so queries can selectively include or skip groups of objects.
type CollisionLayer struct {
	// Category is a bitmask of this entity's collision category. If zero,
	// the physics system will treat it as CategoryWorldStatic.
	Category uint32 `yaml:"category,omitempty"`
	// Mask is a bitmask of categories this entity should collide with. If
	// zero, the physics system will treat it as all-bits set (collide with all).
	Mask uint32 `yaml:"mask,omitempty"`
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()
