package component

// AvatarCollider is the avatar's upright collision capsule. HalfHeight
// includes the hemispherical caps, so it is never smaller than Radius.
type AvatarCollider struct {
	Radius     float64
	HalfHeight float64
	// Scale multiplies both dimensions; zero means 1.
	Scale float64
}

// ScaledRadius returns Radius * Scale.
func (c AvatarCollider) ScaledRadius() float64 {
	return c.Radius * c.scale()
}

// ScaledHalfHeight returns max(HalfHeight, Radius) * Scale.
func (c AvatarCollider) ScaledHalfHeight() float64 {
	h := c.HalfHeight
	if h < c.Radius {
		h = c.Radius
	}
	return h * c.scale()
}

func (c AvatarCollider) scale() float64 {
	if c.Scale == 0 {
		return 1
	}
	return c.Scale
}

var AvatarColliderComponent = NewComponent[AvatarCollider]()
