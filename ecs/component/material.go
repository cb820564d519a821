package component

import "image/color"

// Material is the appearance assigned to one mesh slot. Two materials are the
// same appearance when they compare equal.
type Material struct {
	Name  string
	Tint  color.RGBA
	Alpha float32
}
