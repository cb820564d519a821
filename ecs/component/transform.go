package component

// Transform is a world position. Y grows upwards; the capsule axis and box
// heights are measured along it.
type Transform struct {
	X float64
	Y float64
}

var TransformComponent = NewComponent[Transform]()
