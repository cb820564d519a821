package component

// StaticBody is immovable world geometry. Radius > 0 makes it a circle,
// otherwise it is a Width x Height box centred on the transform.
type StaticBody struct {
	Width  float64
	Height float64
	Radius float64
}

var StaticBodyComponent = NewComponent[StaticBody]()
