package component

// CameraRig is a follow camera on a spring arm. The arm starts at the target
// and ends at target + (OffsetX, OffsetY).
type CameraRig struct {
	TargetName string
	OffsetX    float64
	OffsetY    float64
	Zoom       float64
	// ProbeRadius is the radius of the arm's own collision probe.
	ProbeRadius float64
	// CollisionTest enables the arm pulling itself in front of geometry.
	CollisionTest bool
	// Pulled is set by the camera system when the arm was shortened this tick.
	Pulled bool
}

var CameraRigComponent = NewComponent[CameraRig]()
