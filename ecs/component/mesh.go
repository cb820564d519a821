package component

// MeshRenderer holds the ordered material slots of a renderable mesh.
type MeshRenderer struct {
	Materials []Material
}

var MeshRendererComponent = NewComponent[MeshRenderer]()

// MeshLink points an object at a separate entity that carries its mesh.
type MeshLink struct {
	Mesh uint64
}

var MeshLinkComponent = NewComponent[MeshLink]()
