package component

type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()

// Tags are free-form labels read by the occlusion ignore script.
type Tags struct {
	Values []string
}

var TagsComponent = NewComponent[Tags]()
