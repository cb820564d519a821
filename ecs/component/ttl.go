package component

// TTL destroys its entity after Frames ticks. Debug sweep shapes carry one.
type TTL struct {
	Frames int
}

var TTLComponent = NewComponent[TTL]()
