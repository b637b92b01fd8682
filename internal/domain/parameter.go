package domain

// Parameter is any settable/gettable instrument knob: a DAC channel, a
// virtual gate, a scaled read-out, or a remote node. The scan engine is
// polymorphic over this capability and never inspects the concrete type.
type Parameter interface {
	Name() string
	Set(value float64) error
	Get() (float64, error)
}

// Instrument groups named parameters under one device.
type Instrument interface {
	Name() string
	Parameter(name string) (Parameter, error)
}
