package domain

import (
	"fmt"
	"strings"
	"time"
)

// AxisParam is the tagged variant describing which knob a scan axis
// moves. Resolution to concrete Parameter handles is a single dispatch
// over this variant, performed by the scan resolver.
type AxisParam interface {
	axisParam()
	String() string
}

// ParamHandle wraps a parameter the caller already resolved.
type ParamHandle struct {
	Param Parameter
}

// ParamNamed names a parameter on an instrument registered under
// Instrument in the station registry.
type ParamNamed struct {
	Instrument string
	Name       string
}

// ParamOn names a parameter on an instrument handle the caller owns.
type ParamOn struct {
	Instrument Instrument
	Name       string
}

// ParamGate names a logical gate resolved against the station gate set.
type ParamGate struct {
	Gate string
}

// VectorTerm is one physical channel of a vector axis. Setting the
// logical axis to v drives the channel to Coeff*v + Offset.
type VectorTerm struct {
	Gate   string
	Coeff  float64
	Offset float64
}

// ParamVector is a logical axis advancing several channels
// proportionally. Terms are ordered; the first term is the
// representative channel used for read-back.
type ParamVector struct {
	Terms []VectorTerm
}

func (ParamHandle) axisParam() {}
func (ParamNamed) axisParam()  {}
func (ParamOn) axisParam()     {}
func (ParamGate) axisParam()   {}
func (ParamVector) axisParam() {}

func (p ParamHandle) String() string {
	if p.Param == nil {
		return "<nil>"
	}
	return p.Param.Name()
}

func (p ParamNamed) String() string { return p.Instrument + "." + p.Name }

func (p ParamOn) String() string {
	if p.Instrument == nil {
		return "<nil>." + p.Name
	}
	return p.Instrument.Name() + "." + p.Name
}

func (p ParamGate) String() string { return p.Gate }

func (p ParamVector) String() string {
	parts := make([]string, len(p.Terms))
	for i, t := range p.Terms {
		parts[i] = fmt.Sprintf("%g*%s", t.Coeff, t.Gate)
	}
	return "vec(" + strings.Join(parts, "+") + ")"
}

// ParseParamRef turns a textual axis reference into an AxisParam: a
// dotted "instrument.parameter" string becomes a registry lookup, a
// bare name becomes a gate lookup.
func ParseParamRef(s string) AxisParam {
	if i := strings.Index(s, "."); i >= 0 {
		return ParamNamed{Instrument: s[:i], Name: s[i+1:]}
	}
	return ParamGate{Gate: s}
}

// AxisSpec describes one scan axis. Exactly one of End/Range is
// authoritative: a nonzero Range wins and reinterprets Start as the
// midpoint, so the axis covers [Start-Range/2, Start+Range/2]. A
// negative Range simply reverses direction.
type AxisSpec struct {
	Param AxisParam
	Start float64
	End   float64
	Range float64
	// Step carries the sign of the intended sweep direction.
	Step float64
	// Wait is the settle time after each set on this axis.
	Wait time.Duration
	// Period is the drive waveform period for hardware-triggered scans.
	Period time.Duration
}

// Bounds returns the effective start and end of the axis with the
// Range form resolved.
func (a AxisSpec) Bounds() (start, end float64) {
	if a.Range != 0 {
		return a.Start - a.Range/2, a.Start + a.Range/2
	}
	return a.Start, a.End
}
