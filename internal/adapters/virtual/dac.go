// Package virtual provides software stand-ins for lab hardware: a
// multi-channel DAC, a gate-map instrument on top of it, and simple
// manual/scaled parameters. They behave like their physical
// counterparts at the parameter level and are used by tests, examples,
// and simulated stations.
package virtual

import (
	"fmt"
	"sync"

	"github.com/VandersypenQutech/qtt/internal/domain"
	"github.com/VandersypenQutech/qtt/internal/ports"
)

// VirtualDAC emulates a multi-channel voltage source with channels
// named dac1..dacN. It registers itself on creation and deregisters on
// Close.
type VirtualDAC struct {
	mu       sync.Mutex
	name     string
	registry ports.Registry
	values   map[string]float64
	channels []string
}

func NewVirtualDAC(reg ports.Registry, name string, channels int) (*VirtualDAC, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("virtual: dac needs at least one channel, got %d", channels)
	}
	if reg != nil {
		name = reg.UniqueName(name)
	}
	d := &VirtualDAC{
		name:     name,
		registry: reg,
		values:   make(map[string]float64, channels),
	}
	for i := 1; i <= channels; i++ {
		ch := fmt.Sprintf("dac%d", i)
		d.channels = append(d.channels, ch)
		d.values[ch] = 0
	}
	if reg != nil {
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *VirtualDAC) Name() string { return d.name }

func (d *VirtualDAC) Parameter(name string) (domain.Parameter, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.values[name]; !ok {
		return nil, fmt.Errorf("virtual: instrument %q has no parameter %q", d.name, name)
	}
	return &dacChannel{dac: d, channel: name}, nil
}

// Channels returns the channel names in dac order.
func (d *VirtualDAC) Channels() []string {
	out := make([]string, len(d.channels))
	copy(out, d.channels)
	return out
}

// Close deregisters the instrument from its registry.
func (d *VirtualDAC) Close() error {
	if d.registry == nil {
		return nil
	}
	return d.registry.Deregister(d.name)
}

func (d *VirtualDAC) set(channel string, v float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.values[channel]; !ok {
		return fmt.Errorf("virtual: instrument %q has no parameter %q", d.name, channel)
	}
	d.values[channel] = v
	return nil
}

func (d *VirtualDAC) get(channel string) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.values[channel]
	if !ok {
		return 0, fmt.Errorf("virtual: instrument %q has no parameter %q", d.name, channel)
	}
	return v, nil
}

type dacChannel struct {
	dac     *VirtualDAC
	channel string
}

func (c *dacChannel) Name() string          { return c.dac.name + "." + c.channel }
func (c *dacChannel) Set(v float64) error   { return c.dac.set(c.channel, v) }
func (c *dacChannel) Get() (float64, error) { return c.dac.get(c.channel) }

var (
	_ domain.Instrument = (*VirtualDAC)(nil)
	_ domain.Parameter  = (*dacChannel)(nil)
)
