package qtt

import (
	"sync"
)

// DatasetFunc receives a snapshot of the dataset being built.
type DatasetFunc func(ds *Dataset)

// NewCallbackPlotter adapts a plain function into a LivePlotter so
// callers can hook plotting frontends without defining structs.
func NewCallbackPlotter(fn DatasetFunc) LivePlotter {
	return &callbackPlotter{fn: fn}
}

// NewChannelPlotter exposes dataset updates via a channel; it returns
// the plotter, the read-only channel, and a close function the caller
// should invoke during shutdown. Updates are dropped, not blocked on,
// when the channel is full: a slow plot frontend must never stall a
// running scan.
func NewChannelPlotter(buffer int) (LivePlotter, <-chan *Dataset, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan *Dataset, buffer)
	p := &channelPlotter{
		ch:     ch,
		closed: make(chan struct{}),
	}
	return p, ch, func() { p.close() }
}

type callbackPlotter struct {
	fn DatasetFunc
}

func (p *callbackPlotter) Update(ds *Dataset) {
	if p.fn != nil && ds != nil {
		p.fn(ds)
	}
}

type channelPlotter struct {
	ch     chan *Dataset
	closed chan struct{}
	once   sync.Once
}

func (p *channelPlotter) Update(ds *Dataset) {
	if ds == nil {
		return
	}
	select {
	case <-p.closed:
		return
	default:
	}
	select {
	case p.ch <- ds:
	default:
	}
}

func (p *channelPlotter) close() {
	p.once.Do(func() {
		close(p.closed)
		close(p.ch)
	})
}
