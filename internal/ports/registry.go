package ports

import "github.com/VandersypenQutech/qtt/internal/domain"

// Registry is the station-wide instrument registry. Instruments
// register on creation and deregister on explicit close; it is the
// only mutable state shared across scan components and assumes a
// single scan at a time.
type Registry interface {
	Register(inst domain.Instrument) error
	Deregister(name string) error
	Find(name string) (domain.Instrument, error)
	Components() []domain.Instrument
	// UniqueName returns name if unused, otherwise name with the first
	// free numeric suffix appended.
	UniqueName(name string) string
}
