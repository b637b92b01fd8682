package ports

import "github.com/VandersypenQutech/qtt/internal/domain"

// GateSet resolves logical gate names to the physical parameters
// behind them.
type GateSet interface {
	Gate(name string) (domain.Parameter, error)
}
