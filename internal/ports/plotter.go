package ports

import "github.com/VandersypenQutech/qtt/internal/domain"

// LivePlotter receives incremental updates while a scan runs. A nil
// plotter means the scan runs headless; no scan invariant depends on
// its presence.
type LivePlotter interface {
	Update(ds *domain.Dataset)
}
