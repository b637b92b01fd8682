package ports

import "github.com/VandersypenQutech/qtt/internal/domain"

// DatasetStore persists datasets and assigns their storage location.
// The returned location must be unique per invocation and must keep
// the dataset label as its suffix, even after disambiguation.
type DatasetStore interface {
	Write(ds *domain.Dataset) (location string, err error)
	Name() string
}
