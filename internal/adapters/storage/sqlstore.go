package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/VandersypenQutech/qtt/internal/domain"
	"github.com/VandersypenQutech/qtt/internal/ports"
)

// SQLStore persists datasets as rows in a Postgres/Timescale table.
// Locations are <yyyy-mm-dd>/<id>_<label>; the dataset id makes them
// unique without probing the table.
type SQLStore struct {
	mu    sync.Mutex
	db    *sql.DB
	table string
	now   func() time.Time
}

func NewSQLStore(db *sql.DB, table string) *SQLStore {
	if table == "" {
		table = "datasets"
	}
	return &SQLStore{db: db, table: table, now: time.Now}
}

func (s *SQLStore) Name() string { return "postgres" }

func (s *SQLStore) Write(ds *domain.Dataset) (string, error) {
	if ds == nil {
		return "", fmt.Errorf("storage: dataset is nil")
	}
	label := ds.Label
	if label == "" {
		label = "dataset"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	location := fmt.Sprintf("%s/%s_%s", s.now().Format("2006-01-02"), ds.ID, label)

	coords, err := json.Marshal(ds.Coords)
	if err != nil {
		return "", fmt.Errorf("storage: marshal coords: %w", err)
	}
	arrays, err := json.Marshal(ds.Arrays)
	if err != nil {
		return "", fmt.Errorf("storage: marshal arrays: %w", err)
	}
	metadata, err := json.Marshal(ds.Metadata)
	if err != nil {
		return "", fmt.Errorf("storage: marshal metadata: %w", err)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (id, location, label, scantype, coords, arrays, metadata, completed) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)",
		s.table)
	if _, err := s.db.Exec(query, ds.ID, location, label, string(ds.ScanType), coords, arrays, metadata, ds.Completed); err != nil {
		return "", err
	}
	return location, nil
}

var _ ports.DatasetStore = (*SQLStore)(nil)
