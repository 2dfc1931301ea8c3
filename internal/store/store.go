package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const selectProteins = "SELECT name, species, phylum, subphylum, class, `order`, family, genus, protein_family, `function`, reference, doi FROM proteins"

// Store reads the proteins table. It never writes.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens a database handle for driver ("sqlite" or "mysql") and pings it.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "sqlite", "mysql":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// New creates a new Store instance
func New(db *sql.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// GetDB returns the underlying sql.DB instance
func (store *Store) GetDB() *sql.DB {
	return store.db
}

// LoadProteins runs the single unparameterised read query over the proteins table.
func (store *Store) LoadProteins(ctx context.Context) ([]ProteinRecord, error) {
	rows, err := store.db.QueryContext(ctx, selectProteins)
	if err != nil {
		return nil, fmt.Errorf("select proteins: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []ProteinRecord
	for rows.Next() {
		var (
			name, species, phylum, subphylum, class, order    sql.NullString
			family, genus, proteinFamily, function, reference sql.NullString
			doi                                               sql.NullString
		)
		err = rows.Scan(
			&name,
			&species,
			&phylum,
			&subphylum,
			&class,
			&order,
			&family,
			&genus,
			&proteinFamily,
			&function,
			&reference,
			&doi)
		if err != nil {
			return nil, fmt.Errorf("scan protein: %w", err)
		}
		records = append(records, ProteinRecord{
			Name:          name.String,
			Species:       species.String,
			Phylum:        phylum.String,
			Subphylum:     subphylum.String,
			Class:         class.String,
			Order:         order.String,
			Family:        family.String,
			Genus:         genus.String,
			ProteinFamily: proteinFamily.String,
			Function:      function.String,
			Reference:     reference.String,
			DOI:           doi.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proteins: %w", err)
	}
	return records, nil
}

// Snapshot loads every record once and freezes them.
func (store *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	records, err := store.LoadProteins(ctx)
	if err != nil {
		return nil, err
	}
	store.logger.Info("protein snapshot loaded", zap.Int("records", len(records)))
	return NewSnapshot(records), nil
}

// Snapshot is the process-lifetime, read-only copy of the proteins table.
// It is shared between request goroutines without locking.
type Snapshot struct {
	records  []ProteinRecord
	loadedAt time.Time
}

// NewSnapshot copies records into a snapshot.
func NewSnapshot(records []ProteinRecord) *Snapshot {
	frozen := make([]ProteinRecord, len(records))
	copy(frozen, records)
	return &Snapshot{records: frozen, loadedAt: time.Now()}
}

// Records returns the snapshot rows in table order. Callers must not modify
// the returned slice.
func (s *Snapshot) Records() []ProteinRecord {
	return s.records
}

// Len is the number of records.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// LoadedAt is when the snapshot was taken.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}
