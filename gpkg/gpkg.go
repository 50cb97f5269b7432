// Package gpkg writes rendered tiles to a GeoPackage, one table per zoom
// level, storing each tile's MVT payload as a BLOB keyed by (x, y) rather
// than the vector features a GeoPackage table normally holds. It keeps the
// teacher's SQLite access pattern (mattn/go-sqlite3, hand-written DDL/DML,
// one *sql.DB per target file) and drops the feature/WKB machinery that
// only the source side of the teacher's pipeline needed.
package gpkg

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// TargetGeopackage is a GeoPackage opened for writing tile BLOBs.
type TargetGeopackage struct {
	db   *sql.DB
	path string
}

// Init opens (creating if necessary) the GeoPackage at path and ensures its
// gpkg_contents bookkeeping table exists.
func Init(path string) (*TargetGeopackage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening geopackage %s: %w", path, err)
	}
	t := &TargetGeopackage{db: db, path: path}
	if err := t.createBookkeepingTables(); err != nil {
		db.Close()
		return nil, err
	}
	return t, nil
}

func (t *TargetGeopackage) createBookkeepingTables() error {
	_, err := t.db.Exec(`
		CREATE TABLE IF NOT EXISTS gpkg_contents (
			table_name TEXT NOT NULL PRIMARY KEY,
			data_type TEXT NOT NULL,
			identifier TEXT UNIQUE,
			min_x DOUBLE, min_y DOUBLE, max_x DOUBLE, max_y DOUBLE
		)`)
	if err != nil {
		return fmt.Errorf("creating gpkg_contents: %w", err)
	}
	return nil
}

// CreateZoomTable ensures a table exists for zoom z, addressed by (x, y)
// and holding one MVT BLOB per tile.
func (t *TargetGeopackage) CreateZoomTable(z uint8) error {
	table := zoomTableName(z)
	if _, err := t.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %q (
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			tile_data BLOB NOT NULL,
			PRIMARY KEY (x, y)
		)`, table)); err != nil {
		return fmt.Errorf("creating table %s: %w", table, err)
	}
	_, err := t.db.Exec(`
		INSERT OR IGNORE INTO gpkg_contents (table_name, data_type, identifier)
		VALUES (?, 'tiles', ?)`, table, table)
	if err != nil {
		return fmt.Errorf("registering table %s: %w", table, err)
	}
	return nil
}

// WriteTile upserts the MVT payload for (z,x,y). The caller creates the
// zoom's table once via CreateZoomTable before writing any of its tiles.
func (t *TargetGeopackage) WriteTile(z uint8, x, y uint32, mvtData []byte) error {
	table := zoomTableName(z)
	_, err := t.db.Exec(fmt.Sprintf(`
		INSERT INTO %q (x, y, tile_data) VALUES (?, ?, ?)
		ON CONFLICT (x, y) DO UPDATE SET tile_data = excluded.tile_data`, table),
		x, y, mvtData)
	if err != nil {
		return fmt.Errorf("writing tile z=%d x=%d y=%d to %s: %w", z, x, y, table, err)
	}
	return nil
}

// Close closes the underlying database handle.
func (t *TargetGeopackage) Close() error {
	return t.db.Close()
}

func zoomTableName(z uint8) string {
	return fmt.Sprintf("tiles_z%d", z)
}
