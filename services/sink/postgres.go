package sink

import (
	"database/sql"

	_ "github.com/lib/pq"

	"jdeprez/immoharvester/internal/harvester"
	"jdeprez/immoharvester/pkg/errors"
)

// PostgresSink appends records to a listings table. Cells carry the same
// literal "false" sentinel as the tabular output, so the table mirrors the
// CSV column for column.
type PostgresSink struct {
	db *sql.DB
}

var _ RecordSink = (*PostgresSink)(nil)

const createListingsTable = `
	CREATE TABLE IF NOT EXISTS listings (
		id                 SERIAL PRIMARY KEY,
		locality           TEXT NOT NULL,
		property_type      TEXT NOT NULL,
		property_subtype   TEXT NOT NULL,
		price              TEXT NOT NULL,
		sale_type          TEXT NOT NULL,
		bedrooms           TEXT NOT NULL,
		living_area        TEXT NOT NULL,
		kitchen_type       TEXT NOT NULL,
		furnished          TEXT NOT NULL,
		fireplace_count    TEXT NOT NULL,
		terrace_surface    TEXT NOT NULL,
		garden_surface     TEXT NOT NULL,
		plot_surface       TEXT NOT NULL,
		frontage_count     TEXT NOT NULL,
		swimming_pool      TEXT NOT NULL,
		building_condition TEXT NOT NULL,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

const insertListing = `
	INSERT INTO listings (
		locality, property_type, property_subtype, price, sale_type,
		bedrooms, living_area, kitchen_type, furnished, fireplace_count,
		terrace_surface, garden_surface, plot_surface, frontage_count,
		swimming_pool, building_condition
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`

// NewPostgresSink opens a connection, verifies it, and creates the listings
// table when missing.
func NewPostgresSink(dsn string) (*PostgresSink, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewSink("failed to open postgres connection", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.NewSink("failed to reach postgres", err)
	}
	if _, err := db.Exec(createListingsTable); err != nil {
		db.Close()
		return nil, errors.NewSink("failed to create listings table", err)
	}
	return &PostgresSink{db: db}, nil
}

// Append inserts one record row. database/sql serializes access to the
// connection pool, so no extra locking is needed here.
func (p *PostgresSink) Append(record harvester.Record) error {
	row := record.Row()
	args := make([]any, len(row))
	for i, cell := range row {
		args[i] = cell
	}
	if _, err := p.db.Exec(insertListing, args...); err != nil {
		return errors.NewSink("failed to insert listing", err)
	}
	return nil
}

// Close closes the database connection
func (p *PostgresSink) Close() error {
	if err := p.db.Close(); err != nil {
		return errors.NewSink("failed to close postgres connection", err)
	}
	return nil
}
