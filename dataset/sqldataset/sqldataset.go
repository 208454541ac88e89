package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	// Import of postgresql driver
	_ "github.com/lib/pq"
	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/tbehner/tdidt/dataset"
	"github.com/tbehner/tdidt/feature"
)

// Dialect identifies the flavour of SQL spoken by a database
type Dialect int

const (
	// SQLite3 is the dialect of SQLite3 databases
	SQLite3 Dialect = iota
	// PostgreSQL is the dialect of PostgreSQL databases
	PostgreSQL
)

/*
MaxRecordInsertionsPerStatement is the maximum number of records that are
inserted with a single insert command by WriteDataset. Writing more will
result in running more insertion commands.
*/
const MaxRecordInsertionsPerStatement = 10

// Store reads and writes datasets on the tables of a SQL database
type Store struct {
	db      *sql.DB
	dialect Dialect
}

/*
New takes a database and the dialect it speaks and returns a Store that
works on it.
*/
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db, dialect}
}

/*
OpenSQLite3 takes a path to an SQLite3 database file and returns a Store
that works on the file's database or an error if it fails to open as an
sqlite3 database.
*/
func OpenSQLite3(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening sqlite3 database %s", path)
	}
	return New(db, SQLite3), nil
}

/*
OpenPostgreSQL takes a PostgreSQL connection URL and returns a Store that
works on its database or an error if the connection cannot be set up.
*/
func OpenPostgreSQL(url string) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "opening postgresql database")
	}
	return New(db, PostgreSQL), nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

/*
ReadDataset takes a context, a table name, a schema and the name of the
column with the outcome and returns a dataset with a record per row of the
table, in id order. It returns an ErrInvalidSchema error if a feature name
cannot be used as column name, an ErrInvalidRecord error if a row has NULL
values or values of the wrong type, or any error querying the database.
*/
func (s *Store) ReadDataset(ctx context.Context, table string, schema *feature.Schema, label string) (*dataset.Dataset, error) {
	columns, err := s.columns(table, schema, label)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY "id"`, strings.Join(columns[1:], ", "), columns[0])
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "querying table %s", table)
	}
	defer rows.Close()
	features := schema.Features()
	var records []*dataset.Record
	for rows.Next() {
		var id sql.NullString
		var outcome sql.NullBool
		dest := make([]interface{}, 0, len(features)+2)
		dest = append(dest, &id)
		for _, f := range features {
			dest = append(dest, scanDestination(f))
		}
		dest = append(dest, &outcome)
		err = rows.Scan(dest...)
		if err != nil {
			return nil, errors.Wrapf(dataset.ErrInvalidRecord, "scanning row #%d of table %s: %v", len(records)+1, table, err)
		}
		values := make(map[string]interface{}, len(features))
		for i, f := range features {
			v, ok := scannedValue(dest[i+1])
			if !ok {
				return nil, errors.Wrapf(dataset.ErrInvalidRecord, "row %s of table %s has no value for feature %s", id.String, table, f.Name())
			}
			values[f.Name()] = v
		}
		if !outcome.Valid {
			return nil, errors.Wrapf(dataset.ErrInvalidRecord, "row %s of table %s has no value for label %s", id.String, table, label)
		}
		records = append(records, dataset.NewRecord(id.String, values, outcome.Bool))
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading table %s", table)
	}
	return dataset.New(schema, records)
}

/*
WriteDataset takes a context, a table name, a dataset and the name of the
column for the outcome, creates the table if it does not exist and inserts
a row per record of the dataset in a single transaction. Records whose ID
is an integer keep it, the rest get one from the database. It returns the
number of inserted rows or an error.
*/
func (s *Store) WriteDataset(ctx context.Context, table string, ds *dataset.Dataset, label string) (int, error) {
	columns, err := s.columns(table, ds.Schema(), label)
	if err != nil {
		return 0, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning transaction")
	}
	_, err = tx.ExecContext(ctx, s.createTableStatement(columns, ds.Schema()))
	if err != nil {
		tx.Rollback()
		return 0, errors.Wrapf(err, "creating table %s", table)
	}
	records := ds.Records()
	var count int
	for len(records) > 0 {
		chunk := records
		if len(chunk) > MaxRecordInsertionsPerStatement {
			chunk = chunk[:MaxRecordInsertionsPerStatement]
		}
		records = records[len(chunk):]
		stmt, args, err := s.insertStatement(columns, ds.Schema(), chunk)
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		_, err = tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			tx.Rollback()
			return 0, errors.Wrapf(err, "inserting records %d to %d into %s", count+1, count+len(chunk), table)
		}
		count += len(chunk)
	}
	err = tx.Commit()
	if err != nil {
		return 0, errors.Wrap(err, "committing transaction")
	}
	return count, nil
}

// columns returns the quoted table name followed by
// the quoted columns for the id, the features and the
// label
func (s *Store) columns(table string, schema *feature.Schema, label string) ([]string, error) {
	names := append([]string{table, "id"}, schema.Names()...)
	names = append(names, label)
	columns := make([]string, 0, len(names))
	seen := make(map[string]bool)
	for i, name := range names {
		if name == "" || strings.ContainsAny(name, `"`) {
			return nil, errors.Wrapf(feature.ErrInvalidSchema, `name '%s' is empty or contains invalid character '"'`, name)
		}
		if i > 0 {
			if seen[name] {
				return nil, errors.Wrapf(feature.ErrInvalidSchema, `'%s' is used for more than one column`, name)
			}
			seen[name] = true
		}
		columns = append(columns, fmt.Sprintf(`"%s"`, name))
	}
	return columns, nil
}

func (s *Store) createTableStatement(columns []string, schema *feature.Schema) string {
	var buf bytes.Buffer
	idType := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.dialect == PostgreSQL {
		idType = "SERIAL PRIMARY KEY"
	}
	buf.WriteString(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s %s", columns[0], columns[1], idType))
	for i, f := range schema.Features() {
		buf.WriteString(fmt.Sprintf(", %s %s NOT NULL", columns[i+2], s.columnType(f.Kind())))
	}
	buf.WriteString(fmt.Sprintf(", %s %s NOT NULL)", columns[len(columns)-1], s.columnType(feature.Boolean)))
	return buf.String()
}

func (s *Store) insertStatement(columns []string, schema *feature.Schema, records []*dataset.Record) (string, []interface{}, error) {
	var buf bytes.Buffer
	var args []interface{}
	buf.WriteString(fmt.Sprintf("INSERT INTO %s (%s) VALUES ", columns[0], strings.Join(columns[1:], ", ")))
	for i, r := range records {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		if id, err := strconv.ParseInt(r.ID(), 10, 64); err == nil {
			args = append(args, id)
			buf.WriteString(s.placeholder(len(args)))
		} else if s.dialect == PostgreSQL {
			buf.WriteString("DEFAULT")
		} else {
			buf.WriteString("NULL")
		}
		for _, f := range schema.Features() {
			v, err := r.ValueFor(f)
			if err != nil {
				return "", nil, err
			}
			args = append(args, v)
			buf.WriteString(", " + s.placeholder(len(args)))
		}
		args = append(args, r.Outcome())
		buf.WriteString(", " + s.placeholder(len(args)) + ")")
	}
	return buf.String(), args, nil
}

func (s *Store) placeholder(i int) string {
	if s.dialect == PostgreSQL {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

func (s *Store) columnType(k feature.Kind) string {
	switch k {
	case feature.Numeric:
		if s.dialect == PostgreSQL {
			return "DOUBLE PRECISION"
		}
		return "REAL"
	case feature.Categorical:
		return "TEXT"
	}
	if s.dialect == PostgreSQL {
		return "BOOLEAN"
	}
	return "INTEGER"
}

func scanDestination(f feature.Feature) interface{} {
	switch f.Kind() {
	case feature.Numeric:
		return &sql.NullFloat64{}
	case feature.Categorical:
		return &sql.NullString{}
	}
	return &sql.NullBool{}
}

func scannedValue(dest interface{}) (interface{}, bool) {
	switch d := dest.(type) {
	case *sql.NullFloat64:
		return d.Float64, d.Valid
	case *sql.NullString:
		return d.String, d.Valid
	case *sql.NullBool:
		return d.Bool, d.Valid
	}
	return nil, false
}
