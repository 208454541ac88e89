package sqldataset

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/tbehner/tdidt/dataset"
	"github.com/tbehner/tdidt/feature"
)

func testDataset(t *testing.T) *dataset.Dataset {
	schema, err := feature.NewSchema(
		feature.NewCategoricalFeature("outlook", []string{"sunny", "overcast", "rainy"}),
		feature.NewNumericFeature("temperature"),
		feature.NewBooleanFeature("windy"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ds, err := dataset.New(schema, []*dataset.Record{
		dataset.NewRecord("1", map[string]interface{}{"outlook": "sunny", "temperature": 29.5, "windy": false}, false),
		dataset.NewRecord("2", map[string]interface{}{"outlook": "overcast", "temperature": 27.0, "windy": true}, true),
		dataset.NewRecord("x", map[string]interface{}{"outlook": "rainy", "temperature": 21.0, "windy": true}, false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return ds
}

func TestSQLite3RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite3(filepath.Join(t.TempDir(), "weather.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()
	ds := testDataset(t)
	count, err := s.WriteDataset(ctx, "weather", ds, "play")
	if err != nil {
		t.Fatalf("unexpected error writing dataset: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 rows written, got %d", count)
	}
	read, err := s.ReadDataset(ctx, "weather", ds.Schema(), "play")
	if err != nil {
		t.Fatalf("unexpected error reading dataset: %v", err)
	}
	if read.Count() != 3 || read.Positives() != 1 || read.Negatives() != 2 {
		t.Fatalf("unexpected counts %d (%d/%d)", read.Count(), read.Positives(), read.Negatives())
	}
	for i, r := range read.Records() {
		original := ds.Records()[i]
		expectedID := original.ID()
		if expectedID == "x" {
			expectedID = "3"
		}
		if r.ID() != expectedID || r.Outcome() != original.Outcome() {
			t.Errorf("expected record %s with outcome %v, got %v", expectedID, original.Outcome(), r)
		}
		for _, f := range ds.Schema().Features() {
			ev, _ := original.ValueFor(f)
			v, _ := r.ValueFor(f)
			if v != ev {
				t.Errorf("record %s: expected %v for %s, got %v (%T)", r.ID(), ev, f.Name(), v, v)
			}
		}
	}
}

func TestReadDatasetWithNullValues(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite3(filepath.Join(t.TempDir(), "nulls.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()
	schema, err := feature.NewSchema(feature.NewNumericFeature("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, stmt := range []string{
		`CREATE TABLE "t" ("id" INTEGER PRIMARY KEY, "x" REAL NULL, "y" INTEGER NOT NULL)`,
		`INSERT INTO "t" ("id", "x", "y") VALUES (1, 2.5, 1), (2, NULL, 0)`,
	} {
		if _, err = s.db.Exec(stmt); err != nil {
			t.Fatalf("unexpected error running %s: %v", stmt, err)
		}
	}
	_, err = s.ReadDataset(ctx, "t", schema, "y")
	if errors.Cause(err) != dataset.ErrInvalidRecord {
		t.Errorf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestInvalidColumnNames(t *testing.T) {
	s := New(nil, SQLite3)
	schema, err := feature.NewSchema(feature.NewNumericFeature("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for table, label := range map[string]string{
		`we"ather`: "play",
		"weather":  `pl"ay`,
		"data":     "x",
		"samples":  "id",
		"":         "play",
	} {
		_, err := s.columns(table, schema, label)
		if errors.Cause(err) != feature.ErrInvalidSchema {
			t.Errorf("table %q, label %q: expected ErrInvalidSchema, got %v", table, label, err)
		}
	}
}

func TestPostgreSQLStatements(t *testing.T) {
	s := New(nil, PostgreSQL)
	ds := testDataset(t)
	columns, err := s.columns("weather", ds.Schema(), "play")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `CREATE TABLE IF NOT EXISTS "weather" ("id" SERIAL PRIMARY KEY, "outlook" TEXT NOT NULL, "temperature" DOUBLE PRECISION NOT NULL, "windy" BOOLEAN NOT NULL, "play" BOOLEAN NOT NULL)`
	if diff := cmp.Diff(expected, s.createTableStatement(columns, ds.Schema())); diff != "" {
		t.Errorf("unexpected create statement (-want +got):\n%s", diff)
	}
	stmt, args, err := s.insertStatement(columns, ds.Schema(), ds.Records()[1:])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected = `INSERT INTO "weather" ("id", "outlook", "temperature", "windy", "play") VALUES ($1, $2, $3, $4, $5), (DEFAULT, $6, $7, $8, $9)`
	if diff := cmp.Diff(expected, stmt); diff != "" {
		t.Errorf("unexpected insert statement (-want +got):\n%s", diff)
	}
	expectedArgs := []interface{}{int64(2), "overcast", 27.0, true, true, "rainy", 21.0, true, false}
	if diff := cmp.Diff(expectedArgs, args); diff != "" {
		t.Errorf("unexpected arguments (-want +got):\n%s", diff)
	}
}
