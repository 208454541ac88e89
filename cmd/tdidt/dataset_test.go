package main

import (
	"path/filepath"
	"testing"

	"github.com/tbehner/tdidt/dataset"
	"github.com/tbehner/tdidt/feature"
)

func TestLocationKinds(t *testing.T) {
	testCases := []struct {
		location                     string
		postgresql, sqlite3, mongodb bool
	}{
		{"data.csv", false, false, false},
		{"", false, false, false},
		{"weather.db", false, true, false},
		{"postgresql://user@localhost/tdidt", true, false, false},
		{"postgres://localhost/tdidt", true, false, false},
		{"mongodb://localhost:27017", false, false, true},
		{"mongodb+srv://cluster.example.com", false, false, true},
	}
	for _, tc := range testCases {
		if isPostgreSQL(tc.location) != tc.postgresql || isSQLite3(tc.location) != tc.sqlite3 || isMongoDB(tc.location) != tc.mongodb {
			t.Errorf("unexpected kind for location %q", tc.location)
		}
		if isDatabase(tc.location) != (tc.postgresql || tc.sqlite3 || tc.mongodb) {
			t.Errorf("unexpected database check for location %q", tc.location)
		}
	}
}

func TestCopyDatasetThroughFiles(t *testing.T) {
	dir := t.TempDir()
	windy := feature.NewBooleanFeature("windy")
	temperature := feature.NewNumericFeature("temperature")
	schema, err := feature.NewSchema(windy, temperature)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ds, err := dataset.New(schema, []*dataset.Record{
		dataset.NewRecord("1", map[string]interface{}{"windy": true, "temperature": 12.5}, false),
		dataset.NewRecord("2", map[string]interface{}{"windy": false, "temperature": 25.0}, true),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dc := &datasetConfig{rootCmdConfig: &rootCmdConfig{}, table: "weather", label: "play"}
	ctx := dc.Context()
	for _, location := range []string{filepath.Join(dir, "weather.csv"), filepath.Join(dir, "weather.db")} {
		count, err := dc.writeDataset(ctx, location, ds)
		if err != nil {
			t.Fatalf("unexpected error writing %s: %v", location, err)
		}
		if count != 2 {
			t.Errorf("expected 2 records written onto %s, got %d", location, count)
		}
		dc.dataInput = location
		read, err := dc.readDataset(ctx, schema)
		if err != nil {
			t.Fatalf("unexpected error reading %s: %v", location, err)
		}
		if read.Count() != 2 || read.Positives() != 1 {
			t.Errorf("expected 2 records with 1 positive from %s, got %d with %d", location, read.Count(), read.Positives())
		}
	}
	dc.dataInput = filepath.Join(dir, "weather.db")
	if _, err = dc.readDataset(ctx, nil); err == nil {
		t.Errorf("expected an error reading a database without a schema")
	}
}
