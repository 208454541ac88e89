package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tbehner/tdidt/dataset"
	"github.com/tbehner/tdidt/dataset/csv"
	"github.com/tbehner/tdidt/dataset/mongodataset"
	"github.com/tbehner/tdidt/dataset/sqldataset"
	"github.com/tbehner/tdidt/feature"
	"github.com/tbehner/tdidt/feature/yaml"
	"go.mongodb.org/mongo-driver/mongo"
)

/*
datasetConfig holds the flags shared by the commands that read or write
datasets: where they are, how their features are described and, for
databases, where the records and their outcomes are kept.
*/
type datasetConfig struct {
	*rootCmdConfig
	dataInput     string
	metadataInput string
	table         string
	database      string
	collection    string
	label         string
}

func (dc *datasetConfig) addFlags(cmd *cobra.Command, purpose string) {
	cmd.PersistentFlags().StringVarP(&(dc.dataInput), "input", "i", "", fmt.Sprintf("path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to %s (defaults to STDIN, interpreted as CSV)", purpose))
	cmd.PersistentFlags().StringVarP(&(dc.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features available on the input (required for database inputs)")
	cmd.PersistentFlags().StringVar(&(dc.table), "table", "dataset", "name of the table holding the records on SQLite3 and PostgreSQL databases")
	cmd.PersistentFlags().StringVar(&(dc.database), "database", "tdidt", "name of the MongoDB database holding the collection")
	cmd.PersistentFlags().StringVar(&(dc.collection), "collection", "dataset", "name of the MongoDB collection holding the records")
	cmd.PersistentFlags().StringVar(&(dc.label), "label", "outcome", "name of the column or field holding the outcome of records on databases")
}

func (dc *datasetConfig) Validate() error {
	if dc.label == "" {
		return fmt.Errorf("label flag cannot be empty")
	}
	return nil
}

/*
schema returns the schema described by the metadata file, or nil if no
metadata file was given.
*/
func (dc *datasetConfig) schema() (*feature.Schema, error) {
	if dc.metadataInput == "" {
		return nil, nil
	}
	dc.Logf("Reading features from metadata at %s...", dc.metadataInput)
	schema, err := yaml.ReadSchemaFromFile(dc.metadataInput)
	if err != nil {
		return nil, err
	}
	dc.Logf("Features from metadata read")
	return schema, nil
}

/*
readDataset reads the dataset at the configured input with the given
schema. The schema may only be nil for CSV inputs, whose header declares
the kind of every feature.
*/
func (dc *datasetConfig) readDataset(ctx context.Context, schema *feature.Schema) (*dataset.Dataset, error) {
	input := dc.dataInput
	if schema == nil && isDatabase(input) {
		return nil, fmt.Errorf("required metadata flag was not set to read from %s", input)
	}
	switch {
	case isPostgreSQL(input):
		dc.Logf("Opening PostgreSQL database at %s to read table %s...", input, dc.table)
		s, err := sqldataset.OpenPostgreSQL(input)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.ReadDataset(ctx, dc.table, schema, dc.label)
	case isSQLite3(input):
		dc.Logf("Opening SQLite3 database at %s to read table %s...", input, dc.table)
		s, err := sqldataset.OpenSQLite3(input)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.ReadDataset(ctx, dc.table, schema, dc.label)
	case isMongoDB(input):
		dc.Logf("Connecting to MongoDB at %s to read collection %s.%s...", input, dc.database, dc.collection)
		coll, disconnect, err := dc.mongoCollection(ctx, input)
		if err != nil {
			return nil, err
		}
		defer disconnect()
		return mongodataset.Open(ctx, coll, schema, dc.label, nil)
	case input == "":
		dc.Logf("Reading dataset from STDIN...")
	default:
		dc.Logf("Opening %s to read dataset...", input)
	}
	return csv.ReadDatasetFromFilePath(input, schema)
}

/*
writeDataset writes the dataset onto the given output, which may be a path
to a CSV or SQLite3 file or a PostgreSQL or MongoDB connection URL. An empty
output means STDOUT in CSV format. It returns the number of written records.
*/
func (dc *datasetConfig) writeDataset(ctx context.Context, output string, ds *dataset.Dataset) (int, error) {
	switch {
	case isPostgreSQL(output):
		dc.Logf("Opening PostgreSQL database at %s to dump dataset into table %s...", output, dc.table)
		s, err := sqldataset.OpenPostgreSQL(output)
		if err != nil {
			return 0, err
		}
		defer s.Close()
		return s.WriteDataset(ctx, dc.table, ds, dc.label)
	case isSQLite3(output):
		dc.Logf("Opening SQLite3 database at %s to dump dataset into table %s...", output, dc.table)
		s, err := sqldataset.OpenSQLite3(output)
		if err != nil {
			return 0, err
		}
		defer s.Close()
		return s.WriteDataset(ctx, dc.table, ds, dc.label)
	case isMongoDB(output):
		dc.Logf("Connecting to MongoDB at %s to dump dataset into collection %s.%s...", output, dc.database, dc.collection)
		coll, disconnect, err := dc.mongoCollection(ctx, output)
		if err != nil {
			return 0, err
		}
		defer disconnect()
		return mongodataset.Write(ctx, coll, ds, dc.label)
	}
	f := os.Stdout
	if output == "" {
		dc.Logf("Using STDOUT to dump dataset...")
	} else {
		dc.Logf("Creating %s to dump dataset...", output)
		var err error
		f, err = os.Create(output)
		if err != nil {
			return 0, err
		}
		defer f.Close()
	}
	err := csv.WriteDataset(f, ds)
	if err != nil {
		return 0, err
	}
	return ds.Count(), nil
}

func (dc *datasetConfig) mongoCollection(ctx context.Context, url string) (*mongo.Collection, func(), error) {
	client, err := mongodataset.Connect(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	disconnect := func() {
		client.Disconnect(context.Background())
	}
	return client.Database(dc.database).Collection(dc.collection), disconnect, nil
}

func isDatabase(location string) bool {
	return isPostgreSQL(location) || isSQLite3(location) || isMongoDB(location)
}

func isPostgreSQL(location string) bool {
	return strings.HasPrefix(location, "postgresql://") || strings.HasPrefix(location, "postgres://")
}

func isSQLite3(location string) bool {
	return strings.HasSuffix(location, ".db")
}

func isMongoDB(location string) bool {
	return strings.HasPrefix(location, "mongodb://") || strings.HasPrefix(location, "mongodb+srv://")
}
