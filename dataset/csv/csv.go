/*
Package csv reads and writes datasets in CSV format.

The first row is a header. Its first column names the record identifiers,
its last column the outcome, and every column in between a feature as
"name:kind", where kind is "n" (numeric), "c" (categorical) or "b"
(boolean), or the full name of the kind. When a schema is provided the kind
may be omitted. Every following row holds a record: its identifier, its
feature values and its outcome, "yes" or "no".
*/
package csv

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tbehner/tdidt/dataset"
	"github.com/tbehner/tdidt/feature"
)

/*
Writer is an interface for a destination to which records
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given records and will
	// return the actually written number of records and an error
	// (if not all records could be written)
	Write([]*dataset.Record) (int, error)
	// Count returns the total number of records written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count  int
	schema *feature.Schema
	w      *csv.Writer
}

/*
ReadDataset takes an io.Reader for a CSV stream and a schema and returns the
dataset parsed from it or an error. The schema may be nil, in which case it
is built from the kinds declared in the header.
*/
func ReadDataset(reader io.Reader, schema *feature.Schema) (*dataset.Dataset, error) {
	records := []*dataset.Record{}
	schema, err := ReadBySample(reader, schema, func(_ int, r *dataset.Record) (bool, error) {
		records = append(records, r)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return dataset.New(schema, records)
}

/*
ReadDatasetFromFilePath takes a filepath string and a schema, opens the file
to which the filepath points to (os.Stdin if it is "") and uses ReadDataset
to return the dataset read from it or an error.
*/
func ReadDatasetFromFilePath(filepath string, schema *feature.Schema) (*dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, errors.Wrap(err, "reading dataset")
		}
		defer f.Close()
	}
	ds, err := ReadDataset(f, schema)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing CSV file %s", filepath)
	}
	return ds, nil
}

/*
ReadBySample takes an io.Reader for a CSV stream, a schema (that may be nil)
and a lambda function on an integer and a record that returns a boolean
value. It parses the records from the reader and for each it calls the
lambda function with the record and its index as parameters. If the lambda
function returns true, it will continue processing the next record,
otherwise it will stop. The schema records are parsed with is returned, or
an error if something goes wrong when reading the stream or parsing a
record.
*/
func ReadBySample(reader io.Reader, schema *feature.Schema, lambda func(int, *dataset.Record) (bool, error)) (*feature.Schema, error) {
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	schema, features, err := parseHeader(header, schema)
	if err != nil {
		return nil, errors.Wrap(err, "parsing header")
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading body")
		}
		record, err := parseRecord(row, features)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing line %d", l)
		}
		if err = record.Validate(schema); err != nil {
			return nil, errors.Wrapf(err, "parsing line %d", l)
		}
		ok, err := lambda(l-2, record)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
	}
	return schema, nil
}

/*
NewWriter takes an io.Writer and a schema and returns a Writer that will
write records described by the schema on the io.Writer, starting with the
header.
*/
func NewWriter(writer io.Writer, schema *feature.Schema) (Writer, error) {
	w := csv.NewWriter(writer)
	row := []string{"id"}
	for _, f := range schema.Features() {
		row = append(row, f.Name()+":"+f.Kind().String()[:1])
	}
	row = append(row, "outcome")
	err := w.Write(row)
	if err != nil {
		return nil, errors.Wrap(err, "writing CSV header")
	}
	return &csvWriter{schema: schema, w: w}, nil
}

/*
WriteDataset takes a writer and a dataset and dumps the dataset to the
writer in CSV format. It returns an error if something went wrong when
writing to the writer.
*/
func WriteDataset(writer io.Writer, ds *dataset.Dataset) error {
	cw, err := NewWriter(writer, ds.Schema())
	if err != nil {
		return err
	}
	_, err = cw.Write(ds.Records())
	if err != nil {
		return err
	}
	return cw.Flush()
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(records []*dataset.Record) (int, error) {
	for n, r := range records {
		err := cw.writeRecord(r)
		if err != nil {
			return n, err
		}
	}
	return len(records), nil
}

func (cw *csvWriter) writeRecord(r *dataset.Record) error {
	id := r.ID()
	if id == "" {
		id = strconv.Itoa(cw.count + 1)
	}
	row := []string{id}
	for _, f := range cw.schema.Features() {
		v, err := r.ValueFor(f)
		if err != nil {
			return err
		}
		switch v := v.(type) {
		case float64:
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			row = append(row, formatBool(v))
		case string:
			row = append(row, v)
		default:
			return errors.Wrapf(dataset.ErrInvalidRecord, "record %s has value %v of type %T for feature %s", id, v, v, f.Name())
		}
	}
	row = append(row, formatBool(r.Outcome()))
	err := cw.w.Write(row)
	if err != nil {
		return errors.Wrapf(err, "writing CSV row for record %d", cw.count+1)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}

func parseHeader(header []string, schema *feature.Schema) (*feature.Schema, []feature.Feature, error) {
	if len(header) < 2 {
		return nil, nil, errors.Errorf("expected at least an id and an outcome column, got %d columns", len(header))
	}
	var features []feature.Feature
	for _, cell := range header[1 : len(header)-1] {
		cell = strings.TrimSpace(cell)
		name, kind := cell, ""
		if i := strings.LastIndex(cell, ":"); i >= 0 {
			name, kind = strings.TrimSpace(cell[:i]), strings.TrimSpace(cell[i+1:])
		}
		if schema != nil {
			f := schema.Feature(name)
			if f == nil {
				return nil, nil, errors.Errorf("reference to unknown feature %s", name)
			}
			features = append(features, f)
			continue
		}
		k, err := feature.ParseKind(kind)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "column %q", cell)
		}
		f, err := feature.New(name, k)
		if err != nil {
			return nil, nil, err
		}
		features = append(features, f)
	}
	if schema != nil {
		return schema, features, nil
	}
	schema, err := feature.NewSchema(features...)
	if err != nil {
		return nil, nil, err
	}
	return schema, features, nil
}

func parseRecord(row []string, features []feature.Feature) (*dataset.Record, error) {
	if len(row) != len(features)+2 {
		return nil, errors.Wrapf(dataset.ErrInvalidRecord, "expected %d columns, got %d", len(features)+2, len(row))
	}
	featureValues := make(map[string]interface{}, len(features))
	for i, f := range features {
		v := strings.TrimSpace(row[i+1])
		var value interface{}
		var err error
		switch f.Kind() {
		case feature.Numeric:
			value, err = strconv.ParseFloat(v, 64)
		case feature.Boolean:
			value, err = parseBool(v)
		default:
			value = v
		}
		if err != nil {
			return nil, errors.Wrapf(dataset.ErrInvalidRecord, "converting %q for feature %s: %v", v, f.Name(), err)
		}
		featureValues[f.Name()] = value
	}
	outcome, err := parseBool(strings.TrimSpace(row[len(row)-1]))
	if err != nil {
		return nil, errors.Wrapf(dataset.ErrInvalidRecord, "converting outcome: %v", err)
	}
	return dataset.NewRecord(strings.TrimSpace(row[0]), featureValues, outcome), nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "true", "t", "1":
		return true, nil
	case "no", "n", "false", "f", "0":
		return false, nil
	}
	return false, errors.Errorf("%q is not a boolean value", s)
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
