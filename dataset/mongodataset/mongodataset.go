/*
Package mongodataset reads datasets from and writes them onto MongoDB
collections, with a document per record.

Documents hold a field per feature of the schema named after it and a
field for the outcome named after the label given to Open and Write.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/tbehner/tdidt/dataset"
	"github.com/tbehner/tdidt/feature"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
Connect takes a context and a MongoDB connection URL and returns a client
connected to the server or an error.
*/
func Connect(ctx context.Context, url string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", url)
	}
	err = client.Ping(ctx, nil)
	if err != nil {
		client.Disconnect(ctx)
		return nil, errors.Wrapf(err, "pinging %s", url)
	}
	return client, nil
}

/*
Open takes a context, a collection, a schema, the name of the field holding
the outcome and a filter and returns a dataset with the records for the
documents in the collection matching the filter, in _id order. A nil filter
matches every document.

An ErrInvalidRecord error is returned if a document misses a value or has a
value of the wrong type for a feature or the label.
*/
func Open(ctx context.Context, coll *mongo.Collection, schema *feature.Schema, label string, filter interface{}) (*dataset.Dataset, error) {
	if err := checkFieldNames(schema, label); err != nil {
		return nil, err
	}
	if filter == nil {
		filter = bson.D{}
	}
	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrapf(err, "querying collection %s", coll.Name())
	}
	defer cursor.Close(ctx)
	var records []*dataset.Record
	for cursor.Next(ctx) {
		var doc bson.M
		err = cursor.Decode(&doc)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding document #%d", len(records)+1)
		}
		r, err := recordFromDocument(doc, schema, label)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err = cursor.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading collection %s", coll.Name())
	}
	return dataset.New(schema, records)
}

/*
Write takes a context, a collection, a dataset and the name of the field to
hold the outcome and inserts a document per record of the dataset in the
collection. It returns the number of inserted documents or an error.
*/
func Write(ctx context.Context, coll *mongo.Collection, ds *dataset.Dataset, label string) (int, error) {
	if err := checkFieldNames(ds.Schema(), label); err != nil {
		return 0, err
	}
	if ds.Count() == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, ds.Count())
	for _, r := range ds.Records() {
		doc, err := documentFromRecord(r, ds.Schema(), label)
		if err != nil {
			return 0, err
		}
		docs = append(docs, doc)
	}
	result, err := coll.InsertMany(ctx, docs)
	if err != nil {
		if result != nil {
			return len(result.InsertedIDs), errors.Wrapf(err, "inserting documents into %s", coll.Name())
		}
		return 0, errors.Wrapf(err, "inserting documents into %s", coll.Name())
	}
	return len(result.InsertedIDs), nil
}

func checkFieldNames(schema *feature.Schema, label string) error {
	for _, name := range append(schema.Names(), label) {
		if name == "_id" {
			return errors.Wrapf(feature.ErrInvalidSchema, "invalid field name %q: reserved collection field", "_id")
		}
		if name == "" || strings.ContainsAny(name, ".$") {
			return errors.Wrapf(feature.ErrInvalidSchema, "invalid field name %q: empty or containing reserved characters %q or %q", name, ".", "$")
		}
	}
	if schema.Feature(label) != nil {
		return errors.Wrapf(feature.ErrInvalidSchema, "label %q is also a feature", label)
	}
	return nil
}

func recordFromDocument(doc bson.M, schema *feature.Schema, label string) (*dataset.Record, error) {
	id := documentID(doc["_id"])
	values := make(map[string]interface{}, schema.Len())
	for _, f := range schema.Features() {
		raw, ok := doc[f.Name()]
		if !ok || raw == nil {
			return nil, errors.Wrapf(dataset.ErrInvalidRecord, "document %s has no value for feature %s", id, f.Name())
		}
		v, err := convert(raw, f.Kind())
		if err != nil {
			return nil, errors.Wrapf(dataset.ErrInvalidRecord, "document %s: feature %s: %v", id, f.Name(), err)
		}
		values[f.Name()] = v
	}
	raw, ok := doc[label]
	if !ok || raw == nil {
		return nil, errors.Wrapf(dataset.ErrInvalidRecord, "document %s has no value for label %s", id, label)
	}
	outcome, err := convert(raw, feature.Boolean)
	if err != nil {
		return nil, errors.Wrapf(dataset.ErrInvalidRecord, "document %s: label %s: %v", id, label, err)
	}
	return dataset.NewRecord(id, values, outcome.(bool)), nil
}

func documentFromRecord(r *dataset.Record, schema *feature.Schema, label string) (bson.D, error) {
	doc := make(bson.D, 0, schema.Len()+1)
	for _, f := range schema.Features() {
		v, err := r.ValueFor(f)
		if err != nil {
			return nil, err
		}
		doc = append(doc, bson.E{Key: f.Name(), Value: v})
	}
	return append(doc, bson.E{Key: label, Value: r.Outcome()}), nil
}

// convert takes a value decoded from BSON and returns it
// as the Go type features of the given kind hold
func convert(v interface{}, k feature.Kind) (interface{}, error) {
	switch k {
	case feature.Numeric:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int32:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case int:
			return float64(n), nil
		}
	case feature.Categorical:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case feature.Boolean:
		switch b := v.(type) {
		case bool:
			return b, nil
		case int32:
			if b == 0 || b == 1 {
				return b == 1, nil
			}
		case int64:
			if b == 0 || b == 1 {
				return b == 1, nil
			}
		}
	}
	return nil, fmt.Errorf("cannot use %v (%T) as a %v value", v, v, k)
}

func documentID(id interface{}) string {
	switch id := id.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	}
	return fmt.Sprint(id)
}
