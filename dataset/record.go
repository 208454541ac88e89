package dataset

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/tbehner/tdidt/feature"
)

/*
Record is a sample from which to learn or that is to be classified: typed
values for the features of a schema plus a boolean outcome.
*/
type Record struct {
	id            string
	featureValues map[string]interface{}
	outcome       bool
}

/*
NewRecord takes an identifier, a map of feature names to values and an
outcome and returns a record. The identifier may be empty.
*/
func NewRecord(id string, featureValues map[string]interface{}, outcome bool) *Record {
	return &Record{id, featureValues, outcome}
}

// ID returns the identifier of the record
func (r *Record) ID() string {
	return r.id
}

// Outcome returns the label of the record
func (r *Record) Outcome() bool {
	return r.outcome
}

/*
ValueFor returns the value of the record for the given feature, nil if the
record has none.
*/
func (r *Record) ValueFor(f feature.Feature) (interface{}, error) {
	return r.featureValues[f.Name()], nil
}

/*
Validate takes a schema and returns an ErrInvalidRecord error if the record
misses a value for a feature in the schema, has a value for a feature that
is not in the schema, or holds a value the feature does not accept.
*/
func (r *Record) Validate(schema *feature.Schema) error {
	for _, f := range schema.Features() {
		v, ok := r.featureValues[f.Name()]
		if !ok || v == nil {
			return errors.Wrapf(ErrInvalidRecord, "record %s has no value for feature %s", r.id, f.Name())
		}
		if ok, err := f.Valid(v); !ok {
			return errors.Wrapf(ErrInvalidRecord, "record %s: %v", r.id, err)
		}
	}
	if len(r.featureValues) != schema.Len() {
		for name := range r.featureValues {
			if schema.Feature(name) == nil {
				return errors.Wrapf(ErrInvalidRecord, "record %s references unknown feature %s", r.id, name)
			}
		}
	}
	return nil
}

func (r *Record) String() string {
	return fmt.Sprintf("[%s %v => %v]", r.id, r.featureValues, r.outcome)
}
