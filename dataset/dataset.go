/*
Package dataset provides the collection of records a tree is grown from,
along with the outcome counts and entropy the induction relies on.
*/
package dataset

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/tbehner/tdidt/feature"
	"github.com/tbehner/tdidt/stats"
)

// Error represents an error related with datasets and their records
type Error string

const (
	/*
		ErrInvalidRecord is the error returned (possibly wrapped) when a record
		does not match the schema of the dataset it is added to.
	*/
	ErrInvalidRecord = Error("invalid record")
	/*
		ErrEmptyDataset is the error returned (possibly wrapped) when a tree is
		to be grown from a dataset without records, whose entropy is undefined.
	*/
	ErrEmptyDataset = Error("empty dataset")
)

func (e Error) Error() string {
	return string(e)
}

/*
Dataset represents an ordered collection of records sharing a schema.

It keeps the number of records with a positive and a negative outcome and
the entropy of those counts. A Dataset is never modified once built:
splitting it yields new datasets over the same records and schema, and the
slices it takes and hands out are copies of the one it keeps.
*/
type Dataset struct {
	schema    *feature.Schema
	records   []*Record
	positives int
	negatives int
	entropy   float64
	criteria  []feature.Criterion
}

/*
New takes a schema and a slice of records and returns a dataset built with
them or an ErrInvalidRecord error if any of the records does not match the
schema.
*/
func New(schema *feature.Schema, records []*Record) (*Dataset, error) {
	if schema == nil {
		return nil, errors.Wrap(feature.ErrInvalidSchema, "building dataset without schema")
	}
	for i, r := range records {
		if r == nil {
			return nil, errors.Wrapf(ErrInvalidRecord, "record #%d is nil", i)
		}
		if err := r.Validate(schema); err != nil {
			return nil, err
		}
	}
	return newDataset(schema, append([]*Record(nil), records...), nil), nil
}

func newDataset(schema *feature.Schema, records []*Record, criteria []feature.Criterion) *Dataset {
	ds := &Dataset{schema: schema, records: records, criteria: criteria}
	for _, r := range records {
		if r.outcome {
			ds.positives++
		} else {
			ds.negatives++
		}
	}
	ds.entropy = stats.CountEntropy(ds.positives, ds.negatives)
	return ds
}

// Schema returns the schema shared by the records of the dataset
func (ds *Dataset) Schema() *feature.Schema {
	return ds.schema
}

// Records returns a copy of the slice of records in the dataset
func (ds *Dataset) Records() []*Record {
	return append([]*Record(nil), ds.records...)
}

// Count returns the number of records in the dataset
func (ds *Dataset) Count() int {
	return len(ds.records)
}

// Positives returns the number of records with a true outcome
func (ds *Dataset) Positives() int {
	return ds.positives
}

// Negatives returns the number of records with a false outcome
func (ds *Dataset) Negatives() int {
	return ds.negatives
}

/*
Entropy returns the entropy of the outcomes of the records in the dataset,
0 for an empty dataset.
*/
func (ds *Dataset) Entropy() float64 {
	return ds.entropy
}

/*
Criteria returns the criteria applied to the original dataset to obtain
this one, the most recent first. The pass branch of a split records its
criterion, the fail branch does not.
*/
func (ds *Dataset) Criteria() []feature.Criterion {
	return ds.criteria
}

/*
Split takes a criterion and partitions the records of the dataset into a
pass dataset with the records satisfying it and a fail dataset with the
rest. Both keep the relative order of the records and share the schema of
the dataset. An error is returned if the criterion cannot be evaluated on a
record.
*/
func (ds *Dataset) Split(c feature.Criterion) (pass *Dataset, fail *Dataset, err error) {
	var passRecords, failRecords []*Record
	for _, r := range ds.records {
		ok, err := c.SatisfiedBy(r)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "splitting dataset with %v", c)
		}
		if ok {
			passRecords = append(passRecords, r)
		} else {
			failRecords = append(failRecords, r)
		}
	}
	passCriteria := append([]feature.Criterion{c}, ds.criteria...)
	return newDataset(ds.schema, passRecords, passCriteria), newDataset(ds.schema, failRecords, ds.criteria), nil
}

/*
Holdout takes a dataset, a random number generator and a probability
between 0 and 1 and randomly partitions the dataset: every record is sent
to the held-out dataset with the given probability, and to the rest
dataset otherwise. An error is returned for a probability out of range.
*/
func Holdout(ds *Dataset, r *rand.Rand, probability float64) (rest *Dataset, heldOut *Dataset, err error) {
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return nil, nil, errors.Errorf("holdout probability %v is not between 0 and 1", probability)
	}
	var restRecords, heldOutRecords []*Record
	for _, record := range ds.records {
		if r.Float64() < probability {
			heldOutRecords = append(heldOutRecords, record)
		} else {
			restRecords = append(restRecords, record)
		}
	}
	return newDataset(ds.schema, restRecords, ds.criteria), newDataset(ds.schema, heldOutRecords, ds.criteria), nil
}
