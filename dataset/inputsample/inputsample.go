/*
Package inputsample provides an implementation of feature.Sample whose
values are read from an io.Reader as they are needed.
*/
package inputsample

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tbehner/tdidt/dataset"
	"github.com/tbehner/tdidt/feature"
)

/*
readSample is a sample whose feature values are retrieved from a reader.
A feature value will be requested using a FeatureValueRequester before
reading it, and kept for later requests.
*/
type readSample struct {
	obtainedValues        map[string]interface{}
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	schema                *feature.Schema
}

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature.Feature) error
	RejectValueFor(feature.Feature, string) error
}

/*
New takes an io.Reader, a schema and a FeatureValueRequester and returns a
feature.Sample.

The returned Sample ValueFor method reads feature values first requesting
them with the given FeatureValueRequester and then parsing the values from
the reader, one per line.

For a numeric feature, lines will be read from the reader until a line
containing a valid float64 number is found. For a categorical feature,
lines will be read until one holds a valid value for the feature. For a
boolean feature, lines will be read until one holds yes, no, true, false,
y, n, t, f, 1 or 0. Every other line is rejected with the
FeatureValueRequester's RejectValueFor method.

Attempting to obtain a value for a feature not in the schema returns an
ErrInvalidRecord error.
*/
func New(r io.Reader, schema *feature.Schema, featureValueRequester FeatureValueRequester) feature.Sample {
	return &readSample{make(map[string]interface{}), bufio.NewScanner(r), featureValueRequester, schema}
}

func (rs *readSample) ValueFor(f feature.Feature) (interface{}, error) {
	value, ok := rs.obtainedValues[f.Name()]
	if ok {
		return value, nil
	}
	featureWithInfo := rs.schema.Feature(f.Name())
	if featureWithInfo == nil {
		return nil, errors.Wrapf(dataset.ErrInvalidRecord, "have no information about feature %s, do not know how to read its value", f.Name())
	}
	err := rs.featureValueRequester.RequestValueFor(featureWithInfo)
	if err != nil {
		return nil, err
	}
	for rs.scanner.Scan() {
		line := strings.TrimSpace(rs.scanner.Text())
		value, ok := parse(featureWithInfo, line)
		if ok {
			rs.obtainedValues[f.Name()] = value
			return value, nil
		}
		err = rs.featureValueRequester.RejectValueFor(featureWithInfo, line)
		if err != nil {
			return nil, err
		}
	}
	err = rs.scanner.Err()
	if err != nil {
		return nil, errors.Wrapf(err, "reading value for %s", f.Name())
	}
	return nil, errors.Errorf("EOF when requesting value for %s", f.Name())
}

func parse(f feature.Feature, s string) (interface{}, bool) {
	switch f := f.(type) {
	case *feature.NumericFeature:
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	case *feature.CategoricalFeature:
		ok, _ := f.Valid(s)
		return s, ok
	case *feature.BooleanFeature:
		switch strings.ToLower(s) {
		case "yes", "y":
			return true, true
		case "no", "n":
			return false, true
		}
		v, err := strconv.ParseBool(s)
		return v, err == nil
	}
	return nil, false
}
