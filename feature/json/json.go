package json

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/tbehner/tdidt/feature"
)

/*
CriteriaEncodeDecoder is an interface for objects
that allow encoding criteria into slices of
bytes and decoding them back to criteria.
*/
type CriteriaEncodeDecoder interface {

	//Encode receives a feature.Criterion
	// and returns a slice of bytes with the criterion
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(feature.Criterion) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a feature.Criterion decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (feature.Criterion, error)
}

type jsonCriteriaEncodeDecoder struct {
	schema *feature.Schema
}

type jsonCriterion struct {
	Type      string   `json:"t"`
	Feature   string   `json:"f"`
	Threshold string   `json:"th,omitempty"`
	Values    []string `json:"vs,omitempty"`
}

type jsonFeature struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Values []string `json:"values,omitempty"`
}

// NewCriteriaEncodeDecoder takes a schema and returns a
// CriteriaEncodeDecoder that marshals and unmarshals
// criteria on the features of the schema into/from slices
// of bytes as JSON.
// Specifically, criteria are encoded as a JSON object
// with a "f" property set to the name of the feature
// of the criteria and a "t" property that can be one of
// "lessThan", "inSet" or "isTrue":
//   - If the criterion is lessThan it will have a "th"
//     property with the threshold formatted as a string
//   - If the criterion is inSet it will have a "vs"
//     property with the values of the set in order,
//     missing for an empty set
//   - If the criterion is isTrue it will have no
//     additional properties
func NewCriteriaEncodeDecoder(schema *feature.Schema) CriteriaEncodeDecoder {
	return &jsonCriteriaEncodeDecoder{schema}
}

func (jced *jsonCriteriaEncodeDecoder) Encode(fc feature.Criterion) ([]byte, error) {
	jc := &jsonCriterion{Feature: fc.Feature().Name()}
	switch c := fc.(type) {
	case *feature.LessThanCriterion:
		jc.Type = "lessThan"
		jc.Threshold = strconv.FormatFloat(c.Threshold(), 'g', -1, 64)
	case *feature.InSetCriterion:
		jc.Type = "inSet"
		jc.Values = c.Values()
	case *feature.IsTrueCriterion:
		jc.Type = "isTrue"
	default:
		return nil, errors.Errorf("unknown type of feature.Criterion %T", fc)
	}
	return json.Marshal(jc)
}

func (jced *jsonCriteriaEncodeDecoder) Decode(data []byte) (feature.Criterion, error) {
	jc := &jsonCriterion{}
	err := json.Unmarshal(data, jc)
	if err != nil {
		return nil, err
	}
	return jc.Criterion(jced.schema)
}

func (jc *jsonCriterion) Criterion(schema *feature.Schema) (feature.Criterion, error) {
	f := schema.Feature(jc.Feature)
	if f == nil {
		return nil, errors.Errorf("unknown feature '%s'", jc.Feature)
	}
	switch jc.Type {
	case "lessThan":
		nf, ok := f.(*feature.NumericFeature)
		if !ok {
			return nil, errors.Errorf("expected numeric feature for lessThan criterion but found %T feature %v", f, f.Name())
		}
		threshold, err := strconv.ParseFloat(jc.Threshold, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing threshold of criterion on %s", f.Name())
		}
		return feature.NewLessThanCriterion(nf, threshold), nil
	case "inSet":
		cf, ok := f.(*feature.CategoricalFeature)
		if !ok {
			return nil, errors.Errorf("expected categorical feature for inSet criterion but found %T feature %v", f, f.Name())
		}
		return feature.NewInSetCriterion(cf, jc.Values...), nil
	case "isTrue":
		bf, ok := f.(*feature.BooleanFeature)
		if !ok {
			return nil, errors.Errorf("expected boolean feature for isTrue criterion but found %T feature %v", f, f.Name())
		}
		return feature.NewIsTrueCriterion(bf), nil
	}
	return nil, errors.Errorf("unknown feature criterion type '%s'", jc.Type)
}

/*
MarshalSchema takes a schema and returns it encoded as a JSON array with an
object per feature, in order, with the following fields:
  - "name": the name of the feature
  - "kind": one of "numeric", "categorical" or "boolean"
  - "values": for categorical features with restricted values, the values
    the feature can take
*/
func MarshalSchema(schema *feature.Schema) ([]byte, error) {
	jfs := make([]*jsonFeature, 0, schema.Len())
	for _, f := range schema.Features() {
		jf := &jsonFeature{Name: f.Name(), Kind: f.Kind().String()}
		if cf, ok := f.(*feature.CategoricalFeature); ok {
			jf.Values = cf.AvailableValues()
		}
		jfs = append(jfs, jf)
	}
	return json.Marshal(jfs)
}

/*
UnmarshalSchema takes a slice of bytes with a schema encoded by
MarshalSchema and returns the schema or an error. An ErrInvalidSchema error
is returned for features of unknown kinds.
*/
func UnmarshalSchema(data []byte) (*feature.Schema, error) {
	var jfs []*jsonFeature
	err := json.Unmarshal(data, &jfs)
	if err != nil {
		return nil, err
	}
	features := make([]feature.Feature, 0, len(jfs))
	for _, jf := range jfs {
		k, err := feature.ParseKind(jf.Kind)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %s", jf.Name)
		}
		if k == feature.Categorical {
			features = append(features, feature.NewCategoricalFeature(jf.Name, jf.Values))
			continue
		}
		f, err := feature.New(jf.Name, k)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return feature.NewSchema(features...)
}
