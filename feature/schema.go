package feature

import (
	"github.com/pkg/errors"
)

/*
Schema is the ordered collection of features that describe the records of
a dataset. It is fixed once built and meant to be shared by pointer by every
dataset derived from the same training data.
*/
type Schema struct {
	features []Feature
	byName   map[string]Feature
}

/*
NewSchema takes features and returns a schema with them in the given order.
It returns an ErrInvalidSchema error if a feature is nil, has an empty or
duplicated name, or is not one of the numeric, categorical or boolean
feature types.
*/
func NewSchema(features ...Feature) (*Schema, error) {
	s := &Schema{
		features: make([]Feature, 0, len(features)),
		byName:   make(map[string]Feature, len(features)),
	}
	for i, f := range features {
		if f == nil {
			return nil, errors.Wrapf(ErrInvalidSchema, "feature #%d is nil", i)
		}
		if err := CheckKind(f); err != nil {
			return nil, err
		}
		if f.Name() == "" {
			return nil, errors.Wrapf(ErrInvalidSchema, "feature #%d has no name", i)
		}
		if _, ok := s.byName[f.Name()]; ok {
			return nil, errors.Wrapf(ErrInvalidSchema, "feature %s is declared twice", f.Name())
		}
		s.features = append(s.features, f)
		s.byName[f.Name()] = f
	}
	return s, nil
}

/*
CheckKind returns nil if the given feature is a *NumericFeature, a
*CategoricalFeature or a *BooleanFeature, and an ErrInvalidSchema error
otherwise.
*/
func CheckKind(f Feature) error {
	switch f.(type) {
	case *NumericFeature, *CategoricalFeature, *BooleanFeature:
		return nil
	}
	return errors.Wrapf(ErrInvalidSchema, "unknown feature type %T for feature %v", f, f.Name())
}

// Features returns the features of the schema in order
func (s *Schema) Features() []Feature {
	return append([]Feature(nil), s.features...)
}

// Feature returns the feature with the given name or nil
func (s *Schema) Feature(name string) Feature {
	return s.byName[name]
}

// Len returns the number of features in the schema
func (s *Schema) Len() int {
	return len(s.features)
}

// Names returns the names of the features in the schema in order
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.features))
	for _, f := range s.features {
		names = append(names, f.Name())
	}
	return names
}

/*
Contains returns whether the given feature is the one registered on the
schema under its name.
*/
func (s *Schema) Contains(f Feature) bool {
	if f == nil {
		return false
	}
	return s.byName[f.Name()] == f
}
