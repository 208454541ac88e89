/*
Package feature defines the attributes records are described with, the
schema grouping them and the criteria (split tests) that can be applied
on them.
*/
package feature

import (
	"github.com/pkg/errors"
)

/*
Kind identifies the type of values a feature takes.
*/
type Kind int

const (
	// Numeric features take float64 values
	Numeric Kind = iota + 1
	// Categorical features take string values
	Categorical
	// Boolean features take bool values
	Boolean
)

// SchemaError represents an error on the declaration of features
type SchemaError string

/*
ErrInvalidSchema is the error returned (possibly wrapped) when a feature
is declared with a kind that is not numeric, categorical or boolean, or
when a schema cannot be built from the given features.
*/
const ErrInvalidSchema = SchemaError("invalid schema")

func (se SchemaError) Error() string {
	return string(se)
}

/*
ParseKind takes a string and returns the Kind it names. Besides the full
names ("numeric", "categorical", "boolean") it accepts their initials
("n", "c", "b"). Any other value results in an ErrInvalidSchema error.
*/
func ParseKind(s string) (Kind, error) {
	switch s {
	case "numeric", "n":
		return Numeric, nil
	case "categorical", "c":
		return Categorical, nil
	case "boolean", "b":
		return Boolean, nil
	}
	return 0, errors.Wrapf(ErrInvalidSchema, "unknown feature kind %q", s)
}

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Boolean:
		return "boolean"
	}
	return "unknown"
}

/*
Feature represents a property that can be observed on a record
*/
type Feature interface {
	Name() string
	Kind() Kind
	Valid(interface{}) (bool, error)
}

/*
NumericFeature represents a property that can be observed and that takes
a numeric value.
*/
type NumericFeature struct {
	name string
}

/*
CategoricalFeature represents a property that can be observed and that
takes one token among a set of categories. The set of categories may be
left empty, in which case any string is accepted.
*/
type CategoricalFeature struct {
	name            string
	availableValues []string
}

/*
BooleanFeature represents a property that can be observed and that is
either true or false.
*/
type BooleanFeature struct {
	name string
}

/*
New takes a name and a kind and returns a feature of that kind with the
given name, or an ErrInvalidSchema error for an unknown kind.
*/
func New(name string, k Kind) (Feature, error) {
	switch k {
	case Numeric:
		return NewNumericFeature(name), nil
	case Categorical:
		return NewCategoricalFeature(name, nil), nil
	case Boolean:
		return NewBooleanFeature(name), nil
	}
	return nil, errors.Wrapf(ErrInvalidSchema, "feature %s has unknown kind %d", name, int(k))
}

/*
NewNumericFeature takes a name string and returns a numeric feature with
the given name.
*/
func NewNumericFeature(name string) *NumericFeature {
	return &NumericFeature{name}
}

/*
NewCategoricalFeature takes a name string and a slice of available value
strings and returns a categorical feature with the given name and
available values.
*/
func NewCategoricalFeature(name string, availableValues []string) *CategoricalFeature {
	return &CategoricalFeature{name, availableValues}
}

/*
NewBooleanFeature takes a name string and returns a boolean feature with
the given name.
*/
func NewBooleanFeature(name string) *BooleanFeature {
	return &BooleanFeature{name}
}

// Name returns a string with the name of the feature
func (nf *NumericFeature) Name() string {
	return nf.name
}

// Kind returns Numeric
func (nf *NumericFeature) Kind() Kind {
	return Numeric
}

/*
Valid receives an interface value and returns a boolean and an error. When
the value is a float64 it returns true and nil, otherwise it returns false
and an error describing the reason.
*/
func (nf *NumericFeature) Valid(value interface{}) (bool, error) {
	if _, ok := value.(float64); !ok {
		return false, errors.Errorf("numeric feature %s expects float64 value, got %T value", nf.name, value)
	}
	return true, nil
}

func (nf *NumericFeature) String() string {
	return nf.name
}

// Name returns a string with the name of the feature
func (cf *CategoricalFeature) Name() string {
	return cf.name
}

// Kind returns Categorical
func (cf *CategoricalFeature) Kind() Kind {
	return Categorical
}

/*
Valid receives an interface value and returns a boolean and an error. When
the value is a string and, if the feature declares available values, it is
one of them, the method returns true and nil. Otherwise it returns false and
an error describing the reason.
*/
func (cf *CategoricalFeature) Valid(value interface{}) (bool, error) {
	vs, ok := value.(string)
	if !ok {
		return false, errors.Errorf("categorical feature %s expects string value, got %T value", cf.name, value)
	}
	if len(cf.availableValues) == 0 {
		return true, nil
	}
	for _, av := range cf.availableValues {
		if av == vs {
			return true, nil
		}
	}
	return false, errors.Errorf("categorical feature %s got unknown value %s", cf.name, vs)
}

/*
AvailableValues returns a string slice with the values declared for the
feature, which may be empty.
*/
func (cf *CategoricalFeature) AvailableValues() []string {
	return cf.availableValues
}

func (cf *CategoricalFeature) String() string {
	return cf.name
}

// Name returns a string with the name of the feature
func (bf *BooleanFeature) Name() string {
	return bf.name
}

// Kind returns Boolean
func (bf *BooleanFeature) Kind() Kind {
	return Boolean
}

/*
Valid receives an interface value and returns true and nil if it is a bool,
false and an error describing the reason otherwise.
*/
func (bf *BooleanFeature) Valid(value interface{}) (bool, error) {
	if _, ok := value.(bool); !ok {
		return false, errors.Errorf("boolean feature %s expects bool value, got %T value", bf.name, value)
	}
	return true, nil
}

func (bf *BooleanFeature) String() string {
	return bf.name
}
