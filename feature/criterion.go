package feature

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/pkg/errors"
)

/*
Criterion represents a binary test on a feature. Records satisfying it
follow the pass branch of a tree node, the rest follow the fail branch.

Its SatisfiedBy method takes a sample and returns a boolean indicating if
the sample's value for the feature passes the test.

Its Feature method returns the feature on which the criterion is applied.

Its String method renders the test for diagnostics.
*/
type Criterion interface {
	Feature() Feature
	SatisfiedBy(sample Sample) (bool, error)
	String() string
}

/*
Sample is an interface for something that can satisfy a Criterion.

Its ValueFor method returns the value corresponding to the feature
passed as parameter.
*/
type Sample interface {
	ValueFor(Feature) (interface{}, error)
}

/*
LessThanCriterion is the test "value < threshold" on a numeric feature.
*/
type LessThanCriterion struct {
	feature   *NumericFeature
	threshold float64
}

/*
InSetCriterion is the test "value is one of a set of categories" on a
categorical feature. The categories keep the order in which they were
added to the set.
*/
type InSetCriterion struct {
	feature *CategoricalFeature
	values  *linkedhashset.Set
}

/*
IsTrueCriterion is the test "value is true" on a boolean feature.
*/
type IsTrueCriterion struct {
	feature *BooleanFeature
}

/*
NewLessThanCriterion takes a numeric feature and a threshold and returns
the criterion satisfied by samples whose value for the feature is below the
threshold.
*/
func NewLessThanCriterion(f *NumericFeature, threshold float64) *LessThanCriterion {
	return &LessThanCriterion{f, threshold}
}

/*
NewInSetCriterion takes a categorical feature and a list of categories and
returns the criterion satisfied by samples whose value for the feature is
one of them.
*/
func NewInSetCriterion(f *CategoricalFeature, values ...string) *InSetCriterion {
	set := linkedhashset.New()
	for _, v := range values {
		set.Add(v)
	}
	return &InSetCriterion{f, set}
}

/*
NewIsTrueCriterion takes a boolean feature and returns the criterion
satisfied by samples whose value for the feature is true.
*/
func NewIsTrueCriterion(f *BooleanFeature) *IsTrueCriterion {
	return &IsTrueCriterion{f}
}

// Feature returns the feature to which the test applies.
func (ltc *LessThanCriterion) Feature() Feature {
	return ltc.feature
}

// Threshold returns the value samples must be below to pass the test.
func (ltc *LessThanCriterion) Threshold() float64 {
	return ltc.threshold
}

/*
SatisfiedBy receives a sample and returns true if its value for the feature,
being a float64, is strictly below the threshold; and false otherwise. An
error is returned if the sample has no valid value for the feature.
*/
func (ltc *LessThanCriterion) SatisfiedBy(sample Sample) (bool, error) {
	val, err := valueFor(sample, ltc.feature)
	if err != nil {
		return false, err
	}
	return val.(float64) < ltc.threshold, nil
}

func (ltc *LessThanCriterion) String() string {
	return fmt.Sprintf("%s < %s", ltc.feature.Name(), strconv.FormatFloat(ltc.threshold, 'f', -1, 64))
}

// Feature returns the feature to which the test applies.
func (isc *InSetCriterion) Feature() Feature {
	return isc.feature
}

// Values returns the categories of the set in insertion order.
func (isc *InSetCriterion) Values() []string {
	values := make([]string, 0, isc.values.Size())
	for _, v := range isc.values.Values() {
		values = append(values, v.(string))
	}
	return values
}

// Contains returns whether the given category belongs to the set.
func (isc *InSetCriterion) Contains(value string) bool {
	return isc.values.Contains(value)
}

/*
SatisfiedBy receives a sample and returns true if its value for the feature
is one of the categories in the set, false otherwise. An error is returned
if the sample has no valid value for the feature.
*/
func (isc *InSetCriterion) SatisfiedBy(sample Sample) (bool, error) {
	val, err := valueFor(sample, isc.feature)
	if err != nil {
		return false, err
	}
	return isc.values.Contains(val.(string)), nil
}

func (isc *InSetCriterion) String() string {
	return fmt.Sprintf("%s is contained in {%s}", isc.feature.Name(), strings.Join(isc.Values(), ", "))
}

// Feature returns the feature to which the test applies.
func (itc *IsTrueCriterion) Feature() Feature {
	return itc.feature
}

/*
SatisfiedBy receives a sample and returns its boolean value for the
feature. An error is returned if the sample has no valid value for it.
*/
func (itc *IsTrueCriterion) SatisfiedBy(sample Sample) (bool, error) {
	val, err := valueFor(sample, itc.feature)
	if err != nil {
		return false, err
	}
	return val.(bool), nil
}

func (itc *IsTrueCriterion) String() string {
	return fmt.Sprintf("%s is true", itc.feature.Name())
}

func valueFor(sample Sample, f Feature) (interface{}, error) {
	val, err := sample.ValueFor(f)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, errors.Errorf("sample has no value for feature %s", f.Name())
	}
	if ok, err := f.Valid(val); !ok {
		return nil, err
	}
	return val, nil
}
