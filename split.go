package tdidt

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/tbehner/tdidt/dataset"
	"github.com/tbehner/tdidt/feature"
	"github.com/tbehner/tdidt/stats"
)

/*
Split represents the best binary test found for a feature on a dataset
along with the information gain it yields. Criterion may be nil when no
test on the feature can separate the records of the dataset, in which case
InformationGain is 0.
*/
type Split struct {
	Feature         feature.Feature
	Criterion       feature.Criterion
	InformationGain float64
}

func (s *Split) String() string {
	return fmt.Sprintf("{Split %v informationGain=%f}", s.Criterion, s.InformationGain)
}

/*
BestSplit takes a dataset and a feature and returns the split on the
feature with the highest information gain over the dataset. The search
strategy depends on the kind of the feature:
  - numeric features are tested with a threshold halfway between two
    consecutive distinct values, unless every record holding either value
    has the same outcome
  - categorical features are tested for membership in a set of values
    grown greedily from the values with the best isolated gain
  - boolean features are tested for being true

An ErrInvalidSchema error is returned if the feature is of an unknown type,
and any error obtained retrieving the values of the records is returned
wrapped.
*/
func BestSplit(ds *dataset.Dataset, f feature.Feature) (*Split, error) {
	switch f := f.(type) {
	case *feature.NumericFeature:
		return numericSplit(ds, f)
	case *feature.CategoricalFeature:
		return categoricalSplit(ds, f)
	case *feature.BooleanFeature:
		return booleanSplit(ds, f)
	default:
		return nil, errors.Wrapf(feature.ErrInvalidSchema, "unknown feature type %T for feature %v", f, f.Name())
	}
}

type numericValue struct {
	value   float64
	outcome bool
}

func numericSplit(ds *dataset.Dataset, f *feature.NumericFeature) (*Split, error) {
	values := make([]numericValue, 0, ds.Count())
	for _, r := range ds.Records() {
		v, err := r.ValueFor(f)
		if err != nil {
			return nil, errors.Wrapf(err, "record %s", r.ID())
		}
		fv, ok := v.(float64)
		if !ok {
			return nil, errors.Wrapf(dataset.ErrInvalidRecord, "record %s: value %v for numeric feature %s is not a float64", r.ID(), v, f.Name())
		}
		values = append(values, numericValue{fv, r.Outcome()})
	}
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].value < values[j].value
	})
	groups := groupByValue(values)
	result := &Split{Feature: f}
	var ppos, pneg int
	for i := 0; i+1 < len(groups); i++ {
		g, next := groups[i], groups[i+1]
		ppos += g.positives
		pneg += g.negatives
		if (g.negatives == 0 && next.negatives == 0) || (g.positives == 0 && next.positives == 0) {
			continue
		}
		gain := stats.InformationGain(ppos, pneg, ds.Positives()-ppos, ds.Negatives()-pneg)
		if result.Criterion == nil || gain > result.InformationGain {
			result.Criterion = feature.NewLessThanCriterion(f, (g.value+next.value)/2.0)
			result.InformationGain = gain
		}
	}
	return result, nil
}

// valueGroup counts the outcomes of the records sharing a value
type valueGroup struct {
	value     float64
	positives int
	negatives int
}

// groupByValue takes values sorted by value and returns
// a group per distinct value, in the same order
func groupByValue(values []numericValue) []valueGroup {
	var groups []valueGroup
	for _, v := range values {
		if len(groups) == 0 || groups[len(groups)-1].value != v.value {
			groups = append(groups, valueGroup{value: v.value})
		}
		g := &groups[len(groups)-1]
		if v.outcome {
			g.positives++
		} else {
			g.negatives++
		}
	}
	return groups
}

type histogram struct {
	value     string
	positives int
	negatives int
	gain      float64
}

func categoricalSplit(ds *dataset.Dataset, f *feature.CategoricalFeature) (*Split, error) {
	var histograms []*histogram
	byValue := make(map[string]*histogram)
	for _, r := range ds.Records() {
		v, err := r.ValueFor(f)
		if err != nil {
			return nil, errors.Wrapf(err, "record %s", r.ID())
		}
		sv, ok := v.(string)
		if !ok {
			return nil, errors.Wrapf(dataset.ErrInvalidRecord, "record %s: value %v for categorical feature %s is not a string", r.ID(), v, f.Name())
		}
		h, ok := byValue[sv]
		if !ok {
			h = &histogram{value: sv}
			byValue[sv] = h
			histograms = append(histograms, h)
		}
		if r.Outcome() {
			h.positives++
		} else {
			h.negatives++
		}
	}
	for _, h := range histograms {
		h.gain = stats.InformationGain(h.positives, h.negatives, ds.Positives()-h.positives, ds.Negatives()-h.negatives)
	}
	sort.SliceStable(histograms, func(i, j int) bool {
		return histograms[i].gain > histograms[j].gain
	})
	var selected []string
	var spos, sneg int
	var previousGain float64
	for _, h := range histograms {
		pos, neg := spos+h.positives, sneg+h.negatives
		gain := stats.InformationGain(pos, neg, ds.Positives()-pos, ds.Negatives()-neg)
		if gain > previousGain {
			selected = append(selected, h.value)
			spos, sneg = pos, neg
			previousGain = gain
		}
	}
	return &Split{
		Feature:         f,
		Criterion:       feature.NewInSetCriterion(f, selected...),
		InformationGain: previousGain,
	}, nil
}

func booleanSplit(ds *dataset.Dataset, f *feature.BooleanFeature) (*Split, error) {
	var ppos, pneg int
	for _, r := range ds.Records() {
		v, err := r.ValueFor(f)
		if err != nil {
			return nil, errors.Wrapf(err, "record %s", r.ID())
		}
		bv, ok := v.(bool)
		if !ok {
			return nil, errors.Wrapf(dataset.ErrInvalidRecord, "record %s: value %v for boolean feature %s is not a bool", r.ID(), v, f.Name())
		}
		if !bv {
			continue
		}
		if r.Outcome() {
			ppos++
		} else {
			pneg++
		}
	}
	return &Split{
		Feature:         f,
		Criterion:       feature.NewIsTrueCriterion(f),
		InformationGain: stats.InformationGain(ppos, pneg, ds.Positives()-ppos, ds.Negatives()-pneg),
	}, nil
}
