package tdidt

import (
	"math"
	"sort"
	"strconv"
	"testing"
	"testing/quick"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/tbehner/tdidt/dataset"
	"github.com/tbehner/tdidt/feature"
	"github.com/tbehner/tdidt/stats"
)

const epsilon = 1e-9

type row struct {
	values  map[string]interface{}
	outcome bool
}

func newDataset(t *testing.T, schema *feature.Schema, rows []row) *dataset.Dataset {
	t.Helper()
	records := make([]*dataset.Record, 0, len(rows))
	for i, r := range rows {
		records = append(records, dataset.NewRecord(strconv.Itoa(i+1), r.values, r.outcome))
	}
	ds, err := dataset.New(schema, records)
	if err != nil {
		t.Fatalf("unexpected error building dataset: %v", err)
	}
	return ds
}

func newSchema(t *testing.T, features ...feature.Feature) *feature.Schema {
	t.Helper()
	schema, err := feature.NewSchema(features...)
	if err != nil {
		t.Fatalf("unexpected error building schema: %v", err)
	}
	return schema
}

func numericRows(name string, values []float64, outcomes []bool) []row {
	rows := make([]row, 0, len(values))
	for i, v := range values {
		rows = append(rows, row{map[string]interface{}{name: v}, outcomes[i]})
	}
	return rows
}

func TestNumericSplit(t *testing.T) {
	x := feature.NewNumericFeature("x")
	schema := newSchema(t, x)
	testCases := []struct {
		name      string
		values    []float64
		outcomes  []bool
		threshold float64
		gain      float64
		noTest    bool
	}{
		{
			name:      "perfect separation",
			values:    []float64{4, 1, 3, 2},
			outcomes:  []bool{false, true, false, true},
			threshold: 2.5,
			gain:      1.0,
		},
		{
			name:      "first threshold wins ties",
			values:    []float64{1, 2, 3},
			outcomes:  []bool{true, false, true},
			threshold: 1.5,
			gain:      stats.InformationGain(1, 0, 1, 1),
		},
		{
			name:     "constant outcome",
			values:   []float64{1, 2, 3},
			outcomes: []bool{true, true, true},
			noTest:   true,
		},
		{
			name:     "equal values",
			values:   []float64{7, 7, 7, 7},
			outcomes: []bool{true, false, true, false},
			noTest:   true,
		},
		{
			name:      "mixed group of equal values bounds both thresholds",
			values:    []float64{1, 2, 2, 3},
			outcomes:  []bool{true, true, false, true},
			threshold: 1.5,
			gain:      stats.InformationGain(1, 0, 2, 1),
		},
		{
			name:      "groups pure with the same outcome are not separated",
			values:    []float64{1, 2, 3, 3, 4},
			outcomes:  []bool{true, true, false, false, true},
			threshold: 2.5,
			gain:      stats.InformationGain(2, 0, 1, 2),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ds := newDataset(t, schema, numericRows("x", tc.values, tc.outcomes))
			s, err := BestSplit(ds, x)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.noTest {
				if s.Criterion != nil || s.InformationGain != 0 {
					t.Errorf("expected no test and no gain, got %v", s)
				}
				return
			}
			ltc, ok := s.Criterion.(*feature.LessThanCriterion)
			if !ok {
				t.Fatalf("expected a *feature.LessThanCriterion, got %T", s.Criterion)
			}
			if ltc.Threshold() != tc.threshold {
				t.Errorf("expected threshold %v, got %v", tc.threshold, ltc.Threshold())
			}
			if math.Abs(s.InformationGain-tc.gain) > epsilon {
				t.Errorf("expected gain %v, got %v", tc.gain, s.InformationGain)
			}
		})
	}
}

func TestNumericSplitDoesNotDependOnRecordOrder(t *testing.T) {
	x := feature.NewNumericFeature("x")
	schema := newSchema(t, x)
	orders := [][]row{
		numericRows("x", []float64{1, 2, 2, 3}, []bool{true, false, true, false}),
		numericRows("x", []float64{1, 2, 2, 3}, []bool{true, true, false, false}),
		numericRows("x", []float64{3, 2, 1, 2}, []bool{false, false, true, true}),
	}
	for i, rows := range orders {
		s, err := BestSplit(newDataset(t, schema, rows), x)
		if err != nil {
			t.Fatalf("order #%d: unexpected error: %v", i, err)
		}
		if s.Criterion == nil || s.Criterion.String() != "x < 1.5" {
			t.Errorf("order #%d: expected test x < 1.5, got %v", i, s)
		}
		if math.Abs(s.InformationGain-stats.InformationGain(1, 0, 1, 2)) > epsilon {
			t.Errorf("order #%d: expected gain %v, got %v", i, stats.InformationGain(1, 0, 1, 2), s.InformationGain)
		}
	}
}

func TestNumericSplitThresholdLiesBetweenDifferingNeighbours(t *testing.T) {
	x := feature.NewNumericFeature("x")
	schema := newSchema(t, x)
	f := func(ints []int8, outcomes []bool) bool {
		n := len(ints)
		if len(outcomes) < n {
			n = len(outcomes)
		}
		values := make([]float64, n)
		for i := range values {
			values[i] = float64(ints[i])
		}
		ds := newDataset(t, schema, numericRows("x", values, outcomes[:n]))
		s, err := BestSplit(ds, x)
		if err != nil {
			return false
		}
		if ds.Positives() == 0 || ds.Negatives() == 0 {
			return s.Criterion == nil
		}
		if s.Criterion == nil {
			return true
		}
		threshold := s.Criterion.(*feature.LessThanCriterion).Threshold()
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		for i := 0; i+1 < len(sorted); i++ {
			if sorted[i] < threshold && threshold < sorted[i+1] {
				return s.InformationGain >= 0
			}
		}
		return false
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestCategoricalSplit(t *testing.T) {
	color := feature.NewCategoricalFeature("color", nil)
	schema := newSchema(t, color)
	var rows []row
	add := func(value string, positives, negatives int) {
		for i := 0; i < positives; i++ {
			rows = append(rows, row{map[string]interface{}{"color": value}, true})
		}
		for i := 0; i < negatives; i++ {
			rows = append(rows, row{map[string]interface{}{"color": value}, false})
		}
	}
	add("red", 3, 0)
	add("green", 0, 3)
	add("blue", 2, 1)
	add("white", 1, 2)
	ds := newDataset(t, schema, rows)
	s, err := BestSplit(ds, color)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	isc, ok := s.Criterion.(*feature.InSetCriterion)
	if !ok {
		t.Fatalf("expected a *feature.InSetCriterion, got %T", s.Criterion)
	}
	// green would bring the gain down to 0 and white would not improve it
	if diff := cmp.Diff([]string{"red", "blue"}, isc.Values()); diff != "" {
		t.Errorf("unexpected values (-want +got):\n%s", diff)
	}
	expected := stats.InformationGain(5, 1, 1, 5)
	if math.Abs(s.InformationGain-expected) > epsilon {
		t.Errorf("expected gain %v, got %v", expected, s.InformationGain)
	}
	if s.Criterion.String() != "color is contained in {red, blue}" {
		t.Errorf("unexpected rendering %q", s.Criterion.String())
	}
}

func TestCategoricalSplitWithoutGain(t *testing.T) {
	color := feature.NewCategoricalFeature("color", nil)
	schema := newSchema(t, color)
	ds := newDataset(t, schema, []row{
		{map[string]interface{}{"color": "red"}, true},
		{map[string]interface{}{"color": "red"}, false},
	})
	s, err := BestSplit(ds, color)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	isc, ok := s.Criterion.(*feature.InSetCriterion)
	if !ok {
		t.Fatalf("expected a *feature.InSetCriterion, got %T", s.Criterion)
	}
	if len(isc.Values()) != 0 || s.InformationGain != 0 {
		t.Errorf("expected an empty set with no gain, got %v", s)
	}
}

func TestBooleanSplit(t *testing.T) {
	a := feature.NewBooleanFeature("a")
	schema := newSchema(t, a)
	var rows []row
	for i := 0; i < 5; i++ {
		rows = append(rows, row{map[string]interface{}{"a": true}, true})
		rows = append(rows, row{map[string]interface{}{"a": false}, false})
	}
	ds := newDataset(t, schema, rows)
	s, err := BestSplit(ds, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.Criterion.(*feature.IsTrueCriterion); !ok {
		t.Fatalf("expected a *feature.IsTrueCriterion, got %T", s.Criterion)
	}
	if math.Abs(s.InformationGain-1.0) > epsilon {
		t.Errorf("expected gain 1, got %v", s.InformationGain)
	}
}

type unknownFeature struct{}

func (unknownFeature) Name() string                    { return "mystery" }
func (unknownFeature) Kind() feature.Kind              { return feature.Kind(42) }
func (unknownFeature) Valid(interface{}) (bool, error) { return true, nil }

func TestBestSplitOnUnknownFeature(t *testing.T) {
	schema := newSchema(t, feature.NewBooleanFeature("a"))
	ds := newDataset(t, schema, []row{{map[string]interface{}{"a": true}, true}})
	_, err := BestSplit(ds, unknownFeature{})
	if errors.Cause(err) != feature.ErrInvalidSchema {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
}
