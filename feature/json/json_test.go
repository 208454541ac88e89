package json

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/tbehner/tdidt/feature"
)

func TestCriteriaEncodeDecoder(t *testing.T) {
	temperature := feature.NewNumericFeature("temperature")
	outlook := feature.NewCategoricalFeature("outlook", []string{"sunny", "overcast", "rainy"})
	windy := feature.NewBooleanFeature("windy")
	schema, err := feature.NewSchema(temperature, outlook, windy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ced := NewCriteriaEncodeDecoder(schema)
	testCases := []struct {
		criterion feature.Criterion
		encoded   string
	}{
		{feature.NewLessThanCriterion(temperature, 22.75), `{"t":"lessThan","f":"temperature","th":"22.75"}`},
		{feature.NewInSetCriterion(outlook, "rainy", "sunny"), `{"t":"inSet","f":"outlook","vs":["rainy","sunny"]}`},
		{feature.NewInSetCriterion(outlook), `{"t":"inSet","f":"outlook"}`},
		{feature.NewIsTrueCriterion(windy), `{"t":"isTrue","f":"windy"}`},
	}
	for _, tc := range testCases {
		data, err := ced.Encode(tc.criterion)
		if err != nil {
			t.Fatalf("unexpected error encoding %v: %v", tc.criterion, err)
		}
		if string(data) != tc.encoded {
			t.Errorf("expected %v to be encoded as %s, got %s", tc.criterion, tc.encoded, data)
		}
		c, err := ced.Decode(data)
		if err != nil {
			t.Fatalf("unexpected error decoding %s: %v", data, err)
		}
		if c.String() != tc.criterion.String() || c.Feature() != tc.criterion.Feature() {
			t.Errorf("expected %s to be decoded as %v, got %v", data, tc.criterion, c)
		}
	}
}

func TestCriteriaDecodeErrors(t *testing.T) {
	schema, err := feature.NewSchema(feature.NewNumericFeature("temperature"), feature.NewBooleanFeature("windy"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ced := NewCriteriaEncodeDecoder(schema)
	for _, data := range []string{
		`{"t":"lessThan","f":"humidity","th":"1"}`,
		`{"t":"lessThan","f":"windy","th":"1"}`,
		`{"t":"lessThan","f":"temperature","th":"hot"}`,
		`{"t":"inSet","f":"temperature"}`,
		`{"t":"isTrue","f":"temperature"}`,
		`{"t":"greaterThan","f":"temperature","th":"1"}`,
		`{"t":`,
	} {
		if c, err := ced.Decode([]byte(data)); err == nil {
			t.Errorf("expected an error decoding %s, got %v", data, c)
		}
	}
}

func TestSchemaMarshalling(t *testing.T) {
	schema, err := feature.NewSchema(
		feature.NewCategoricalFeature("outlook", []string{"sunny", "rainy"}),
		feature.NewNumericFeature("temperature"),
		feature.NewBooleanFeature("windy"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := MarshalSchema(schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `[{"name":"outlook","kind":"categorical","values":["sunny","rainy"]},{"name":"temperature","kind":"numeric"},{"name":"windy","kind":"boolean"}]`
	if string(data) != expected {
		t.Errorf("expected %s, got %s", expected, data)
	}
	unmarshalled, err := UnmarshalSchema(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := unmarshalled.Names()
	if len(names) != 3 || names[0] != "outlook" || names[1] != "temperature" || names[2] != "windy" {
		t.Errorf("expected features outlook, temperature and windy in order, got %v", names)
	}
	if ok, _ := unmarshalled.Feature("outlook").Valid("overcast"); ok {
		t.Errorf("expected unmarshalled outlook feature to reject undeclared values")
	}
	_, err = UnmarshalSchema([]byte(`[{"name":"a","kind":"ordinal"}]`))
	if errors.Cause(err) != feature.ErrInvalidSchema {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
}
