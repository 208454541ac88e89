package json

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/tbehner/tdidt/feature"
	"github.com/tbehner/tdidt/tree"
)

func testTree(t *testing.T) *tree.Tree {
	ctx := context.Background()
	a := feature.NewBooleanFeature("a")
	x := feature.NewNumericFeature("x")
	color := feature.NewCategoricalFeature("color", []string{"red", "green", "blue"})
	schema, err := feature.NewSchema(a, x, color)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ns := tree.NewMemoryNodeStore()
	for _, n := range []*tree.Node{
		{ID: "1", PassID: "2", FailID: "3", Criterion: feature.NewIsTrueCriterion(a), Positives: 5, Negatives: 4, InformationGain: 0.25},
		{ID: "2", ParentID: "1", PassID: "4", FailID: "5", Criterion: feature.NewLessThanCriterion(x, 0.1), Positives: 3, Negatives: 1, InformationGain: 0.8112781244591328},
		{ID: "3", ParentID: "1", PassID: "6", FailID: "7", Criterion: feature.NewInSetCriterion(color, "blue", "red"), Positives: 2, Negatives: 3, InformationGain: 0.97},
		{ID: "4", ParentID: "2", Outcome: true, Positives: 3},
		{ID: "5", ParentID: "2", Negatives: 1},
		{ID: "6", ParentID: "3", Outcome: true, Positives: 2},
		{ID: "7", ParentID: "3", Negatives: 3},
	} {
		if err := ns.Store(ctx, n); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	return tree.New("1", ns, schema)
}

func TestWriteJSONTree(t *testing.T) {
	ctx := context.Background()
	schema, err := feature.NewSchema(feature.NewBooleanFeature("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := schema.Feature("a").(*feature.BooleanFeature)
	ns := tree.NewMemoryNodeStore()
	for _, n := range []*tree.Node{
		{ID: "1", PassID: "2", FailID: "3", Criterion: feature.NewIsTrueCriterion(a), Positives: 3, Negatives: 3, InformationGain: 1},
		{ID: "2", ParentID: "1", Outcome: true, Positives: 3},
		{ID: "3", ParentID: "1", Negatives: 3},
	} {
		if err := ns.Store(ctx, n); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	b := &bytes.Buffer{}
	err = WriteJSONTree(ctx, tree.New("1", ns, schema), b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := strings.Join([]string{
		`{"rootID":"1","schema":[{"name":"a","kind":"boolean"}],"nodes":[`,
		`{"id":"1","pass":"2","fail":"3","c":{"t":"isTrue","f":"a"},"o":false,"pos":3,"neg":3,"ig":1},`,
		`{"id":"2","pId":"1","o":true,"pos":3,"neg":0},`,
		`{"id":"3","pId":"1","o":false,"pos":0,"neg":3}`,
		`]}`,
	}, "")
	if diff := cmp.Diff(expected, b.String()); diff != "" {
		t.Errorf("unexpected JSON (-want +got):\n%s", diff)
	}
}

func TestJSONTreeRoundTrip(t *testing.T) {
	ctx := context.Background()
	original := testTree(t)
	b := &bytes.Buffer{}
	err := WriteJSONTree(ctx, original, b)
	if err != nil {
		t.Fatalf("unexpected error writing tree: %v", err)
	}
	read, err := ReadJSONTree(ctx, tree.NewMemoryNodeStore(), b)
	if err != nil {
		t.Fatalf("unexpected error reading tree: %v", err)
	}
	if read.RootID != original.RootID {
		t.Errorf("expected root ID %s, got %s", original.RootID, read.RootID)
	}
	if diff := cmp.Diff(original.Schema.Names(), read.Schema.Names()); diff != "" {
		t.Errorf("unexpected schema (-want +got):\n%s", diff)
	}
	color := read.Schema.Feature("color").(*feature.CategoricalFeature)
	if diff := cmp.Diff([]string{"red", "green", "blue"}, color.AvailableValues()); diff != "" {
		t.Errorf("unexpected categorical values (-want +got):\n%s", diff)
	}
	if original.String() != read.String() {
		t.Errorf("expected tree\n%v\ngot\n%v", original, read)
	}
	err = original.Traverse(ctx, false, func(ctx context.Context, on *tree.Node) error {
		rn, err := read.Get(ctx, on.ID)
		if err != nil {
			return err
		}
		if rn == nil {
			t.Errorf("node %s is missing", on.ID)
			return nil
		}
		if diff := cmp.Diff(on, rn, cmp.Comparer(sameCriterion)); diff != "" {
			t.Errorf("unexpected node %s (-want +got):\n%s", on.ID, diff)
		}
		if rn.Criterion != nil && !read.Schema.Contains(rn.Criterion.Feature()) {
			t.Errorf("criterion of node %s is not on the schema of the tree", rn.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func sameCriterion(c1, c2 feature.Criterion) bool {
	if c1 == nil || c2 == nil {
		return c1 == c2
	}
	return c1.String() == c2.String()
}

func TestReadJSONTreeErrors(t *testing.T) {
	testCases := map[string]string{
		"not JSON":          `{"rootID":`,
		"no root":           `{"schema":[],"nodes":[]}`,
		"no schema":         `{"rootID":"1","nodes":[]}`,
		"unknown kind":      `{"rootID":"1","schema":[{"name":"a","kind":"complex"}],"nodes":[]}`,
		"unknown feature":   `{"rootID":"1","schema":[{"name":"a","kind":"boolean"}],"nodes":[{"id":"1","c":{"t":"isTrue","f":"b"}}]}`,
		"mismatching kind":  `{"rootID":"1","schema":[{"name":"a","kind":"boolean"}],"nodes":[{"id":"1","c":{"t":"lessThan","f":"a","th":"1"}}]}`,
		"unknown criterion": `{"rootID":"1","schema":[{"name":"a","kind":"boolean"}],"nodes":[{"id":"1","c":{"t":"isFalse","f":"a"}}]}`,
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			tr, err := ReadJSONTree(context.Background(), tree.NewMemoryNodeStore(), strings.NewReader(data))
			if err == nil {
				t.Errorf("expected an error, got tree %v", tr)
			}
		})
	}
}

func TestReadJSONTreeValidatesNodes(t *testing.T) {
	testCases := map[string]string{
		"self-referencing root": `{"rootID":"1","schema":[{"name":"a","kind":"boolean"}],"nodes":[{"id":"1","pass":"1","fail":"1","c":{"t":"isTrue","f":"a"},"o":false,"pos":1,"neg":1}]}`,
		"cycle through a child": `{"rootID":"1","schema":[{"name":"a","kind":"boolean"},{"name":"b","kind":"boolean"}],"nodes":[` +
			`{"id":"1","pass":"2","fail":"3","c":{"t":"isTrue","f":"a"},"o":false,"pos":1,"neg":1},` +
			`{"id":"2","pId":"1","pass":"1","fail":"3","c":{"t":"isTrue","f":"b"},"o":false,"pos":1,"neg":0},` +
			`{"id":"3","pId":"1","o":false,"pos":0,"neg":1}]}`,
		"missing root": `{"rootID":"2","schema":[{"name":"a","kind":"boolean"}],"nodes":[{"id":"1","o":true,"pos":1,"neg":0}]}`,
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			tr, err := ReadJSONTree(context.Background(), tree.NewMemoryNodeStore(), strings.NewReader(data))
			if errors.Cause(err) != tree.ErrInvalidTree {
				t.Errorf("expected ErrInvalidTree, got %v and %v", tr, err)
			}
		})
	}
}
