package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/tbehner/tdidt/dataset"
	"github.com/tbehner/tdidt/feature"
)

// Error represents an error related with trees
type Error string

/*
ErrInvalidTree is the error returned (possibly wrapped) when the nodes of a
tree break its structure: a missing node or child, a node that is both leaf
and internal, a wrong parent reference or a feature tested twice along a
path.
*/
const ErrInvalidTree = Error("invalid tree")

func (e Error) Error() string {
	return string(e)
}

// Tree represents a binary decision tree. It is composed
// of a NodeStore where all its nodes are stored, the id
// for the root node of the tree and the schema of the
// samples it classifies.
type Tree struct {
	NodeStore
	RootID string
	Schema *feature.Schema
}

// New takes the ID for the root Node, a NodeStore and a schema and returns
// a tree composed of the nodes in the NodeStore connected to the node with
// the given root ID.
func New(rootID string, nodeStore NodeStore, schema *feature.Schema) *Tree {
	return &Tree{nodeStore, rootID, schema}
}

/*
Classify takes a sample and walks the tree from its root: on internal
nodes the node's criterion is evaluated on the sample to move on to the
pass or the fail child, and the outcome of the reached leaf is returned.
An error is returned if a node cannot be retrieved or a criterion cannot
be evaluated on the sample. A walk through more internal nodes than the
schema has features returns an ErrInvalidTree error, as a valid tree never
tests a feature twice on the way to a leaf.
*/
func (t *Tree) Classify(ctx context.Context, s feature.Sample) (bool, error) {
	if t == nil {
		return false, errors.New("nil tree cannot classify samples")
	}
	n, err := t.node(ctx, t.RootID)
	if err != nil {
		return false, errors.Wrap(err, "classifying sample")
	}
	var maxTests int
	if t.Schema != nil {
		maxTests = t.Schema.Len()
	}
	for tests := 0; !n.IsLeaf(); tests++ {
		if tests == maxTests {
			return false, errors.Wrapf(ErrInvalidTree, "node %s is past %d tested features", n.ID, maxTests)
		}
		ok, err := n.Criterion.SatisfiedBy(s)
		if err != nil {
			return false, errors.Wrapf(err, "classifying sample on node %s", n.ID)
		}
		next := n.FailID
		if ok {
			next = n.PassID
		}
		n, err = t.node(ctx, next)
		if err != nil {
			return false, errors.Wrap(err, "classifying sample")
		}
	}
	return n.Outcome, nil
}

/*
Test takes a context.Context and a dataset and returns three values:
  - the rate of records in the dataset whose outcome the tree classifies
    correctly (0 for an empty dataset)
  - the number of misclassified records
  - an error if a record could not be classified. If this is not nil, the
    other values will be 0.0 and 0 respectively
*/
func (t *Tree) Test(ctx context.Context, ds *dataset.Dataset) (float64, int, error) {
	var hits, misses int
	for _, r := range ds.Records() {
		outcome, err := t.Classify(ctx, r)
		if err != nil {
			return 0.0, 0, err
		}
		if outcome == r.Outcome() {
			hits++
		} else {
			misses++
		}
	}
	if ds.Count() == 0 {
		return 0.0, 0, nil
	}
	return float64(hits) / float64(ds.Count()), misses, nil
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children (pass child first) if bottomup
// is false, and call it after its children if bottomup is true.
// If the given context times out or is cancelled, the context
// error is returned. If a node cannot be retrieved from the
// tree's node store, the obtained error is returned. If the
// call to the function returns an error, the traversing is
// aborted and the error is returned. Otherwise, when the
// traversing is over, nil is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node) error) error {
	n, err := t.node(ctx, t.RootID)
	if err != nil {
		return err
	}
	return t.traverse(ctx, n, bottomup, f)
}

func (t *Tree) traverse(ctx context.Context, n *Node, bottomup bool, f func(context.Context, *Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		err = f(ctx, n)
		if err != nil {
			return err
		}
	}
	if !n.IsLeaf() {
		for _, snID := range []string{n.PassID, n.FailID} {
			sn, err := t.node(ctx, snID)
			if err != nil {
				return err
			}
			err = t.traverse(ctx, sn, bottomup, f)
			if err != nil {
				return err
			}
		}
	}
	if bottomup {
		return f(ctx, n)
	}
	return nil
}

/*
Validate checks the structure of the tree and returns an ErrInvalidTree
error describing the first violation found, or nil:
  - the root has no parent
  - leaves have no children and internal nodes have both
  - children reference their parent
  - no feature is tested twice along a path from the root
*/
func (t *Tree) Validate(ctx context.Context) error {
	root, err := t.node(ctx, t.RootID)
	if err != nil {
		return err
	}
	if root.ParentID != "" {
		return errors.Wrapf(ErrInvalidTree, "root node %s has parent %s", root.ID, root.ParentID)
	}
	return t.validate(ctx, root, map[string]bool{})
}

func (t *Tree) validate(ctx context.Context, n *Node, tested map[string]bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.IsLeaf() {
		if n.PassID != "" || n.FailID != "" {
			return errors.Wrapf(ErrInvalidTree, "leaf node %s has children", n.ID)
		}
		return nil
	}
	if n.PassID == "" || n.FailID == "" {
		return errors.Wrapf(ErrInvalidTree, "internal node %s misses a child", n.ID)
	}
	name := n.Criterion.Feature().Name()
	if tested[name] {
		return errors.Wrapf(ErrInvalidTree, "node %s tests feature %s already tested by an ancestor", n.ID, name)
	}
	tested[name] = true
	defer delete(tested, name)
	for _, snID := range []string{n.PassID, n.FailID} {
		sn, err := t.node(ctx, snID)
		if err != nil {
			return err
		}
		if sn.ParentID != n.ID {
			return errors.Wrapf(ErrInvalidTree, "node %s is a child of %s but references parent %q", sn.ID, n.ID, sn.ParentID)
		}
		if err = t.validate(ctx, sn, tested); err != nil {
			return err
		}
	}
	return nil
}

/*
Depth returns the number of edges on the longest path from the root to a
leaf.
*/
func (t *Tree) Depth(ctx context.Context) (int, error) {
	depths := make(map[string]int)
	var max int
	err := t.Traverse(ctx, false, func(ctx context.Context, n *Node) error {
		if n.ParentID != "" {
			depths[n.ID] = depths[n.ParentID] + 1
		}
		if depths[n.ID] > max {
			max = depths[n.ID]
		}
		return nil
	})
	return max, err
}

func (t *Tree) node(ctx context.Context, id string) (*Node, error) {
	n, err := t.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "retrieving node %v", id)
	}
	if n == nil {
		return nil, errors.Wrapf(ErrInvalidTree, "node %v not found", id)
	}
	return n, nil
}

func (t *Tree) String() string {
	return t.subtreeString(t.RootID, "")
}

func (t *Tree) subtreeString(nodeID string, branch string) string {
	n, err := t.NodeStore.Get(context.TODO(), nodeID)
	if err != nil {
		return fmt.Sprintf("ERROR: %s\n", err.Error())
	}
	if n == nil {
		return fmt.Sprintf("ERROR: node %s not found\n", nodeID)
	}
	result := fmt.Sprintf("[%s]%s\n", nodeID, branch)
	if n.IsLeaf() {
		return fmt.Sprintf("%s{ outcome: %v (%d/%d) }\n", result, n.Outcome, n.Positives, n.Negatives)
	}
	result = fmt.Sprintf("%s{ %v } informationGain=%f\n|\n", result, n.Criterion, n.InformationGain)
	subtrees := []struct{ id, branch string }{{n.PassID, " pass"}, {n.FailID, " fail"}}
	for i, st := range subtrees {
		for j, line := range strings.Split(t.subtreeString(st.id, st.branch), "\n") {
			if len(line) == 0 {
				continue
			}
			if j == 0 {
				result = fmt.Sprintf("%s|__%s\n", result, line)
			} else if i == len(subtrees)-1 {
				result = fmt.Sprintf("%s   %s\n", result, line)
			} else {
				result = fmt.Sprintf("%s|  %s\n", result, line)
			}
		}
	}
	return result
}
