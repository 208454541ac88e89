package queue

import (
	"fmt"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/tbehner/tdidt/dataset"
	"github.com/tbehner/tdidt/feature"
	"github.com/tbehner/tdidt/tree"
)

// Task represents a tree.Node to be developed
// on a tree.Tree.
type Task struct {
	// The node to be developed
	Node *tree.Node
	// The parent of the node to be developed,
	// nil for the root.
	Parent *tree.Node
	// The dataset of training data with records
	// satisfying the constraints on the node
	// and its ancestors.
	Dataset *dataset.Dataset
	// The features that can still be used to
	// split the node into branches, in the order
	// ties between them are broken. It excludes
	// the features used in ancestor nodes.
	AvailableFeatures *linkedhashset.Set
}

// NewFeatureSet takes features and returns an
// insertion-ordered set with them, suitable for
// the AvailableFeatures of a Task.
func NewFeatureSet(features ...feature.Feature) *linkedhashset.Set {
	set := linkedhashset.New()
	for _, f := range features {
		set.Add(f)
	}
	return set
}

// Features returns the available features of the
// task in order.
func (t *Task) Features() []feature.Feature {
	if t.AvailableFeatures == nil {
		return nil
	}
	features := make([]feature.Feature, 0, t.AvailableFeatures.Size())
	for _, f := range t.AvailableFeatures.Values() {
		features = append(features, f.(feature.Feature))
	}
	return features
}

// ID returns a string that identifies the
// task, the ID of its Node.
func (t *Task) ID() string {
	return t.Node.ID
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %s}", t.Node.ID)
}
