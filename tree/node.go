package tree

import (
	"github.com/tbehner/tdidt/feature"
)

/*
Node is a node of the tree
*/
type Node struct {
	// An ID to identify the node
	ID string
	// The ID for the parent of the node in the tree, empty for the root
	ParentID string
	// The ID of the node samples satisfying the criterion move to
	PassID string
	// The ID of the node samples not satisfying the criterion move to
	FailID string
	// The test this node applies on samples, nil for leaves.
	Criterion feature.Criterion
	// The outcome predicted for samples reaching this node. Only
	// meaningful for leaves.
	Outcome bool
	// Number of training records with a positive outcome that reached
	// the node
	Positives int
	// Number of training records with a negative outcome that reached
	// the node
	Negatives int
	// Information gain of the criterion over the training records that
	// reached the node
	InformationGain float64
}

// IsLeaf returns whether the node is a leaf, that is, it applies no test.
func (n *Node) IsLeaf() bool {
	return n.Criterion == nil
}
