/*
Package tdidt grows binary decision trees that predict a boolean outcome
from a dataset by top-down induction, choosing at every node the test on a
feature with the highest information gain.

Trees are grown through tasks on a queue.Queue: Seed creates the root node
and pushes the task to develop it, and Work pulls tasks, develops their
nodes with BranchOut and pushes the tasks for the resulting children until
the queue is empty. Grow puts everything together for the common case.
*/
package tdidt

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/tbehner/tdidt/dataset"
	"github.com/tbehner/tdidt/feature"
	"github.com/tbehner/tdidt/queue"
	"github.com/tbehner/tdidt/tree"
)

// Logger is the interface used to report the progress
// of the growth of a tree
type Logger interface {
	Logf(format string, a ...interface{})
}

type nopLogger struct{}

func (nopLogger) Logf(string, ...interface{}) {}

// Option configures how Grow grows a tree
type Option func(*grower)

type grower struct {
	nodeStore tree.NodeStore
	logger    Logger
}

// WithNodeStore makes Grow store the nodes of the tree on the
// given NodeStore instead of a memory one.
func WithNodeStore(ns tree.NodeStore) Option {
	return func(g *grower) {
		g.nodeStore = ns
	}
}

// WithLogger makes Grow report every developed node to the given
// logger.
func WithLogger(l Logger) Option {
	return func(g *grower) {
		g.logger = l
	}
}

/*
Grow takes a context, a dataset, the features that trees may test and
options and returns a tree grown from the dataset to predict the outcome of
its records, or an error.

The features are considered in the given order to break ties between
splits with the same information gain. The nodes of the tree are stored on
a memory NodeStore unless the WithNodeStore option is given.

An ErrEmptyDataset error is returned if the dataset has no records, and an
ErrInvalidSchema error if a feature is not on the schema of the dataset or
of an unknown kind. If growing fails at any point, the nodes created so far
are deleted from the NodeStore and no tree is returned.
*/
func Grow(ctx context.Context, ds *dataset.Dataset, features []feature.Feature, opts ...Option) (*tree.Tree, error) {
	g := &grower{nodeStore: tree.NewMemoryNodeStore(), logger: nopLogger{}}
	for _, opt := range opts {
		opt(g)
	}
	ns := &trackingNodeStore{NodeStore: g.nodeStore, lock: &sync.Mutex{}}
	q := queue.New()
	t, err := Seed(ctx, ds, features, q, ns)
	if err == nil {
		g.logger.Logf("Growing tree from a dataset with %d records (%d/%d) and %d features", ds.Count(), ds.Positives(), ds.Negatives(), len(features))
		err = Work(ctx, q, ns, g.logger)
	}
	if err != nil {
		// ctx may be done already
		if rerr := ns.rollback(context.Background()); rerr != nil {
			g.logger.Logf("Deleting nodes of failed tree: %v", rerr)
		}
		return nil, err
	}
	return tree.New(t.RootID, g.nodeStore, t.Schema), nil
}

/*
Seed takes a context, a dataset, the features that the tree may test, a
queue and a node store and sets everything up so that workers that consume
from the queue afterwards grow a tree from the dataset.

Specifically it will create the root node of the tree on the node store and
push a task to branch it out on the queue. The function returns the tree
that can be grown or an error if the dataset is empty, a feature is invalid,
the node cannot be created on the store or the task pushed to the queue.
*/
func Seed(ctx context.Context, ds *dataset.Dataset, features []feature.Feature, q queue.Queue, ns tree.NodeStore) (*tree.Tree, error) {
	if ds == nil || ds.Count() == 0 {
		return nil, errors.Wrap(dataset.ErrEmptyDataset, "cannot grow a tree")
	}
	for _, f := range features {
		if f == nil {
			return nil, errors.Wrap(feature.ErrInvalidSchema, "nil feature")
		}
		if err := feature.CheckKind(f); err != nil {
			return nil, err
		}
		if !ds.Schema().Contains(f) {
			return nil, errors.Wrapf(feature.ErrInvalidSchema, "feature %s is not on the schema of the dataset", f.Name())
		}
	}
	n := &tree.Node{}
	err := ns.Create(ctx, n)
	if err != nil {
		return nil, errors.Wrap(err, "creating root node")
	}
	task := &queue.Task{Node: n, Dataset: ds, AvailableFeatures: queue.NewFeatureSet(features...)}
	err = q.Push(ctx, task)
	if err != nil {
		if derr := ns.Delete(ctx, n); derr != nil {
			return nil, errors.Wrapf(err, "pushing root task (deleting root node %s: %v)", n.ID, derr)
		}
		return nil, errors.Wrap(err, "pushing root task")
	}
	return tree.New(n.ID, ns, ds.Schema()), nil
}

/*
BranchOut takes a context, a task, a node store and a logger and develops
the node in the task. The first of these rules that applies decides what
becomes of the node:
 1. the dataset has records and all of them share an outcome: the node is a
    leaf predicting it
 2. no features are available: the node is a leaf predicting true only if
    positive records outnumber negative ones
 3. the dataset is empty: the node is a leaf predicting true if positive
    records of the parent are at least as many as negative ones
 4. otherwise the node tests the criterion with the highest information
    gain among the best splits of the available features, the first
    feature winning ties

In case 4 the pass and fail children are created on the node store and the
tasks to develop them are returned, without the tested feature among their
available features. If no feature can separate the records the node is
made a leaf as in case 2.

The node is stored on the node store once developed. An error is returned
if the node cannot be developed or stored.
*/
func BranchOut(ctx context.Context, task *queue.Task, ns tree.NodeStore, logger Logger) ([]*queue.Task, error) {
	n := task.Node
	ds := task.Dataset
	n.Positives, n.Negatives = ds.Positives(), ds.Negatives()
	switch {
	case ds.Count() > 0 && (ds.Positives() == 0 || ds.Negatives() == 0):
		n.Outcome = ds.Positives() > 0
		return nil, storeLeaf(ctx, n, ns, logger)
	case task.AvailableFeatures == nil || task.AvailableFeatures.Empty():
		n.Outcome = ds.Positives() > ds.Negatives()
		return nil, storeLeaf(ctx, n, ns, logger)
	case ds.Count() == 0:
		if task.Parent == nil {
			return nil, errors.Wrapf(dataset.ErrEmptyDataset, "developing node %s without parent", n.ID)
		}
		n.Outcome = task.Parent.Positives >= task.Parent.Negatives
		return nil, storeLeaf(ctx, n, ns, logger)
	}
	features := task.Features()
	var best *Split
	for _, f := range features {
		s, err := BestSplit(ds, f)
		if err != nil {
			return nil, errors.Wrapf(err, "developing node %s", n.ID)
		}
		if s.Criterion == nil {
			continue
		}
		if best == nil || s.InformationGain > best.InformationGain {
			best = s
		}
	}
	if best == nil {
		n.Outcome = ds.Positives() > ds.Negatives()
		return nil, storeLeaf(ctx, n, ns, logger)
	}
	pass, fail, err := ds.Split(best.Criterion)
	if err != nil {
		return nil, errors.Wrapf(err, "developing node %s", n.ID)
	}
	available := queue.NewFeatureSet(features...)
	available.Remove(best.Feature)
	tasks := make([]*queue.Task, 0, 2)
	for _, sds := range []*dataset.Dataset{pass, fail} {
		sn := &tree.Node{ParentID: n.ID}
		err = ns.Create(ctx, sn)
		if err != nil {
			return nil, errors.Wrapf(err, "creating child of node %s", n.ID)
		}
		tasks = append(tasks, &queue.Task{
			Node:              sn,
			Parent:            n,
			Dataset:           sds,
			AvailableFeatures: available,
		})
	}
	n.Criterion = best.Criterion
	n.InformationGain = best.InformationGain
	n.PassID = tasks[0].Node.ID
	n.FailID = tasks[1].Node.ID
	err = ns.Store(ctx, n)
	if err != nil {
		return nil, errors.Wrapf(err, "storing node %s", n.ID)
	}
	logger.Logf("Node %s (%d/%d) tests %v with informationGain=%f", n.ID, n.Positives, n.Negatives, n.Criterion, n.InformationGain)
	return tasks, nil
}

func storeLeaf(ctx context.Context, n *tree.Node, ns tree.NodeStore, logger Logger) error {
	err := ns.Store(ctx, n)
	if err != nil {
		return errors.Wrapf(err, "storing node %s", n.ID)
	}
	logger.Logf("Node %s (%d/%d) is a leaf with outcome %v", n.ID, n.Positives, n.Negatives, n.Outcome)
	return nil
}

/*
Work takes a context, a queue, a node store and a logger and enters a loop
in which it:
  - pulls a task from the queue
  - branches its node out into new subnodes using BranchOut
  - pushes the tasks for the new subnodes into the queue

When no task can be pulled from the queue the worker ends returning nil.

Work will return a non-nil error if the given context times out or is
cancelled, if BranchOut returns a non-nil error or if an operation with the
given queue returns a non-nil error.
*/
func Work(ctx context.Context, q queue.Queue, ns tree.NodeStore, logger Logger) error {
	for {
		err := ctx.Err()
		if err != nil {
			return err
		}
		task, err := q.Pull(ctx)
		if err != nil {
			return errors.Wrap(err, "pulling task")
		}
		if task == nil {
			return nil
		}
		tasks, err := BranchOut(ctx, task, ns, logger)
		if err != nil {
			return err
		}
		for _, st := range tasks {
			err = q.Push(ctx, st)
			if err != nil {
				return errors.Wrapf(err, "pushing %v", st)
			}
		}
	}
}

// trackingNodeStore remembers the nodes created through
// it so that they can be deleted if growing a tree fails
type trackingNodeStore struct {
	tree.NodeStore
	created []*tree.Node
	lock    *sync.Mutex
}

func (tns *trackingNodeStore) Create(ctx context.Context, n *tree.Node) error {
	err := tns.NodeStore.Create(ctx, n)
	if err != nil {
		return err
	}
	tns.lock.Lock()
	defer tns.lock.Unlock()
	tns.created = append(tns.created, n)
	return nil
}

func (tns *trackingNodeStore) Delete(ctx context.Context, n *tree.Node) error {
	err := tns.NodeStore.Delete(ctx, n)
	if err != nil {
		return err
	}
	tns.lock.Lock()
	defer tns.lock.Unlock()
	for i, cn := range tns.created {
		if cn == n {
			tns.created = append(tns.created[:i], tns.created[i+1:]...)
			break
		}
	}
	return nil
}

func (tns *trackingNodeStore) rollback(ctx context.Context) error {
	tns.lock.Lock()
	defer tns.lock.Unlock()
	var result error
	for _, n := range tns.created {
		err := tns.NodeStore.Delete(ctx, n)
		if err != nil && result == nil {
			result = errors.Wrapf(err, "deleting node %s", n.ID)
		}
	}
	tns.created = nil
	return result
}
