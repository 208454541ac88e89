package tree

import (
	"context"
	"strconv"
	"sync"
)

/*
NodeStore keeps the nodes of a tree addressed by their IDs.

Every method takes a context. Implementations return the context error
without touching the store when it is done, and may honour it while an
operation is in progress.
*/
type NodeStore interface {
	// Create assigns a new ID to the node, sets it on the
	// node and adds the node to the store.
	Create(ctx context.Context, n *Node) error
	// Get returns the node with the given ID, or nil
	// if there is no such node.
	Get(ctx context.Context, id string) (*Node, error)
	// Store saves the node under its current ID,
	// replacing any node kept under it.
	Store(ctx context.Context, n *Node) error
	// Delete removes the node from the store. Deleting
	// a missing node is not an error.
	Delete(ctx context.Context, n *Node) error
	// Close releases the resources of the store once
	// pending changes are applied.
	Close(ctx context.Context) error
}

type memoryNodeStore struct {
	sync.RWMutex
	nodes  map[string]*Node
	lastID uint64
}

/*
NewMemoryNodeStore returns a NodeStore that keeps nodes in a map. Nodes get
consecutive integer IDs starting at 1, in creation order.
*/
func NewMemoryNodeStore() NodeStore {
	return &memoryNodeStore{nodes: make(map[string]*Node)}
}

func (mns *memoryNodeStore) Create(ctx context.Context, n *Node) error {
	return mns.update(ctx, func() {
		mns.lastID++
		n.ID = strconv.FormatUint(mns.lastID, 10)
		mns.nodes[n.ID] = n
	})
}

func (mns *memoryNodeStore) Store(ctx context.Context, n *Node) error {
	return mns.update(ctx, func() {
		mns.nodes[n.ID] = n
		// keep created IDs clear of stored ones
		if id, err := strconv.ParseUint(n.ID, 10, 64); err == nil && id > mns.lastID {
			mns.lastID = id
		}
	})
}

func (mns *memoryNodeStore) Get(ctx context.Context, id string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mns.RLock()
	defer mns.RUnlock()
	return mns.nodes[id], nil
}

func (mns *memoryNodeStore) Delete(ctx context.Context, n *Node) error {
	return mns.update(ctx, func() {
		delete(mns.nodes, n.ID)
	})
}

func (mns *memoryNodeStore) Close(ctx context.Context) error {
	return nil
}

func (mns *memoryNodeStore) update(ctx context.Context, f func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mns.Lock()
	defer mns.Unlock()
	f()
	return nil
}
