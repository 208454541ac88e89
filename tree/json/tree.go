package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	fjson "github.com/tbehner/tdidt/feature/json"
	"github.com/tbehner/tdidt/tree"
)

/*
WriteJSONTree takes a context.Context, a pointer to a tree.Tree
and an io.Writer and serializes the given tree as JSON onto the
io.Writer.
A tree is serialized as a JSON object with the following fields:
  - "rootID": a string with the ID of the node at the root of the tree
  - "schema": the schema of the samples the tree classifies, as encoded
    by the feature/json package
  - "nodes": an array containing the nodes that can be traversed on the tree
    serialized by a NodeEncodeDecoder over the schema.

An error is returned if the tree cannot be traversed, serialized or written
onto the io.Writer.
*/
func WriteJSONTree(ctx context.Context, t *tree.Tree, w io.Writer) error {
	err := marshalJSONTreeHeader(ctx, t, w)
	if err != nil {
		return err
	}
	ned := NewNodeEncodeDecoder(fjson.NewCriteriaEncodeDecoder(t.Schema))
	var i int
	err = t.Traverse(ctx, false, func(ctx context.Context, n *tree.Node) error {
		err := writeNode(ctx, i, n, ned, w)
		i++
		return err
	})
	if err != nil {
		return err
	}
	return marshalJSONTreeFooter(ctx, t, w)
}

/*
ReadJSONTree takes a context.Context, a tree.NodeStore and an io.Reader
and unmarshals the contents of the io.Reader into a tree whose nodes are
stored on the given NodeStore.
A tree is expected to be a JSON object with the fields WriteJSONTree
writes. The nodes keep their IDs, so they are stored with the Store method
of the NodeStore.
An error is returned if the JSON cannot be read from the io.Reader or
unmarshalled into a tree, or if its nodes cannot be stored.
*/
func ReadJSONTree(ctx context.Context, ns tree.NodeStore, r io.Reader) (*tree.Tree, error) {
	dec := json.NewDecoder(r)
	jt := &struct {
		RootID string             `json:"rootID"`
		Schema json.RawMessage    `json:"schema"`
		Nodes  []*json.RawMessage `json:"nodes"`
	}{}
	err := dec.Decode(jt)
	if err != nil {
		return nil, err
	}
	if jt.RootID == "" {
		return nil, fmt.Errorf("no root node id available")
	}
	if len(jt.Schema) == 0 {
		return nil, fmt.Errorf("no schema available")
	}
	schema, err := fjson.UnmarshalSchema(jt.Schema)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshalling schema")
	}
	ned := NewNodeEncodeDecoder(fjson.NewCriteriaEncodeDecoder(schema))
	for _, jn := range jt.Nodes {
		n, err := ned.Decode(*jn)
		if err != nil {
			return nil, errors.Wrap(err, "unmarshalling node")
		}
		err = ns.Store(ctx, n)
		if err != nil {
			return nil, err
		}
	}
	t := tree.New(jt.RootID, ns, schema)
	if err = t.Validate(ctx); err != nil {
		return nil, errors.Wrap(err, "validating tree")
	}
	return t, nil
}

func marshalJSONTreeHeader(ctx context.Context, t *tree.Tree, w io.Writer) error {
	jrootID, err := json.Marshal(t.RootID)
	if err != nil {
		return err
	}
	jSchema, err := fjson.MarshalSchema(t.Schema)
	if err != nil {
		return err
	}
	header := fmt.Sprintf(`{"rootID":%s,"schema":%s,"nodes":[`, jrootID, jSchema)
	_, err = w.Write([]byte(header))
	return err
}

func writeNode(ctx context.Context, i int, n *tree.Node, ned NodeEncodeDecoder, w io.Writer) error {
	if i != 0 {
		_, err := w.Write([]byte(","))
		if err != nil {
			return err
		}
	}
	jn, err := ned.Encode(n)
	if err != nil {
		return err
	}
	_, err = w.Write(jn)
	return err
}

func marshalJSONTreeFooter(ctx context.Context, t *tree.Tree, w io.Writer) error {
	_, err := w.Write([]byte(`]}`))
	return err
}
