package json

import (
	"encoding/json"

	fjson "github.com/tbehner/tdidt/feature/json"
	"github.com/tbehner/tdidt/tree"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding nodes into slices of
bytes and decoding them back to nodes.
*/
type NodeEncodeDecoder interface {

	//Encode receives a *tree.Node
	// and returns a slice of bytes with the node
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Node) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Node decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.Node, error)
}

type nodeEncodeDecoder struct {
	fjson.CriteriaEncodeDecoder
}

type node struct {
	ID              string           `json:"id"`
	ParentID        string           `json:"pId,omitempty"`
	PassID          string           `json:"pass,omitempty"`
	FailID          string           `json:"fail,omitempty"`
	Criterion       *json.RawMessage `json:"c,omitempty"`
	Outcome         bool             `json:"o"`
	Positives       int              `json:"pos"`
	Negatives       int              `json:"neg"`
	InformationGain float64          `json:"ig,omitempty"`
}

/*
NewNodeEncodeDecoder returns a NodeEncodeDecoder that uses the
given CriteriaEncodeDecoder to encode/decode nodes' criteria.
*/
func NewNodeEncodeDecoder(ced fjson.CriteriaEncodeDecoder) NodeEncodeDecoder {
	return &nodeEncodeDecoder{ced}
}

func (ned *nodeEncodeDecoder) Encode(n *tree.Node) ([]byte, error) {
	jn := &node{
		ID:              n.ID,
		ParentID:        n.ParentID,
		PassID:          n.PassID,
		FailID:          n.FailID,
		Outcome:         n.Outcome,
		Positives:       n.Positives,
		Negatives:       n.Negatives,
		InformationGain: n.InformationGain,
	}
	if n.Criterion != nil {
		c, err := ned.CriteriaEncodeDecoder.Encode(n.Criterion)
		if err != nil {
			return nil, err
		}
		rc := json.RawMessage(c)
		jn.Criterion = &rc
	}
	return json.Marshal(jn)
}

func (ned *nodeEncodeDecoder) Decode(data []byte) (*tree.Node, error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	n := &tree.Node{
		ID:              jn.ID,
		ParentID:        jn.ParentID,
		PassID:          jn.PassID,
		FailID:          jn.FailID,
		Outcome:         jn.Outcome,
		Positives:       jn.Positives,
		Negatives:       jn.Negatives,
		InformationGain: jn.InformationGain,
	}
	if jn.Criterion != nil {
		n.Criterion, err = ned.CriteriaEncodeDecoder.Decode(*jn.Criterion)
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}
