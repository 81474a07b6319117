// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Node is a single transaction's position in a Graph. Relationships to other
// nodes are kept as sets of transaction hashes and resolved through the
// graph that owns the node, so a Node must only be interpreted against the
// Graph it was obtained from.
type Node struct {
	hash   chainhash.Hash
	tx     *btcutil.Tx
	fee    btcutil.Amount
	owned  bool
	change []byte

	// absorbed lists every transaction this node stands in for, in
	// dependency order. It is empty for nodes built from records.
	absorbed []*btcutil.Tx

	// seq orders nodes by insertion so that every walk over the graph is
	// deterministic.
	seq uint64

	parents  map[chainhash.Hash]struct{}
	children map[chainhash.Hash]struct{}
}

// newNode returns a node with empty edge sets.
func newNode(tx *btcutil.Tx, fee btcutil.Amount, owned bool,
	change []byte) *Node {

	return &Node{
		hash:     *tx.Hash(),
		tx:       tx,
		fee:      fee,
		owned:    owned,
		change:   change,
		parents:  make(map[chainhash.Hash]struct{}),
		children: make(map[chainhash.Hash]struct{}),
	}
}

// Hash returns the transaction id of the node.
func (n *Node) Hash() chainhash.Hash {
	return n.hash
}

// Tx returns the node's transaction.
func (n *Node) Tx() *btcutil.Tx {
	return n.tx
}

// Fee returns the fee paid by the node's own transaction.
func (n *Node) Fee() btcutil.Amount {
	return n.fee
}

// Owned reports whether the wallet controls the transaction.
func (n *Node) Owned() bool {
	return n.owned
}

// ChangeScript returns the locking script of the node's change output, or
// nil.
func (n *Node) ChangeScript() []byte {
	return n.change
}

// Absorbed returns the transactions replaced by this node. The slice must not
// be modified.
func (n *Node) Absorbed() []*btcutil.Tx {
	return n.absorbed
}

// IsReplacement reports whether the node was produced by a compaction.
func (n *Node) IsReplacement() bool {
	return len(n.absorbed) > 0
}

// NumParents returns the number of graph nodes this node spends from.
func (n *Node) NumParents() int {
	return len(n.parents)
}

// NumChildren returns the number of graph nodes spending this node.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// IsRoot reports whether every input of the node is external to the graph.
func (n *Node) IsRoot() bool {
	return len(n.parents) == 0
}

// IsLeaf reports whether no node of the graph spends this node.
func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

// copy returns a node sharing the immutable transaction data but owning its
// own edge sets.
func (n *Node) copy() *Node {
	c := *n
	c.parents = make(map[chainhash.Hash]struct{}, len(n.parents))
	for hash := range n.parents {
		c.parents[hash] = struct{}{}
	}
	c.children = make(map[chainhash.Hash]struct{}, len(n.children))
	for hash := range n.children {
		c.children[hash] = struct{}{}
	}

	return &c
}
