// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Graph is a dependency graph of unconfirmed transactions. An edge runs from
// a parent to every child spending one of its outputs.
//
// A Graph returned to a caller is never modified again: Compact works on a
// copy. The graph performs no locking.
type Graph struct {
	cfg *Config

	// nodes stores every transaction of the graph keyed by its hash.
	nodes map[chainhash.Hash]*Node

	// relocated maps an output of a transaction absorbed by a compaction
	// to the output of the replacement that now carries its value. Inputs
	// of transactions outside the merge are resolved through it.
	relocated map[wire.OutPoint]wire.OutPoint

	// replacedBy maps the hash of every transaction absorbed by a
	// compaction to the hash of the replacement that absorbed it.
	replacedBy map[chainhash.Hash]chainhash.Hash

	nextSeq uint64
}

// New builds a graph from the records, adding one node per record and an
// edge for every input that spends the output of another record. Inputs
// spending outputs outside the records are external and add no edge.
//
// The records must form an acyclic set of transactions. This is not checked.
func New(records []*TxRecord, cfg *Config) (*Graph, error) {
	g := newGraph(cfg.withDefaults())

	for _, rec := range records {
		if rec == nil || rec.Tx == nil {
			return nil, ErrNilTransaction
		}

		hash := *rec.Tx.Hash()
		if _, exists := g.nodes[hash]; exists {
			return nil, fmt.Errorf("%w: %v", ErrTransactionExists, hash)
		}

		if rec.ChangeScript != nil &&
			!paysTo(rec.Tx.MsgTx().TxOut, rec.ChangeScript) {

			return nil, fmt.Errorf("%w: %v", ErrUnknownOutput, hash)
		}

		g.insert(newNode(rec.Tx, rec.Fee, rec.Owned, rec.ChangeScript))
	}

	// Link edges once every record is indexed so that parents may appear
	// after their children in the input.
	for _, node := range g.nodes {
		for _, txIn := range node.tx.MsgTx().TxIn {
			parent, exists := g.nodes[txIn.PreviousOutPoint.Hash]
			if !exists {
				continue
			}
			g.link(parent, node)
		}
	}

	log.Debugf("Built transaction graph with %d nodes (%d roots, "+
		"%d leaves)", len(g.nodes), len(g.Roots()), len(g.Leaves()))

	return g, nil
}

func newGraph(cfg *Config) *Graph {
	return &Graph{
		cfg:        cfg,
		nodes:      make(map[chainhash.Hash]*Node),
		relocated:  make(map[wire.OutPoint]wire.OutPoint),
		replacedBy: make(map[chainhash.Hash]chainhash.Hash),
	}
}

// insert adds the node to the index, assigning it the next sequence number.
func (g *Graph) insert(node *Node) {
	node.seq = g.nextSeq
	g.nextSeq++
	g.nodes[node.hash] = node
}

// link creates the edge parent->child. Linking an existing pair is a no-op.
func (g *Graph) link(parent, child *Node) {
	parent.children[child.hash] = struct{}{}
	child.parents[parent.hash] = struct{}{}
}

// clone returns a deep copy of the graph structure. Transactions are shared.
func (g *Graph) clone() *Graph {
	c := newGraph(g.cfg)
	c.nextSeq = g.nextSeq
	for hash, node := range g.nodes {
		c.nodes[hash] = node.copy()
	}
	for from, to := range g.relocated {
		c.relocated[from] = to
	}
	for old, replacement := range g.replacedBy {
		c.replacedBy[old] = replacement
	}

	return c
}

// resolve follows output relocations from op to the outpoint that currently
// carries its value.
func (g *Graph) resolve(op wire.OutPoint) wire.OutPoint {
	for {
		next, ok := g.relocated[op]
		if !ok || next == op {
			return op
		}
		op = next
	}
}

// resolveTarget follows compactions from hash to the node that currently
// stands for the transaction. Unknown hashes are returned unchanged.
func (g *Graph) resolveTarget(hash chainhash.Hash) chainhash.Hash {
	for {
		if _, ok := g.nodes[hash]; ok {
			return hash
		}
		next, ok := g.replacedBy[hash]
		if !ok || next == hash {
			return hash
		}
		hash = next
	}
}

// sorted returns the nodes named by the hash set in insertion order.
func (g *Graph) sorted(set map[chainhash.Hash]struct{}) []*Node {
	nodes := make([]*Node, 0, len(set))
	for hash := range set {
		if node, ok := g.nodes[hash]; ok {
			nodes = append(nodes, node)
		}
	}
	sortNodes(nodes)

	return nodes
}

func sortNodes(nodes []*Node) {
	slices.SortFunc(nodes, func(a, b *Node) int {
		return cmp.Compare(a.seq, b.seq)
	})
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node for the transaction hash.
func (g *Graph) Node(hash chainhash.Hash) (*Node, bool) {
	node, ok := g.nodes[hash]
	return node, ok
}

// Has reports whether the transaction is a node of the graph.
func (g *Graph) Has(hash chainhash.Hash) bool {
	_, ok := g.nodes[hash]
	return ok
}

// Nodes returns an iterator over every node in insertion order. Replacement
// nodes follow the nodes that existed before the compaction producing them.
func (g *Graph) Nodes() iter.Seq[*Node] {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, node := range g.nodes {
		nodes = append(nodes, node)
	}
	sortNodes(nodes)

	return slices.Values(nodes)
}

// filter collects the nodes satisfying keep in insertion order.
func (g *Graph) filter(keep func(*Node) bool) []*Node {
	var nodes []*Node
	for node := range g.Nodes() {
		if keep(node) {
			nodes = append(nodes, node)
		}
	}

	return nodes
}

// Roots returns every node without a parent in the graph.
func (g *Graph) Roots() []*Node {
	return g.filter((*Node).IsRoot)
}

// Leaves returns every node without a child in the graph.
func (g *Graph) Leaves() []*Node {
	return g.filter((*Node).IsLeaf)
}

// OwnedRoots returns the roots controlled by the wallet. These are the
// natural targets of a fee bump.
func (g *Graph) OwnedRoots() []*Node {
	return g.filter(func(n *Node) bool {
		return n.IsRoot() && n.owned
	})
}

// Parents returns the nodes spent by the transaction, or nil if it is not in
// the graph.
func (g *Graph) Parents(hash chainhash.Hash) []*Node {
	node, ok := g.nodes[hash]
	if !ok {
		return nil
	}

	return g.sorted(node.parents)
}

// Children returns the nodes spending the transaction, or nil if it is not in
// the graph.
func (g *Graph) Children(hash chainhash.Hash) []*Node {
	node, ok := g.nodes[hash]
	if !ok {
		return nil
	}

	return g.sorted(node.children)
}

// Ancestors returns every distinct node reachable from the transaction by
// following parent edges, in insertion order. The node itself is excluded.
func (g *Graph) Ancestors(hash chainhash.Hash) []*Node {
	node, ok := g.nodes[hash]
	if !ok {
		return nil
	}

	return g.walk(node, func(n *Node) map[chainhash.Hash]struct{} {
		return n.parents
	})
}

// Descendants returns every distinct node reachable from the transaction by
// following child edges, in insertion order. The node itself is excluded.
func (g *Graph) Descendants(hash chainhash.Hash) []*Node {
	node, ok := g.nodes[hash]
	if !ok {
		return nil
	}

	return g.walk(node, func(n *Node) map[chainhash.Hash]struct{} {
		return n.children
	})
}

// walk performs a breadth-first walk from start along the edges returned by
// next and returns every node reached.
func (g *Graph) walk(start *Node,
	next func(*Node) map[chainhash.Hash]struct{}) []*Node {

	visited := map[chainhash.Hash]struct{}{start.hash: {}}
	var (
		reached []*Node
		q       queue[*Node]
	)
	q.push(start)
	for !q.empty() {
		node, _ := q.pop()
		for hash := range next(node) {
			if _, seen := visited[hash]; seen {
				continue
			}
			visited[hash] = struct{}{}

			neighbour, ok := g.nodes[hash]
			if !ok {
				continue
			}
			reached = append(reached, neighbour)
			q.push(neighbour)
		}
	}
	sortNodes(reached)

	return reached
}

// TotalFee returns the sum of the own fees of every node in the graph.
func (g *Graph) TotalFee() btcutil.Amount {
	var total btcutil.Amount
	for _, node := range g.nodes {
		total += node.fee
	}

	return total
}
