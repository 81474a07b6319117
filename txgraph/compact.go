// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/davecgh/go-spew/spew"
)

// Compact folds, for every target in order, the target and every wallet-owned
// descendant reachable from it through owned children into one replacement
// transaction. Each target is resolved against the graph as left by the
// previous targets, so a later target may be an ancestor of an earlier
// replacement.
//
// The receiver is not modified. The returned graph holds the replacements in
// place of the transactions they absorbed, and the returned set lists one
// Replacement per target in target order.
//
// A target that an earlier compaction absorbed, in this call or a previous
// one, resolves to the replacement standing in for it. The replacement node
// inherits the ownership flag of its target.
//
// If a target was never part of the graph, ErrTargetNotFound is returned
// together with the graph and replacements produced by the targets before it.
func (g *Graph) Compact(targets []chainhash.Hash) (*Graph, ReplacementSet,
	error) {

	work := g.clone()
	replacements := make(ReplacementSet, 0, len(targets))
	for _, target := range targets {
		replacement, err := work.compact(target)
		if err != nil {
			return work, replacements, err
		}
		replacements = append(replacements, replacement)
	}

	return work, replacements, nil
}

// compact replaces the merge set of a single target in place.
func (g *Graph) compact(target chainhash.Hash) (*Replacement, error) {
	node, ok := g.nodes[g.resolveTarget(target)]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrTargetNotFound, target)
	}

	set := g.mergeSet(node)
	rtx := g.buildReplacement(set)

	tx := btcutil.NewTx(rtx.msgTx)
	hash := *tx.Hash()

	replacement := newNode(tx, rtx.fee, node.owned, rtx.change)
	replacement.absorbed = flatten(set.Nodes)

	// Collect the edges crossing the boundary of the merge set before the
	// merged nodes leave the index.
	parents := make(map[chainhash.Hash]struct{})
	children := make(map[chainhash.Hash]struct{})
	for _, member := range set.Nodes {
		for parent := range member.parents {
			if !set.Contains(parent) {
				parents[parent] = struct{}{}
			}
		}
		for child := range member.children {
			if !set.Contains(child) {
				children[child] = struct{}{}
			}
		}
	}

	g.detach(set)
	g.insert(replacement)
	for parent := range parents {
		g.link(g.nodes[parent], replacement)
	}
	for child := range children {
		g.link(replacement, g.nodes[child])
	}

	for from, index := range rtx.carried {
		to := wire.OutPoint{Hash: hash, Index: index}
		if from != to {
			g.relocated[from] = to
		}
	}
	for _, tx := range replacement.absorbed {
		if old := *tx.Hash(); old != hash {
			g.replacedBy[old] = hash
		}
	}

	log.Debugf("Compacted %d transactions from %v into %v (fee %v, "+
		"%d inputs, %d outputs)", len(set.Nodes), node.hash, hash,
		rtx.fee, len(rtx.msgTx.TxIn), len(rtx.msgTx.TxOut))
	log.Tracef("Replacement transaction %v: %v", hash,
		newLogClosure(func() string {
			return spew.Sdump(rtx.msgTx)
		}))

	return &Replacement{
		Replaced: replacement.absorbed,
		Node:     replacement,
	}, nil
}

// mergeSet collects the target and the owned nodes reachable from it through
// owned children.
func (g *Graph) mergeSet(target *Node) *MergeSet {
	members := map[chainhash.Hash]*Node{target.hash: target}

	var q queue[*Node]
	q.push(target)
	for !q.empty() {
		node, _ := q.pop()
		for _, child := range g.sorted(node.children) {
			if _, ok := members[child.hash]; ok || !child.owned {
				continue
			}
			members[child.hash] = child
			q.push(child)
		}
	}
	g.pruneReentrant(members)

	nodes := dependencySort(members)
	depth := make(map[chainhash.Hash]int, len(nodes))
	for _, node := range nodes {
		for child := range node.children {
			if _, ok := members[child]; !ok {
				continue
			}
			if d := depth[node.hash] + 1; d > depth[child] {
				depth[child] = d
			}
		}
	}

	return &MergeSet{
		Target:  target,
		Nodes:   nodes,
		Depth:   depth,
		members: members,
	}
}

// pruneReentrant removes every member that also descends from a node outside
// the set which itself descends from the set. Merging such a member would make
// the replacement both parent and child of that outside node.
func (g *Graph) pruneReentrant(members map[chainhash.Hash]*Node) {
	var q queue[*Node]
	for _, member := range members {
		for child := range member.children {
			if _, ok := members[child]; !ok {
				q.push(g.nodes[child])
			}
		}
	}

	visited := make(map[chainhash.Hash]struct{})
	for !q.empty() {
		node, _ := q.pop()
		if _, seen := visited[node.hash]; seen {
			continue
		}
		visited[node.hash] = struct{}{}

		for child := range node.children {
			delete(members, child)
			q.push(g.nodes[child])
		}
	}
}

// dependencySort orders the members so that every parent precedes its
// children, using Kahn's algorithm restricted to edges inside the set. Ready
// nodes are taken in insertion order.
func dependencySort(members map[chainhash.Hash]*Node) []*Node {
	inDegree := make(map[chainhash.Hash]int, len(members))
	ready := newPriorityQueue(func(a, b *Node) bool {
		return a.seq < b.seq
	})
	for hash, node := range members {
		for parent := range node.parents {
			if _, ok := members[parent]; ok {
				inDegree[hash]++
			}
		}
		if inDegree[hash] == 0 {
			ready.push(node)
		}
	}

	sorted := make([]*Node, 0, len(members))
	for !ready.empty() {
		node, _ := ready.pop()
		sorted = append(sorted, node)

		for child := range node.children {
			if _, ok := members[child]; !ok {
				continue
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				ready.push(members[child])
			}
		}
	}

	return sorted
}

// replacementTx is a replacement transaction before it enters the graph.
type replacementTx struct {
	msgTx  *wire.MsgTx
	fee    btcutil.Amount
	change []byte

	// carried maps every surviving output of a merged transaction to its
	// output index in msgTx.
	carried map[wire.OutPoint]uint32
}

// buildReplacement assembles the transaction standing in for the merge set.
// Its inputs are the inputs of merged transactions not funded by another
// merged transaction, and its outputs the merged outputs not spent inside the
// set. Signature data is left empty for the signer.
func (g *Graph) buildReplacement(set *MergeSet) *replacementTx {
	target := set.Target.tx.MsgTx()
	msgTx := wire.NewMsgTx(target.Version)
	msgTx.LockTime = target.LockTime

	var fee btcutil.Amount
	spent := make(map[wire.OutPoint]struct{})
	added := make(map[wire.OutPoint]struct{})
	for _, node := range set.Nodes {
		fee += node.fee

		for _, txIn := range node.tx.MsgTx().TxIn {
			prevOut := g.resolve(txIn.PreviousOutPoint)
			if set.Contains(prevOut.Hash) {
				spent[prevOut] = struct{}{}
				continue
			}
			if _, dup := added[prevOut]; dup {
				continue
			}
			added[prevOut] = struct{}{}

			msgTx.AddTxIn(&wire.TxIn{
				PreviousOutPoint: prevOut,
				Sequence:         txIn.Sequence,
			})
		}
	}

	var origins []wire.OutPoint
	for _, node := range set.Nodes {
		for i, txOut := range node.tx.MsgTx().TxOut {
			op := wire.OutPoint{Hash: node.hash, Index: uint32(i)}
			if _, ok := spent[op]; ok {
				continue
			}
			set.Outputs = append(
				set.Outputs, wire.NewTxOut(txOut.Value, txOut.PkScript),
			)
			origins = append(origins, op)
		}
	}

	change := g.cfg.SelectChange(set)

	outputs := set.Outputs
	index := make([]uint32, len(outputs))
	for i := range index {
		index[i] = uint32(i)
	}
	if g.cfg.ConsolidateChange && change != nil {
		outputs, index = consolidate(set, change)
	}
	for _, txOut := range outputs {
		msgTx.AddTxOut(txOut)
	}

	carried := make(map[wire.OutPoint]uint32, len(origins))
	for i, op := range origins {
		carried[op] = index[i]
	}

	return &replacementTx{
		msgTx:   msgTx,
		fee:     fee,
		change:  change,
		carried: carried,
	}
}

// consolidate folds every output of the set paying to the change script of a
// merged node, or to change itself, into a single output paying change. It
// returns the new outputs and, for every output of the set, its new index.
func consolidate(set *MergeSet, change []byte) ([]*wire.TxOut, []uint32) {
	scripts := [][]byte{change}
	for _, node := range set.Nodes {
		if node.change != nil {
			scripts = append(scripts, node.change)
		}
	}
	isChange := func(script []byte) bool {
		for _, s := range scripts {
			if bytes.Equal(s, script) {
				return true
			}
		}
		return false
	}

	outputs := make([]*wire.TxOut, 0, len(set.Outputs))
	index := make([]uint32, len(set.Outputs))
	merged := -1
	for i, txOut := range set.Outputs {
		switch {
		case !isChange(txOut.PkScript):
			index[i] = uint32(len(outputs))
			outputs = append(outputs, txOut)

		case merged < 0:
			merged = len(outputs)
			index[i] = uint32(merged)
			outputs = append(outputs, wire.NewTxOut(txOut.Value, change))

		default:
			index[i] = uint32(merged)
			outputs[merged].Value += txOut.Value
		}
	}

	return outputs, index
}

// detach removes the merged nodes from the index along with every edge
// between them and the rest of the graph. The merged nodes keep their own
// edge sets.
func (g *Graph) detach(set *MergeSet) {
	for _, node := range set.Nodes {
		for parent := range node.parents {
			if !set.Contains(parent) {
				delete(g.nodes[parent].children, node.hash)
			}
		}
		for child := range node.children {
			if !set.Contains(child) {
				delete(g.nodes[child].parents, node.hash)
			}
		}
		delete(g.nodes, node.hash)
	}
}

// flatten lists every transaction the merged nodes stand for: each node's own
// absorbed transactions followed by the node's transaction, without
// duplicates. A rebuild of a single transaction that only drops signature
// data keeps its txid, so the replacement's own hash may appear in the list.
func flatten(nodes []*Node) []*btcutil.Tx {
	seen := make(map[chainhash.Hash]struct{})
	var txs []*btcutil.Tx
	add := func(tx *btcutil.Tx) {
		hash := *tx.Hash()
		if _, ok := seen[hash]; ok {
			return
		}
		seen[hash] = struct{}{}
		txs = append(txs, tx)
	}

	for _, node := range nodes {
		for _, tx := range node.absorbed {
			add(tx)
		}
		add(node.tx)
	}

	return txs
}
