// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// MergeSet describes the transactions a single compaction folds into one
// replacement.
type MergeSet struct {
	// Target is the node the compaction was requested for.
	Target *Node

	// Nodes holds every merged node in dependency order, starting with
	// the target.
	Nodes []*Node

	// Depth is the length of the longest path from the target to each
	// merged node, following child edges inside the set.
	Depth map[chainhash.Hash]int

	// Outputs are the outputs of merged transactions that no other merged
	// transaction spends. They become the outputs of the replacement.
	Outputs []*wire.TxOut

	members map[chainhash.Hash]*Node
}

// Contains reports whether the transaction is part of the merge.
func (s *MergeSet) Contains(hash chainhash.Hash) bool {
	_, ok := s.members[hash]
	return ok
}

// ChangeSelector chooses the change script of the replacement built for a
// merge set. A nil result leaves the replacement without designated change.
type ChangeSelector func(set *MergeSet) []byte

// DeepestChange selects the change script of the deepest owned node whose
// change output survives the merge. Ties are broken in favour of the node
// coming last in dependency order.
func DeepestChange(set *MergeSet) []byte {
	var (
		best      []byte
		bestDepth = -1
	)
	for _, node := range set.Nodes {
		if !node.owned || node.change == nil ||
			!paysTo(set.Outputs, node.change) {

			continue
		}

		if depth := set.Depth[node.hash]; depth >= bestDepth {
			best, bestDepth = node.change, depth
		}
	}

	return best
}

// TargetChange keeps the change script of the compaction target if its change
// output survives the merge.
func TargetChange(set *MergeSet) []byte {
	change := set.Target.change
	if change == nil || !paysTo(set.Outputs, change) {
		return nil
	}

	return change
}
