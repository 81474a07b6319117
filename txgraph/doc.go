// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txgraph tracks a wallet's view of unconfirmed transactions as a
// dependency graph and compacts chains of the wallet's own transactions into
// single replacement transactions when bumping fees.
//
// # Graph Structure
//
// A graph is built once from a snapshot of TxRecords. Every record becomes a
// node keyed by its transaction hash, and an edge runs from a parent to a
// child whenever the child spends one of the parent's outputs. Inputs
// spending outputs outside the snapshot are external. Roots are nodes whose
// inputs are all external; leaves are nodes whose outputs nobody in the graph
// spends.
//
// # Fees
//
// AncestorFee sums the own fee of a node and every distinct ancestor still in
// the graph. EffectiveFeeRate divides that by the combined size of the same
// transactions, following the satoshis per 1000 bytes convention of the
// mempool:
//
//	rate, err := graph.EffectiveFeeRate(txHash)
//
// # Compaction
//
// Compact takes an ordered list of targets. For each target it merges the
// target with every owned descendant reachable through owned children, builds
// a replacement spending exactly the inputs of the merged transactions that
// are not funded inside the merge, and swaps the merged nodes for the
// replacement:
//
//	compacted, replacements, err := graph.Compact(targets)
//	if err != nil {
//	    return err
//	}
//	for _, r := range replacements.StripIntermediate() {
//	    packet, err := r.Packet(compacted)
//	    // Sign and broadcast packet, then forget r.Replaced.
//	}
//
// Targets are processed one after another against the graph left by the
// previous target, so compacting a descendant and then its ancestor in one
// call yields an intermediate replacement followed by a final one.
// StripIntermediate drops the intermediate entries.
//
// The change output of the replacement is chosen by the configured
// ChangeSelector.
//
// # Thread Safety
//
// Graphs are not safe for concurrent mutation, but no exported method mutates
// a graph: Compact returns a new one.
package txgraph
