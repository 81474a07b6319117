// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
)

// Replacement records the transactions absorbed by one compaction and the
// node standing in for them.
type Replacement struct {
	// Replaced lists every transaction the new node supersedes, flattened
	// across earlier compactions: when the merge set contained another
	// replacement, both that replacement's transaction and everything it
	// had absorbed are listed. The compaction target is always listed,
	// even when the rebuilt transaction keeps the target's txid.
	Replaced []*btcutil.Tx

	// Node is the replacement node. Its transaction carries no signature
	// data and must be signed before broadcast.
	Node *Node
}

// ReplacedHashes returns the hashes of the replaced transactions.
func (r *Replacement) ReplacedHashes() []chainhash.Hash {
	hashes := make([]chainhash.Hash, 0, len(r.Replaced))
	for _, tx := range r.Replaced {
		hashes = append(hashes, *tx.Hash())
	}

	return hashes
}

// Replaces reports whether the transaction is superseded by the replacement.
func (r *Replacement) Replaces(hash chainhash.Hash) bool {
	for _, tx := range r.Replaced {
		if *tx.Hash() == hash {
			return true
		}
	}

	return false
}

// Packet returns an unsigned PSBT for the replacement transaction. For every
// input spending a node of g the previous output is attached: WitnessUtxo for
// witness programs, NonWitnessUtxo otherwise. Inputs spending outside g are
// left for the signer to complete.
//
// g should be the graph returned by the Compact call that produced the
// replacement.
func (r *Replacement) Packet(g *Graph) (*psbt.Packet, error) {
	packet, err := psbt.NewFromUnsignedTx(r.Node.tx.MsgTx().Copy())
	if err != nil {
		return nil, err
	}

	for i, txIn := range packet.UnsignedTx.TxIn {
		parent, ok := g.nodes[txIn.PreviousOutPoint.Hash]
		if !ok {
			continue
		}

		prevTx := parent.tx.MsgTx()
		index := txIn.PreviousOutPoint.Index
		if int(index) >= len(prevTx.TxOut) {
			continue
		}

		prevOut := prevTx.TxOut[index]
		if txscript.IsWitnessProgram(prevOut.PkScript) {
			packet.Inputs[i].WitnessUtxo = prevOut
		} else {
			packet.Inputs[i].NonWitnessUtxo = prevTx
		}
	}

	return packet, nil
}

// ReplacementSet is the ordered result of a Compact call, one entry per
// target.
type ReplacementSet []*Replacement

// StripIntermediate returns the replacements whose transaction is not listed
// as replaced by a later replacement of the set. These are the transactions a
// caller has to sign and broadcast; each of them already lists every original
// it supersedes.
func (s ReplacementSet) StripIntermediate() ReplacementSet {
	owners := make(map[chainhash.Hash][]int)
	for i, r := range s {
		for _, tx := range r.Replaced {
			hash := *tx.Hash()
			owners[hash] = append(owners[hash], i)
		}
	}

	final := make(ReplacementSet, 0, len(s))
	for i, r := range s {
		intermediate := false
		for _, owner := range owners[r.Node.hash] {
			if owner > i {
				intermediate = true
				break
			}
		}
		if !intermediate {
			final = append(final, r)
		}
	}

	return final
}

// Nodes returns the replacement node of every entry.
func (s ReplacementSet) Nodes() []*Node {
	nodes := make([]*Node, 0, len(s))
	for _, r := range s {
		nodes = append(nodes, r.Node)
	}

	return nodes
}
